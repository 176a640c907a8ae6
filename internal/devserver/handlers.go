package devserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pawmate/pawmate/internal/domain"
	"github.com/pawmate/pawmate/internal/http/response"
)

const maxUploadBytes = 10 << 20

// Handlers serves the four resource services the client toolkit talks
// to. Every route lives under a {userID} prefix and RequireAuth has
// already pinned the token subject to it.
type Handlers struct {
	store  *Store
	hub    *Hub
	photos PhotoStore
	logger *slog.Logger
}

func NewHandlers(store *Store, hub *Hub, photos PhotoStore, logger *slog.Logger) *Handlers {
	return &Handlers{store: store, hub: hub, photos: photos, logger: logger}
}

// --- record to wire mapping ---

func accountToUser(acc *Account) domain.User {
	return domain.User{
		UserID:      acc.ID,
		Email:       acc.Email,
		DisplayName: acc.DisplayName,
		AvatarURL:   acc.AvatarURL,
		UserType:    acc.UserType,
		CreatedAt:   acc.CreatedAt,
	}
}

func prefsToDomain(rec *PreferencesRecord) domain.DiscoveryPreferences {
	return domain.DiscoveryPreferences{
		MinAge:              rec.MinAge,
		MaxAge:              rec.MaxAge,
		Gender:              rec.Gender,
		MaxDistanceKm:       rec.MaxDistanceKm,
		Neutered:            rec.Neutered,
		LocationDisplayName: rec.LocationDisplayName,
		SearchLocLatitude:   rec.SearchLocLatitude,
		SearchLocLongitude:  rec.SearchLocLongitude,
	}
}

func animalToDomain(rec *AnimalRecord) domain.Animal {
	photos := make([]domain.AnimalPhoto, 0, len(rec.Photos))
	for _, p := range rec.Photos {
		photos = append(photos, domain.AnimalPhoto{PhotoURL: p.PhotoURL, Order: p.Order})
	}
	return domain.Animal{
		AnimalID:           rec.ID,
		RehomerID:          rec.RehomerID,
		Name:               rec.Name,
		Gender:             rec.Gender,
		AgeInWeeks:         rec.AgeInWeeks,
		Neutered:           rec.Neutered,
		Description:        rec.Description,
		AddressDisplayName: rec.AddressDisplayName,
		Photos:             photos,
		CreatedAt:          rec.CreatedAt,
	}
}

func conversationToDomain(rec *ConversationRecord) domain.Conversation {
	return domain.Conversation{
		ConversationID:   rec.ID,
		AdopterID:        rec.AdopterID,
		RehomerID:        rec.RehomerID,
		AnimalID:         rec.AnimalID,
		LastMessageAt:    rec.LastMessageAt,
		AdopterReadAt:    rec.AdopterReadAt,
		RehomerReadAt:    rec.RehomerReadAt,
		AdopterTypingAt:  rec.AdopterTypingAt,
		RehomerTypingAt:  rec.RehomerTypingAt,
		AdopterDeletedAt: rec.AdopterDeletedAt,
		RehomerDeletedAt: rec.RehomerDeletedAt,
		CreatedAt:        rec.CreatedAt,
	}
}

func messageToDomain(rec *MessageRecord) domain.Message {
	return domain.Message{
		MessageID:      rec.ID,
		ConversationID: rec.ConversationID,
		SenderID:       rec.SenderID,
		Text:           rec.Text,
		SentAt:         rec.SentAt,
	}
}

func rehomerToDomain(rec *RehomerRecord, acc *Account, listings int) domain.RehomerProfile {
	return domain.RehomerProfile{
		RehomerID:          rec.UserID,
		DisplayName:        acc.DisplayName,
		Bio:                rec.Bio,
		AddressDisplayName: rec.AddressDisplayName,
		Latitude:           rec.Latitude,
		Longitude:          rec.Longitude,
		ListingCount:       listings,
	}
}

func (h *Handlers) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, ErrNotParticipant):
		response.Error(w, r, http.StatusForbidden, "FORBIDDEN", "not a conversation participant")
	default:
		h.logger.Error("devserver store failure", "error", err, "path", r.URL.Path)
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed request body")
		return false
	}
	return true
}

// --- users service ---

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	acc, err := h.store.AccountByID(chi.URLParam(r, "userID"))
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, accountToUser(acc))
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DisplayName string  `json:"displayName"`
		UserType    *string `json:"userType"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	acc, err := h.store.UpdateProfile(chi.URLParam(r, "userID"), req.DisplayName, req.UserType)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, accountToUser(acc))
}

func (h *Handlers) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	url, ok := h.acceptUpload(w, r, "avatar", "avatars/"+userID)
	if !ok {
		return
	}
	acc, err := h.store.SetAvatar(userID, url)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, accountToUser(acc))
}

func (h *Handlers) GetPreferences(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.PreferencesFor(chi.URLParam(r, "userID"))
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, prefsToDomain(rec))
}

func (h *Handlers) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	var prefs domain.DiscoveryPreferences
	if !decodeBody(w, r, &prefs) {
		return
	}
	if err := prefs.Validate(); err != nil {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}
	rec := &PreferencesRecord{
		UserID:              userID,
		MinAge:              prefs.MinAge,
		MaxAge:              prefs.MaxAge,
		Gender:              prefs.Gender,
		MaxDistanceKm:       prefs.MaxDistanceKm,
		Neutered:            prefs.Neutered,
		LocationDisplayName: prefs.LocationDisplayName,
		SearchLocLatitude:   prefs.SearchLocLatitude,
		SearchLocLongitude:  prefs.SearchLocLongitude,
	}
	if err := h.store.SavePreferences(rec); err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	h.hub.Notify("preferences", userID)
	response.JSON(w, r, http.StatusOK, prefsToDomain(rec))
}

// --- animals service ---

func (h *Handlers) ListAnimals(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	records, total, err := h.store.ListAnimals(page, pageSize)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	animals := make([]domain.Animal, 0, len(records))
	for i := range records {
		animals = append(animals, animalToDomain(&records[i]))
	}
	response.JSON(w, r, http.StatusOK, domain.AnimalPage{
		Animals:    animals,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: int(total),
	})
}

func (h *Handlers) GetAnimal(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.AnimalByID(chi.URLParam(r, "animalID"))
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, animalToDomain(rec))
}

func (h *Handlers) CreateListing(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	var req struct {
		Name               string `json:"name"`
		Gender             string `json:"gender"`
		AgeInWeeks         int    `json:"ageInWeeks"`
		Neutered           bool   `json:"neutered"`
		Description        string `json:"description"`
		AddressDisplayName string `json:"addressDisplayName"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	rec := &AnimalRecord{
		RehomerID:          userID,
		Name:               req.Name,
		Gender:             req.Gender,
		AgeInWeeks:         req.AgeInWeeks,
		Neutered:           req.Neutered,
		Description:        req.Description,
		AddressDisplayName: req.AddressDisplayName,
	}
	if err := h.store.CreateListing(rec); err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	h.hub.Notify("animals", userID)
	response.JSON(w, r, http.StatusCreated, animalToDomain(rec))
}

func (h *Handlers) DeleteListing(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if err := h.store.DeleteListing(userID, chi.URLParam(r, "animalID")); err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	h.hub.Notify("animals", userID)
	response.JSON(w, r, http.StatusOK, map[string]string{"animalId": chi.URLParam(r, "animalID")})
}

func (h *Handlers) UploadListingPhoto(w http.ResponseWriter, r *http.Request) {
	animalID := chi.URLParam(r, "animalID")
	url, ok := h.acceptUpload(w, r, "photo", "listings/"+animalID)
	if !ok {
		return
	}
	rec, err := h.store.AddListingPhoto(animalID, url)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	h.hub.Notify("animals", chi.URLParam(r, "userID"))
	response.JSON(w, r, http.StatusOK, animalToDomain(rec))
}

func (h *Handlers) acceptUpload(w http.ResponseWriter, r *http.Request, field, prefix string) (string, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed multipart body")
		return "", false
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "missing file field "+field)
		return "", false
	}
	defer file.Close()
	url, err := h.photos.Put(r.Context(), prefix, header.Filename, file)
	if err != nil {
		h.logger.Error("photo upload failed", "error", err, "prefix", prefix)
		response.Error(w, r, http.StatusInternalServerError, "UPLOAD", "photo upload failed")
		return "", false
	}
	return url, true
}

// --- messages service ---

func (h *Handlers) ListConversations(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.ConversationsFor(chi.URLParam(r, "userID"))
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	convs := make([]domain.Conversation, 0, len(records))
	for i := range records {
		convs = append(convs, conversationToDomain(&records[i]))
	}
	response.JSON(w, r, http.StatusOK, domain.ConversationList{Conversations: convs})
}

func (h *Handlers) CreateConversation(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	var req struct {
		RehomerID string  `json:"rehomerId"`
		AnimalID  *string `json:"animalId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	rec, err := h.store.CreateConversation(userID, req.RehomerID, req.AnimalID)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	h.hub.Notify("conversations", rec.AdopterID, rec.RehomerID)
	response.JSON(w, r, http.StatusCreated, conversationToDomain(rec))
}

func (h *Handlers) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	convID := chi.URLParam(r, "conversationID")
	rec, err := h.store.ConversationByID(convID)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	hard, err := h.store.DeleteConversation(userID, convID)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	h.hub.Notify("conversations", rec.AdopterID, rec.RehomerID)
	response.JSON(w, r, http.StatusOK, domain.ConversationDeleteResult{
		ConversationID: convID,
		HardDeleted:    hard,
	})
}

func (h *Handlers) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	convID := chi.URLParam(r, "conversationID")
	records, err := h.store.MessagesFor(convID)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	// Reading a thread marks it read for the reader.
	if err := h.store.MarkRead(userID, convID); err != nil && !errors.Is(err, ErrNotFound) {
		h.logger.Warn("mark read failed", "error", err, "conversation", convID)
	}
	msgs := make([]domain.Message, 0, len(records))
	for i := range records {
		msgs = append(msgs, messageToDomain(&records[i]))
	}
	response.JSON(w, r, http.StatusOK, domain.MessageList{Messages: msgs})
}

func (h *Handlers) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	convID := chi.URLParam(r, "conversationID")
	var req struct {
		Text string `json:"text"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Text == "" {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "message text required")
		return
	}
	rec, err := h.store.AddMessage(convID, userID, req.Text)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	if conv, err := h.store.ConversationByID(convID); err == nil {
		h.hub.Notify("messages", conv.AdopterID, conv.RehomerID)
	}
	response.JSON(w, r, http.StatusCreated, messageToDomain(rec))
}

func (h *Handlers) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.UnreadCount(chi.URLParam(r, "userID"))
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, domain.UnreadCount{Count: count})
}

// --- rehomers service ---

func (h *Handlers) GetRehomer(w http.ResponseWriter, r *http.Request) {
	rehomerID := chi.URLParam(r, "rehomerID")
	rec, acc, err := h.store.RehomerByID(rehomerID)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	listings, err := h.store.ListingCount(rehomerID)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, rehomerToDomain(rec, acc, listings))
}

func (h *Handlers) UpdateRehomer(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	var req struct {
		DisplayName        string  `json:"displayName"`
		Bio                string  `json:"bio"`
		AddressDisplayName string  `json:"addressDisplayName"`
		Latitude           float64 `json:"latitude"`
		Longitude          float64 `json:"longitude"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.DisplayName != "" {
		if _, err := h.store.UpdateProfile(userID, req.DisplayName, nil); err != nil {
			h.writeStoreError(w, r, err)
			return
		}
	}
	rec := &RehomerRecord{
		UserID:             userID,
		Bio:                req.Bio,
		AddressDisplayName: req.AddressDisplayName,
		Latitude:           req.Latitude,
		Longitude:          req.Longitude,
	}
	if err := h.store.SaveRehomer(rec); err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	acc, err := h.store.AccountByID(userID)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	listings, err := h.store.ListingCount(userID)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, rehomerToDomain(rec, acc, listings))
}
