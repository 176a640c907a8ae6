package devserver

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotParticipant     = errors.New("not a conversation participant")
)

// Store wraps all database access for the dev backend.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) CreateAccount(email, password, displayName string) (*Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	acc := &Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
	}
	if err := s.db.Create(acc).Error; err != nil {
		return nil, err
	}
	return acc, nil
}

func (s *Store) Authenticate(email, password string) (*Account, error) {
	var acc Account
	if err := s.db.First(&acc, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &acc, nil
}

func (s *Store) AccountByID(id string) (*Account, error) {
	var acc Account
	if err := s.db.First(&acc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &acc, nil
}

func (s *Store) UpdateProfile(id, displayName string, userType *string) (*Account, error) {
	acc, err := s.AccountByID(id)
	if err != nil {
		return nil, err
	}
	acc.DisplayName = displayName
	if userType != nil {
		acc.UserType = userType
	}
	if err := s.db.Save(acc).Error; err != nil {
		return nil, err
	}
	return acc, nil
}

func (s *Store) SetAvatar(id, url string) (*Account, error) {
	acc, err := s.AccountByID(id)
	if err != nil {
		return nil, err
	}
	acc.AvatarURL = &url
	if err := s.db.Save(acc).Error; err != nil {
		return nil, err
	}
	return acc, nil
}

// PreferencesFor returns stored preferences or defaults for accounts
// that never saved any.
func (s *Store) PreferencesFor(userID string) (*PreferencesRecord, error) {
	var rec PreferencesRecord
	err := s.db.First(&rec, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &PreferencesRecord{UserID: userID, MaxAge: 480, MaxDistanceKm: 50}, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) SavePreferences(rec *PreferencesRecord) error {
	rec.UpdatedAt = time.Now().UTC()
	return s.db.Save(rec).Error
}

func (s *Store) ListAnimals(page, pageSize int) ([]AnimalRecord, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	var total int64
	if err := s.db.Model(&AnimalRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var animals []AnimalRecord
	err := s.db.Preload("Photos", func(db *gorm.DB) *gorm.DB {
		return db.Order("photo_order asc")
	}).Order("created_at desc").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&animals).Error
	return animals, total, err
}

func (s *Store) AnimalByID(id string) (*AnimalRecord, error) {
	var animal AnimalRecord
	err := s.db.Preload("Photos", func(db *gorm.DB) *gorm.DB {
		return db.Order("photo_order asc")
	}).First(&animal, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &animal, nil
}

func (s *Store) CreateListing(rec *AnimalRecord) error {
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now().UTC()
	return s.db.Create(rec).Error
}

// DeleteListing hard-deletes; listings have no undo path.
func (s *Store) DeleteListing(rehomerID, animalID string) error {
	res := s.db.Where("id = ? AND rehomer_id = ?", animalID, rehomerID).Delete(&AnimalRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return s.db.Where("animal_id = ?", animalID).Delete(&AnimalPhotoRecord{}).Error
}

func (s *Store) AddListingPhoto(animalID, url string) (*AnimalRecord, error) {
	animal, err := s.AnimalByID(animalID)
	if err != nil {
		return nil, err
	}
	photo := AnimalPhotoRecord{AnimalID: animalID, PhotoURL: url, Order: len(animal.Photos)}
	if err := s.db.Create(&photo).Error; err != nil {
		return nil, err
	}
	return s.AnimalByID(animalID)
}

func (s *Store) ConversationsFor(userID string) ([]ConversationRecord, error) {
	var convs []ConversationRecord
	err := s.db.
		Where("(adopter_id = ? AND adopter_deleted_at IS NULL) OR (rehomer_id = ? AND rehomer_deleted_at IS NULL)", userID, userID).
		Order("last_message_at desc").
		Find(&convs).Error
	return convs, err
}

func (s *Store) ConversationByID(id string) (*ConversationRecord, error) {
	var conv ConversationRecord
	if err := s.db.First(&conv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &conv, nil
}

func (s *Store) CreateConversation(adopterID, rehomerID string, animalID *string) (*ConversationRecord, error) {
	conv := &ConversationRecord{
		ID:        uuid.NewString(),
		AdopterID: adopterID,
		RehomerID: rehomerID,
		AnimalID:  animalID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.Create(conv).Error; err != nil {
		return nil, err
	}
	return conv, nil
}

// DeleteConversation implements the two-phase deletion: the first
// participant's delete marks their side; the second one's removes the
// row and its messages. The returned flag reports the hard delete.
func (s *Store) DeleteConversation(userID, convID string) (bool, error) {
	conv, err := s.ConversationByID(convID)
	if err != nil {
		return false, err
	}
	now := time.Now().UTC()
	switch userID {
	case conv.AdopterID:
		conv.AdopterDeletedAt = &now
	case conv.RehomerID:
		conv.RehomerDeletedAt = &now
	default:
		return false, ErrNotParticipant
	}
	if conv.AdopterDeletedAt != nil && conv.RehomerDeletedAt != nil {
		if err := s.db.Where("conversation_id = ?", convID).Delete(&MessageRecord{}).Error; err != nil {
			return false, err
		}
		if err := s.db.Delete(&ConversationRecord{}, "id = ?", convID).Error; err != nil {
			return false, err
		}
		return true, nil
	}
	return false, s.db.Save(conv).Error
}

func (s *Store) MessagesFor(convID string) ([]MessageRecord, error) {
	var msgs []MessageRecord
	err := s.db.Where("conversation_id = ?", convID).Order("sent_at asc").Find(&msgs).Error
	return msgs, err
}

func (s *Store) AddMessage(convID, senderID, text string) (*MessageRecord, error) {
	conv, err := s.ConversationByID(convID)
	if err != nil {
		return nil, err
	}
	if senderID != conv.AdopterID && senderID != conv.RehomerID {
		return nil, ErrNotParticipant
	}
	msg := &MessageRecord{
		ID:             uuid.NewString(),
		ConversationID: convID,
		SenderID:       senderID,
		Text:           text,
		SentAt:         time.Now().UTC(),
	}
	if err := s.db.Create(msg).Error; err != nil {
		return nil, err
	}
	conv.LastMessageAt = &msg.SentAt
	if err := s.db.Save(conv).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *Store) MarkRead(userID, convID string) error {
	conv, err := s.ConversationByID(convID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	switch userID {
	case conv.AdopterID:
		conv.AdopterReadAt = &now
	case conv.RehomerID:
		conv.RehomerReadAt = &now
	default:
		return ErrNotParticipant
	}
	return s.db.Save(conv).Error
}

// UnreadCount counts messages from the other participant newer than the
// user's read mark, across conversations the user has not deleted.
func (s *Store) UnreadCount(userID string) (int, error) {
	convs, err := s.ConversationsFor(userID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, conv := range convs {
		readAt := conv.AdopterReadAt
		if userID == conv.RehomerID {
			readAt = conv.RehomerReadAt
		}
		q := s.db.Model(&MessageRecord{}).
			Where("conversation_id = ? AND sender_id <> ?", conv.ID, userID)
		if readAt != nil {
			q = q.Where("sent_at > ?", *readAt)
		}
		var n int64
		if err := q.Count(&n).Error; err != nil {
			return 0, err
		}
		total += int(n)
	}
	return total, nil
}

func (s *Store) RehomerByID(userID string) (*RehomerRecord, *Account, error) {
	acc, err := s.AccountByID(userID)
	if err != nil {
		return nil, nil, err
	}
	var rec RehomerRecord
	err = s.db.First(&rec, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		rec = RehomerRecord{UserID: userID}
		err = nil
	}
	if err != nil {
		return nil, nil, err
	}
	return &rec, acc, nil
}

func (s *Store) SaveRehomer(rec *RehomerRecord) error {
	rec.UpdatedAt = time.Now().UTC()
	return s.db.Save(rec).Error
}

func (s *Store) ListingCount(rehomerID string) (int, error) {
	var n int64
	err := s.db.Model(&AnimalRecord{}).Where("rehomer_id = ?", rehomerID).Count(&n).Error
	return int(n), err
}
