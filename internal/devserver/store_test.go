package devserver

import (
	"errors"
	"testing"

	"github.com/pawmate/pawmate/internal/config"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := OpenDB(config.DevServerConfig{Driver: "sqlite", DSN: t.TempDir() + "/dev.db"})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return NewStore(db)
}

func TestOpenDBRejectsUnknownDriver(t *testing.T) {
	if _, err := OpenDB(config.DevServerConfig{Driver: "mysql", DSN: "x"}); err == nil {
		t.Fatal("expected unsupported driver error")
	}
}

func TestAccountLifecycle(t *testing.T) {
	store := openTestStore(t)

	acc, err := store.CreateAccount("kim@example.com", "hunter2", "Kim")
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	if acc.ID == "" || acc.PasswordHash == "hunter2" {
		t.Fatalf("password must be hashed, got %+v", acc)
	}

	if _, err := store.Authenticate("kim@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: err=%v", err)
	}
	if _, err := store.Authenticate("nobody@example.com", "hunter2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: err=%v", err)
	}
	got, err := store.Authenticate("kim@example.com", "hunter2")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != acc.ID {
		t.Fatalf("authenticated wrong account: %s", got.ID)
	}

	rehomer := "Rehomer"
	updated, err := store.UpdateProfile(acc.ID, "Kim R.", &rehomer)
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.DisplayName != "Kim R." || updated.UserType == nil || *updated.UserType != "Rehomer" {
		t.Fatalf("profile not updated: %+v", updated)
	}

	if _, err := store.AccountByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing account: err=%v", err)
	}
}

func TestPreferencesDefaultUntilSaved(t *testing.T) {
	store := openTestStore(t)

	rec, err := store.PreferencesFor("u1")
	if err != nil {
		t.Fatalf("preferences: %v", err)
	}
	if rec.MaxAge != 480 || rec.MaxDistanceKm != 50 {
		t.Fatalf("defaults wrong: %+v", rec)
	}

	rec.MinAge = 12
	rec.Gender = "Female"
	if err := store.SavePreferences(rec); err != nil {
		t.Fatalf("save preferences: %v", err)
	}
	again, err := store.PreferencesFor("u1")
	if err != nil {
		t.Fatalf("reload preferences: %v", err)
	}
	if again.MinAge != 12 || again.Gender != "Female" {
		t.Fatalf("saved preferences lost: %+v", again)
	}
}

func TestListAnimalsPagination(t *testing.T) {
	store := openTestStore(t)
	for i := 0; i < 5; i++ {
		rec := &AnimalRecord{RehomerID: "r1", Name: "A", Gender: "Male"}
		if err := store.CreateListing(rec); err != nil {
			t.Fatalf("create listing %d: %v", i, err)
		}
	}

	animals, total, err := store.ListAnimals(1, 2)
	if err != nil {
		t.Fatalf("list animals: %v", err)
	}
	if total != 5 || len(animals) != 2 {
		t.Fatalf("page 1: total=%d len=%d", total, len(animals))
	}
	animals, _, err = store.ListAnimals(3, 2)
	if err != nil {
		t.Fatalf("list last page: %v", err)
	}
	if len(animals) != 1 {
		t.Fatalf("last page len=%d want 1", len(animals))
	}

	// Out-of-range inputs get normalized, not rejected.
	animals, _, err = store.ListAnimals(0, 1000)
	if err != nil {
		t.Fatalf("normalized list: %v", err)
	}
	if len(animals) != 5 {
		t.Fatalf("normalized page len=%d want all 5", len(animals))
	}
}

func TestDeleteListingRemovesPhotos(t *testing.T) {
	store := openTestStore(t)
	rec := &AnimalRecord{RehomerID: "r1", Name: "Biscuit"}
	if err := store.CreateListing(rec); err != nil {
		t.Fatalf("create listing: %v", err)
	}
	if _, err := store.AddListingPhoto(rec.ID, "/photos/one.jpg"); err != nil {
		t.Fatalf("add photo: %v", err)
	}
	withPhoto, err := store.AnimalByID(rec.ID)
	if err != nil || len(withPhoto.Photos) != 1 {
		t.Fatalf("photo not attached: err=%v photos=%d", err, len(withPhoto.Photos))
	}

	if err := store.DeleteListing("someone-else", rec.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("wrong owner must not delete: err=%v", err)
	}
	if err := store.DeleteListing("r1", rec.ID); err != nil {
		t.Fatalf("delete listing: %v", err)
	}
	if _, err := store.AnimalByID(rec.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("listing should be gone: err=%v", err)
	}
}

func TestConversationTwoPhaseDelete(t *testing.T) {
	store := openTestStore(t)
	conv, err := store.CreateConversation("adopter", "rehomer", nil)
	if err != nil {
		t.Fatalf("create conversation: %v", err)
	}
	if _, err := store.AddMessage(conv.ID, "adopter", "hi"); err != nil {
		t.Fatalf("add message: %v", err)
	}

	if _, err := store.DeleteConversation("stranger", conv.ID); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("stranger delete: err=%v", err)
	}

	hard, err := store.DeleteConversation("adopter", conv.ID)
	if err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if hard {
		t.Fatal("first participant delete must be soft")
	}
	// Soft-deleted side no longer lists it; the other side still does.
	if convs, _ := store.ConversationsFor("adopter"); len(convs) != 0 {
		t.Fatalf("adopter still sees %d conversations", len(convs))
	}
	if convs, _ := store.ConversationsFor("rehomer"); len(convs) != 1 {
		t.Fatalf("rehomer should still see the conversation, got %d", len(convs))
	}

	hard, err = store.DeleteConversation("rehomer", conv.ID)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if !hard {
		t.Fatal("second participant delete must remove the row")
	}
	if _, err := store.ConversationByID(conv.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("conversation should be gone: err=%v", err)
	}
	if msgs, _ := store.MessagesFor(conv.ID); len(msgs) != 0 {
		t.Fatalf("messages should be purged, got %d", len(msgs))
	}
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	store := openTestStore(t)
	conv, err := store.CreateConversation("adopter", "rehomer", nil)
	if err != nil {
		t.Fatalf("create conversation: %v", err)
	}
	for _, text := range []string{"hello", "anyone?"} {
		if _, err := store.AddMessage(conv.ID, "rehomer", text); err != nil {
			t.Fatalf("add message: %v", err)
		}
	}
	// Own messages never count as unread.
	if _, err := store.AddMessage(conv.ID, "adopter", "here"); err != nil {
		t.Fatalf("add own message: %v", err)
	}

	n, err := store.UnreadCount("adopter")
	if err != nil {
		t.Fatalf("unread: %v", err)
	}
	if n != 2 {
		t.Fatalf("unread=%d want 2", n)
	}

	if err := store.MarkRead("stranger", conv.ID); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("stranger mark read: err=%v", err)
	}
	if err := store.MarkRead("adopter", conv.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if n, _ := store.UnreadCount("adopter"); n != 0 {
		t.Fatalf("unread after read=%d want 0", n)
	}
}

func TestSendMessageRequiresParticipant(t *testing.T) {
	store := openTestStore(t)
	conv, err := store.CreateConversation("adopter", "rehomer", nil)
	if err != nil {
		t.Fatalf("create conversation: %v", err)
	}
	if _, err := store.AddMessage(conv.ID, "stranger", "let me in"); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("stranger message: err=%v", err)
	}
	msg, err := store.AddMessage(conv.ID, "rehomer", "welcome")
	if err != nil {
		t.Fatalf("add message: %v", err)
	}
	reread, err := store.ConversationByID(conv.ID)
	if err != nil {
		t.Fatalf("reload conversation: %v", err)
	}
	if reread.LastMessageAt == nil || !reread.LastMessageAt.Equal(msg.SentAt) {
		t.Fatalf("last message timestamp not advanced: %+v", reread.LastMessageAt)
	}
}

func TestRehomerDefaultsAndListingCount(t *testing.T) {
	store := openTestStore(t)
	acc, err := store.CreateAccount("r@example.com", "pw", "R")
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	rec, gotAcc, err := store.RehomerByID(acc.ID)
	if err != nil {
		t.Fatalf("rehomer by id: %v", err)
	}
	if gotAcc.ID != acc.ID || rec.UserID != acc.ID || rec.Bio != "" {
		t.Fatalf("default rehomer record wrong: %+v", rec)
	}

	rec.Bio = "Fosters since 2019"
	if err := store.SaveRehomer(rec); err != nil {
		t.Fatalf("save rehomer: %v", err)
	}
	rec, _, err = store.RehomerByID(acc.ID)
	if err != nil || rec.Bio != "Fosters since 2019" {
		t.Fatalf("rehomer record lost: err=%v rec=%+v", err, rec)
	}

	if err := store.CreateListing(&AnimalRecord{RehomerID: acc.ID, Name: "Moss"}); err != nil {
		t.Fatalf("create listing: %v", err)
	}
	n, err := store.ListingCount(acc.ID)
	if err != nil || n != 1 {
		t.Fatalf("listing count: n=%d err=%v", n, err)
	}
}
