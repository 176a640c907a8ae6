// Package store holds the small pieces of shared UI state. Feature
// stores are ephemeral, reset on restart; the persisted bits (theme,
// discovery-preferences draft) live in the sqlite-backed StateDB.
// Concurrency contract: one writer at a time per field, last write
// wins, no merging.
package store

import "sync"

// DialogStore drives dialog visibility declaratively; components render
// from these booleans instead of poking at the screen.
type DialogStore struct {
	mu              sync.Mutex
	preferencesOpen bool
	listingOpen     bool
}

func NewDialogStore() *DialogStore { return &DialogStore{} }

func (s *DialogStore) OpenPreferencesDialog() {
	s.mu.Lock()
	s.preferencesOpen = true
	s.mu.Unlock()
}

func (s *DialogStore) ClosePreferencesDialog() {
	s.mu.Lock()
	s.preferencesOpen = false
	s.mu.Unlock()
}

func (s *DialogStore) PreferencesDialogOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preferencesOpen
}

func (s *DialogStore) OpenListingDialog() {
	s.mu.Lock()
	s.listingOpen = true
	s.mu.Unlock()
}

func (s *DialogStore) CloseListingDialog() {
	s.mu.Lock()
	s.listingOpen = false
	s.mu.Unlock()
}

func (s *DialogStore) ListingDialogOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listingOpen
}

// PendingUserTypeStore holds the user-type choice made during
// onboarding before it is committed to the profile.
type PendingUserTypeStore struct {
	mu       sync.Mutex
	userType string
}

func NewPendingUserTypeStore() *PendingUserTypeStore { return &PendingUserTypeStore{} }

func (s *PendingUserTypeStore) SetPendingUserType(t string) {
	s.mu.Lock()
	s.userType = t
	s.mu.Unlock()
}

func (s *PendingUserTypeStore) PendingUserType() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userType
}

func (s *PendingUserTypeStore) Clear() {
	s.mu.Lock()
	s.userType = ""
	s.mu.Unlock()
}
