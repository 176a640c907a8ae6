package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pawmate/pawmate/internal/domain"
)

// ClientState is a persisted key/value row. Only the theme preference
// and the discovery-preferences draft are stored client-side; tokens
// belong to the identity provider integration.
type ClientState struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"size:4096"`
	UpdatedAt time.Time
}

const (
	keyTheme      = "theme"
	keyPrefsDraft = "preferences_draft"
)

// StateDB is the sqlite-backed persistence for client state.
type StateDB struct {
	db *gorm.DB
}

func OpenState(path string) (*StateDB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	if err := db.AutoMigrate(&ClientState{}); err != nil {
		return nil, fmt.Errorf("migrate state db: %w", err)
	}
	return &StateDB{db: db}, nil
}

func (s *StateDB) set(key, value string) error {
	row := ClientState{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return s.db.Save(&row).Error
}

func (s *StateDB) get(key string) (string, bool, error) {
	var row ClientState
	err := s.db.First(&row, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.Value, true, nil
}

func (s *StateDB) SaveTheme(theme string) error {
	return s.set(keyTheme, theme)
}

// Theme returns the persisted theme, defaulting to "system".
func (s *StateDB) Theme() (string, error) {
	v, ok, err := s.get(keyTheme)
	if err != nil {
		return "", err
	}
	if !ok {
		return "system", nil
	}
	return v, nil
}

// SavePreferencesDraft keeps the half-edited dialog state across
// restarts. The draft is not validated; validation happens on submit.
func (s *StateDB) SavePreferencesDraft(p domain.DiscoveryPreferences) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode preferences draft: %w", err)
	}
	return s.set(keyPrefsDraft, string(raw))
}

func (s *StateDB) PreferencesDraft() (*domain.DiscoveryPreferences, bool, error) {
	v, ok, err := s.get(keyPrefsDraft)
	if err != nil || !ok {
		return nil, false, err
	}
	var p domain.DiscoveryPreferences
	if err := json.Unmarshal([]byte(v), &p); err != nil {
		return nil, false, fmt.Errorf("decode preferences draft: %w", err)
	}
	return &p, true, nil
}

func (s *StateDB) ClearPreferencesDraft() error {
	return s.db.Delete(&ClientState{}, "key = ?", keyPrefsDraft).Error
}
