// Package devserver is a single-process stand-in for the Pawmate
// backend microservices: users, animals, messages, rehomers, the auth
// token endpoint and the realtime change feed, all behind one router.
// It exists so the client toolkit can be exercised end-to-end without
// infrastructure; it is not a production server.
package devserver

import "time"

type Account struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"uniqueIndex;size:256;not null"`
	PasswordHash string `gorm:"size:128;not null"`
	DisplayName  string `gorm:"size:128"`
	AvatarURL    *string
	UserType     *string `gorm:"size:16"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type PreferencesRecord struct {
	UserID              string `gorm:"primaryKey;size:36"`
	MinAge              int
	MaxAge              int
	Gender              string `gorm:"size:8"`
	MaxDistanceKm       int
	Neutered            bool
	LocationDisplayName string `gorm:"size:256"`
	SearchLocLatitude   float64
	SearchLocLongitude  float64
	UpdatedAt           time.Time
}

type AnimalRecord struct {
	ID                 string `gorm:"primaryKey;size:36"`
	RehomerID          string `gorm:"index;size:36;not null"`
	Name               string `gorm:"size:128;not null"`
	Gender             string `gorm:"size:8"`
	AgeInWeeks         int
	Neutered           bool
	Description        string `gorm:"size:2048"`
	AddressDisplayName string `gorm:"size:256"`
	Photos             []AnimalPhotoRecord `gorm:"foreignKey:AnimalID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time
}

type AnimalPhotoRecord struct {
	ID       uint   `gorm:"primaryKey"`
	AnimalID string `gorm:"index;size:36;not null"`
	PhotoURL string `gorm:"size:512;not null"`
	Order    int    `gorm:"column:photo_order"`
}

// ConversationRecord keeps one per-participant soft-delete timestamp
// each. The row is removed only when both are set; until then the
// conversation stays addressable.
type ConversationRecord struct {
	ID               string `gorm:"primaryKey;size:36"`
	AdopterID        string `gorm:"index;size:36;not null"`
	RehomerID        string `gorm:"index;size:36;not null"`
	AnimalID         *string `gorm:"size:36"`
	LastMessageAt    *time.Time
	AdopterReadAt    *time.Time
	RehomerReadAt    *time.Time
	AdopterTypingAt  *time.Time
	RehomerTypingAt  *time.Time
	AdopterDeletedAt *time.Time
	RehomerDeletedAt *time.Time
	CreatedAt        time.Time
}

type MessageRecord struct {
	ID             string `gorm:"primaryKey;size:36"`
	ConversationID string `gorm:"index;size:36;not null"`
	SenderID       string `gorm:"size:36;not null"`
	Text           string `gorm:"size:4096"`
	SentAt         time.Time `gorm:"index"`
}

type RehomerRecord struct {
	UserID             string `gorm:"primaryKey;size:36"`
	Bio                string `gorm:"size:2048"`
	AddressDisplayName string `gorm:"size:256"`
	Latitude           float64
	Longitude          float64
	UpdatedAt          time.Time
}
