package devserver

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pawmate/pawmate/internal/config"
)

// OpenDB opens the configured database and migrates the schema. sqlite
// is the default; postgres is for developers who want the dev data to
// outlive the process.
func OpenDB(cfg config.DevServerConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Discard})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(
		&Account{},
		&PreferencesRecord{},
		&AnimalRecord{},
		&AnimalPhotoRecord{},
		&ConversationRecord{},
		&MessageRecord{},
		&RehomerRecord{},
	); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}
