package config

import (
	"fmt"

	"github.com/bellapacxx/sandbox-backend/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the room and deck template tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Room{},
		&models.Grid{},
	); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
