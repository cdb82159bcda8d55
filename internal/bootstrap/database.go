package bootstrap

import (
	"fmt"

	"gorm.io/gorm"

	"paybridge/internal/models"
)

// Migrate creates or updates the database schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Order{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
