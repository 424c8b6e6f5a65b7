package db

import (
	"fmt"

	"github.com/zulandar/missionctl/internal/models"
	"gorm.io/gorm"
)

// AllModels returns every GORM model in migration order. Requirements come
// first so the tasks foreign key can reference them.
func AllModels() []interface{} {
	return []interface{}{
		&models.Requirement{},
		&models.Task{},
		&models.TaskStep{},
		&models.TaskReview{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}
