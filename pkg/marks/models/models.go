package models

import "gorm.io/gorm"

// AllModels returns all models for migration
func AllModels() []interface{} {
	return []interface{}{
		&Link{},
		&Tag{},
		&LinkTag{},
		&HistoryEntry{},
		&Settings{},
	}
}

// AutoMigrate runs GORM auto-migration for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
