package database

import (
	"github.com/Ether-4432/crane-game-log/internal/logger"
	"github.com/Ether-4432/crane-game-log/internal/models"
)

// MigrateModels runs GORM AutoMigrate for all models. Tables added in later
// versions are created here on first start after an upgrade; existing rows
// are never rewritten.
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	modelsToMigrate := []interface{}{
		// Version 1 tables
		&models.PlayRecord{},
		&models.StoreOption{},

		// Version 2 tables
		&models.SeriesOption{},
		&models.SettingOption{},
		&models.FinishOption{},
	}

	for _, model := range modelsToMigrate {
		if err := db.SQL.AutoMigrate(model); err != nil {
			log.Error("Failed to migrate model", "model", model, "error", err)
			return err
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateIndexes creates additional indexes that GORM doesn't create automatically
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_records_date_created_at ON records(date DESC, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_records_store_name ON records(store_name)",
	}

	for _, indexSQL := range indexes {
		if err := db.SQL.Exec(indexSQL).Error; err != nil {
			log.Warn("Failed to create index", "sql", indexSQL, "error", err)
			// Continue with other indexes even if one fails
		}
	}

	log.Info("Additional database indexes created")
	return nil
}
