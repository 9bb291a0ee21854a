package initialize

import (
	"github.com/Ether-4432/crane-game-log/config"
	"github.com/Ether-4432/crane-game-log/internal/logger"
	. "github.com/Ether-4432/crane-game-log/internal/models"

	"gorm.io/gorm"
)

func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := initializeSettingOptions(db, log); err != nil {
		return log.Err("failed to initialize setting options", err)
	}
	if err := initializeFinishOptions(db, log); err != nil {
		return log.Err("failed to initialize finish options", err)
	}

	log.Info("Table initialization complete")
	return nil
}

// initializeSettingOptions seeds the machine setups a fresh install can pick
// from. Names the user already created are left alone.
func initializeSettingOptions(db *gorm.DB, log logger.Logger) error {
	log.Info("Initializing setting option reference data")

	settings := []string{"橋渡し", "3本爪", "2本爪", "直置き", "ペラ輪"}

	for _, name := range settings {
		var existing SettingOption
		if err := db.First(&existing, "name = ?", name).Error; err == nil {
			log.Debug("Setting option already exists", "name", name)
			continue
		}
		log.Info("Initializing setting option", "name", name)
		if err := db.Create(&SettingOption{Name: name}).Error; err != nil {
			return log.Err("failed to create setting option", err, "name", name)
		}
	}

	log.Info("Setting option reference data initialized", "count", len(settings))
	return nil
}

func initializeFinishOptions(db *gorm.DB, log logger.Logger) error {
	log.Info("Initializing finish option reference data")

	finishes := []string{"直取り", "ずらし", "押し込み", "タグ掛け", "回転落とし"}

	for _, name := range finishes {
		var existing FinishOption
		if err := db.First(&existing, "name = ?", name).Error; err == nil {
			log.Debug("Finish option already exists", "name", name)
			continue
		}
		log.Info("Initializing finish option", "name", name)
		if err := db.Create(&FinishOption{Name: name}).Error; err != nil {
			return log.Err("failed to create finish option", err, "name", name)
		}
	}

	log.Info("Finish option reference data initialized", "count", len(finishes))
	return nil
}
