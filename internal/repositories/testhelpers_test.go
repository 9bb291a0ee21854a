package repositories_test

import (
	"path/filepath"
	"testing"

	"github.com/Ether-4432/crane-game-log/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// newTestDB opens a throwaway SQLite database under t.TempDir with all five
// tables migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.PlayRecord{},
		&models.StoreOption{},
		&models.SeriesOption{},
		&models.SettingOption{},
		&models.FinishOption{},
	))

	return db
}

func strPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}
