package database

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/Ether-4432/crane-game-log/config"
	"github.com/Ether-4432/crane-game-log/internal/logger"
	"github.com/Ether-4432/crane-game-log/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()

	return config.Config{
		DataDir:      t.TempDir(),
		DatabaseName: "test.db",
	}
}

func TestDatabasePath(t *testing.T) {
	cfg := config.Config{DataDir: "/var/lib/app", DatabaseName: "app.db"}

	assert.Equal(t, filepath.Join("/var/lib/app", "app.db"), DatabasePath(cfg))
}

func TestDSN_IncludesPragmas(t *testing.T) {
	cfg := config.Config{DataDir: "data", DatabaseName: "app.db"}

	dsn := DSN(cfg)

	assert.Contains(t, dsn, "_foreign_keys=on")
	assert.Contains(t, dsn, "_journal_mode=WAL")
	assert.Contains(t, dsn, "_busy_timeout=5000")
}

func TestNew_OpensAndMigrates(t *testing.T) {
	cfg := testConfig(t)

	db, err := New(cfg)
	require.NoError(t, err)
	defer db.Close()

	require.NotNil(t, db.SQL)
	require.NoError(t, db.MigrateModels())

	for _, table := range []string{
		"records",
		"store_options",
		"series_options",
		"setting_options",
		"finish_options",
	} {
		assert.True(t, db.SQL.Migrator().HasTable(table), "expected table %s", table)
	}
}

func TestNew_RejectsEmptyDataDir(t *testing.T) {
	_, err := New(config.Config{DatabaseName: "test.db"})

	assert.Error(t, err)
}

func TestTXDefer_CommitsCleanTransaction(t *testing.T) {
	cfg := testConfig(t)
	db, err := New(cfg)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.SQL.AutoMigrate(&models.SeriesOption{}))

	log := logger.New("test")

	func() {
		tx := db.SQL.Begin()
		defer TXDefer(tx, log)
		tx.Create(&models.SeriesOption{Name: "Sanrio"})
	}()

	var count int64
	require.NoError(t, db.SQL.Model(&models.SeriesOption{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestTXDefer_RollsBackFailedTransaction(t *testing.T) {
	cfg := testConfig(t)
	db, err := New(cfg)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.SQL.AutoMigrate(&models.SeriesOption{}))

	log := logger.New("test")

	func() {
		tx := db.SQL.Begin()
		defer TXDefer(tx, log)
		tx.Create(&models.SeriesOption{Name: "Sanrio"})
		tx.AddError(errors.New("forced failure"))
	}()

	var count int64
	require.NoError(t, db.SQL.Model(&models.SeriesOption{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
