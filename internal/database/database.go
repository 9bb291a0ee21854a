package database

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Ether-4432/crane-game-log/config"
	"github.com/Ether-4432/crane-game-log/internal/logger"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type DB struct {
	SQL *gorm.DB
	log logger.Logger
}

func New(config config.Config) (DB, error) {
	log := logger.New("database").Function("New")

	log.Info("Initializing database")
	db := &DB{log: log}

	err := db.initializeDB(config)
	if err != nil {
		return DB{}, log.Err("failed to initialize database", err)
	}

	return *db, nil
}

// DatabasePath builds the on-disk location of the SQLite file.
func DatabasePath(config config.Config) string {
	return filepath.Join(config.DataDir, config.DatabaseName)
}

// DSN appends the connection pragmas every open path uses: enforced foreign
// keys, WAL journaling, and a busy timeout so concurrent readers don't fail
// fast while a write transaction holds the file.
func DSN(config config.Config) string {
	return fmt.Sprintf(
		"%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000",
		DatabasePath(config),
	)
}

func TXDefer(tx *gorm.DB, log logger.Logger) {
	if tx.Error != nil {
		log.Er("failed to commit transaction", tx.Error)
		tx.Rollback()
	} else {
		err := tx.Commit().Error
		if err != nil {
			log.Er("failed to commit transaction", err)
		}
	}
}

func (s *DB) initializeDB(config config.Config) error {
	// Silent GORM logging; the application logger reports failures at the
	// repository boundary instead.
	gormLogger := gormLogger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelError),
		gormLogger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  gormLogger.Silent,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      false,
			Colorful:                  true,
		},
	)

	gormConfig := &gorm.Config{
		Logger:                                   gormLogger,
		PrepareStmt:                              true,
		DisableForeignKeyConstraintWhenMigrating: false,
		SkipDefaultTransaction:                   true,
	}

	return s.initializeSqliteDB(gormConfig, config)
}

func (s *DB) initializeSqliteDB(gormConfig *gorm.Config, config config.Config) error {
	log := s.log.Function("initializeSqliteDB")

	if config.DataDir == "" {
		return log.Error("data directory is empty")
	}
	if config.DatabaseName == "" {
		return log.Error("database name is empty")
	}

	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		return log.Err("failed to create data directory", err, "dataDir", config.DataDir)
	}

	log.Info(
		"Opening SQLite database",
		"path",
		DatabasePath(config),
	)
	db, err := gorm.Open(sqlite.Open(DSN(config)), gormConfig)
	if err != nil {
		return log.Err("failed to open SQLite database with GORM", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return log.Err("failed to get database from GORM", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return log.Err("failed to ping SQLite database through GORM", err)
	}

	log.Info("Successfully opened SQLite database with GORM")
	// SQLite allows one writer at a time; a single pooled connection keeps
	// writes serialized instead of tripping SQLITE_BUSY.
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	s.SQL = db

	return nil
}

func (s *DB) Close() (err error) {
	if s.SQL != nil {
		sqlDB, err := s.SQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				_ = s.log.Err("failed to close database", err)
			}
		}
	}

	return err
}

func (s *DB) SQLWithContext(ctx context.Context) *gorm.DB {
	return s.SQL.WithContext(ctx).Set("db_instance", *s)
}
