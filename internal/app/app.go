package app

import (
	"github.com/Ether-4432/crane-game-log/config"
	"github.com/Ether-4432/crane-game-log/internal/database"
	"github.com/Ether-4432/crane-game-log/internal/handlers/middleware"
	"github.com/Ether-4432/crane-game-log/internal/logger"
	"github.com/Ether-4432/crane-game-log/internal/preferences"
	"github.com/Ether-4432/crane-game-log/internal/repositories"
	"github.com/Ether-4432/crane-game-log/internal/services"
	"github.com/Ether-4432/crane-game-log/internal/websockets"

	backupController "github.com/Ether-4432/crane-game-log/internal/controllers/backup"
	optionsController "github.com/Ether-4432/crane-game-log/internal/controllers/options"
	recordsController "github.com/Ether-4432/crane-game-log/internal/controllers/records"
	statsController "github.com/Ether-4432/crane-game-log/internal/controllers/stats"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	Config     config.Config

	// Services
	TransactionService *services.TransactionService
	DefaultsStore      preferences.DefaultsStore

	// Repositories
	Repos repositories.Repository

	// Controllers
	RecordsController recordsController.RecordsControllerInterface
	OptionsController optionsController.OptionsControllerInterface
	StatsController   statsController.StatsControllerInterface
	BackupController  backupController.BackupControllerInterface
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	if err := db.MigrateModels(); err != nil {
		return &App{}, log.Err("failed to migrate database models", err)
	}
	if err := db.CreateIndexes(); err != nil {
		return &App{}, log.Err("failed to create database indexes", err)
	}

	// Initialize services
	transactionService := services.NewTransactionService(db)
	defaultsStore := preferences.NewDefaultsStore(config.DataDir)

	// Initialize repositories
	repos := repositories.New()

	websocket := websockets.New(config)

	// Initialize controllers with repositories and services
	middleware := middleware.New(db, config)
	recordsController := recordsController.New(
		repos,
		transactionService,
		defaultsStore,
		websocket,
		config,
		db,
	)
	optionsController := optionsController.New(repos, transactionService, websocket, config, db)
	statsController := statsController.New(repos, config, db)
	backupController := backupController.New(repos, transactionService, websocket, config, db)

	app := &App{
		Database:           db,
		Config:             config,
		Middleware:         middleware,
		TransactionService: transactionService,
		DefaultsStore:      defaultsStore,
		Repos:              repos,
		RecordsController:  recordsController,
		OptionsController:  optionsController,
		StatsController:    statsController,
		BackupController:   backupController,
		Websocket:          websocket,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.TransactionService,
		a.DefaultsStore,
		a.RecordsController,
		a.OptionsController,
		a.StatsController,
		a.BackupController,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
