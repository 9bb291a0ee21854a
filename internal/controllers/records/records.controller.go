package recordsController

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Ether-4432/crane-game-log/config"
	"github.com/Ether-4432/crane-game-log/internal/database"
	"github.com/Ether-4432/crane-game-log/internal/logger"
	. "github.com/Ether-4432/crane-game-log/internal/models"
	"github.com/Ether-4432/crane-game-log/internal/preferences"
	"github.com/Ether-4432/crane-game-log/internal/repositories"
	"github.com/Ether-4432/crane-game-log/internal/services"
	"github.com/Ether-4432/crane-game-log/internal/websockets"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MaxMemoLength = 1000
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
)

type RecordsController struct {
	recordRepo         repositories.RecordRepository
	transactionService *services.TransactionService
	defaultsStore      preferences.DefaultsStore
	websocket          *websockets.Manager
	db                 database.DB
	Config             config.Config
}

// SaveRecordRequest is the payload for both create and full-replace update.
// totalCost is absent on purpose: it is always recomputed server-side.
type SaveRecordRequest struct {
	Date        string      `json:"date"`
	StoreName   string      `json:"storeName"`
	PrizeName   string      `json:"prizeName"`
	CostPerPlay int         `json:"costPerPlay"`
	Moves       int         `json:"moves"`
	Result      GameResult  `json:"result"`
	PhotoURL    *string     `json:"photoUrl,omitempty"`
	StartType   *StartType  `json:"startType,omitempty"`
	Events      []PlayEvent `json:"events,omitempty"`
	HasAssist   bool        `json:"hasAssist,omitempty"`
	AssistAt    *int        `json:"assistAt,omitempty"`
	Memo        *string     `json:"memo,omitempty"`
	SeriesName  *string     `json:"seriesName,omitempty"`
	SettingName *string     `json:"settingName,omitempty"`
	FinishType  *string     `json:"finishType,omitempty"`
}

type RecordsControllerInterface interface {
	List(ctx context.Context) ([]*PlayRecord, error)
	Get(ctx context.Context, recordID uuid.UUID) (*PlayRecord, error)
	Create(ctx context.Context, request *SaveRecordRequest) (*PlayRecord, error)
	Update(ctx context.Context, recordID uuid.UUID, request *SaveRecordRequest) (*PlayRecord, error)
	Delete(ctx context.Context, recordID uuid.UUID) error
	Defaults(ctx context.Context) preferences.PlayDefaults
}

func New(
	repos repositories.Repository,
	transactionService *services.TransactionService,
	defaultsStore preferences.DefaultsStore,
	websocket *websockets.Manager,
	config config.Config,
	db database.DB,
) RecordsControllerInterface {
	return &RecordsController{
		recordRepo:         repos.Record,
		transactionService: transactionService,
		defaultsStore:      defaultsStore,
		websocket:          websocket,
		db:                 db,
		Config:             config,
	}
}

func validationError(log logger.Logger, msg string, args ...any) error {
	return log.Err(msg, fmt.Errorf("%w: %s", ErrValidation, msg), args...)
}

func notFoundError(log logger.Logger, msg string, args ...any) error {
	return log.Err(msg, fmt.Errorf("%w: %s", ErrNotFound, msg), args...)
}

func (c *RecordsController) List(ctx context.Context) ([]*PlayRecord, error) {
	log := logger.New("recordsController").TraceFromContext(ctx).Function("List")

	records, err := c.recordRepo.GetAll(ctx, c.db.SQL)
	if err != nil {
		return nil, log.Err("failed to list records", err)
	}

	return records, nil
}

func (c *RecordsController) Get(ctx context.Context, recordID uuid.UUID) (*PlayRecord, error) {
	log := logger.New("recordsController").TraceFromContext(ctx).Function("Get")

	if recordID == uuid.Nil {
		return nil, validationError(log, "record id is required")
	}

	record, err := c.recordRepo.GetByID(ctx, c.db.SQL, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError(log, "record not found", "recordID", recordID)
		}
		return nil, log.Err("failed to get record", err, "recordID", recordID)
	}

	return record, nil
}

func (c *RecordsController) Create(
	ctx context.Context,
	request *SaveRecordRequest,
) (*PlayRecord, error) {
	log := logger.New("recordsController").TraceFromContext(ctx).Function("Create")

	record, err := c.buildRecord(log, request)
	if err != nil {
		return nil, err
	}

	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.recordRepo.Create(ctx, tx, record)
	})
	if err != nil {
		return nil, log.Err("failed to create record", err, "storeName", record.StoreName)
	}

	c.saveDefaults(log, record)
	c.websocket.BroadcastDataChanged("records")

	log.Info(
		"Record created",
		"recordID", record.ID,
		"date", record.Date,
		"result", record.Result,
		"totalCost", record.TotalCost,
	)

	return record, nil
}

func (c *RecordsController) Update(
	ctx context.Context,
	recordID uuid.UUID,
	request *SaveRecordRequest,
) (*PlayRecord, error) {
	log := logger.New("recordsController").TraceFromContext(ctx).Function("Update")

	if recordID == uuid.Nil {
		return nil, validationError(log, "record id is required")
	}

	existing, err := c.recordRepo.GetByID(ctx, c.db.SQL, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError(log, "record not found", "recordID", recordID)
		}
		return nil, log.Err("failed to get record", err, "recordID", recordID)
	}

	record, err := c.buildRecord(log, request)
	if err != nil {
		return nil, err
	}

	// Full replace keeps identity: id and createdAt survive, everything else
	// comes from the request.
	record.ID = existing.ID
	record.CreatedAt = existing.CreatedAt

	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.recordRepo.Update(ctx, tx, record)
	})
	if err != nil {
		return nil, log.Err("failed to update record", err, "recordID", recordID)
	}

	c.saveDefaults(log, record)
	c.websocket.BroadcastDataChanged("records")

	log.Info("Record updated", "recordID", record.ID, "date", record.Date, "result", record.Result)

	return record, nil
}

func (c *RecordsController) Delete(ctx context.Context, recordID uuid.UUID) error {
	log := logger.New("recordsController").TraceFromContext(ctx).Function("Delete")

	if recordID == uuid.Nil {
		return validationError(log, "record id is required")
	}

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.recordRepo.Delete(ctx, tx, recordID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError(log, "record not found", "recordID", recordID)
		}
		return log.Err("failed to delete record", err, "recordID", recordID)
	}

	c.websocket.BroadcastDataChanged("records")

	log.Info("Record deleted", "recordID", recordID)

	return nil
}

func (c *RecordsController) Defaults(ctx context.Context) preferences.PlayDefaults {
	return c.defaultsStore.Load()
}

// buildRecord validates the request and assembles the entity to persist:
// totalCost recomputed, legacy assist fields reconciled with events.
func (c *RecordsController) buildRecord(
	log logger.Logger,
	request *SaveRecordRequest,
) (*PlayRecord, error) {
	if request.Date == "" {
		return nil, validationError(log, "date is required")
	}
	if _, err := time.Parse(PlayDateLayout, request.Date); err != nil {
		return nil, validationError(log, "date must be formatted YYYY-MM-DD", "date", request.Date)
	}
	if strings.TrimSpace(request.StoreName) == "" {
		return nil, validationError(log, "storeName is required")
	}
	if strings.TrimSpace(request.PrizeName) == "" {
		return nil, validationError(log, "prizeName is required")
	}
	if request.CostPerPlay < 1 {
		return nil, validationError(log, "costPerPlay must be at least 1", "costPerPlay", request.CostPerPlay)
	}
	if request.Moves < 1 {
		return nil, validationError(log, "moves must be at least 1", "moves", request.Moves)
	}
	if !request.Result.IsValid() {
		return nil, validationError(log, "result must be win or lose", "result", request.Result)
	}
	if request.StartType != nil && !request.StartType.IsValid() {
		return nil, validationError(
			log,
			"startType must be initial or continuation",
			"startType", *request.StartType,
		)
	}
	if request.Memo != nil && len(*request.Memo) > MaxMemoLength {
		return nil, validationError(
			log,
			"memo exceeds maximum length",
			"length", len(*request.Memo),
			"max", MaxMemoLength,
		)
	}
	for i, event := range request.Events {
		if !event.Type.IsValid() {
			return nil, validationError(log, "event type must be assist or reset", "index", i)
		}
		// Moves can be lowered after an event is recorded, so event moves are
		// only checked for the floor, never for ordering.
		if event.Move < 1 {
			return nil, validationError(log, "event move must be at least 1", "index", i)
		}
	}

	record := &PlayRecord{
		Date:        request.Date,
		StoreName:   strings.TrimSpace(request.StoreName),
		PrizeName:   strings.TrimSpace(request.PrizeName),
		CostPerPlay: request.CostPerPlay,
		Moves:       request.Moves,
		Result:      request.Result,
		PhotoURL:    request.PhotoURL,
		StartType:   request.StartType,
		Events:      datatypes.JSONSlice[PlayEvent](request.Events),
		HasAssist:   request.HasAssist,
		AssistAt:    request.AssistAt,
		Memo:        request.Memo,
		SeriesName:  request.SeriesName,
		SettingName: request.SettingName,
		FinishType:  request.FinishType,
	}

	record.TotalCost = record.ComputeTotalCost()
	record.Normalize()

	return record, nil
}

// saveDefaults remembers the last-used form values for the next new record.
// Best effort: the record is already committed, so a defaults failure only
// logs.
func (c *RecordsController) saveDefaults(log logger.Logger, record *PlayRecord) {
	defaults := preferences.PlayDefaults{
		StoreName:   record.StoreName,
		CostPerPlay: record.CostPerPlay,
	}
	if record.SeriesName != nil {
		defaults.SeriesName = *record.SeriesName
	}
	if record.SettingName != nil {
		defaults.SettingName = *record.SettingName
	}

	if err := c.defaultsStore.Save(defaults); err != nil {
		log.Warn("failed to save play defaults", "error", err)
	}
}
