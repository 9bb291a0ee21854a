package backupController

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Ether-4432/crane-game-log/config"
	"github.com/Ether-4432/crane-game-log/internal/database"
	"github.com/Ether-4432/crane-game-log/internal/logger"
	. "github.com/Ether-4432/crane-game-log/internal/models"
	"github.com/Ether-4432/crane-game-log/internal/repositories"
	"github.com/Ether-4432/crane-game-log/internal/services"
	"github.com/Ether-4432/crane-game-log/internal/websockets"

	"gorm.io/gorm"
)

const (
	// BackupAppID marks a backup file as ours; import refuses anything else.
	BackupAppID = "crane-game-log"
	// BackupVersion is written on export. Import accepts older versions; a
	// version 1 file simply has no series/settings/finishes arrays.
	BackupVersion = 2
)

const (
	OperationExport = "export"
	OperationImport = "import"
	OperationReset  = "reset"
)

const (
	StateIdle    = "idle"
	StateRunning = "running"
	StateSuccess = "success"
	StateFailed  = "failed"
)

var (
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("operation already running")
)

type BackupController struct {
	recordRepo         repositories.RecordRepository
	stores             repositories.OptionRepository[StoreOption]
	series             repositories.OptionRepository[SeriesOption]
	settings           repositories.OptionRepository[SettingOption]
	finishes           repositories.OptionRepository[FinishOption]
	transactionService *services.TransactionService
	websocket          *websockets.Manager
	db                 database.DB
	Config             config.Config

	mu      sync.Mutex
	running map[string]bool
}

// BackupFile is the on-disk export format. Records are exported raw, exactly
// as stored, so export → import → export reproduces the file byte for byte.
type BackupFile struct {
	App        string           `json:"app"`
	Version    int              `json:"version"`
	ExportedAt int64            `json:"exportedAt"`
	Records    []*PlayRecord    `json:"records"`
	Stores     []*StoreOption   `json:"stores"`
	Series     []*SeriesOption  `json:"series"`
	Settings   []*SettingOption `json:"settings"`
	Finishes   []*FinishOption  `json:"finishes"`
}

// ImportSummary reports how many entities each table received.
type ImportSummary struct {
	Records  int `json:"records"`
	Stores   int `json:"stores"`
	Series   int `json:"series"`
	Settings int `json:"settings"`
	Finishes int `json:"finishes"`
}

type BackupControllerInterface interface {
	Export(ctx context.Context) (*BackupFile, error)
	Import(ctx context.Context, payload []byte) (*ImportSummary, error)
	Reset(ctx context.Context) error
}

func New(
	repos repositories.Repository,
	transactionService *services.TransactionService,
	websocket *websockets.Manager,
	config config.Config,
	db database.DB,
) BackupControllerInterface {
	return &BackupController{
		recordRepo:         repos.Record,
		stores:             repos.Stores,
		series:             repos.Series,
		settings:           repos.Settings,
		finishes:           repos.Finishes,
		transactionService: transactionService,
		websocket:          websocket,
		db:                 db,
		Config:             config,
		running:            map[string]bool{},
	}
}

func validationError(log logger.Logger, msg string, args ...any) error {
	return log.Err(msg, fmt.Errorf("%w: %s", ErrValidation, msg), args...)
}

// begin moves an operation from idle to running. Only one invocation of each
// operation runs at a time; the rest are rejected so a double-tapped import
// button cannot interleave two writes.
func (c *BackupController) begin(operation string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running[operation] {
		return fmt.Errorf("%w: %s", ErrConflict, operation)
	}
	c.running[operation] = true
	c.websocket.BroadcastBackupState(operation, StateRunning)

	return nil
}

// end records the terminal state and returns the operation to idle.
func (c *BackupController) end(operation string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.running, operation)
	if err != nil {
		c.websocket.BroadcastBackupState(operation, StateFailed)
	} else {
		c.websocket.BroadcastBackupState(operation, StateSuccess)
	}
	c.websocket.BroadcastBackupState(operation, StateIdle)
}

// Export snapshots all five tables inside one transaction.
func (c *BackupController) Export(ctx context.Context) (file *BackupFile, err error) {
	log := logger.New("backupController").TraceFromContext(ctx).Function("Export")

	if err := c.begin(OperationExport); err != nil {
		return nil, log.Err("export rejected", err)
	}
	defer func() { c.end(OperationExport, err) }()

	file = &BackupFile{
		App:        BackupAppID,
		Version:    BackupVersion,
		ExportedAt: time.Now().UnixMilli(),
		Records:    []*PlayRecord{},
		Stores:     []*StoreOption{},
		Series:     []*SeriesOption{},
		Settings:   []*SettingOption{},
		Finishes:   []*FinishOption{},
	}

	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		records, err := c.recordRepo.GetAllRaw(ctx, tx)
		if err != nil {
			return err
		}
		stores, err := c.stores.List(ctx, tx)
		if err != nil {
			return err
		}
		series, err := c.series.List(ctx, tx)
		if err != nil {
			return err
		}
		settings, err := c.settings.List(ctx, tx)
		if err != nil {
			return err
		}
		finishes, err := c.finishes.List(ctx, tx)
		if err != nil {
			return err
		}

		file.Records = append(file.Records, records...)
		file.Stores = append(file.Stores, stores...)
		file.Series = append(file.Series, series...)
		file.Settings = append(file.Settings, settings...)
		file.Finishes = append(file.Finishes, finishes...)

		return nil
	})
	if err != nil {
		return nil, log.Err("failed to export backup", err)
	}

	log.Info(
		"Backup exported",
		"records", len(file.Records),
		"stores", len(file.Stores),
		"series", len(file.Series),
		"settings", len(file.Settings),
		"finishes", len(file.Finishes),
	)

	return file, nil
}

// backupEnvelope defers array parsing so presence and shape can be checked
// per table. A version 1 file carries records and stores only; the absent
// arrays leave their tables untouched.
type backupEnvelope struct {
	App      string          `json:"app"`
	Version  int             `json:"version"`
	Records  json.RawMessage `json:"records"`
	Stores   json.RawMessage `json:"stores"`
	Series   json.RawMessage `json:"series"`
	Settings json.RawMessage `json:"settings"`
	Finishes json.RawMessage `json:"finishes"`
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// Import merges a backup file into the database: every entity overwrites by
// id, entities the file doesn't mention stay. The whole file is parsed and
// validated before anything is written; the writes share one transaction.
// Imported records are stored exactly as the file has them.
func (c *BackupController) Import(
	ctx context.Context,
	payload []byte,
) (summary *ImportSummary, err error) {
	log := logger.New("backupController").TraceFromContext(ctx).Function("Import")

	if err := c.begin(OperationImport); err != nil {
		return nil, log.Err("import rejected", err)
	}
	defer func() { c.end(OperationImport, err) }()

	var envelope backupEnvelope
	if jsonErr := json.Unmarshal(payload, &envelope); jsonErr != nil {
		err = validationError(log, "backup file is not valid JSON", "error", jsonErr)
		return nil, err
	}
	if envelope.App != BackupAppID {
		err = validationError(log, "backup file belongs to a different app", "app", envelope.App)
		return nil, err
	}
	if !present(envelope.Records) || !isArray(envelope.Records) {
		err = validationError(log, "backup file must carry a records array")
		return nil, err
	}

	var records []*PlayRecord
	if jsonErr := json.Unmarshal(envelope.Records, &records); jsonErr != nil {
		err = validationError(log, "records array is malformed", "error", jsonErr)
		return nil, err
	}

	stores, err := parseOptions[StoreOption](log, "stores", envelope.Stores)
	if err != nil {
		return nil, err
	}
	series, err := parseOptions[SeriesOption](log, "series", envelope.Series)
	if err != nil {
		return nil, err
	}
	settings, err := parseOptions[SettingOption](log, "settings", envelope.Settings)
	if err != nil {
		return nil, err
	}
	finishes, err := parseOptions[FinishOption](log, "finishes", envelope.Finishes)
	if err != nil {
		return nil, err
	}

	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		for _, record := range records {
			if err := c.recordRepo.Upsert(ctx, tx, record); err != nil {
				return err
			}
		}
		if err := upsertOptions(ctx, tx, c.stores, stores); err != nil {
			return err
		}
		if err := upsertOptions(ctx, tx, c.series, series); err != nil {
			return err
		}
		if err := upsertOptions(ctx, tx, c.settings, settings); err != nil {
			return err
		}
		return upsertOptions(ctx, tx, c.finishes, finishes)
	})
	if err != nil {
		return nil, log.Err("failed to import backup", err, "version", envelope.Version)
	}

	c.websocket.BroadcastDataChanged("records")
	if stores != nil {
		c.websocket.BroadcastDataChanged("store_options")
	}
	if series != nil {
		c.websocket.BroadcastDataChanged("series_options")
	}
	if settings != nil {
		c.websocket.BroadcastDataChanged("setting_options")
	}
	if finishes != nil {
		c.websocket.BroadcastDataChanged("finish_options")
	}

	summary = &ImportSummary{
		Records:  len(records),
		Stores:   len(stores),
		Series:   len(series),
		Settings: len(settings),
		Finishes: len(finishes),
	}

	log.Info(
		"Backup imported",
		"version", envelope.Version,
		"records", summary.Records,
		"stores", summary.Stores,
		"series", summary.Series,
		"settings", summary.Settings,
		"finishes", summary.Finishes,
	)

	return summary, nil
}

// parseOptions returns nil for an absent array; nil means "leave the table
// alone" downstream.
func parseOptions[T any](
	log logger.Logger,
	field string,
	raw json.RawMessage,
) ([]*T, error) {
	if !present(raw) {
		return nil, nil
	}
	if !isArray(raw) {
		return nil, validationError(log, "backup field must be an array", "field", field)
	}

	var options []*T
	if err := json.Unmarshal(raw, &options); err != nil {
		return nil, validationError(log, "backup field is malformed", "field", field, "error", err)
	}

	return options, nil
}

func upsertOptions[T any](
	ctx context.Context,
	tx *gorm.DB,
	repo repositories.OptionRepository[T],
	options []*T,
) error {
	for _, option := range options {
		if err := repo.Upsert(ctx, tx, option); err != nil {
			return err
		}
	}
	return nil
}

// Reset clears all five tables in one transaction.
func (c *BackupController) Reset(ctx context.Context) (err error) {
	log := logger.New("backupController").TraceFromContext(ctx).Function("Reset")

	if err := c.begin(OperationReset); err != nil {
		return log.Err("reset rejected", err)
	}
	defer func() { c.end(OperationReset, err) }()

	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := c.recordRepo.DeleteAll(ctx, tx); err != nil {
			return err
		}
		if err := c.stores.DeleteAll(ctx, tx); err != nil {
			return err
		}
		if err := c.series.DeleteAll(ctx, tx); err != nil {
			return err
		}
		if err := c.settings.DeleteAll(ctx, tx); err != nil {
			return err
		}
		return c.finishes.DeleteAll(ctx, tx)
	})
	if err != nil {
		return log.Err("failed to reset data", err)
	}

	for _, table := range []string{
		"records", "store_options", "series_options", "setting_options", "finish_options",
	} {
		c.websocket.BroadcastDataChanged(table)
	}

	log.Info("All data reset")

	return nil
}
