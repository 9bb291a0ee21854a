package optionsController

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ether-4432/crane-game-log/config"
	"github.com/Ether-4432/crane-game-log/internal/database"
	"github.com/Ether-4432/crane-game-log/internal/logger"
	. "github.com/Ether-4432/crane-game-log/internal/models"
	"github.com/Ether-4432/crane-game-log/internal/repositories"
	"github.com/Ether-4432/crane-game-log/internal/services"
	"github.com/Ether-4432/crane-game-log/internal/stats"
	"github.com/Ether-4432/crane-game-log/internal/utils"
	"github.com/Ether-4432/crane-game-log/internal/websockets"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
)

// OptionKind names one of the three plain name-list tables. Stores have their
// own operations because of the extended profile payload.
type OptionKind string

const (
	KindSeries   OptionKind = "series"
	KindSettings OptionKind = "settings"
	KindFinishes OptionKind = "finishes"
)

func (k OptionKind) IsValid() bool {
	switch k {
	case KindSeries, KindSettings, KindFinishes:
		return true
	}
	return false
}

// Table returns the option kind's table name, which is also what the
// data_changed notification carries.
func (k OptionKind) Table() string {
	switch k {
	case KindSeries:
		return "series_options"
	case KindSettings:
		return "setting_options"
	case KindFinishes:
		return "finish_options"
	}
	return ""
}

type OptionsController struct {
	recordRepo         repositories.RecordRepository
	stores             repositories.OptionRepository[StoreOption]
	series             repositories.OptionRepository[SeriesOption]
	settings           repositories.OptionRepository[SettingOption]
	finishes           repositories.OptionRepository[FinishOption]
	transactionService *services.TransactionService
	websocket          *websockets.Manager
	db                 database.DB
	Config             config.Config
}

// OptionItem is the wire shape shared by the three plain option kinds.
type OptionItem struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt int64     `json:"createdAt"`
}

type AddOptionRequest struct {
	Name string `json:"name"`
}

type StoreRequest struct {
	Name             string   `json:"name"`
	PhotoURL         *string  `json:"photoUrl,omitempty"`
	Location         *string  `json:"location,omitempty"`
	URL              *string  `json:"url,omitempty"`
	BoothCountRating *int     `json:"boothCountRating,omitempty"`
	BoothSettings    *string  `json:"boothSettings,omitempty"`
	Memo             *string  `json:"memo,omitempty"`
	InteriorPhotos   []string `json:"interiorPhotos,omitempty"`
}

// StoreDetailResponse pairs the store profile with its all-time aggregate.
type StoreDetailResponse struct {
	Store *StoreOption  `json:"store"`
	Stats stats.Summary `json:"stats"`
}

type OptionsControllerInterface interface {
	ListOptions(ctx context.Context, kind OptionKind) ([]OptionItem, error)
	AddOption(ctx context.Context, kind OptionKind, request *AddOptionRequest) (*OptionItem, error)
	UpdateOption(
		ctx context.Context,
		kind OptionKind,
		optionID uuid.UUID,
		request *AddOptionRequest,
	) (*OptionItem, error)
	DeleteOption(ctx context.Context, kind OptionKind, optionID uuid.UUID) error

	ListStores(ctx context.Context) ([]*StoreOption, error)
	GetStore(ctx context.Context, storeID uuid.UUID) (*StoreDetailResponse, error)
	AddStore(ctx context.Context, request *StoreRequest) (*StoreOption, error)
	UpdateStore(ctx context.Context, storeID uuid.UUID, request *StoreRequest) (*StoreOption, error)
	DeleteStore(ctx context.Context, storeID uuid.UUID) error
}

func New(
	repos repositories.Repository,
	transactionService *services.TransactionService,
	websocket *websockets.Manager,
	config config.Config,
	db database.DB,
) OptionsControllerInterface {
	return &OptionsController{
		recordRepo:         repos.Record,
		stores:             repos.Stores,
		series:             repos.Series,
		settings:           repos.Settings,
		finishes:           repos.Finishes,
		transactionService: transactionService,
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

func (c *OptionsController) ListOptions(
	ctx context.Context,
	kind OptionKind,
) ([]OptionItem, error) {
	log := logger.New("optionsController").TraceFromContext(ctx).Function("ListOptions")

	if !kind.IsValid() {
		return nil, validationError(log, "unknown option kind", "kind", kind)
	}

	items := []OptionItem{}
	var err error

	switch kind {
	case KindSeries:
		var options []*SeriesOption
		if options, err = c.series.List(ctx, c.db.SQL); err == nil {
			for _, option := range options {
				items = append(items, OptionItem{option.ID, option.Name, option.CreatedAt})
			}
		}
	case KindSettings:
		var options []*SettingOption
		if options, err = c.settings.List(ctx, c.db.SQL); err == nil {
			for _, option := range options {
				items = append(items, OptionItem{option.ID, option.Name, option.CreatedAt})
			}
		}
	case KindFinishes:
		var options []*FinishOption
		if options, err = c.finishes.List(ctx, c.db.SQL); err == nil {
			for _, option := range options {
				items = append(items, OptionItem{option.ID, option.Name, option.CreatedAt})
			}
		}
	}
	if err != nil {
		return nil, log.Err("failed to list options", err, "kind", kind)
	}

	return items, nil
}

func (c *OptionsController) AddOption(
	ctx context.Context,
	kind OptionKind,
	request *AddOptionRequest,
) (*OptionItem, error) {
	log := logger.New("optionsController").TraceFromContext(ctx).Function("AddOption")

	if !kind.IsValid() {
		return nil, validationError(log, "unknown option kind", "kind", kind)
	}

	name := utils.CleanName(request.Name)
	if name == "" {
		return nil, validationError(log, "name is required")
	}

	item := &OptionItem{}
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		switch kind {
		case KindSeries:
			option := &SeriesOption{Name: name}
			if err := c.series.Create(ctx, tx, option); err != nil {
				return err
			}
			*item = OptionItem{option.ID, option.Name, option.CreatedAt}
		case KindSettings:
			option := &SettingOption{Name: name}
			if err := c.settings.Create(ctx, tx, option); err != nil {
				return err
			}
			*item = OptionItem{option.ID, option.Name, option.CreatedAt}
		case KindFinishes:
			option := &FinishOption{Name: name}
			if err := c.finishes.Create(ctx, tx, option); err != nil {
				return err
			}
			*item = OptionItem{option.ID, option.Name, option.CreatedAt}
		}
		return nil
	})
	if err != nil {
		return nil, log.Err("failed to add option", err, "kind", kind, "name", name)
	}

	c.websocket.BroadcastDataChanged(kind.Table())

	log.Info("Option added", "kind", kind, "optionID", item.ID, "name", name)

	return item, nil
}

func (c *OptionsController) UpdateOption(
	ctx context.Context,
	kind OptionKind,
	optionID uuid.UUID,
	request *AddOptionRequest,
) (*OptionItem, error) {
	log := logger.New("optionsController").TraceFromContext(ctx).Function("UpdateOption")

	if !kind.IsValid() {
		return nil, validationError(log, "unknown option kind", "kind", kind)
	}
	if optionID == uuid.Nil {
		return nil, validationError(log, "option id is required")
	}

	name := utils.CleanName(request.Name)
	if name == "" {
		return nil, validationError(log, "name is required")
	}

	item := &OptionItem{}
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		switch kind {
		case KindSeries:
			option, err := c.series.GetByID(ctx, tx, optionID)
			if err != nil {
				return err
			}
			option.Name = name
			if err := c.series.Update(ctx, tx, option); err != nil {
				return err
			}
			*item = OptionItem{option.ID, option.Name, option.CreatedAt}
		case KindSettings:
			option, err := c.settings.GetByID(ctx, tx, optionID)
			if err != nil {
				return err
			}
			option.Name = name
			if err := c.settings.Update(ctx, tx, option); err != nil {
				return err
			}
			*item = OptionItem{option.ID, option.Name, option.CreatedAt}
		case KindFinishes:
			option, err := c.finishes.GetByID(ctx, tx, optionID)
			if err != nil {
				return err
			}
			option.Name = name
			if err := c.finishes.Update(ctx, tx, option); err != nil {
				return err
			}
			*item = OptionItem{option.ID, option.Name, option.CreatedAt}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError(log, "option not found", "kind", kind, "optionID", optionID)
		}
		return nil, log.Err("failed to update option", err, "kind", kind, "optionID", optionID)
	}

	c.websocket.BroadcastDataChanged(kind.Table())

	log.Info("Option updated", "kind", kind, "optionID", optionID, "name", name)

	return item, nil
}

func (c *OptionsController) DeleteOption(
	ctx context.Context,
	kind OptionKind,
	optionID uuid.UUID,
) error {
	log := logger.New("optionsController").TraceFromContext(ctx).Function("DeleteOption")

	if !kind.IsValid() {
		return validationError(log, "unknown option kind", "kind", kind)
	}
	if optionID == uuid.Nil {
		return validationError(log, "option id is required")
	}

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		switch kind {
		case KindSeries:
			return c.series.Delete(ctx, tx, optionID)
		case KindSettings:
			return c.settings.Delete(ctx, tx, optionID)
		case KindFinishes:
			return c.finishes.Delete(ctx, tx, optionID)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError(log, "option not found", "kind", kind, "optionID", optionID)
		}
		return log.Err("failed to delete option", err, "kind", kind, "optionID", optionID)
	}

	c.websocket.BroadcastDataChanged(kind.Table())

	log.Info("Option deleted", "kind", kind, "optionID", optionID)

	return nil
}

func (c *OptionsController) ListStores(ctx context.Context) ([]*StoreOption, error) {
	log := logger.New("optionsController").TraceFromContext(ctx).Function("ListStores")

	stores, err := c.stores.List(ctx, c.db.SQL)
	if err != nil {
		return nil, log.Err("failed to list stores", err)
	}

	return stores, nil
}

// GetStore returns the store profile plus its all-time aggregate: the store
// detail view is the general aggregation with the filter pinned to this
// store's name and no period constraint.
func (c *OptionsController) GetStore(
	ctx context.Context,
	storeID uuid.UUID,
) (*StoreDetailResponse, error) {
	log := logger.New("optionsController").TraceFromContext(ctx).Function("GetStore")

	if storeID == uuid.Nil {
		return nil, validationError(log, "store id is required")
	}

	store, err := c.stores.GetByID(ctx, c.db.SQL, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError(log, "store not found", "storeID", storeID)
		}
		return nil, log.Err("failed to get store", err, "storeID", storeID)
	}

	records, err := c.recordRepo.GetAll(ctx, c.db.SQL)
	if err != nil {
		return nil, log.Err("failed to load records for store stats", err, "storeID", storeID)
	}

	return &StoreDetailResponse{
		Store: store,
		Stats: stats.Summarize(records, stats.StoreFilter(store.Name)),
	}, nil
}

func (c *OptionsController) AddStore(
	ctx context.Context,
	request *StoreRequest,
) (*StoreOption, error) {
	log := logger.New("optionsController").TraceFromContext(ctx).Function("AddStore")

	store, err := c.buildStore(log, request)
	if err != nil {
		return nil, err
	}

	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.stores.Create(ctx, tx, store)
	})
	if err != nil {
		return nil, log.Err("failed to add store", err, "name", store.Name)
	}

	c.websocket.BroadcastDataChanged("store_options")

	log.Info("Store added", "storeID", store.ID, "name", store.Name)

	return store, nil
}

func (c *OptionsController) UpdateStore(
	ctx context.Context,
	storeID uuid.UUID,
	request *StoreRequest,
) (*StoreOption, error) {
	log := logger.New("optionsController").TraceFromContext(ctx).Function("UpdateStore")

	if storeID == uuid.Nil {
		return nil, validationError(log, "store id is required")
	}

	existing, err := c.stores.GetByID(ctx, c.db.SQL, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError(log, "store not found", "storeID", storeID)
		}
		return nil, log.Err("failed to get store", err, "storeID", storeID)
	}

	store, err := c.buildStore(log, request)
	if err != nil {
		return nil, err
	}

	store.ID = existing.ID
	store.CreatedAt = existing.CreatedAt

	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.stores.Update(ctx, tx, store)
	})
	if err != nil {
		return nil, log.Err("failed to update store", err, "storeID", storeID)
	}

	c.websocket.BroadcastDataChanged("store_options")

	log.Info("Store updated", "storeID", store.ID, "name", store.Name)

	return store, nil
}

func (c *OptionsController) DeleteStore(ctx context.Context, storeID uuid.UUID) error {
	log := logger.New("optionsController").TraceFromContext(ctx).Function("DeleteStore")

	if storeID == uuid.Nil {
		return validationError(log, "store id is required")
	}

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.stores.Delete(ctx, tx, storeID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError(log, "store not found", "storeID", storeID)
		}
		return log.Err("failed to delete store", err, "storeID", storeID)
	}

	c.websocket.BroadcastDataChanged("store_options")

	log.Info("Store deleted", "storeID", storeID)

	return nil
}

func (c *OptionsController) buildStore(
	log logger.Logger,
	request *StoreRequest,
) (*StoreOption, error) {
	name := utils.CleanName(request.Name)
	if name == "" {
		return nil, validationError(log, "name is required")
	}
	if request.BoothCountRating != nil &&
		(*request.BoothCountRating < 0 || *request.BoothCountRating > 10) {
		return nil, validationError(
			log,
			"boothCountRating must be between 0 and 10",
			"boothCountRating", *request.BoothCountRating,
		)
	}

	return &StoreOption{
		Name:             name,
		PhotoURL:         request.PhotoURL,
		Location:         request.Location,
		URL:              request.URL,
		BoothCountRating: request.BoothCountRating,
		BoothSettings:    request.BoothSettings,
		Memo:             request.Memo,
		InteriorPhotos:   datatypes.JSONSlice[string](request.InteriorPhotos),
	}, nil
}
