package repositories

import (
	"context"

	"github.com/Ether-4432/crane-game-log/internal/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OptionRepository covers the four option tables with one implementation;
// they differ only in their model type. Stores carry extra profile fields
// but need no extra queries.
type OptionRepository[T any] interface {
	// List returns options in insertion order (createdAt ascending).
	List(ctx context.Context, tx *gorm.DB) ([]*T, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*T, error)
	Create(ctx context.Context, tx *gorm.DB, option *T) error
	Update(ctx context.Context, tx *gorm.DB, option *T) error
	Upsert(ctx context.Context, tx *gorm.DB, option *T) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	DeleteAll(ctx context.Context, tx *gorm.DB) error
}

type optionRepository[T any] struct {
	log logger.Logger
}

func NewOptionRepository[T any](loggerName string) OptionRepository[T] {
	return &optionRepository[T]{
		log: logger.New(loggerName),
	}
}

func (r *optionRepository[T]) List(ctx context.Context, tx *gorm.DB) ([]*T, error) {
	log := r.log.Function("List")

	options, err := gorm.G[*T](tx).
		Order("created_at ASC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list options", err)
	}

	return options, nil
}

func (r *optionRepository[T]) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*T, error) {
	log := r.log.Function("GetByID")

	option, err := gorm.G[*T](tx).
		Where("id = ?", id).
		First(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get option", err, "optionID", id)
	}

	return option, nil
}

func (r *optionRepository[T]) Create(ctx context.Context, tx *gorm.DB, option *T) error {
	log := r.log.Function("Create")

	err := gorm.G[T](tx).Create(ctx, option)
	if err != nil {
		return log.Err("failed to create option", err)
	}

	return nil
}

func (r *optionRepository[T]) Update(ctx context.Context, tx *gorm.DB, option *T) error {
	log := r.log.Function("Update")

	if err := tx.WithContext(ctx).Save(option).Error; err != nil {
		return log.Err("failed to update option", err)
	}

	return nil
}

func (r *optionRepository[T]) Upsert(ctx context.Context, tx *gorm.DB, option *T) error {
	log := r.log.Function("Upsert")

	err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(option).Error
	if err != nil {
		return log.Err("failed to upsert option", err)
	}

	return nil
}

func (r *optionRepository[T]) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := r.log.Function("Delete")

	rowsAffected, err := gorm.G[*T](tx).
		Where("id = ?", id).
		Delete(ctx)
	if err != nil {
		return log.Err("failed to delete option", err, "optionID", id)
	}

	if rowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *optionRepository[T]) DeleteAll(ctx context.Context, tx *gorm.DB) error {
	log := r.log.Function("DeleteAll")

	err := tx.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(new(T)).Error
	if err != nil {
		return log.Err("failed to clear options", err)
	}

	return nil
}
