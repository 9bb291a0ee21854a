package repositories

import (
	"context"

	"github.com/Ether-4432/crane-game-log/internal/logger"
	. "github.com/Ether-4432/crane-game-log/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RecordRepository interface {
	// GetAll returns every record in the global display order (date
	// descending, then createdAt descending) with the legacy assist fields
	// reconciled against events.
	GetAll(ctx context.Context, tx *gorm.DB) ([]*PlayRecord, error)
	// GetAllRaw returns records exactly as stored. Export uses this so a
	// backup file reproduces what an earlier import wrote, field for field.
	GetAllRaw(ctx context.Context, tx *gorm.DB) ([]*PlayRecord, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*PlayRecord, error)
	Create(ctx context.Context, tx *gorm.DB, record *PlayRecord) error
	Update(ctx context.Context, tx *gorm.DB, record *PlayRecord) error
	Upsert(ctx context.Context, tx *gorm.DB, record *PlayRecord) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	DeleteAll(ctx context.Context, tx *gorm.DB) error
}

type recordRepository struct {
	log logger.Logger
}

func NewRecordRepository() RecordRepository {
	return &recordRepository{
		log: logger.New("recordRepository"),
	}
}

func (r *recordRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]*PlayRecord, error) {
	records, err := r.GetAllRaw(ctx, tx)
	if err != nil {
		return nil, err
	}

	for _, record := range records {
		record.Normalize()
	}

	return records, nil
}

func (r *recordRepository) GetAllRaw(ctx context.Context, tx *gorm.DB) ([]*PlayRecord, error) {
	log := r.log.Function("GetAllRaw")

	records, err := gorm.G[*PlayRecord](tx).
		Order("date DESC, created_at DESC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get records", err)
	}

	return records, nil
}

func (r *recordRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*PlayRecord, error) {
	log := r.log.Function("GetByID")

	record, err := gorm.G[*PlayRecord](tx).
		Where("id = ?", id).
		First(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get record", err, "recordID", id)
	}

	record.Normalize()

	return record, nil
}

func (r *recordRepository) Create(ctx context.Context, tx *gorm.DB, record *PlayRecord) error {
	log := r.log.Function("Create")

	err := gorm.G[PlayRecord](tx).Create(ctx, record)
	if err != nil {
		return log.Err("failed to create record", err, "store", record.StoreName)
	}

	return nil
}

func (r *recordRepository) Update(ctx context.Context, tx *gorm.DB, record *PlayRecord) error {
	log := r.log.Function("Update")

	// Save writes every column so a put is a full replace, not a merge.
	if err := tx.WithContext(ctx).Save(record).Error; err != nil {
		return log.Err("failed to update record", err, "recordID", record.ID)
	}

	return nil
}

func (r *recordRepository) Upsert(ctx context.Context, tx *gorm.DB, record *PlayRecord) error {
	log := r.log.Function("Upsert")

	err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(record).Error
	if err != nil {
		return log.Err("failed to upsert record", err, "recordID", record.ID)
	}

	return nil
}

func (r *recordRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := r.log.Function("Delete")

	rowsAffected, err := gorm.G[*PlayRecord](tx).
		Where("id = ?", id).
		Delete(ctx)
	if err != nil {
		return log.Err("failed to delete record", err, "recordID", id)
	}

	if rowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *recordRepository) DeleteAll(ctx context.Context, tx *gorm.DB) error {
	log := r.log.Function("DeleteAll")

	err := tx.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&PlayRecord{}).Error
	if err != nil {
		return log.Err("failed to clear records", err)
	}

	return nil
}
