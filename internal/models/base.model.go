package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseUUIDModel carries the fields every persisted entity shares. IDs are
// UUIDv7 so insertion order survives in the id itself; CreatedAt is epoch
// millis and doubles as the sort tiebreaker. There is no UpdatedAt and no
// soft delete: entities are replaced whole or removed for good, and
// re-importing an identical backup must leave rows byte-identical.
type BaseUUIDModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt int64     `gorm:"autoCreateTime:milli" json:"createdAt"`
}

// BeforeCreate assigns a fresh UUIDv7 when none was provided. Imported
// entities arrive with their ids set and keep them.
func (m *BaseUUIDModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		m.ID = id
	}
	return nil
}
