package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestOptionName_Validation(t *testing.T) {
	tests := []struct {
		name     string
		itemName string
		wantErr  bool
	}{
		{name: "Plain name accepted", itemName: "Sega"},
		{name: "Name with surrounding spaces accepted", itemName: "  Taito  "},
		{name: "Empty name rejected", itemName: "", wantErr: true},
		{name: "Whitespace-only name rejected", itemName: "   ", wantErr: true},
		{name: "Tab and newline only rejected", itemName: "\t\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series := &SeriesOption{Name: tt.itemName}
			err := series.BeforeCreate(nil)
			if tt.wantErr {
				assert.ErrorIs(t, err, gorm.ErrInvalidValue)
			} else {
				assert.NoError(t, err)
			}

			setting := &SettingOption{Name: tt.itemName}
			err = setting.BeforeCreate(nil)
			if tt.wantErr {
				assert.ErrorIs(t, err, gorm.ErrInvalidValue)
			} else {
				assert.NoError(t, err)
			}

			finish := &FinishOption{Name: tt.itemName}
			err = finish.BeforeCreate(nil)
			if tt.wantErr {
				assert.ErrorIs(t, err, gorm.ErrInvalidValue)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStoreOption_BeforeCreate(t *testing.T) {
	t.Run("Booth count rating bounds", func(t *testing.T) {
		store := &StoreOption{Name: "Namco", BoothCountRating: intPtr(10)}
		assert.NoError(t, store.BeforeCreate(nil))

		store = &StoreOption{Name: "Namco", BoothCountRating: intPtr(0)}
		assert.NoError(t, store.BeforeCreate(nil))

		store = &StoreOption{Name: "Namco", BoothCountRating: intPtr(11)}
		assert.ErrorIs(t, store.BeforeCreate(nil), gorm.ErrInvalidValue)

		store = &StoreOption{Name: "Namco", BoothCountRating: intPtr(-1)}
		assert.ErrorIs(t, store.BeforeCreate(nil), gorm.ErrInvalidValue)
	})

	t.Run("Blank name rejected", func(t *testing.T) {
		store := &StoreOption{Name: " "}
		assert.ErrorIs(t, store.BeforeCreate(nil), gorm.ErrInvalidValue)
	})

	t.Run("Assigns id when missing", func(t *testing.T) {
		store := &StoreOption{Name: "Namco"}
		assert.NoError(t, store.BeforeCreate(nil))
		assert.NotEmpty(t, store.ID)
	})
}
