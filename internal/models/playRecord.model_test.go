package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func intPtr(i int) *int {
	return &i
}

func validRecord() *PlayRecord {
	return &PlayRecord{
		Date:        "2024-05-02",
		StoreName:   "Round One",
		PrizeName:   "Plush",
		CostPerPlay: 200,
		Moves:       4,
		Result:      ResultWin,
	}
}

func TestPlayRecord_ComputeTotalCost(t *testing.T) {
	record := validRecord()
	assert.Equal(t, 800, record.ComputeTotalCost())

	record.Moves = 1
	assert.Equal(t, 200, record.ComputeTotalCost())
}

func TestPlayRecord_Normalize(t *testing.T) {
	t.Run("Legacy record materializes a synthetic assist event", func(t *testing.T) {
		record := validRecord()
		record.HasAssist = true
		record.AssistAt = intPtr(3)

		record.Normalize()

		assert.Len(t, record.Events, 1)
		assert.Equal(t, EventAssist, record.Events[0].Type)
		assert.Equal(t, 3, record.Events[0].Move)
		assert.True(t, record.HasAssist)
		assert.Equal(t, 3, *record.AssistAt)
	})

	t.Run("Legacy record without assistAt defaults to move 1", func(t *testing.T) {
		record := validRecord()
		record.HasAssist = true

		record.Normalize()

		assert.Len(t, record.Events, 1)
		assert.Equal(t, 1, record.Events[0].Move)
		assert.Equal(t, 1, *record.AssistAt)
	})

	t.Run("Events are authoritative over legacy fields", func(t *testing.T) {
		record := validRecord()
		record.HasAssist = true
		record.AssistAt = intPtr(9)
		record.Events = datatypes.JSONSlice[PlayEvent]{
			{Type: EventReset, Move: 2},
			{Type: EventAssist, Move: 4},
			{Type: EventAssist, Move: 6},
		}

		record.Normalize()

		assert.True(t, record.HasAssist)
		assert.Equal(t, 4, *record.AssistAt, "first assist event wins")
		assert.Len(t, record.Events, 3)
	})

	t.Run("Stale legacy flags are cleared when events hold no assist", func(t *testing.T) {
		record := validRecord()
		record.HasAssist = true
		record.AssistAt = intPtr(2)
		record.Events = datatypes.JSONSlice[PlayEvent]{{Type: EventReset, Move: 1}}

		record.Normalize()

		assert.False(t, record.HasAssist)
		assert.Nil(t, record.AssistAt)
	})

	t.Run("Record without assist stays untouched", func(t *testing.T) {
		record := validRecord()

		record.Normalize()

		assert.Empty(t, record.Events)
		assert.False(t, record.HasAssist)
		assert.Nil(t, record.AssistAt)
	})
}

func TestPlayRecord_BeforeCreate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PlayRecord)
		wantErr bool
	}{
		{
			name:   "Valid record passes",
			mutate: func(r *PlayRecord) {},
		},
		{
			name:    "Malformed date rejected",
			mutate:  func(r *PlayRecord) { r.Date = "05/02/2024" },
			wantErr: true,
		},
		{
			name:    "Zero moves rejected",
			mutate:  func(r *PlayRecord) { r.Moves = 0 },
			wantErr: true,
		},
		{
			name:    "Zero costPerPlay rejected",
			mutate:  func(r *PlayRecord) { r.CostPerPlay = 0 },
			wantErr: true,
		},
		{
			name:    "Unknown result rejected",
			mutate:  func(r *PlayRecord) { r.Result = "draw" },
			wantErr: true,
		},
		{
			name: "Unknown event type rejected",
			mutate: func(r *PlayRecord) {
				r.Events = datatypes.JSONSlice[PlayEvent]{{Type: "bonus", Move: 1}}
			},
			wantErr: true,
		},
		{
			name: "Event move below one rejected",
			mutate: func(r *PlayRecord) {
				r.Events = datatypes.JSONSlice[PlayEvent]{{Type: EventAssist, Move: 0}}
			},
			wantErr: true,
		},
		{
			name:   "Continuation startType accepted",
			mutate: func(r *PlayRecord) { st := StartTypeContinuation; r.StartType = &st },
		},
		{
			name:    "Unknown startType rejected",
			mutate:  func(r *PlayRecord) { st := StartType("bonus"); r.StartType = &st },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := validRecord()
			tt.mutate(record)

			err := record.BeforeCreate(nil)
			if tt.wantErr {
				assert.ErrorIs(t, err, gorm.ErrInvalidValue)
			} else {
				assert.NoError(t, err)
				assert.NotEqual(t, record.ID.String(), "00000000-0000-0000-0000-000000000000")
			}
		})
	}
}

func TestPlayRecord_BeforeCreate_KeepsProvidedID(t *testing.T) {
	record := validRecord()
	assert.NoError(t, record.BeforeCreate(nil))
	id := record.ID

	assert.NoError(t, record.BeforeCreate(nil))
	assert.Equal(t, id, record.ID, "existing id must survive re-create on import")
}
