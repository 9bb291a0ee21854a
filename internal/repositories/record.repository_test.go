package repositories_test

import (
	"context"
	"testing"

	"github.com/Ether-4432/crane-game-log/internal/models"
	"github.com/Ether-4432/crane-game-log/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newRecord(date string, result models.GameResult, createdAt int64) *models.PlayRecord {
	return &models.PlayRecord{
		BaseUUIDModel: models.BaseUUIDModel{CreatedAt: createdAt},
		Date:          date,
		StoreName:     "Round One",
		PrizeName:     "Plush",
		CostPerPlay:   100,
		Moves:         3,
		TotalCost:     300,
		Result:        result,
	}
}

func TestRecordRepository_CreateAndGetAll(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewRecordRepository()
	ctx := context.Background()

	first := newRecord("2024-05-01", models.ResultLose, 1000)
	second := newRecord("2024-05-02", models.ResultWin, 2000)
	sameDayEarlier := newRecord("2024-05-02", models.ResultLose, 1500)

	require.NoError(t, repo.Create(ctx, db, first))
	require.NoError(t, repo.Create(ctx, db, second))
	require.NoError(t, repo.Create(ctx, db, sameDayEarlier))

	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.NotEqual(t, uuid.Nil, second.ID)

	records, err := repo.GetAll(ctx, db)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// date DESC first, createdAt DESC within the same day
	assert.Equal(t, second.ID, records[0].ID)
	assert.Equal(t, sameDayEarlier.ID, records[1].ID)
	assert.Equal(t, first.ID, records[2].ID)
}

func TestRecordRepository_CreateRejectsInvalid(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewRecordRepository()
	ctx := context.Background()

	record := newRecord("2024-05-01", models.ResultWin, 0)
	record.Moves = 0

	err := repo.Create(ctx, db, record)
	assert.Error(t, err)

	records, err := repo.GetAll(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRecordRepository_GetAllNormalizesLegacyRecords(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewRecordRepository()
	ctx := context.Background()

	legacy := newRecord("2023-11-20", models.ResultWin, 500)
	legacy.HasAssist = true
	legacy.AssistAt = intPtr(2)
	require.NoError(t, repo.Create(ctx, db, legacy))

	records, err := repo.GetAll(ctx, db)
	require.NoError(t, err)
	require.Len(t, records, 1)

	require.Len(t, records[0].Events, 1)
	assert.Equal(t, models.EventAssist, records[0].Events[0].Type)
	assert.Equal(t, 2, records[0].Events[0].Move)

	// The raw read must still show the stored shape.
	raw, err := repo.GetAllRaw(ctx, db)
	require.NoError(t, err)
	require.Len(t, raw, 1)
	assert.Empty(t, raw[0].Events)
	assert.True(t, raw[0].HasAssist)
}

func TestRecordRepository_Update(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewRecordRepository()
	ctx := context.Background()

	record := newRecord("2024-05-01", models.ResultLose, 1000)
	require.NoError(t, repo.Create(ctx, db, record))

	record.Result = models.ResultWin
	record.Moves = 5
	record.TotalCost = 500
	record.Memo = strPtr("got it on the slide")
	require.NoError(t, repo.Update(ctx, db, record))

	got, err := repo.GetByID(ctx, db, record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ResultWin, got.Result)
	assert.Equal(t, 5, got.Moves)
	assert.Equal(t, "got it on the slide", *got.Memo)
	assert.Equal(t, int64(1000), got.CreatedAt, "createdAt is immutable across puts")
}

func TestRecordRepository_UpsertOverwritesById(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewRecordRepository()
	ctx := context.Background()

	record := newRecord("2024-05-01", models.ResultLose, 1000)
	require.NoError(t, repo.Create(ctx, db, record))

	incoming := newRecord("2024-05-01", models.ResultWin, 1000)
	incoming.ID = record.ID
	incoming.PrizeName = "Figure"
	incoming.Events = datatypes.JSONSlice[models.PlayEvent]{
		{Type: models.EventAssist, Move: 2},
	}
	require.NoError(t, repo.Upsert(ctx, db, incoming))

	records, err := repo.GetAllRaw(ctx, db)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, record.ID, records[0].ID)
	assert.Equal(t, "Figure", records[0].PrizeName)
	assert.Equal(t, models.ResultWin, records[0].Result)

	// Same payload again is a no-op on content.
	require.NoError(t, repo.Upsert(ctx, db, incoming))
	after, err := repo.GetAllRaw(ctx, db)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, records[0].CreatedAt, after[0].CreatedAt)
	assert.Equal(t, records[0].PrizeName, after[0].PrizeName)
}

func TestRecordRepository_UpsertInsertsUnknownId(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewRecordRepository()
	ctx := context.Background()

	record := newRecord("2024-05-01", models.ResultWin, 1000)
	record.ID = uuid.New()
	require.NoError(t, repo.Upsert(ctx, db, record))

	got, err := repo.GetByID(ctx, db, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)
}

func TestRecordRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewRecordRepository()
	ctx := context.Background()

	record := newRecord("2024-05-01", models.ResultWin, 1000)
	require.NoError(t, repo.Create(ctx, db, record))

	require.NoError(t, repo.Delete(ctx, db, record.ID))

	records, err := repo.GetAll(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, records)

	err = repo.Delete(ctx, db, record.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRecordRepository_DeleteAll(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewRecordRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, db, newRecord("2024-05-01", models.ResultWin, 1)))
	require.NoError(t, repo.Create(ctx, db, newRecord("2024-05-02", models.ResultLose, 2)))

	require.NoError(t, repo.DeleteAll(ctx, db))

	records, err := repo.GetAll(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, records)
}
