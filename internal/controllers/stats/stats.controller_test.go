package statsController

import (
	"context"
	"testing"
	"time"

	"github.com/Ether-4432/crane-game-log/config"
	"github.com/Ether-4432/crane-game-log/internal/database"
	. "github.com/Ether-4432/crane-game-log/internal/models"
	"github.com/Ether-4432/crane-game-log/internal/repositories"
	"github.com/Ether-4432/crane-game-log/internal/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T) *StatsController {
	t.Helper()

	cfg := config.Config{DataDir: t.TempDir(), DatabaseName: "test.db"}
	db, err := database.New(cfg)
	require.NoError(t, err)
	require.NoError(t, db.MigrateModels())
	t.Cleanup(func() { _ = db.Close() })

	return &StatsController{
		recordRepo: repositories.New().Record,
		db:         db,
		Config:     cfg,
	}
}

func seedRecords(t *testing.T, c *StatsController, records []*PlayRecord) {
	t.Helper()

	ctx := context.Background()
	for _, record := range records {
		require.NoError(t, c.recordRepo.Create(ctx, c.db.SQL, record))
	}
}

func record(date string, result GameResult, totalCost int) *PlayRecord {
	return &PlayRecord{
		Date:        date,
		StoreName:   "タイトーステーション",
		PrizeName:   "ぬいぐるみ",
		CostPerPlay: 100,
		Moves:       totalCost / 100,
		TotalCost:   totalCost,
		Result:      result,
	}
}

func TestOverview_MonthFilter(t *testing.T) {
	c := newTestController(t)
	seedRecords(t, c, []*PlayRecord{
		record("2024-05-10", ResultWin, 800),
		record("2024-05-20", ResultLose, 300),
		record("2024-04-30", ResultWin, 500),
	})

	response, err := c.Overview(context.Background(), &SummaryRequest{
		Period:     "month",
		TargetDate: "2024-05-15",
	})
	require.NoError(t, err)

	assert.Equal(t, stats.PeriodMonth, response.Period)
	assert.Equal(t, "2024-05-15", response.TargetDate)
	assert.Equal(t, 2, response.TotalCount)
	assert.Equal(t, 1100, response.TotalSpent)
	assert.Equal(t, 1, response.WinCount)
	assert.Equal(t, 50, response.WinRate)
}

func TestOverview_DefaultsToAllPeriods(t *testing.T) {
	c := newTestController(t)
	seedRecords(t, c, []*PlayRecord{
		record("2020-01-01", ResultWin, 100),
		record("2024-05-10", ResultLose, 200),
	})

	response, err := c.Overview(context.Background(), &SummaryRequest{})
	require.NoError(t, err)

	assert.Equal(t, stats.PeriodAll, response.Period)
	assert.Equal(t, 2, response.TotalCount)
}

func TestOverview_DefaultTargetIsToday(t *testing.T) {
	c := newTestController(t)

	response, err := c.Overview(context.Background(), &SummaryRequest{Period: "day"})
	require.NoError(t, err)

	assert.Equal(t, time.Now().Format(PlayDateLayout), response.TargetDate)
}

func TestOverview_ShiftMovesTarget(t *testing.T) {
	c := newTestController(t)
	seedRecords(t, c, []*PlayRecord{
		record("2024-04-10", ResultWin, 400),
		record("2024-05-10", ResultLose, 300),
	})

	response, err := c.Overview(context.Background(), &SummaryRequest{
		Period:     "month",
		TargetDate: "2024-05-15",
		Shift:      -1,
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-04-15", response.TargetDate)
	assert.Equal(t, 1, response.TotalCount)
	assert.Equal(t, 1, response.WinCount)
}

func TestOverview_StoreNameFilter(t *testing.T) {
	c := newTestController(t)

	other := record("2024-05-10", ResultWin, 700)
	other.StoreName = "GiGO 秋葉原"
	seedRecords(t, c, []*PlayRecord{
		record("2024-05-10", ResultWin, 800),
		other,
	})

	response, err := c.Overview(context.Background(), &SummaryRequest{
		StoreName: "GiGO 秋葉原",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, response.TotalCount)
	assert.Equal(t, 700, response.TotalSpent)
}

func TestOverview_RejectsUnknownPeriod(t *testing.T) {
	c := newTestController(t)

	_, err := c.Overview(context.Background(), &SummaryRequest{Period: "week"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestOverview_RejectsMalformedTargetDate(t *testing.T) {
	c := newTestController(t)

	_, err := c.Overview(context.Background(), &SummaryRequest{TargetDate: "15/05/2024"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFinishChart_ReturnsPNG(t *testing.T) {
	c := newTestController(t)

	win := record("2024-05-10", ResultWin, 800)
	finish := "橋渡し"
	win.FinishType = &finish
	seedRecords(t, c, []*PlayRecord{win})

	png, err := c.FinishChart(context.Background(), &SummaryRequest{})
	require.NoError(t, err)

	require.Greater(t, len(png), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestFinishChart_EmptyDatasetStillRenders(t *testing.T) {
	c := newTestController(t)

	png, err := c.FinishChart(context.Background(), &SummaryRequest{})
	require.NoError(t, err)

	require.Greater(t, len(png), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}
