package stats

import (
	"testing"
	"time"

	"github.com/Ether-4432/crane-game-log/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func record(date string, result models.GameResult, totalCost int) *models.PlayRecord {
	return &models.PlayRecord{
		Date:        date,
		StoreName:   "タイトーステーション",
		PrizeName:   "ぬいぐるみ",
		CostPerPlay: 100,
		Moves:       totalCost / 100,
		TotalCost:   totalCost,
		Result:      result,
	}
}

func mayTarget() time.Time {
	return time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)
}

func TestSummarize_MonthFilter(t *testing.T) {
	records := []*models.PlayRecord{
		record("2024-05-02", models.ResultWin, 500),
		record("2024-05-01", models.ResultLose, 300),
		record("2024-04-30", models.ResultWin, 900),
	}

	summary := Summarize(records, Filter{Period: PeriodMonth, Target: mayTarget()})

	assert.Equal(t, 2, summary.TotalCount)
	assert.Equal(t, 800, summary.TotalSpent)
	assert.Equal(t, 1, summary.WinCount)
	assert.Equal(t, 1, summary.LoseCount)
	assert.Equal(t, 50, summary.WinRate)
	assert.Equal(t, 500, summary.WinTotalCost)
	assert.Equal(t, 300, summary.LoseTotalCost)
	assert.Equal(t, 500, summary.WinAvgCost)
	assert.Equal(t, 300, summary.LoseAvgCost)
	assert.Equal(t, 800, summary.RealAvgCostPerWin)
}

func TestSummarize_EmptyPeriodIsAllZero(t *testing.T) {
	records := []*models.PlayRecord{
		record("2024-05-02", models.ResultWin, 500),
	}
	target := time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)

	summary := Summarize(records, Filter{Period: PeriodDay, Target: target})

	assert.Equal(t, 0, summary.TotalCount)
	assert.Equal(t, 0, summary.TotalSpent)
	assert.Equal(t, 0, summary.WinRate)
	assert.Equal(t, 0, summary.WinAvgCost)
	assert.Equal(t, 0, summary.LoseAvgCost)
	assert.Equal(t, 0, summary.RealAvgCostPerWin)
	assert.Empty(t, summary.FinishData)
	assert.Empty(t, summary.RecentWins)
}

func TestSummarize_NoRecords(t *testing.T) {
	summary := Summarize(nil, Filter{Period: PeriodAll})

	assert.Equal(t, 0, summary.TotalCount)
	assert.Equal(t, 0, summary.WinRate)
}

func TestSummarize_WinRateRounding(t *testing.T) {
	tests := []struct {
		name     string
		wins     int
		losses   int
		expected int
	}{
		{name: "one of three rounds up", wins: 1, losses: 2, expected: 33},
		{name: "two of three rounds up", wins: 2, losses: 1, expected: 67},
		{name: "one of two", wins: 1, losses: 1, expected: 50},
		{name: "all wins", wins: 4, losses: 0, expected: 100},
		{name: "no wins", wins: 0, losses: 5, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var records []*models.PlayRecord
			for i := 0; i < tt.wins; i++ {
				records = append(records, record("2024-05-01", models.ResultWin, 100))
			}
			for i := 0; i < tt.losses; i++ {
				records = append(records, record("2024-05-01", models.ResultLose, 100))
			}

			summary := Summarize(records, Filter{Period: PeriodAll})

			assert.Equal(t, tt.expected, summary.WinRate)
		})
	}
}

func TestSummarize_RealAvgCostPerWinIncludesLoseSpend(t *testing.T) {
	records := []*models.PlayRecord{
		record("2024-05-01", models.ResultWin, 1000),
		record("2024-05-02", models.ResultLose, 700),
		record("2024-05-03", models.ResultWin, 300),
	}

	summary := Summarize(records, Filter{Period: PeriodAll})

	require.Equal(t, 2, summary.WinCount)
	assert.Equal(t, 2000, summary.TotalSpent)
	assert.Equal(t, 1000, summary.RealAvgCostPerWin)

	// Rounding never drifts the reconstructed total by more than half a play
	// per win.
	drift := summary.RealAvgCostPerWin*summary.WinCount - summary.TotalSpent
	if drift < 0 {
		drift = -drift
	}
	assert.LessOrEqual(t, drift, summary.WinCount/2+1)
}

func TestSummarize_AvgCostRounding(t *testing.T) {
	records := []*models.PlayRecord{
		record("2024-05-01", models.ResultWin, 500),
		record("2024-05-02", models.ResultWin, 501),
		record("2024-05-03", models.ResultLose, 100),
		record("2024-05-04", models.ResultLose, 101),
	}

	summary := Summarize(records, Filter{Period: PeriodAll})

	assert.Equal(t, 501, summary.WinAvgCost, "500.5 rounds up")
	assert.Equal(t, 101, summary.LoseAvgCost, "100.5 rounds up")
}

func TestSummarize_StoreNameFilter(t *testing.T) {
	other := record("2024-05-01", models.ResultWin, 900)
	other.StoreName = "GiGO"

	records := []*models.PlayRecord{
		record("2024-05-02", models.ResultWin, 500),
		other,
		record("2024-05-03", models.ResultLose, 200),
	}

	summary := Summarize(records, StoreFilter("タイトーステーション"))

	assert.Equal(t, 2, summary.TotalCount)
	assert.Equal(t, 700, summary.TotalSpent)
	assert.Equal(t, 1, summary.WinCount)
}

func TestSummarize_FinishData(t *testing.T) {
	a1 := record("2024-05-01", models.ResultWin, 100)
	a1.FinishType = strPtr("A")
	a2 := record("2024-05-02", models.ResultWin, 100)
	a2.FinishType = strPtr("A")
	b := record("2024-05-03", models.ResultWin, 100)
	b.FinishType = strPtr("B")

	summary := Summarize([]*models.PlayRecord{a1, a2, b}, Filter{Period: PeriodAll})

	require.Len(t, summary.FinishData, 2)
	assert.Equal(t, "A", summary.FinishData[0].Label)
	assert.Equal(t, 2, summary.FinishData[0].Count)
	assert.InDelta(t, 66.67, summary.FinishData[0].Pct, 0.01)
	assert.Equal(t, "B", summary.FinishData[1].Label)
	assert.Equal(t, 1, summary.FinishData[1].Count)
	assert.InDelta(t, 33.33, summary.FinishData[1].Pct, 0.01)
}

func TestSummarize_FinishCountsDefaultLabel(t *testing.T) {
	unset := record("2024-05-01", models.ResultWin, 100)
	empty := record("2024-05-02", models.ResultWin, 100)
	empty.FinishType = strPtr("")
	tagged := record("2024-05-03", models.ResultWin, 100)
	tagged.FinishType = strPtr("橋渡し")
	lose := record("2024-05-04", models.ResultLose, 100)
	lose.FinishType = strPtr("橋渡し")

	summary := Summarize([]*models.PlayRecord{unset, empty, tagged, lose}, Filter{Period: PeriodAll})

	assert.Equal(t, map[string]int{
		DefaultFinishLabel: 2,
		"橋渡し":              1,
	}, summary.FinishCounts, "lose records never contribute to finish counts")
}

func TestSummarize_FinishDataTieBreaksByLabel(t *testing.T) {
	b := record("2024-05-01", models.ResultWin, 100)
	b.FinishType = strPtr("B")
	a := record("2024-05-02", models.ResultWin, 100)
	a.FinishType = strPtr("A")

	summary := Summarize([]*models.PlayRecord{b, a}, Filter{Period: PeriodAll})

	require.Len(t, summary.FinishData, 2)
	assert.Equal(t, "A", summary.FinishData[0].Label)
	assert.Equal(t, "B", summary.FinishData[1].Label)
}

func TestSummarize_FinishPaletteCycles(t *testing.T) {
	labels := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	records := make([]*models.PlayRecord, 0, len(labels))
	for i, label := range labels {
		r := record("2024-05-01", models.ResultWin, 100)
		r.FinishType = strPtr(label)
		// Distinct counts keep the rank order fixed.
		for j := 0; j <= len(labels)-i; j++ {
			records = append(records, r)
		}
	}

	summary := Summarize(records, Filter{Period: PeriodAll})

	require.Len(t, summary.FinishData, 8)
	for _, slice := range summary.FinishData {
		assert.NotEmpty(t, slice.Color)
	}
	assert.Equal(t, summary.FinishData[0].Color, summary.FinishData[7].Color,
		"eighth slice wraps around to the first palette color")
	assert.NotEqual(t, summary.FinishData[0].Color, summary.FinishData[1].Color)
}

func TestSummarize_RecentWins(t *testing.T) {
	var records []*models.PlayRecord
	for i := 0; i < 8; i++ {
		r := record("2024-05-0"+string(rune('1'+i)), models.ResultWin, 100)
		r.PhotoURL = strPtr("https://photos.example/" + string(rune('a'+i)) + ".jpg")
		records = append(records, r)
	}
	noPhoto := record("2024-05-09", models.ResultWin, 100)
	blankPhoto := record("2024-05-09", models.ResultWin, 100)
	blankPhoto.PhotoURL = strPtr("")
	lose := record("2024-05-09", models.ResultLose, 100)
	lose.PhotoURL = strPtr("https://photos.example/lose.jpg")
	records = append([]*models.PlayRecord{noPhoto, blankPhoto, lose}, records...)

	summary := Summarize(records, Filter{Period: PeriodAll})

	require.Len(t, summary.RecentWins, 6)
	// Input order is preserved; the photoless and lose entries at the front
	// were skipped, not counted against the cap.
	assert.Equal(t, "https://photos.example/a.jpg", *summary.RecentWins[0].PhotoURL)
	assert.Equal(t, "https://photos.example/f.jpg", *summary.RecentWins[5].PhotoURL)
}

func TestSummarize_IsPure(t *testing.T) {
	records := []*models.PlayRecord{
		record("2024-05-02", models.ResultWin, 500),
		record("2024-05-01", models.ResultLose, 300),
	}
	filter := Filter{Period: PeriodMonth, Target: mayTarget()}

	first := Summarize(records, filter)
	second := Summarize(records, filter)

	assert.Equal(t, first, second)
	assert.Equal(t, "2024-05-02", records[0].Date, "input slice is untouched")
}
