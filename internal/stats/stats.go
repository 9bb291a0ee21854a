// Package stats computes play statistics from record collections. Every
// function here is pure: fixed inputs produce the same summary on every call
// and nothing touches storage.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/Ether-4432/crane-game-log/internal/models"
)

// DefaultFinishLabel groups win records that never had a finish type set.
const DefaultFinishLabel = "未設定"

// finishPalette is reused round-robin by rank once the slices are sorted, so
// the biggest slice is always the first color.
var finishPalette = []string{
	"#FF6384",
	"#36A2EB",
	"#FFCE56",
	"#4BC0C0",
	"#9966FF",
	"#FF9F40",
	"#C9CBCF",
}

// Filter selects which records the summary is computed over. StoreName is a
// plain equality match when non-empty; Target is only consulted for periods
// narrower than PeriodAll.
type Filter struct {
	Period    PeriodType
	Target    time.Time
	StoreName string
}

// StoreFilter scopes a summary to one store across all time, which is how the
// per-store detail view reads its numbers.
func StoreFilter(storeName string) Filter {
	return Filter{Period: PeriodAll, StoreName: storeName}
}

// FinishSlice is one entry of the finish-type breakdown chart.
type FinishSlice struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Pct   float64 `json:"pct"`
	Color string  `json:"color"`
}

type Summary struct {
	TotalCount        int                  `json:"totalCount"`
	TotalSpent        int                  `json:"totalSpent"`
	WinCount          int                  `json:"winCount"`
	LoseCount         int                  `json:"loseCount"`
	WinRate           int                  `json:"winRate"`
	WinTotalCost      int                  `json:"winTotalCost"`
	LoseTotalCost     int                  `json:"loseTotalCost"`
	WinAvgCost        int                  `json:"winAvgCost"`
	LoseAvgCost       int                  `json:"loseAvgCost"`
	RealAvgCostPerWin int                  `json:"realAvgCostPerWin"`
	FinishCounts      map[string]int       `json:"finishCounts"`
	FinishData        []FinishSlice        `json:"finishData"`
	WinRecords        []*models.PlayRecord `json:"winRecords"`
	LoseRecords       []*models.PlayRecord `json:"loseRecords"`
	RecentWins        []*models.PlayRecord `json:"recentWins"`
}

// Summarize computes the full statistics summary over the records matching
// filter. Records must already be in display order (date descending, then
// createdAt descending) because recentWins takes the first wins as-is.
func Summarize(records []*models.PlayRecord, filter Filter) Summary {
	filtered := make([]*models.PlayRecord, 0, len(records))
	for _, record := range records {
		if filter.StoreName != "" && record.StoreName != filter.StoreName {
			continue
		}
		if !inPeriod(record, filter.Period, filter.Target) {
			continue
		}
		filtered = append(filtered, record)
	}

	summary := Summary{
		TotalCount:   len(filtered),
		FinishCounts: map[string]int{},
		FinishData:   []FinishSlice{},
		WinRecords:   []*models.PlayRecord{},
		LoseRecords:  []*models.PlayRecord{},
		RecentWins:   []*models.PlayRecord{},
	}

	for _, record := range filtered {
		summary.TotalSpent += record.TotalCost
		if record.Result == models.ResultWin {
			summary.WinRecords = append(summary.WinRecords, record)
			summary.WinTotalCost += record.TotalCost
		} else {
			summary.LoseRecords = append(summary.LoseRecords, record)
			summary.LoseTotalCost += record.TotalCost
		}
	}
	summary.WinCount = len(summary.WinRecords)
	summary.LoseCount = len(summary.LoseRecords)

	summary.WinRate = roundedRatio(summary.WinCount*100, summary.TotalCount)
	summary.WinAvgCost = roundedRatio(summary.WinTotalCost, summary.WinCount)
	summary.LoseAvgCost = roundedRatio(summary.LoseTotalCost, summary.LoseCount)
	// The headline number: lose-session spend counts toward what each prize
	// actually cost, not just the winning session's plays.
	summary.RealAvgCostPerWin = roundedRatio(summary.TotalSpent, summary.WinCount)

	for _, record := range summary.WinRecords {
		summary.FinishCounts[finishLabel(record)]++
	}
	summary.FinishData = buildFinishData(summary.FinishCounts, summary.WinCount)

	for _, record := range summary.WinRecords {
		if len(summary.RecentWins) == recentWinsLimit {
			break
		}
		if record.PhotoURL == nil || *record.PhotoURL == "" {
			continue
		}
		summary.RecentWins = append(summary.RecentWins, record)
	}

	return summary
}

const recentWinsLimit = 6

// roundedRatio is round(numerator/denominator) with a zero denominator mapped
// to zero instead of a division error.
func roundedRatio(numerator, denominator int) int {
	if denominator == 0 {
		return 0
	}
	return int(math.Round(float64(numerator) / float64(denominator)))
}

func finishLabel(record *models.PlayRecord) string {
	if record.FinishType == nil || *record.FinishType == "" {
		return DefaultFinishLabel
	}
	return *record.FinishType
}

// buildFinishData orders the tally by count descending (label ascending on
// ties, so equal counts render in a stable order) and assigns percentages and
// palette colors by rank.
func buildFinishData(counts map[string]int, winCount int) []FinishSlice {
	data := make([]FinishSlice, 0, len(counts))
	for label, count := range counts {
		data = append(data, FinishSlice{Label: label, Count: count})
	}

	sort.Slice(data, func(i, j int) bool {
		if data[i].Count != data[j].Count {
			return data[i].Count > data[j].Count
		}
		return data[i].Label < data[j].Label
	})

	for i := range data {
		data[i].Pct = float64(data[i].Count) / float64(winCount) * 100
		data[i].Color = finishPalette[i%len(finishPalette)]
	}

	return data
}
