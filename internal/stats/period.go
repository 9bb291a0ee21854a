package stats

import (
	"time"

	"github.com/Ether-4432/crane-game-log/internal/models"
)

type PeriodType string

const (
	PeriodDay   PeriodType = "day"
	PeriodMonth PeriodType = "month"
	PeriodYear  PeriodType = "year"
	PeriodAll   PeriodType = "all"
)

func (p PeriodType) IsValid() bool {
	switch p {
	case PeriodDay, PeriodMonth, PeriodYear, PeriodAll:
		return true
	}
	return false
}

// inPeriod reports whether a record's play date falls in the same calendar
// day, month, or year as target. Comparison is by calendar components of the
// parsed date, never by elapsed time, so month and year boundaries behave the
// way a wall calendar does.
func inPeriod(record *models.PlayRecord, period PeriodType, target time.Time) bool {
	if period == PeriodAll {
		return true
	}

	date, err := record.PlayDate()
	if err != nil {
		// An unparseable date cannot be placed on the calendar.
		return false
	}

	if date.Year() != target.Year() {
		return false
	}
	if period == PeriodYear {
		return true
	}

	if date.Month() != target.Month() {
		return false
	}
	if period == PeriodMonth {
		return true
	}

	return date.Day() == target.Day()
}

// ShiftTarget moves the reference date by delta units of the period's
// granularity. Rollover and leap years follow standard calendar arithmetic,
// and PeriodAll has no granularity to move in.
func ShiftTarget(target time.Time, period PeriodType, delta int) time.Time {
	switch period {
	case PeriodDay:
		return target.AddDate(0, 0, delta)
	case PeriodMonth:
		return target.AddDate(0, delta, 0)
	case PeriodYear:
		return target.AddDate(delta, 0, 0)
	default:
		return target
	}
}
