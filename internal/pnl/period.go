package pnl

import (
	"fmt"
	"time"
)

// Period selects the reporting window for the P&L aggregation.
type Period string

const (
	// PeriodMonth covers the current calendar month.
	PeriodMonth Period = "month"
	// PeriodFY covers the current Indian financial year (1 April-31 March).
	PeriodFY Period = "fy"
	// PeriodAll covers all recorded history.
	PeriodAll Period = "all"
)

// ParsePeriod validates a caller-supplied period token. An empty token
// defaults to the financial year, matching the dashboard's default view.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodMonth, PeriodFY, PeriodAll:
		return Period(s), nil
	case "":
		return PeriodFY, nil
	}
	return "", fmt.Errorf("pnl: unknown period %q", s)
}

// FYStart returns the most recent 1 April on or before today.
func FYStart(today time.Time) time.Time {
	year := today.Year()
	if today.Month() < time.April {
		year--
	}
	return time.Date(year, time.April, 1, 0, 0, 0, 0, today.Location())
}

// FYLabel renders the financial year for display, e.g. "FY 2026-27".
func FYLabel(today time.Time) string {
	start := FYStart(today)
	return fmt.Sprintf("FY %d-%02d", start.Year(), (start.Year()+1)%100)
}

// Contains reports whether a transaction date qualifies for the period.
// Absent dates (zero time) qualify for no period, including all-time.
func (p Period) Contains(today, date time.Time) bool {
	if date.IsZero() {
		return false
	}
	switch p {
	case PeriodMonth:
		return date.Year() == today.Year() && date.Month() == today.Month()
	case PeriodFY:
		return !date.Before(FYStart(today))
	case PeriodAll:
		return true
	}
	return false
}
