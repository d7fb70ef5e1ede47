package data

import (
	"time"

	"github.com/Nadirh/retirement-planning/pkg/types"
)

// FilterByDateRange keeps observations within [start, end]. A zero bound is
// treated as open.
func FilterByDateRange(data []types.MonthlyObservation, start, end time.Time) []types.MonthlyObservation {
	if len(data) == 0 {
		return data
	}

	var filtered []types.MonthlyObservation
	for _, obs := range data {
		if !start.IsZero() && obs.Date.Before(start) {
			continue
		}
		if !end.IsZero() && obs.Date.After(end) {
			continue
		}
		filtered = append(filtered, obs)
	}

	return filtered
}

// ParseMonth parses "2006-01" or "2006-01-02"; empty input yields the zero time
func ParseMonth(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return parseDate(s)
}
