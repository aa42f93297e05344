// utils/dates.go
package utils

import "time"

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// MonthBounds returns the first instant of the given calendar month and
// the first instant of the following month.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// PreviousMonth resolves the calendar month before t, rolling back to
// December of the prior year in January.
func PreviousMonth(t time.Time) (int, time.Month) {
	year, month := t.Year(), t.Month()
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}
