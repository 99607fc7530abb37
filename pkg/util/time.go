package util

import (
	"time"
)

// StartOfDay returns midnight of the day t falls on, as seen from location
func StartOfDay(t time.Time, location *time.Location) time.Time {
	local := t.In(location)

	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, location)
}

func SameDate(a time.Time, b time.Time) bool {
	aYear, aMonth, aDay := a.Date()
	bYear, bMonth, bDay := b.Date()

	return aYear == bYear && aMonth == bMonth && aDay == bDay
}
