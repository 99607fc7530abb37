package planner

import "time"

// DepartureTime is the latest time to leave: the event start minus travel time and safety margin.
// A result already in the past is returned as is.
func DepartureTime(eventStart time.Time, durationMinutes int64, marginMinutes int) time.Time {
	totalOffset := durationMinutes + int64(marginMinutes)

	return eventStart.Add(-time.Duration(totalOffset) * time.Minute)
}
