package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/apognu/gocal"
	"github.com/rs/zerolog/log"
	"github.com/yummytutel/idfm/pkg/util"
	"golang.org/x/exp/slices"
)

// FirstEventStart returns the earliest event start falling on the date of target, in target's location.
// ok is false when no event starts that day.
func FirstEventStart(feed io.Reader, target time.Time) (start time.Time, ok bool, err error) {
	location := target.Location()
	day := util.StartOfDay(target, location)

	feed, err = closeOpenEndedEvents(feed)
	if err != nil {
		return time.Time{}, false, err
	}

	// Parse a wider window than the day itself so events touching midnight and recurrences are expanded,
	// the date is matched below
	windowStart := day.AddDate(0, 0, -1)
	windowEnd := day.AddDate(0, 0, 2)

	parser := gocal.NewParser(feed)
	parser.Start, parser.End = &windowStart, &windowEnd
	parser.Strict = gocal.StrictParams{Mode: gocal.StrictModeFailAttribute}

	if err := parser.Parse(); err != nil {
		return time.Time{}, false, fmt.Errorf("parse calendar feed: %w", err)
	}

	log.Debug().Int("events", len(parser.Events)).Msg("Parsed calendar feed")

	events := slices.DeleteFunc(parser.Events, func(event gocal.Event) bool {
		if event.Start == nil || isAllDay(event) {
			return true
		}

		return !util.SameDate(eventStart(event, location), day)
	})

	if len(events) == 0 {
		return time.Time{}, false, nil
	}

	first := slices.MinFunc(events, func(a, b gocal.Event) int {
		return eventStart(a, location).Compare(eventStart(b, location))
	})

	log.Debug().
		Int("matching", len(events)).
		Str("summary", first.Summary).
		Str("location", first.Location).
		Msg("Selected first event of the day")

	return eventStart(first, location), true, nil
}

// eventStart expresses the start in location. Floating times are wall clock times of location,
// the parser reads them in time.Local.
func eventStart(event gocal.Event, location *time.Location) time.Time {
	start := *event.Start

	if isFloating(event.RawStart) {
		return time.Date(start.Year(), start.Month(), start.Day(),
			start.Hour(), start.Minute(), start.Second(), start.Nanosecond(), location)
	}

	return start.In(location)
}

func isFloating(raw gocal.RawDate) bool {
	return raw.Params["TZID"] == "" && !strings.HasSuffix(strings.ToUpper(raw.Value), "Z")
}

// isAllDay reports events whose DTSTART is a bare date, those have no time of day to arrive by
func isAllDay(event gocal.Event) bool {
	if strings.EqualFold(event.RawStart.Params["VALUE"], "DATE") {
		return true
	}

	return len(event.RawStart.Value) == len("20060102") && !strings.Contains(event.RawStart.Value, "T")
}
