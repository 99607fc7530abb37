package navitia

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yummytutel/idfm/pkg/config"
)

const (
	journeysPath = "/marketplace/v2/navitia/journeys"

	// DateTimeFormat is the compact YYYYMMDDTHHMMSS form Navitia uses for every date time
	DateTimeFormat = "20060102T150405"
)

// JourneyQuery asks for journeys arriving at the destination by ArrivalTime
type JourneyQuery struct {
	From        config.Coordinates
	To          config.Coordinates
	ArrivalTime time.Time
}

func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeFormat)
}

// FormatClock turns a compact Navitia date time into HH:MM, anything unparseable becomes ??:??
func FormatClock(value string) string {
	parsed, err := time.Parse(DateTimeFormat, value)
	if err != nil {
		return "??:??"
	}

	return parsed.Format("15:04")
}

// coordinatesParameter renders the lon;lat form Navitia expects
func coordinatesParameter(coordinates config.Coordinates) string {
	return fmt.Sprintf("%s;%s",
		strconv.FormatFloat(coordinates.Longitude, 'f', -1, 64),
		strconv.FormatFloat(coordinates.Latitude, 'f', -1, 64),
	)
}

// URL builds the journeys request, keeping parameters in to, from, datetime_represents, datetime order
func (q JourneyQuery) URL(baseURL string) string {
	parameters := []string{
		"to=" + url.QueryEscape(coordinatesParameter(q.To)),
		"from=" + url.QueryEscape(coordinatesParameter(q.From)),
		"datetime_represents=arrival",
		"datetime=" + FormatDateTime(q.ArrivalTime),
	}

	return strings.TrimRight(baseURL, "/") + journeysPath + "?" + strings.Join(parameters, "&")
}
