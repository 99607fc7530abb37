package planner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"github.com/yummytutel/idfm/pkg/calendar"
	"github.com/yummytutel/idfm/pkg/config"
	"github.com/yummytutel/idfm/pkg/navitia"
)

const (
	userAgent = "leaveby/1.0"

	dateFormat       = "2006-01-02"
	eventStartFormat = "2006-01-02 15:04:05-07:00"
	clockFormat      = "15:04"
)

// Planner runs the whole pipeline once: calendar, first event, journey, departure, itinerary
type Planner struct {
	Config   config.Config
	HTTP     *resty.Client
	Journeys *navitia.Client
	Out      io.Writer
	Now      func() time.Time
}

func NewPlanner(cfg config.Config, out io.Writer) *Planner {
	httpClient := resty.New().SetHeader("User-Agent", userAgent)

	return &Planner{
		Config:   cfg,
		HTTP:     httpClient,
		Journeys: navitia.NewClient(httpClient, cfg.JourneyAPIURL, cfg.APIKey, cfg.DumpPath),
		Out:      out,
		Now:      time.Now,
	}
}

// Run only returns transport, HTTP and feed parsing errors. Missing data after a successful
// API call is reported on Out and the run still succeeds.
func (p *Planner) Run(ctx context.Context) error {
	targetDate, err := p.Config.Date(p.Now())
	if err != nil {
		return err
	}

	fmt.Fprintf(p.Out, "📆 Searching events for %s...\n", targetDate.Format(dateFormat))

	feed, err := calendar.Fetch(ctx, p.HTTP, p.Config.CalendarURL)
	if err != nil {
		return err
	}

	eventStart, found, err := calendar.FirstEventStart(bytes.NewReader(feed), targetDate)
	if err != nil {
		return err
	}

	if !found {
		fmt.Fprintln(p.Out, "❌ No events found for this date.")
		return nil
	}

	fmt.Fprintln(p.Out, "📅 First event starts at:", eventStart.Format(eventStartFormat))

	query := navitia.JourneyQuery{
		From:        p.Config.Home,
		To:          p.Config.Destination,
		ArrivalTime: eventStart,
	}

	fmt.Fprintln(p.Out, "🌐 Calling IDFM API with datetime:", navitia.FormatDateTime(query.ArrivalTime))

	if p.Journeys.APIKey == "" {
		log.Warn().Msg("No API key configured, set LEAVEBY_API_KEY")
	}

	journeys, status, err := p.Journeys.PlanJourney(ctx, query)
	if err != nil {
		return err
	}

	fmt.Fprintln(p.Out, "✅ API call success:", status)

	duration, ok := journeys.DurationMinutes()
	if !ok {
		fmt.Fprintln(p.Out, "⚠️ Could not extract travel duration from response.")
		return nil
	}

	fmt.Fprintf(p.Out, "🕒 Estimated travel time: %d minutes\n", duration)

	departure := DepartureTime(eventStart, duration, p.Config.SafetyMarginMinutes)

	fmt.Fprintf(p.Out, "🚶 Leave at: %s to arrive for %s (includes %d min margin)\n",
		departure.Format(clockFormat),
		eventStart.Format(clockFormat),
		p.Config.SafetyMarginMinutes,
	)

	if err := PrintItinerary(p.Out, journeys); err != nil {
		fmt.Fprintln(p.Out, "⚠️ Could not parse detailed directions:", err)
	}

	return nil
}
