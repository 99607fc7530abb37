package planner

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yummytutel/idfm/pkg/config"
	"github.com/yummytutel/idfm/pkg/navitia"
)

func TestDepartureTime(t *testing.T) {
	eventStart := time.Date(2025, 11, 7, 14, 0, 0, 0, time.UTC)

	assert.Equal(t, "13:23", DepartureTime(eventStart, 30, 7).Format(clockFormat))
	assert.Equal(t, "14:00", DepartureTime(eventStart, 0, 0).Format(clockFormat))

	// Long journeys land on the previous day without complaint
	early := DepartureTime(time.Date(2025, 11, 7, 0, 10, 0, 0, time.UTC), 30, 7)
	assert.Equal(t, time.Date(2025, 11, 6, 23, 33, 0, 0, time.UTC), early)
}

func TestSectionLine(t *testing.T) {
	tests := []struct {
		name     string
		section  navitia.Section
		expected string
	}{
		{
			name: "walking",
			section: navitia.Section{
				Mode:              "walking",
				From:              &navitia.Place{Name: "Domicile"},
				To:                &navitia.Place{Name: "Arrêt Mairie"},
				DepartureDateTime: "20251107T132300",
				ArrivalDateTime:   "20251107T133000",
			},
			expected: " 🚶 Walk from Domicile to Arrêt Mairie (13:23 → 13:30)",
		},
		{
			name: "bus with line code",
			section: navitia.Section{
				Mode:                "bus",
				From:                &navitia.Place{Name: "Mairie"},
				To:                  &navitia.Place{Name: "Gare"},
				DepartureDateTime:   "20251107T133000",
				ArrivalDateTime:     "20251107T134500",
				DisplayInformations: &navitia.DisplayInformations{Code: "175", Network: "RATP"},
			},
			expected: " 🚌 Bus 175: Mairie → Gare (13:30 → 13:45)",
		},
		{
			name: "bus without display informations",
			section: navitia.Section{
				Mode:              "bus",
				From:              &navitia.Place{Name: "Mairie"},
				To:                &navitia.Place{Name: "Gare"},
				DepartureDateTime: "20251107T133000",
				ArrivalDateTime:   "20251107T134500",
			},
			expected: " 🚌 Bus : Mairie → Gare (13:30 → 13:45)",
		},
		{
			name: "metro",
			section: navitia.Section{
				Mode:                "metro",
				From:                &navitia.Place{Name: "Saint-Lazare"},
				To:                  &navitia.Place{Name: "Montparnasse"},
				DepartureDateTime:   "20251107T135000",
				ArrivalDateTime:     "20251107T140500",
				DisplayInformations: &navitia.DisplayInformations{Code: "13", Network: "Métro"},
			},
			expected: " 🚆 Métro 13: Saint-Lazare → Montparnasse (13:50 → 14:05)",
		},
		{
			name: "rer",
			section: navitia.Section{
				Mode:                "rer",
				From:                &navitia.Place{Name: "La Défense"},
				To:                  &navitia.Place{Name: "Châtelet"},
				DepartureDateTime:   "20251107T135000",
				ArrivalDateTime:     "bad",
				DisplayInformations: &navitia.DisplayInformations{Code: "A", Network: "RER"},
			},
			expected: " 🚆 RER A: La Défense → Châtelet (13:50 → ??:??)",
		},
		{
			name: "mode match is case sensitive",
			section: navitia.Section{
				Mode:                "Bus",
				From:                &navitia.Place{Name: "Mairie"},
				To:                  &navitia.Place{Name: "Gare"},
				DepartureDateTime:   "20251107T133000",
				ArrivalDateTime:     "20251107T134500",
				DisplayInformations: &navitia.DisplayInformations{Code: "175"},
			},
			expected: " ➡️ Bus from Mairie to Gare (13:30 → 13:45)",
		},
		{
			name: "unknown mode is capitalized",
			section: navitia.Section{
				Mode:              "bike",
				From:              &navitia.Place{Name: "Vélib"},
				To:                &navitia.Place{Name: "Bureau"},
				DepartureDateTime: "20251107T133000",
				ArrivalDateTime:   "20251107T134500",
			},
			expected: " ➡️ Bike from Vélib to Bureau (13:30 → 13:45)",
		},
		{
			name:     "missing everything",
			section:  navitia.Section{},
			expected: " ➡️ Unknown from Unknown to Unknown (??:?? → ??:??)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SectionLine(tt.section))
		})
	}
}

func TestPrintItinerary(t *testing.T) {
	response, err := navitia.ParseJourneys([]byte(`{"journeys":[{"duration":600,"sections":[` +
		`{"mode":"walking","from":{"name":"A"},"to":{"name":"B"},"departure_date_time":"20251107T135000","arrival_date_time":"20251107T140000"}` +
		`]}]}`))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, PrintItinerary(&out, response))

	assert.Equal(t, "\n🧭 Journey details:\n 🚶 Walk from A to B (13:50 → 14:00)\n\n", out.String())
}

func TestPrintItineraryMalformed(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected error
		output   string
	}{
		{"no journeys", `{}`, navitia.ErrNoJourney, ""},
		{"no sections", `{"journeys":[{"duration":600}]}`, navitia.ErrMissingSections, "\n🧭 Journey details:\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response, err := navitia.ParseJourneys([]byte(tt.body))
			require.NoError(t, err)

			var out bytes.Buffer
			err = PrintItinerary(&out, response)

			assert.ErrorIs(t, err, tt.expected)
			assert.Equal(t, tt.output, out.String())
		})
	}
}

type fakeServers struct {
	calendar     *httptest.Server
	journeys     *httptest.Server
	journeyCalls atomic.Int32
}

func newFakeServers(t *testing.T, feed string, journeyStatus int, journeyBody string) *fakeServers {
	t.Helper()

	servers := &fakeServers{}

	servers.calendar = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/calendar")
		fmt.Fprint(w, feed)
	}))
	t.Cleanup(servers.calendar.Close)

	servers.journeys = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		servers.journeyCalls.Add(1)

		if r.Header.Get("apikey") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(journeyStatus)
		fmt.Fprint(w, journeyBody)
	}))
	t.Cleanup(servers.journeys.Close)

	return servers
}

func (s *fakeServers) planner(t *testing.T, out *bytes.Buffer) (*Planner, string) {
	t.Helper()

	dumpPath := filepath.Join(t.TempDir(), "data.json")

	cfg := config.Default()
	cfg.APIKey = "test-key"
	cfg.CalendarURL = s.calendar.URL + "/agenda.ics"
	cfg.JourneyAPIURL = s.journeys.URL
	cfg.Timezone = "UTC"
	cfg.TargetDate = "2025-11-07"
	cfg.DumpPath = dumpPath
	require.NoError(t, cfg.Validate())

	planner := NewPlanner(cfg, out)
	planner.Now = func() time.Time { return time.Date(2025, 11, 7, 7, 0, 0, 0, time.UTC) }

	return planner, dumpPath
}

const feedWithEvents = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//leaveby//test//EN\r\n" +
	"BEGIN:VEVENT\r\nUID:late@leaveby\r\nDTSTAMP:20251101T000000Z\r\nDTSTART:20251107T160000Z\r\nDTEND:20251107T170000Z\r\nSUMMARY:Late\r\nEND:VEVENT\r\n" +
	"BEGIN:VEVENT\r\nUID:first@leaveby\r\nDTSTAMP:20251101T000000Z\r\nDTSTART:20251107T140000Z\r\nDTEND:20251107T150000Z\r\nSUMMARY:First\r\nEND:VEVENT\r\n" +
	"BEGIN:VEVENT\r\nUID:tomorrow@leaveby\r\nDTSTAMP:20251101T000000Z\r\nDTSTART:20251108T080000Z\r\nDTEND:20251108T090000Z\r\nSUMMARY:Tomorrow\r\nEND:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

const journeyResponse = `{"journeys":[{"duration":1850,"sections":[` +
	`{"mode":"walking","from":{"name":"Domicile"},"to":{"name":"Mairie"},"departure_date_time":"20251107T132300","arrival_date_time":"20251107T133000"},` +
	`{"mode":"bus","from":{"name":"Mairie"},"to":{"name":"Gare"},"departure_date_time":"20251107T133000","arrival_date_time":"20251107T134500","display_informations":{"code":"175","network":"RATP"}},` +
	`{"mode":"metro","from":{"name":"Gare"},"to":{"name":"Bureau"},"departure_date_time":"20251107T134500","arrival_date_time":"20251107T135300","display_informations":{"code":"13","network":"Métro"}}` +
	`]}]}`

func TestRun(t *testing.T) {
	servers := newFakeServers(t, feedWithEvents, http.StatusOK, journeyResponse)

	var out bytes.Buffer
	planner, dumpPath := servers.planner(t, &out)

	require.NoError(t, planner.Run(context.Background()))

	assert.Equal(t, strings.Join([]string{
		"📆 Searching events for 2025-11-07...",
		"📅 First event starts at: 2025-11-07 14:00:00+00:00",
		"🌐 Calling IDFM API with datetime: 20251107T140000",
		"✅ API call success: 200",
		"🕒 Estimated travel time: 30 minutes",
		"🚶 Leave at: 13:23 to arrive for 14:00 (includes 7 min margin)",
		"",
		"🧭 Journey details:",
		" 🚶 Walk from Domicile to Mairie (13:23 → 13:30)",
		" 🚌 Bus 175: Mairie → Gare (13:30 → 13:45)",
		" 🚆 Métro 13: Gare → Bureau (13:45 → 13:53)",
		"",
		"",
	}, "\n"), out.String())

	assert.Equal(t, int32(1), servers.journeyCalls.Load())

	dump, err := os.ReadFile(dumpPath)
	require.NoError(t, err)
	assert.JSONEq(t, journeyResponse, string(dump))
}

func TestRunNoEvent(t *testing.T) {
	feed := "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//leaveby//test//EN\r\n" +
		"BEGIN:VEVENT\r\nUID:tomorrow@leaveby\r\nDTSTAMP:20251101T000000Z\r\nDTSTART:20251108T080000Z\r\nDTEND:20251108T090000Z\r\nSUMMARY:Tomorrow\r\nEND:VEVENT\r\n" +
		"END:VCALENDAR\r\n"

	servers := newFakeServers(t, feed, http.StatusOK, journeyResponse)

	var out bytes.Buffer
	planner, dumpPath := servers.planner(t, &out)

	require.NoError(t, planner.Run(context.Background()))

	assert.Equal(t, "📆 Searching events for 2025-11-07...\n❌ No events found for this date.\n", out.String())
	assert.Equal(t, int32(0), servers.journeyCalls.Load())

	_, err := os.Stat(dumpPath)
	assert.True(t, os.IsNotExist(err))
}

func TestRunWithoutDuration(t *testing.T) {
	servers := newFakeServers(t, feedWithEvents, http.StatusOK, `{"error":{"id":"no_solution","message":"no solution found"}}`)

	var out bytes.Buffer
	planner, _ := servers.planner(t, &out)

	require.NoError(t, planner.Run(context.Background()))

	output := out.String()
	assert.Contains(t, output, "✅ API call success: 200\n")
	assert.True(t, strings.HasSuffix(output, "⚠️ Could not extract travel duration from response.\n"), output)
	assert.NotContains(t, output, "Leave at")
	assert.NotContains(t, output, "Journey details")
}

func TestRunWithMalformedSections(t *testing.T) {
	servers := newFakeServers(t, feedWithEvents, http.StatusOK, `{"journeys":[{"duration":600}]}`)

	var out bytes.Buffer
	planner, _ := servers.planner(t, &out)

	require.NoError(t, planner.Run(context.Background()))

	output := out.String()
	assert.Contains(t, output, "🚶 Leave at: 13:43 to arrive for 14:00 (includes 7 min margin)\n")
	assert.True(t, strings.HasSuffix(output, "🧭 Journey details:\n⚠️ Could not parse detailed directions: journey has no sections\n"), output)
}

func TestRunJourneyAPIFailure(t *testing.T) {
	servers := newFakeServers(t, feedWithEvents, http.StatusServiceUnavailable, `down`)

	var out bytes.Buffer
	planner, _ := servers.planner(t, &out)

	err := planner.Run(context.Background())
	assert.ErrorIs(t, err, navitia.ErrUnexpectedStatus)
	assert.NotContains(t, out.String(), "API call success")
}

func TestRunCalendarFailure(t *testing.T) {
	servers := newFakeServers(t, feedWithEvents, http.StatusOK, journeyResponse)

	var out bytes.Buffer
	planner, _ := servers.planner(t, &out)
	// The journey server rejects requests without the API key, the calendar fetch sends none
	planner.Config.CalendarURL = servers.journeys.URL + "/not-a-calendar"

	err := planner.Run(context.Background())
	assert.Error(t, err)
	assert.Equal(t, "📆 Searching events for 2025-11-07...\n", out.String())
}
