package planner

import (
	"fmt"
	"io"

	"github.com/yummytutel/idfm/pkg/navitia"
	"github.com/yummytutel/idfm/pkg/util"
	"golang.org/x/exp/slices"
)

// PrintItinerary writes one line per section of the first journey.
// It returns an error when the response has no usable journey structure, lines already written stay written.
func PrintItinerary(w io.Writer, response *navitia.JourneysResponse) error {
	journey, err := response.FirstJourney()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "\n🧭 Journey details:")

	if journey.Sections == nil {
		return navitia.ErrMissingSections
	}

	for _, section := range journey.Sections {
		fmt.Fprintln(w, SectionLine(section))
	}

	fmt.Fprintln(w)

	return nil
}

// SectionLine renders a single section, the template is picked by exact mode match
func SectionLine(section navitia.Section) string {
	mode := section.ModeOrUnknown()
	from := section.FromName()
	to := section.ToName()
	departure := navitia.FormatClock(section.DepartureDateTime)
	arrival := navitia.FormatClock(section.ArrivalDateTime)

	switch {
	case mode == navitia.SectionModeWalking:
		return fmt.Sprintf(" 🚶 Walk from %s to %s (%s → %s)", from, to, departure, arrival)
	case mode == navitia.SectionModeBus:
		return fmt.Sprintf(" 🚌 Bus %s: %s → %s (%s → %s)", section.LineCode(), from, to, departure, arrival)
	case slices.Contains(navitia.RailModes, mode):
		return fmt.Sprintf(" 🚆 %s %s: %s → %s (%s → %s)", section.NetworkName(), section.LineCode(), from, to, departure, arrival)
	default:
		return fmt.Sprintf(" ➡️ %s from %s to %s (%s → %s)", util.Capitalize(string(mode)), from, to, departure, arrival)
	}
}
