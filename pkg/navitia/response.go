package navitia

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"

	"github.com/rs/zerolog/log"
)

var (
	ErrNoJourney       = errors.New("response has no journeys")
	ErrMissingSections = errors.New("journey has no sections")
)

type JourneysResponse struct {
	Journeys []Journey `json:"journeys"`

	// Raw is the body exactly as the API returned it
	Raw json.RawMessage `json:"-"`
}

type Journey struct {
	// Duration in seconds, kept raw so a malformed value only makes the duration unavailable
	Duration json.RawMessage `json:"duration"`
	Sections []Section       `json:"sections"`

	DepartureDateTime string `json:"departure_date_time"`
	ArrivalDateTime   string `json:"arrival_date_time"`
}

type Section struct {
	Type string      `json:"type"`
	Mode SectionMode `json:"mode"`

	From *Place `json:"from"`
	To   *Place `json:"to"`

	DepartureDateTime string `json:"departure_date_time"`
	ArrivalDateTime   string `json:"arrival_date_time"`

	DisplayInformations *DisplayInformations `json:"display_informations"`
}

type Place struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type DisplayInformations struct {
	Code           string `json:"code"`
	Network        string `json:"network"`
	CommercialMode string `json:"commercial_mode"`
	Direction      string `json:"direction"`
}

// ParseJourneys decodes a journeys response. A body that is not JSON is an error,
// a body of the wrong shape only logs a warning and returns whatever could be decoded.
func ParseJourneys(body []byte) (*JourneysResponse, error) {
	if !json.Valid(body) {
		return nil, errors.New("journey response is not valid JSON")
	}

	response := &JourneysResponse{
		Raw: json.RawMessage(body),
	}

	if err := json.Unmarshal(body, response); err != nil {
		log.Warn().Err(err).Msg("Journey response does not have the expected shape")
	}

	return response, nil
}

// FirstJourney is the best journey option, the only one ever used
func (r *JourneysResponse) FirstJourney() (*Journey, error) {
	if r == nil || len(r.Journeys) == 0 {
		return nil, ErrNoJourney
	}

	return &r.Journeys[0], nil
}

// DurationMinutes reads the first journey's duration, floored to whole minutes
func (r *JourneysResponse) DurationMinutes() (int64, bool) {
	journey, err := r.FirstJourney()
	if err != nil {
		return 0, false
	}

	seconds, ok := journey.DurationSeconds()
	if !ok {
		return 0, false
	}

	return floorDiv(seconds, 60), true
}

func (j *Journey) DurationSeconds() (int64, bool) {
	raw := string(j.Duration)
	if raw == "" || raw == "null" {
		return 0, false
	}

	if seconds, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return seconds, true
	}

	if seconds, err := strconv.ParseFloat(raw, 64); err == nil {
		return int64(math.Floor(seconds)), true
	}

	return 0, false
}

func floorDiv(a int64, b int64) int64 {
	quotient := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		quotient--
	}

	return quotient
}

func (s Section) ModeOrUnknown() SectionMode {
	if s.Mode == "" {
		return SectionModeUnknown
	}

	return s.Mode
}

func (s Section) FromName() string {
	return placeName(s.From)
}

func (s Section) ToName() string {
	return placeName(s.To)
}

func (s Section) LineCode() string {
	if s.DisplayInformations == nil {
		return ""
	}

	return s.DisplayInformations.Code
}

func (s Section) NetworkName() string {
	if s.DisplayInformations == nil {
		return ""
	}

	return s.DisplayInformations.Network
}

func placeName(place *Place) string {
	if place == nil || place.Name == "" {
		return "Unknown"
	}

	return place.Name
}
