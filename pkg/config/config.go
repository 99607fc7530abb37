package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/yummytutel/idfm/pkg/util"
	"gopkg.in/yaml.v3"

	_ "time/tzdata"
)

const (
	defaultCalendarURL   = "https://yummytutel.github.io/ical/filtr%C3%A9.ics"
	defaultJourneyAPIURL = "https://prim.iledefrance-mobilites.fr"
	defaultTimezone      = "Europe/Paris"
	defaultDumpPath      = "data.json"

	// Minutes added on top of the journey duration
	defaultSafetyMarginMinutes = 7

	dateFormat = "2006-01-02"
)

var (
	defaultHome        = Coordinates{Latitude: 48.91591740393165, Longitude: 2.226859988192813}
	defaultDestination = Coordinates{Latitude: 48.82498550415039, Longitude: 2.330345630645752}
)

type Coordinates struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// ParseCoordinates reads a "latitude,longitude" pair
func ParseCoordinates(value string) (Coordinates, error) {
	latitudeString, longitudeString, found := strings.Cut(value, ",")
	if !found {
		return Coordinates{}, fmt.Errorf("coordinates %q are not in latitude,longitude form", value)
	}

	latitude, err := strconv.ParseFloat(strings.TrimSpace(latitudeString), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("invalid latitude in %q: %w", value, err)
	}
	longitude, err := strconv.ParseFloat(strings.TrimSpace(longitudeString), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("invalid longitude in %q: %w", value, err)
	}

	coordinates := Coordinates{Latitude: latitude, Longitude: longitude}

	return coordinates, coordinates.Validate()
}

func (c Coordinates) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range", c.Longitude)
	}

	return nil
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%s,%s", strconv.FormatFloat(c.Latitude, 'f', -1, 64), strconv.FormatFloat(c.Longitude, 'f', -1, 64))
}

type Config struct {
	APIKey        string `yaml:"api_key"`
	CalendarURL   string `yaml:"calendar_url"`
	JourneyAPIURL string `yaml:"journey_api_url"`

	Home        Coordinates `yaml:"home"`
	Destination Coordinates `yaml:"destination"`

	// TargetDate is YYYY-MM-DD, empty means today
	TargetDate          string `yaml:"target_date"`
	SafetyMarginMinutes int    `yaml:"safety_margin_minutes"`
	Timezone            string `yaml:"timezone"`

	DumpPath string `yaml:"dump_path"`
}

func Default() Config {
	return Config{
		CalendarURL:         defaultCalendarURL,
		JourneyAPIURL:       defaultJourneyAPIURL,
		Home:                defaultHome,
		Destination:         defaultDestination,
		SafetyMarginMinutes: defaultSafetyMarginMinutes,
		Timezone:            defaultTimezone,
		DumpPath:            defaultDumpPath,
	}
}

// LoadFile overlays the values present in a YAML file on top of c
func (c *Config) LoadFile(path string) error {
	log.Debug().Str("path", path).Msg("Loading config file")

	configYaml, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(configYaml))
	decoder.KnownFields(true)

	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}

	return nil
}

// ApplyEnvironment takes the API key and calendar URL from the environment when set
func (c *Config) ApplyEnvironment(env map[string]string) {
	if apiKey := util.FirstEnvironmentVariable(env, "LEAVEBY_API_KEY", "IDFM_API_KEY"); apiKey != "" {
		c.APIKey = apiKey
	}

	if calendarURL := env["LEAVEBY_CALENDAR_URL"]; calendarURL != "" {
		c.CalendarURL = calendarURL
	}
}

func (c Config) Validate() error {
	if c.CalendarURL == "" {
		return errors.New("calendar URL is not set")
	}
	if c.JourneyAPIURL == "" {
		return errors.New("journey API URL is not set")
	}
	if c.SafetyMarginMinutes < 0 {
		return fmt.Errorf("safety margin must not be negative, got %d minutes", c.SafetyMarginMinutes)
	}
	if err := c.Home.Validate(); err != nil {
		return fmt.Errorf("home: %w", err)
	}
	if err := c.Destination.Validate(); err != nil {
		return fmt.Errorf("destination: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.TargetDate != "" {
		if _, err := time.Parse(dateFormat, c.TargetDate); err != nil {
			return fmt.Errorf("target date %q is not YYYY-MM-DD: %w", c.TargetDate, err)
		}
	}

	return nil
}

func (c Config) Location() (*time.Location, error) {
	location, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}

	return location, nil
}

// Date resolves the target date to midnight in the configured timezone
func (c Config) Date(now time.Time) (time.Time, error) {
	location, err := c.Location()
	if err != nil {
		return time.Time{}, err
	}

	if c.TargetDate == "" {
		return util.StartOfDay(now, location), nil
	}

	date, err := time.ParseInLocation(dateFormat, c.TargetDate, location)
	if err != nil {
		return time.Time{}, fmt.Errorf("target date %q is not YYYY-MM-DD: %w", c.TargetDate, err)
	}

	return date, nil
}
