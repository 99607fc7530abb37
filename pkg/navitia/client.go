package navitia

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// Client talks to the Navitia journeys endpoint published on the PRIM marketplace
type Client struct {
	HTTP    *resty.Client
	BaseURL string
	APIKey  string

	// DumpPath receives the indented response of every call, empty disables it
	DumpPath string
}

func NewClient(http *resty.Client, baseURL string, apiKey string, dumpPath string) *Client {
	return &Client{
		HTTP:     http,
		BaseURL:  baseURL,
		APIKey:   apiKey,
		DumpPath: dumpPath,
	}
}

// PlanJourney asks for journeys arriving by q.ArrivalTime.
// Transport errors, non 2xx statuses and non JSON bodies are returned as errors.
func (c *Client) PlanJourney(ctx context.Context, q JourneyQuery) (*JourneysResponse, int, error) {
	requestURL := q.URL(c.BaseURL)

	log.Debug().Str("url", requestURL).Msg("Querying journeys")

	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetHeader("apikey", c.APIKey).
		SetHeader("Accept", "application/json").
		Get(requestURL)
	if err != nil {
		return nil, 0, fmt.Errorf("query journeys: %w", err)
	}

	log.Debug().
		Int("status", resp.StatusCode()).
		Str("latency", resp.Time().String()).
		Msg("Journeys response")

	if !resp.IsSuccess() {
		return nil, resp.StatusCode(), fmt.Errorf("query journeys: %w: %s", ErrUnexpectedStatus, resp.Status())
	}

	journeys, err := ParseJourneys(resp.Body())
	if err != nil {
		return nil, resp.StatusCode(), err
	}

	if c.DumpPath != "" {
		if err := c.dump(journeys.Raw); err != nil {
			log.Error().Err(err).Str("path", c.DumpPath).Msg("Failed to write journey dump")
		}
	}

	return journeys, resp.StatusCode(), nil
}

func (c *Client) dump(body []byte) error {
	var indented bytes.Buffer
	if err := json.Indent(&indented, body, "", "    "); err != nil {
		return err
	}

	if err := os.WriteFile(c.DumpPath, indented.Bytes(), 0o644); err != nil {
		return err
	}

	log.Debug().Str("path", c.DumpPath).Int("bytes", indented.Len()).Msg("Wrote journey dump")

	return nil
}
