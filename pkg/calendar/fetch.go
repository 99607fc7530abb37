package calendar

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// Fetch downloads the raw calendar feed. Any transport error or non 2xx status is returned.
func Fetch(ctx context.Context, client *resty.Client, feedURL string) ([]byte, error) {
	log.Debug().Str("url", feedURL).Msg("Downloading calendar feed")

	resp, err := client.R().
		SetContext(ctx).
		Get(feedURL)
	if err != nil {
		return nil, fmt.Errorf("download calendar feed: %w", err)
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("download calendar feed %s: %w: %s", feedURL, ErrUnexpectedStatus, resp.Status())
	}

	log.Debug().Int("bytes", len(resp.Body())).Str("latency", resp.Time().String()).Msg("Downloaded calendar feed")

	return resp.Body(), nil
}
