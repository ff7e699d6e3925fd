// Package coops fetches tide predictions from the NOAA CO-OPS API.
package coops

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/shataken-source/seawatch/internal/geo"
	"github.com/shataken-source/seawatch/internal/marine"
	"github.com/shataken-source/seawatch/internal/provider/resilience"
)

const (
	// ProviderName identifies this provider in logs and breaker state.
	ProviderName = "coops"

	// DefaultBaseURL is the CO-OPS data retrieval endpoint.
	DefaultBaseURL = "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter"
)

// ClientConfig holds configuration for the CO-OPS client.
type ClientConfig struct {
	// BaseURL overrides the API endpoint (tests).
	BaseURL string

	// UserAgent identifies this service to NOAA.
	UserAgent string

	// HTTPClient is the resilient HTTP client. If nil, a client with
	// defaults is created.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client fetches high/low tide predictions. Tides are an optional signal:
// callers treat a fetch failure as "no tide signal", never as a reason to
// abort an evaluation.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new CO-OPS client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "seawatch/1.0"
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.Config{Name: ProviderName})
	}

	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Predictions fetches high/low tide predictions for a station over a date
// range.
func (c *Client) Predictions(ctx context.Context, station geo.Station, from, until time.Time) ([]marine.TidePrediction, error) {
	params := url.Values{}
	params.Add("begin_date", from.Format("20060102"))
	params.Add("end_date", until.Format("20060102"))
	params.Add("station", station.ID)
	params.Add("product", "predictions")
	params.Add("datum", "MLLW")
	params.Add("time_zone", "lst_ldt")
	params.Add("interval", "hilo")
	params.Add("units", "english")
	params.Add("format", "json")
	params.Add("application", "seawatch")

	resp, err := c.httpClient.Get(ctx, fmt.Sprintf("%s?%s", c.baseURL, params.Encode()), c.userAgent)
	if err != nil {
		c.logger.Warn().Err(err).Str("station", station.ID).Msg("tide fetch failed")
		return nil, fmt.Errorf("fetching tides for station %s: %w", station.ID, marine.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tide station %s returned status %d: %w",
			station.ID, resp.StatusCode, marine.ErrProviderUnavailable)
	}

	var tr tideResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("decoding tide response: %w", marine.ErrProviderUnavailable)
	}

	predictions := make([]marine.TidePrediction, 0, len(tr.Predictions))
	for _, p := range tr.Predictions {
		eventTime, err := time.Parse("2006-01-02 15:04", p.Time)
		if err != nil {
			continue
		}
		height, err := strconv.ParseFloat(p.Height, 64)
		if err != nil {
			continue
		}

		tideType := marine.TideLow
		if p.Type == "H" {
			tideType = marine.TideHigh
		}
		predictions = append(predictions, marine.TidePrediction{
			Time:     eventTime,
			Type:     tideType,
			HeightFt: height,
		})
	}
	return predictions, nil
}

// CO-OPS API response shape. Heights and times arrive as strings.

type tideResponse struct {
	Predictions []struct {
		Time   string `json:"t"`
		Height string `json:"v"`
		Type   string `json:"type"`
	} `json:"predictions"`
}
