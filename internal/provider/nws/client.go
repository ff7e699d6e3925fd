// Package nws fetches zone forecasts and active advisories from the National
// Weather Service API.
package nws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/shataken-source/seawatch/internal/geo"
	"github.com/shataken-source/seawatch/internal/marine"
	"github.com/shataken-source/seawatch/internal/provider/resilience"
)

const (
	// ProviderName identifies this provider in logs and breaker state.
	ProviderName = "nws"

	// DefaultBaseURL is the NWS API base URL.
	DefaultBaseURL = "https://api.weather.gov"
)

// ClientConfig holds configuration for the NWS client.
type ClientConfig struct {
	// BaseURL overrides the API base URL (tests).
	BaseURL string

	// UserAgent identifies this service to NOAA (required by the API terms).
	UserAgent string

	// HTTPClient is the resilient HTTP client. If nil, a client with
	// defaults is created.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client resolves coordinates to forecast zones and fetches the zone's
// period forecast and active advisories.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new NWS client.
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

// Forecast resolves the point to its forecast zone, then fetches the period
// forecast and the zone's active advisories concurrently. The two feeds
// degrade independently: either one failing still returns the other's data;
// only both failing (or the point resolution itself failing) yields
// marine.ErrProviderUnavailable.
func (c *Client) Forecast(ctx context.Context, point geo.Coordinate) (marine.ForecastBundle, error) {
	zone, forecastURL, err := c.resolvePoint(ctx, point)
	if err != nil {
		c.logger.Warn().Err(err).
			Float64("lat", point.Lat).
			Float64("lon", point.Lon).
			Msg("point resolution failed")
		return marine.ForecastBundle{}, fmt.Errorf("resolving forecast point: %w", marine.ErrProviderUnavailable)
	}

	var (
		wg          sync.WaitGroup
		periods     []marine.ForecastPeriod
		periodsErr  error
		advisories  []marine.Advisory
		advisoryErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		periods, periodsErr = c.fetchPeriods(ctx, forecastURL)
	}()
	go func() {
		defer wg.Done()
		advisories, advisoryErr = c.fetchAdvisories(ctx, zone)
	}()
	wg.Wait()

	if periodsErr != nil && advisoryErr != nil {
		return marine.ForecastBundle{}, fmt.Errorf("forecast and advisories both failed: %w", marine.ErrProviderUnavailable)
	}
	if periodsErr != nil {
		c.logger.Warn().Err(periodsErr).Str("zone", zone).Msg("period forecast unavailable, using advisories only")
	}
	if advisoryErr != nil {
		c.logger.Warn().Err(advisoryErr).Str("zone", zone).Msg("advisories feed unavailable, using forecast only")
	}

	return marine.ForecastBundle{Periods: periods, Advisories: advisories}, nil
}

// resolvePoint maps a coordinate onto its forecast zone ID and forecast URL.
func (c *Client) resolvePoint(ctx context.Context, point geo.Coordinate) (zone, forecastURL string, err error) {
	url := fmt.Sprintf("%s/points/%.4f,%.4f", c.baseURL, point.Lat, point.Lon)

	resp, err := c.httpClient.Get(ctx, url, c.userAgent)
	if err != nil {
		return "", "", fmt.Errorf("fetching point metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("point endpoint returned status %d", resp.StatusCode)
	}

	var pr pointResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return "", "", fmt.Errorf("decoding point response: %w", err)
	}

	// The zone is the last path segment of the zone URL, e.g.
	// ".../zones/forecast/GMZ630" -> "GMZ630".
	zoneURL := pr.Properties.ForecastZone
	zone = zoneURL[strings.LastIndex(zoneURL, "/")+1:]
	if zone == "" || pr.Properties.Forecast == "" {
		return "", "", fmt.Errorf("point response missing zone or forecast URL")
	}
	return zone, pr.Properties.Forecast, nil
}

func (c *Client) fetchPeriods(ctx context.Context, forecastURL string) ([]marine.ForecastPeriod, error) {
	resp, err := c.httpClient.Get(ctx, forecastURL, c.userAgent)
	if err != nil {
		return nil, fmt.Errorf("fetching forecast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forecast endpoint returned status %d", resp.StatusCode)
	}

	var fr forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return nil, fmt.Errorf("decoding forecast response: %w", err)
	}

	periods := make([]marine.ForecastPeriod, 0, len(fr.Properties.Periods))
	for _, p := range fr.Properties.Periods {
		start, _ := time.Parse(time.RFC3339, p.StartTime)
		periods = append(periods, marine.ForecastPeriod{
			Name:          p.Name,
			StartTime:     start,
			WindSpeed:     p.WindSpeed,
			ShortForecast: p.ShortForecast,
			Detailed:      p.DetailedForecast,
		})
	}
	return periods, nil
}

func (c *Client) fetchAdvisories(ctx context.Context, zone string) ([]marine.Advisory, error) {
	url := fmt.Sprintf("%s/alerts/active?zone=%s", c.baseURL, zone)

	resp, err := c.httpClient.Get(ctx, url, c.userAgent)
	if err != nil {
		return nil, fmt.Errorf("fetching advisories: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("advisories endpoint returned status %d", resp.StatusCode)
	}

	var ar alertResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return nil, fmt.Errorf("decoding advisories response: %w", err)
	}

	advisories := make([]marine.Advisory, 0, len(ar.Features))
	for _, f := range ar.Features {
		expires, _ := time.Parse(time.RFC3339, f.Properties.Expires)
		advisories = append(advisories, marine.Advisory{
			Event:          f.Properties.Event,
			Headline:       f.Properties.Headline,
			SourceSeverity: f.Properties.Severity,
			Instruction:    f.Properties.Instruction,
			Expires:        expires,
		})
	}
	return advisories, nil
}

// NWS API response shapes.

type pointResponse struct {
	Properties struct {
		Forecast     string `json:"forecast"`
		ForecastZone string `json:"forecastZone"`
	} `json:"properties"`
}

type forecastResponse struct {
	Properties struct {
		Periods []struct {
			Name             string `json:"name"`
			StartTime        string `json:"startTime"`
			WindSpeed        string `json:"windSpeed"`
			ShortForecast    string `json:"shortForecast"`
			DetailedForecast string `json:"detailedForecast"`
		} `json:"periods"`
	} `json:"properties"`
}

type alertResponse struct {
	Features []struct {
		Properties struct {
			Event       string `json:"event"`
			Headline    string `json:"headline"`
			Severity    string `json:"severity"`
			Instruction string `json:"instruction"`
			Expires     string `json:"expires"`
		} `json:"properties"`
	} `json:"features"`
}
