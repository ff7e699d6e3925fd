// Package ndbc fetches live buoy telemetry from the NDBC realtime2 feed.
package ndbc

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shataken-source/seawatch/internal/geo"
	"github.com/shataken-source/seawatch/internal/marine"
	"github.com/shataken-source/seawatch/internal/provider/resilience"
)

const (
	// ProviderName identifies this provider in logs and breaker state.
	ProviderName = "ndbc"

	// DefaultBaseURL is the NDBC realtime observation feed.
	DefaultBaseURL = "https://www.ndbc.noaa.gov/data/realtime2"
)

// Realtime2 column positions after whitespace splitting.
const (
	colWindSpeed      = 6
	colGust           = 7
	colWaveHeight     = 8
	colDominantPeriod = 9
	colPressure       = 12
	colAirTemp        = 13
	colWaterTemp      = 14
	colVisibility     = 16
	minColumns        = 15
)

// ClientConfig holds configuration for the NDBC client.
type ClientConfig struct {
	// BaseURL overrides the realtime2 feed URL (tests).
	BaseURL string

	// UserAgent identifies this service to NOAA.
	UserAgent string

	// HTTPClient is the resilient HTTP client. If nil, a client with
	// defaults is created.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client fetches and parses NDBC realtime2 station reports.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new NDBC client.
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

// LatestObservation fetches the most recent report for a buoy station. A
// station that cannot be reached, or whose feed carries no data rows, yields
// marine.ErrProviderUnavailable.
func (c *Client) LatestObservation(ctx context.Context, station geo.Station) (marine.RawObservation, error) {
	url := fmt.Sprintf("%s/%s.txt", c.baseURL, station.ID)

	resp, err := c.httpClient.Get(ctx, url, c.userAgent)
	if err != nil {
		c.logger.Warn().Err(err).Str("station", station.ID).Msg("buoy fetch failed")
		return marine.RawObservation{}, fmt.Errorf("fetching buoy %s: %w", station.ID, marine.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return marine.RawObservation{}, fmt.Errorf("buoy %s returned status %d: %w",
			station.ID, resp.StatusCode, marine.ErrProviderUnavailable)
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// The first data row is the most recent report.
		obs, ok := parseRow(line, station)
		if !ok {
			continue
		}
		return obs, nil
	}
	if err := scanner.Err(); err != nil {
		return marine.RawObservation{}, fmt.Errorf("reading buoy %s feed: %w", station.ID, marine.ErrProviderUnavailable)
	}

	return marine.RawObservation{}, fmt.Errorf("buoy %s feed has no reports: %w", station.ID, marine.ErrProviderUnavailable)
}

// parseRow parses one realtime2 data row. Rows are whitespace delimited:
//
//	YY MM DD hh mm WDIR WSPD GST WVHT DPD APD MWD PRES ATMP WTMP DEWP VIS PTDY TIDE
func parseRow(line string, station geo.Station) (marine.RawObservation, bool) {
	fields := strings.Fields(line)
	if len(fields) < minColumns {
		return marine.RawObservation{}, false
	}

	obs := marine.RawObservation{
		StationID:       station.ID,
		StationName:     station.Name,
		ObservedAt:      parseTimestamp(fields),
		WindSpeedMS:     parseOrMissing(fields[colWindSpeed]),
		WindGustMS:      parseOrMissing(fields[colGust]),
		WaveHeightM:     parseOrMissing(fields[colWaveHeight]),
		DominantPeriodS: parseOrMissing(fields[colDominantPeriod]),
		PressureHPa:     parseOrMissing(fields[colPressure]),
		AirTempC:        parseOrMissing(fields[colAirTemp]),
		WaterTempC:      parseOrMissing(fields[colWaterTemp]),
	}
	if len(fields) > colVisibility {
		obs.VisibilityNM = parseOrMissing(fields[colVisibility])
	}
	return obs, true
}

// parseOrMissing converts one feed token into an optional reading. NDBC
// marks unreported values with "MM" or "999"; any other token that fails to
// parse is also treated as missing rather than a parse error, so a partial
// station outage degrades the observation instead of discarding it.
func parseOrMissing(token string) *float64 {
	if token == "MM" || token == "999" {
		return nil
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseTimestamp(fields []string) time.Time {
	year, err1 := strconv.Atoi(fields[0])
	month, err2 := strconv.Atoi(fields[1])
	day, err3 := strconv.Atoi(fields[2])
	hour, err4 := strconv.Atoi(fields[3])
	minute, err5 := strconv.Atoi(fields[4])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
		return time.Time{}
	}
	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
}
