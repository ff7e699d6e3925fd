package nws_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shataken-source/seawatch/internal/geo"
	"github.com/shataken-source/seawatch/internal/marine"
	"github.com/shataken-source/seawatch/internal/provider/nws"
	"github.com/shataken-source/seawatch/internal/provider/resilience"
)

func testClient(baseURL string) *nws.Client {
	return nws.NewClient(nws.ClientConfig{
		BaseURL: baseURL,
		Logger:  zerolog.Nop(),
		HTTPClient: resilience.NewClient(resilience.Config{
			Name:            "nws-test",
			MaxRetries:      1,
			InitialInterval: time.Millisecond,
		}),
	})
}

// newServer returns a test server emulating the three NWS endpoints. The
// forecast and alerts handlers can be overridden per test.
func newServer(t *testing.T, forecast, alerts http.HandlerFunc) *httptest.Server {
	t.Helper()

	var server *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/points/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"properties":{"forecast":"%s/gridpoints/TAE/60,40/forecast","forecastZone":"%s/zones/forecast/GMZ630"}}`,
			server.URL, server.URL)
	})
	mux.HandleFunc("/gridpoints/", forecast)
	mux.HandleFunc("/alerts/active", alerts)
	server = httptest.NewServer(mux)
	return server
}

func okForecast(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, `{"properties":{"periods":[
		{"name":"This Afternoon","startTime":"2026-06-12T12:00:00-05:00","windSpeed":"15 to 20 kt","shortForecast":"Scattered Showers","detailedForecast":"Southeast winds 15 to 20 knots."},
		{"name":"Tonight","startTime":"2026-06-12T18:00:00-05:00","windSpeed":"10 kt","shortForecast":"Clearing","detailedForecast":"South winds 10 knots."}
	]}}`)
}

func okAlerts(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, `{"features":[{"properties":{
		"event":"Small Craft Advisory",
		"headline":"Small Craft Advisory until 11 PM CDT",
		"severity":"Moderate",
		"instruction":"Inexperienced mariners should avoid navigating in these conditions.",
		"expires":"2026-06-13T04:00:00+00:00"
	}}]}`)
}

func TestForecast(t *testing.T) {
	server := newServer(t, okForecast, okAlerts)
	defer server.Close()

	bundle, err := testClient(server.URL).Forecast(context.Background(), geo.Coordinate{Lat: 30.1, Lon: -87.5})
	require.NoError(t, err)

	require.Len(t, bundle.Periods, 2)
	assert.Equal(t, "This Afternoon", bundle.Periods[0].Name)
	assert.Equal(t, "15 to 20 kt", bundle.Periods[0].WindSpeed)

	require.Len(t, bundle.Advisories, 1)
	adv := bundle.Advisories[0]
	assert.Equal(t, "Small Craft Advisory", adv.Event)
	assert.Equal(t, "Moderate", adv.SourceSeverity)
	assert.Equal(t, time.Date(2026, 6, 13, 4, 0, 0, 0, time.UTC), adv.Expires.UTC())
}

func TestForecast_AdvisoriesFeedDownStillReturnsPeriods(t *testing.T) {
	server := newServer(t, okForecast, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	defer server.Close()

	bundle, err := testClient(server.URL).Forecast(context.Background(), geo.Coordinate{Lat: 30.1, Lon: -87.5})
	require.NoError(t, err)

	assert.Len(t, bundle.Periods, 2)
	assert.Empty(t, bundle.Advisories)
}

func TestForecast_PeriodsFeedDownStillReturnsAdvisories(t *testing.T) {
	server := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, okAlerts)
	defer server.Close()

	bundle, err := testClient(server.URL).Forecast(context.Background(), geo.Coordinate{Lat: 30.1, Lon: -87.5})
	require.NoError(t, err)

	assert.Empty(t, bundle.Periods)
	assert.Len(t, bundle.Advisories, 1)
}

func TestForecast_BothFeedsDown(t *testing.T) {
	down := func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	server := newServer(t, down, down)
	defer server.Close()

	_, err := testClient(server.URL).Forecast(context.Background(), geo.Coordinate{Lat: 30.1, Lon: -87.5})
	require.Error(t, err)
	assert.ErrorIs(t, err, marine.ErrProviderUnavailable)
}

func TestForecast_PointResolutionFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := testClient(server.URL).Forecast(context.Background(), geo.Coordinate{Lat: 30.1, Lon: -87.5})
	require.Error(t, err)
	assert.ErrorIs(t, err, marine.ErrProviderUnavailable)
}
