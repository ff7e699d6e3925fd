package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shataken-source/seawatch/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, time.Hour, cfg.CycleInterval)
	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, 24*time.Hour, cfg.TripWindow)
	assert.Equal(t, "weather-alerts", cfg.PubSubTopic)
	assert.False(t, cfg.TelemetryEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CYCLE_INTERVAL", "30m")
	t.Setenv("CYCLE_CONCURRENCY", "8")
	t.Setenv("OTEL_ENABLED", "true")

	cfg := config.Load()

	assert.Equal(t, 30*time.Minute, cfg.CycleInterval)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.True(t, cfg.TelemetryEnabled)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("CYCLE_INTERVAL", "whenever")
	t.Setenv("CYCLE_CONCURRENCY", "many")

	cfg := config.Load()

	assert.Equal(t, time.Hour, cfg.CycleInterval)
	assert.Equal(t, 3, cfg.Concurrency)
}

func TestValidate_RequiresSchedulerKeyOutsideDevelopment(t *testing.T) {
	cfg := config.Load()
	cfg.Environment = "production"
	cfg.SchedulerKey = ""

	require.Error(t, cfg.Validate())

	cfg.SchedulerKey = "secret"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_RejectsTightInterval(t *testing.T) {
	cfg := config.Load()
	cfg.CycleInterval = 10 * time.Second

	assert.Error(t, cfg.Validate())
}
