// Package config loads worker configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the worker's runtime configuration.
type Config struct {
	// Port is the listen port for the ops HTTP surface.
	Port string

	// Environment is the deployment environment (development, staging,
	// production).
	Environment string

	// LogLevel is the zerolog level name (debug, info, warn, error).
	LogLevel string

	// SchedulerKey signs the bearer tokens accepted on the cycle trigger
	// endpoint. Required outside development.
	SchedulerKey string

	// CycleInterval is the fallback ticker interval when no external
	// scheduler is configured.
	CycleInterval time.Duration

	// Concurrency bounds concurrent subject evaluations per cycle.
	Concurrency int

	// TripWindow is how far ahead trip departures are considered imminent.
	TripWindow time.Duration

	// CycleBudget is the soft deadline for a cycle. Zero disables it.
	CycleBudget time.Duration

	// PubSubProjectID and PubSubTopic route notification payloads to the
	// platform dispatcher. When the project is empty, notifications are
	// written to the log instead.
	PubSubProjectID string
	PubSubTopic     string

	// Provider endpoints, overridable for staging against recorded fixtures.
	NDBCBaseURL  string
	NWSBaseURL   string
	COOPSBaseURL string

	// UserAgent identifies this service to the NOAA APIs.
	UserAgent string

	// Telemetry settings.
	TelemetryEnabled bool
	OTLPEndpoint     string
}

// Load builds a Config from environment variables, applying defaults for
// anything unset.
func Load() Config {
	return Config{
		Port:             getEnv("APP_PORT", "8080"),
		Environment:      getEnv("APP_ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		SchedulerKey:     os.Getenv("SCHEDULER_KEY"),
		CycleInterval:    getDuration("CYCLE_INTERVAL", time.Hour),
		Concurrency:      getInt("CYCLE_CONCURRENCY", 3),
		TripWindow:       getDuration("TRIP_WINDOW", 24*time.Hour),
		CycleBudget:      getDuration("CYCLE_BUDGET", 0),
		PubSubProjectID:  os.Getenv("PUBSUB_PROJECT_ID"),
		PubSubTopic:      getEnv("PUBSUB_TOPIC", "weather-alerts"),
		NDBCBaseURL:      os.Getenv("NDBC_BASE_URL"),
		NWSBaseURL:       os.Getenv("NWS_BASE_URL"),
		COOPSBaseURL:     os.Getenv("COOPS_BASE_URL"),
		UserAgent:        getEnv("NOAA_USER_AGENT", "seawatch/1.0 (ops@seawatch.example)"),
		TelemetryEnabled: getBool("OTEL_ENABLED", false),
		OTLPEndpoint:     getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}
}

// Validate rejects configurations that must not reach production.
func (c Config) Validate() error {
	if c.Environment != "development" && c.SchedulerKey == "" {
		return fmt.Errorf("SCHEDULER_KEY is required in %s", c.Environment)
	}
	if c.CycleInterval < time.Minute {
		return fmt.Errorf("CYCLE_INTERVAL %s is below the one minute floor", c.CycleInterval)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("CYCLE_CONCURRENCY must be at least 1")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
