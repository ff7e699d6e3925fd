// Package main provides the entrypoint for the seawatch alert worker.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/shataken-source/seawatch/internal/audit"
	"github.com/shataken-source/seawatch/internal/config"
	"github.com/shataken-source/seawatch/internal/database"
	"github.com/shataken-source/seawatch/internal/notify"
	"github.com/shataken-source/seawatch/internal/ops"
	"github.com/shataken-source/seawatch/internal/orchestrator"
	"github.com/shataken-source/seawatch/internal/provider/coops"
	"github.com/shataken-source/seawatch/internal/provider/ndbc"
	"github.com/shataken-source/seawatch/internal/provider/nws"
	"github.com/shataken-source/seawatch/internal/subject"
	"github.com/shataken-source/seawatch/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "seawatch-worker"

	// .env is optional; real deployments configure via the environment.
	_ = godotenv.Load() //nolint:errcheck // missing .env is fine

	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	log := zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Str("environment", cfg.Environment).
		Msg("starting seawatch worker")

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()

	// Initialize OpenTelemetry
	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.TelemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	// Connect to the booking database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Str("database", dbConfig.Database).
		Msg("database connected")

	resolver := subject.NewResolver(subject.ResolverConfig{
		Source:     subject.NewPostgresSource(pool),
		TripWindow: cfg.TripWindow,
		Logger:     log,
	})

	// Provider clients
	observations := ndbc.NewClient(ndbc.ClientConfig{
		BaseURL:   cfg.NDBCBaseURL,
		UserAgent: cfg.UserAgent,
		Logger:    log,
	})
	forecasts := nws.NewClient(nws.ClientConfig{
		BaseURL:   cfg.NWSBaseURL,
		UserAgent: cfg.UserAgent,
		Logger:    log,
	})
	tides := coops.NewClient(coops.ClientConfig{
		BaseURL:   cfg.COOPSBaseURL,
		UserAgent: cfg.UserAgent,
		Logger:    log,
	})

	// Notifier: Pub/Sub when a project is configured, otherwise log-only
	var notifier notify.Notifier
	if cfg.PubSubProjectID != "" {
		pubsubNotifier, err := notify.NewPubSubNotifier(ctx, notify.PubSubConfig{
			ProjectID: cfg.PubSubProjectID,
			TopicName: cfg.PubSubTopic,
			Logger:    log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize pubsub notifier")
		}
		defer func() {
			if closeErr := pubsubNotifier.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close pubsub notifier")
			}
		}()
		notifier = pubsubNotifier
		log.Info().
			Str("topic", cfg.PubSubTopic).
			Msg("pubsub notifier initialized")
	} else {
		notifier = notify.NewLogNotifier(log)
		log.Warn().Msg("no pubsub project configured, notifications go to the log")
	}

	orch, err := orchestrator.New(orchestrator.Config{
		Resolver:     resolver,
		Observations: observations,
		Forecasts:    forecasts,
		Tides:        tides,
		Notifier:     notifier,
		Audit:        audit.NewPostgresLog(pool),
		Concurrency:  cfg.Concurrency,
		CycleBudget:  cfg.CycleBudget,
		Logger:       log,
		Meter:        tp.Meter,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize orchestrator")
	}

	// Ops HTTP surface: health, last cycle report, scheduler trigger
	router := ops.NewRouter(ops.RouterConfig{
		Version:      Version,
		SchedulerKey: cfg.SchedulerKey,
		Runner:       orch,
		Logger:       log,
	})

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// The trigger endpoint runs a full cycle before responding.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("ops server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ops server error")
		}
	}()

	// Fallback ticker keeps cycles running when no external scheduler
	// calls the trigger endpoint.
	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	go func() {
		ticker := time.NewTicker(cfg.CycleInterval)
		defer ticker.Stop()

		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				if _, err := orch.RunCycle(workerCtx); err != nil {
					log.Error().Err(err).Msg("scheduled cycle failed")
				}
			}
		}
	}()
	log.Info().
		Dur("interval", cfg.CycleInterval).
		Msg("cycle ticker started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("ops server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
