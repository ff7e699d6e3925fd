// Package ops exposes the worker's small operational HTTP surface: a health
// endpoint for the platform's probes, the last cycle report, and an
// authenticated trigger used by the scheduler.
package ops

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"github.com/shataken-source/seawatch/internal/orchestrator"
)

// CycleRunner is the part of the orchestrator the ops surface needs.
type CycleRunner interface {
	RunCycle(ctx context.Context) (orchestrator.CycleReport, error)
	LastReport() *orchestrator.CycleReport
}

// RouterConfig holds configuration for the ops router.
type RouterConfig struct {
	Version string

	// SchedulerKey signs the bearer tokens the scheduler presents on
	// POST /internal/run.
	SchedulerKey string

	Runner CycleRunner
	Logger zerolog.Logger
}

// NewRouter creates the ops router.
func NewRouter(cfg RouterConfig) *chi.Mux {
	s := &server{
		version:      cfg.Version,
		schedulerKey: []byte(cfg.SchedulerKey),
		runner:       cfg.Runner,
		logger:       cfg.Logger,
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", s.health)
	r.Get("/cycles/last", s.lastCycle)

	// The trigger is behind auth plus a tight rate limit. The scheduler
	// fires at most hourly; anything faster is a misbehaving caller.
	r.Route("/internal", func(r chi.Router) {
		r.Use(s.requireSchedulerToken)
		r.Use(httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(httprate.KeyByRealIP)))
		r.Post("/run", s.runCycle)
	})

	return r
}

type server struct {
	version      string
	schedulerKey []byte
	runner       CycleRunner
	logger       zerolog.Logger
}

func (s *server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": s.version,
	})
}

func (s *server) lastCycle(w http.ResponseWriter, _ *http.Request) {
	report := s.runner.LastReport()
	if report == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "no cycle has completed yet",
		})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *server) runCycle(w http.ResponseWriter, r *http.Request) {
	s.logger.Info().Msg("evaluation cycle triggered via ops endpoint")

	report, err := s.runner.RunCycle(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("triggered cycle failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body) //nolint:errcheck // response already committed
}
