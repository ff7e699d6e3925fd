// Package orchestrator runs evaluation cycles: it resolves subjects, fans out
// to the marine data providers, analyzes conditions, and hands alerting
// results to the notifier.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"

	"github.com/shataken-source/seawatch/internal/audit"
	"github.com/shataken-source/seawatch/internal/geo"
	"github.com/shataken-source/seawatch/internal/marine"
	"github.com/shataken-source/seawatch/internal/notify"
	"github.com/shataken-source/seawatch/internal/subject"
)

// ErrConfiguration indicates the orchestrator is missing a required
// collaborator. Returned before any subject is touched.
var ErrConfiguration = errors.New("orchestrator misconfigured")

// ObservationProvider fetches the latest buoy observation for a station.
type ObservationProvider interface {
	LatestObservation(ctx context.Context, station geo.Station) (marine.RawObservation, error)
}

// ForecastProvider fetches forecast periods and active marine advisories for
// a point.
type ForecastProvider interface {
	Forecast(ctx context.Context, point geo.Coordinate) (marine.ForecastBundle, error)
}

// TideProvider fetches high/low tide predictions for a station.
type TideProvider interface {
	Predictions(ctx context.Context, station geo.Station, from, until time.Time) ([]marine.TidePrediction, error)
}

// SubjectResolver produces the subjects an evaluation cycle covers.
type SubjectResolver interface {
	TripSubjects(ctx context.Context) ([]subject.Subject, error)
	CaptainSubjects(ctx context.Context) ([]subject.Subject, error)
}

// Config holds configuration for the orchestrator.
type Config struct {
	Resolver     SubjectResolver
	Observations ObservationProvider
	Forecasts    ForecastProvider
	Tides        TideProvider
	Notifier     notify.Notifier
	Audit        audit.Log

	// BuoyStations and TideStations are the registries used for nearest
	// lookup. Defaults: the built-in NOAA registries.
	BuoyStations []geo.Station
	TideStations []geo.Station

	// Concurrency bounds how many subjects are evaluated at once.
	// Default: 3.
	Concurrency int

	// ProviderTimeout bounds each upstream call. Default: 10 seconds.
	ProviderTimeout time.Duration

	// TideWindow is how far ahead tide predictions are fetched.
	// Default: 24 hours.
	TideWindow time.Duration

	// CycleBudget is a soft deadline. Once exceeded, subjects not yet
	// started are deferred to the next cycle. Zero means no budget.
	CycleBudget time.Duration

	// Clock supplies the current time (injected for tests).
	Clock clockwork.Clock

	Logger zerolog.Logger
	Meter  metric.Meter
}

// CycleReport summarizes one evaluation cycle.
type CycleReport struct {
	StartedAt                time.Time `json:"started_at"`
	FinishedAt               time.Time `json:"finished_at"`
	TripSubjectsProcessed    int       `json:"trip_subjects_processed"`
	CaptainSubjectsProcessed int       `json:"captain_subjects_processed"`
	AlertsRaised             int       `json:"alerts_raised"`
	NotificationsSent        int       `json:"notifications_sent"`
	Failures                 int       `json:"failures"`
	Deferred                 int       `json:"deferred"`
}

// Orchestrator coordinates evaluation cycles.
type Orchestrator struct {
	resolver     SubjectResolver
	observations ObservationProvider
	forecasts    ForecastProvider
	tides        TideProvider
	notifier     notify.Notifier
	auditLog     audit.Log

	buoyStations []geo.Station
	tideStations []geo.Station

	concurrency     int
	providerTimeout time.Duration
	tideWindow      time.Duration
	cycleBudget     time.Duration

	clock  clockwork.Clock
	logger zerolog.Logger

	cyclesRun     metric.Int64Counter
	subjectsSeen  metric.Int64Counter
	alertsRaised  metric.Int64Counter
	notifications metric.Int64Counter

	mu         sync.Mutex
	lastReport *CycleReport
}

// New creates an orchestrator, filling zero-value config with defaults.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Resolver == nil || cfg.Observations == nil || cfg.Forecasts == nil ||
		cfg.Tides == nil || cfg.Notifier == nil || cfg.Audit == nil {
		return nil, fmt.Errorf("missing collaborator: %w", ErrConfiguration)
	}

	buoys := cfg.BuoyStations
	if len(buoys) == 0 {
		buoys = geo.BuoyStations()
	}
	tides := cfg.TideStations
	if len(tides) == 0 {
		tides = geo.TideStations()
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 3
	}
	providerTimeout := cfg.ProviderTimeout
	if providerTimeout == 0 {
		providerTimeout = 10 * time.Second
	}
	tideWindow := cfg.TideWindow
	if tideWindow == 0 {
		tideWindow = 24 * time.Hour
	}
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	o := &Orchestrator{
		resolver:        cfg.Resolver,
		observations:    cfg.Observations,
		forecasts:       cfg.Forecasts,
		tides:           cfg.Tides,
		notifier:        cfg.Notifier,
		auditLog:        cfg.Audit,
		buoyStations:    buoys,
		tideStations:    tides,
		concurrency:     concurrency,
		providerTimeout: providerTimeout,
		tideWindow:      tideWindow,
		cycleBudget:     cfg.CycleBudget,
		clock:           clock,
		logger:          cfg.Logger,
	}

	if cfg.Meter != nil {
		var err error
		if o.cyclesRun, err = cfg.Meter.Int64Counter("seawatch.cycles"); err != nil {
			return nil, fmt.Errorf("creating cycle counter: %w", err)
		}
		if o.subjectsSeen, err = cfg.Meter.Int64Counter("seawatch.subjects"); err != nil {
			return nil, fmt.Errorf("creating subject counter: %w", err)
		}
		if o.alertsRaised, err = cfg.Meter.Int64Counter("seawatch.alerts"); err != nil {
			return nil, fmt.Errorf("creating alert counter: %w", err)
		}
		if o.notifications, err = cfg.Meter.Int64Counter("seawatch.notifications"); err != nil {
			return nil, fmt.Errorf("creating notification counter: %w", err)
		}
	}

	return o, nil
}

// LastReport returns the most recent cycle report, or nil if no cycle has
// completed yet.
func (o *Orchestrator) LastReport() *CycleReport {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.lastReport == nil {
		return nil
	}
	report := *o.lastReport
	return &report
}

// RunCycle evaluates all current subjects once. A failing subject source
// skips its category; a failing provider degrades a single subject. Neither
// aborts the cycle.
func (o *Orchestrator) RunCycle(ctx context.Context) (CycleReport, error) {
	started := o.clock.Now()
	report := CycleReport{StartedAt: started}

	var deadline time.Time
	if o.cycleBudget > 0 {
		deadline = started.Add(o.cycleBudget)
	}

	o.logger.Info().
		Int("concurrency", o.concurrency).
		Msg("starting evaluation cycle")

	tripSubjects, err := o.resolver.TripSubjects(ctx)
	if err != nil {
		o.logger.Error().Err(err).Msg("trip subject lookup failed, skipping trip pass")
		report.Failures++
	} else {
		o.runPass(ctx, tripSubjects, deadline, &report, &report.TripSubjectsProcessed)
	}

	captainSubjects, err := o.resolver.CaptainSubjects(ctx)
	if err != nil {
		o.logger.Error().Err(err).Msg("captain subject lookup failed, skipping captain pass")
		report.Failures++
	} else {
		o.runPass(ctx, captainSubjects, deadline, &report, &report.CaptainSubjectsProcessed)
	}

	report.FinishedAt = o.clock.Now()

	if o.cyclesRun != nil {
		o.cyclesRun.Add(ctx, 1)
		o.subjectsSeen.Add(ctx, int64(report.TripSubjectsProcessed+report.CaptainSubjectsProcessed))
		o.alertsRaised.Add(ctx, int64(report.AlertsRaised))
		o.notifications.Add(ctx, int64(report.NotificationsSent))
	}

	o.mu.Lock()
	o.lastReport = &report
	o.mu.Unlock()

	o.logger.Info().
		Dur("duration", report.FinishedAt.Sub(report.StartedAt)).
		Int("trips", report.TripSubjectsProcessed).
		Int("captains", report.CaptainSubjectsProcessed).
		Int("alerts", report.AlertsRaised).
		Int("notified", report.NotificationsSent).
		Int("failures", report.Failures).
		Int("deferred", report.Deferred).
		Msg("evaluation cycle completed")

	return report, nil
}

type subjectOutcome struct {
	processed    bool
	deferred     bool
	alertsRaised int
	notified     bool
	failed       bool
}

// runPass evaluates one category of subjects through a bounded worker pool.
func (o *Orchestrator) runPass(ctx context.Context, subjects []subject.Subject, deadline time.Time, report *CycleReport, processed *int) {
	if len(subjects) == 0 {
		return
	}

	work := make(chan subject.Subject, len(subjects))
	outcomes := make(chan subjectOutcome, len(subjects))

	var wg sync.WaitGroup
	for i := 0; i < o.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for subj := range work {
				if ctx.Err() != nil {
					outcomes <- subjectOutcome{deferred: true}
					continue
				}
				if !deadline.IsZero() && o.clock.Now().After(deadline) {
					outcomes <- subjectOutcome{deferred: true}
					continue
				}
				outcomes <- o.evaluateSubject(ctx, subj)
			}
		}()
	}

	for _, subj := range subjects {
		work <- subj
	}
	close(work)

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	for outcome := range outcomes {
		if outcome.deferred {
			report.Deferred++
			continue
		}
		if outcome.processed {
			*processed++
		}
		report.AlertsRaised += outcome.alertsRaised
		if outcome.notified {
			report.NotificationsSent++
		}
		if outcome.failed {
			report.Failures++
		}
	}
}

// evaluateSubject runs the full pipeline for one subject. Provider failures
// degrade the result rather than failing the subject; only a failed
// notification handoff counts as a failure.
func (o *Orchestrator) evaluateSubject(ctx context.Context, subj subject.Subject) subjectOutcome {
	point := *subj.Coordinate
	log := o.logger.With().
		Str("subject_id", subj.ID).
		Str("kind", string(subj.Kind)).
		Logger()

	buoy, err := geo.Nearest(point, o.buoyStations)
	if err != nil {
		log.Error().Err(err).Msg("no buoy station resolvable")
		return subjectOutcome{failed: true}
	}
	tideStation, err := geo.Nearest(point, o.tideStations)
	if err != nil {
		log.Error().Err(err).Msg("no tide station resolvable")
		return subjectOutcome{failed: true}
	}

	now := o.clock.Now()

	var (
		wg          sync.WaitGroup
		rawObs      marine.RawObservation
		obsErr      error
		bundle      marine.ForecastBundle
		forecastErr error
		predictions []marine.TidePrediction
		tideErr     error
	)

	// All three providers are queried concurrently and every call is
	// allowed to settle. A failed call leaves its slice of the result
	// empty; it never cancels the others.
	wg.Add(3)
	go func() {
		defer wg.Done()
		callCtx, cancel := context.WithTimeout(ctx, o.providerTimeout)
		defer cancel()
		rawObs, obsErr = o.observations.LatestObservation(callCtx, buoy)
	}()
	go func() {
		defer wg.Done()
		callCtx, cancel := context.WithTimeout(ctx, o.providerTimeout)
		defer cancel()
		bundle, forecastErr = o.forecasts.Forecast(callCtx, point)
	}()
	go func() {
		defer wg.Done()
		callCtx, cancel := context.WithTimeout(ctx, o.providerTimeout)
		defer cancel()
		predictions, tideErr = o.tides.Predictions(callCtx, tideStation, now, now.Add(o.tideWindow))
	}()
	wg.Wait()

	var obs *marine.Observation
	if obsErr != nil {
		log.Warn().Err(obsErr).Str("station", buoy.ID).Msg("observation unavailable")
	} else {
		normalized := marine.Normalize(rawObs)
		obs = &normalized
	}
	if forecastErr != nil {
		log.Warn().Err(forecastErr).Msg("forecast unavailable")
	}
	if tideErr != nil {
		log.Warn().Err(tideErr).Str("station", tideStation.ID).Msg("tide predictions unavailable")
	}

	result := marine.Analyze(obs, bundle.Advisories, predictions)

	outcome := subjectOutcome{
		processed:    true,
		alertsRaised: len(result.Alerts),
	}

	if !result.HasAlerts() {
		log.Debug().Msg("no alerts for subject")
		return outcome
	}

	log.Info().
		Int("alerts", len(result.Alerts)).
		Str("severity", result.OverallSeverity.String()).
		Msg("alerts raised for subject")

	notifyCtx, cancel := context.WithTimeout(ctx, o.providerTimeout)
	defer cancel()

	delivery, err := o.notifier.Notify(notifyCtx, subj, result)
	if err != nil {
		log.Error().Err(err).Msg("notification handoff failed")
		outcome.failed = true
	} else if delivery.Delivered {
		outcome.notified = true
	}

	entry := audit.Entry{
		SubjectID: subj.ID,
		Kind:      string(subj.Kind),
		Severity:  result.OverallSeverity.String(),
		Channel:   delivery.Channel,
		Delivered: delivery.Delivered,
		At:        o.clock.Now(),
	}
	if auditErr := o.auditLog.Record(ctx, entry); auditErr != nil {
		// Audit is best-effort and never fails the subject.
		log.Warn().Err(auditErr).Msg("audit record failed")
	}

	return outcome
}
