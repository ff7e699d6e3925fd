package orchestrator_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/shataken-source/seawatch/internal/audit"
	"github.com/shataken-source/seawatch/internal/geo"
	"github.com/shataken-source/seawatch/internal/marine"
	"github.com/shataken-source/seawatch/internal/notify"
	"github.com/shataken-source/seawatch/internal/orchestrator"
	"github.com/shataken-source/seawatch/internal/subject"
	"github.com/shataken-source/seawatch/internal/units"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testPoint = geo.Coordinate{Lat: 24.55, Lon: -81.81}

type stubResolver struct {
	trips      []subject.Subject
	captains   []subject.Subject
	tripErr    error
	captainErr error
}

func (s *stubResolver) TripSubjects(context.Context) ([]subject.Subject, error) {
	return s.trips, s.tripErr
}

func (s *stubResolver) CaptainSubjects(context.Context) ([]subject.Subject, error) {
	return s.captains, s.captainErr
}

type stubObservations struct {
	raw marine.RawObservation
	err error
}

func (s *stubObservations) LatestObservation(context.Context, geo.Station) (marine.RawObservation, error) {
	return s.raw, s.err
}

type stubForecasts struct {
	bundle marine.ForecastBundle
	err    error
}

func (s *stubForecasts) Forecast(context.Context, geo.Coordinate) (marine.ForecastBundle, error) {
	return s.bundle, s.err
}

type stubTides struct {
	predictions []marine.TidePrediction
	err         error
}

func (s *stubTides) Predictions(context.Context, geo.Station, time.Time, time.Time) ([]marine.TidePrediction, error) {
	return s.predictions, s.err
}

type recordingNotifier struct {
	mu    sync.Mutex
	err   error
	calls []subject.Subject
}

func (n *recordingNotifier) Notify(_ context.Context, subj subject.Subject, _ marine.AnalysisResult) (notify.Outcome, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, subj)
	if n.err != nil {
		return notify.Outcome{Channel: "email"}, n.err
	}
	return notify.Outcome{Delivered: true, Channel: "email"}, nil
}

func (n *recordingNotifier) callCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

func tripSubject(id string) subject.Subject {
	return subject.Subject{
		ID:          id,
		Kind:        subject.KindTrip,
		Email:       id + "@example.com",
		Coordinate:  &testPoint,
		Preferences: subject.NotificationPreferences{WeatherAlerts: true},
		TripDate:    time.Now().Add(6 * time.Hour),
	}
}

func captainSubject(id string) subject.Subject {
	subj := tripSubject(id)
	subj.Kind = subject.KindCaptain
	subj.TripDate = time.Time{}
	return subj
}

// dangerousObservation carries winds well past the critical threshold.
func dangerousObservation() marine.RawObservation {
	return marine.RawObservation{
		StationID:   "42012",
		ObservedAt:  time.Now().Add(-10 * time.Minute),
		WindSpeedMS: units.Float(20.0),
		PressureHPa: units.Float(1014.0),
	}
}

func calmObservation() marine.RawObservation {
	return marine.RawObservation{
		StationID:   "42012",
		ObservedAt:  time.Now().Add(-10 * time.Minute),
		WindSpeedMS: units.Float(3.0),
		WaveHeightM: units.Float(0.4),
		PressureHPa: units.Float(1016.0),
	}
}

func newOrchestrator(t *testing.T, cfg orchestrator.Config) *orchestrator.Orchestrator {
	t.Helper()
	cfg.Logger = zerolog.Nop()
	o, err := orchestrator.New(cfg)
	require.NoError(t, err)
	return o
}

func TestNew_MissingCollaborator(t *testing.T) {
	_, err := orchestrator.New(orchestrator.Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, orchestrator.ErrConfiguration)
}

func TestRunCycle_AlertsNotifiedAndAudited(t *testing.T) {
	notifier := &recordingNotifier{}
	auditLog := audit.NewMemoryLog()

	o := newOrchestrator(t, orchestrator.Config{
		Resolver:     &stubResolver{trips: []subject.Subject{tripSubject("t1"), tripSubject("t2")}, captains: []subject.Subject{captainSubject("c1")}},
		Observations: &stubObservations{raw: dangerousObservation()},
		Forecasts:    &stubForecasts{},
		Tides:        &stubTides{},
		Notifier:     notifier,
		Audit:        auditLog,
	})

	report, err := o.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.TripSubjectsProcessed)
	assert.Equal(t, 1, report.CaptainSubjectsProcessed)
	assert.Equal(t, 3, report.NotificationsSent)
	assert.Equal(t, 0, report.Failures)
	assert.GreaterOrEqual(t, report.AlertsRaised, 3)

	assert.Equal(t, 3, notifier.callCount())

	entries := auditLog.Entries()
	require.Len(t, entries, 3)
	for _, entry := range entries {
		assert.Equal(t, "critical", entry.Severity)
		assert.Equal(t, "email", entry.Channel)
		assert.True(t, entry.Delivered)
		assert.NotEmpty(t, entry.ID)
	}
}

func TestRunCycle_CalmConditionsSendNothing(t *testing.T) {
	notifier := &recordingNotifier{}

	o := newOrchestrator(t, orchestrator.Config{
		Resolver:     &stubResolver{trips: []subject.Subject{tripSubject("t1")}},
		Observations: &stubObservations{raw: calmObservation()},
		Forecasts:    &stubForecasts{},
		Tides:        &stubTides{},
		Notifier:     notifier,
		Audit:        audit.NewMemoryLog(),
	})

	report, err := o.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.TripSubjectsProcessed)
	assert.Equal(t, 0, report.AlertsRaised)
	assert.Equal(t, 0, report.NotificationsSent)
	assert.Equal(t, 0, notifier.callCount())
}

func TestRunCycle_ObservationFailureStillEvaluatesAdvisories(t *testing.T) {
	notifier := &recordingNotifier{}

	o := newOrchestrator(t, orchestrator.Config{
		Resolver:     &stubResolver{trips: []subject.Subject{tripSubject("t1")}},
		Observations: &stubObservations{err: marine.ErrProviderUnavailable},
		Forecasts: &stubForecasts{bundle: marine.ForecastBundle{
			Advisories: []marine.Advisory{{
				Event:          "Hurricane Warning",
				Headline:       "Hurricane Warning in effect",
				SourceSeverity: "Extreme",
			}},
		}},
		Tides:    &stubTides{err: marine.ErrProviderUnavailable},
		Notifier: notifier,
		Audit:    audit.NewMemoryLog(),
	})

	report, err := o.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.TripSubjectsProcessed)
	assert.Equal(t, 1, report.AlertsRaised)
	assert.Equal(t, 1, report.NotificationsSent)
	assert.Equal(t, 0, report.Failures)
}

func TestRunCycle_AllProvidersDownStillProcesses(t *testing.T) {
	notifier := &recordingNotifier{}

	o := newOrchestrator(t, orchestrator.Config{
		Resolver:     &stubResolver{trips: []subject.Subject{tripSubject("t1")}},
		Observations: &stubObservations{err: marine.ErrProviderUnavailable},
		Forecasts:    &stubForecasts{err: marine.ErrProviderUnavailable},
		Tides:        &stubTides{err: marine.ErrProviderUnavailable},
		Notifier:     notifier,
		Audit:        audit.NewMemoryLog(),
	})

	report, err := o.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.TripSubjectsProcessed)
	assert.Equal(t, 0, report.AlertsRaised)
	assert.Equal(t, 0, notifier.callCount())
}

func TestRunCycle_SourceFailureSkipsCategoryOnly(t *testing.T) {
	notifier := &recordingNotifier{}

	o := newOrchestrator(t, orchestrator.Config{
		Resolver: &stubResolver{
			tripErr:  subject.ErrSourceUnavailable,
			captains: []subject.Subject{captainSubject("c1")},
		},
		Observations: &stubObservations{raw: dangerousObservation()},
		Forecasts:    &stubForecasts{},
		Tides:        &stubTides{},
		Notifier:     notifier,
		Audit:        audit.NewMemoryLog(),
	})

	report, err := o.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.TripSubjectsProcessed)
	assert.Equal(t, 1, report.CaptainSubjectsProcessed)
	assert.Equal(t, 1, report.Failures)
	assert.Equal(t, 1, report.NotificationsSent)
}

func TestRunCycle_NotifierFailureCountsFailure(t *testing.T) {
	notifier := &recordingNotifier{err: notify.ErrDeliveryFailed}
	auditLog := audit.NewMemoryLog()

	o := newOrchestrator(t, orchestrator.Config{
		Resolver:     &stubResolver{trips: []subject.Subject{tripSubject("t1")}},
		Observations: &stubObservations{raw: dangerousObservation()},
		Forecasts:    &stubForecasts{},
		Tides:        &stubTides{},
		Notifier:     notifier,
		Audit:        auditLog,
	})

	report, err := o.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.TripSubjectsProcessed)
	assert.Equal(t, 1, report.Failures)
	assert.Equal(t, 0, report.NotificationsSent)

	entries := auditLog.Entries()
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Delivered)
}

func TestRunCycle_AuditFailureDoesNotFailSubject(t *testing.T) {
	notifier := &recordingNotifier{}

	o := newOrchestrator(t, orchestrator.Config{
		Resolver:     &stubResolver{trips: []subject.Subject{tripSubject("t1")}},
		Observations: &stubObservations{raw: dangerousObservation()},
		Forecasts:    &stubForecasts{},
		Tides:        &stubTides{},
		Notifier:     notifier,
		Audit:        failingAudit{},
	})

	report, err := o.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.TripSubjectsProcessed)
	assert.Equal(t, 0, report.Failures)
	assert.Equal(t, 1, report.NotificationsSent)
}

type failingAudit struct{}

func (failingAudit) Record(context.Context, audit.Entry) error {
	return errors.New("audit store down")
}

func TestLastReport(t *testing.T) {
	o := newOrchestrator(t, orchestrator.Config{
		Resolver:     &stubResolver{},
		Observations: &stubObservations{},
		Forecasts:    &stubForecasts{},
		Tides:        &stubTides{},
		Notifier:     &recordingNotifier{},
		Audit:        audit.NewMemoryLog(),
	})

	assert.Nil(t, o.LastReport())

	_, err := o.RunCycle(context.Background())
	require.NoError(t, err)

	report := o.LastReport()
	require.NotNil(t, report)
	assert.False(t, report.StartedAt.IsZero())
}
