package subject

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// ResolverConfig holds configuration for the resolver.
type ResolverConfig struct {
	// Source reads subjects from storage.
	Source Source

	// Clock supplies the current time (injected for tests). Defaults to the
	// real clock.
	Clock clockwork.Clock

	// TripWindow is how far ahead trip departures are considered imminent.
	// Default: 24 hours.
	TripWindow time.Duration

	// Logger for resolver operations.
	Logger zerolog.Logger
}

// Resolver produces the final list of subjects to evaluate: it applies the
// trip window, drops subjects who opted out of weather alerts, and skips
// subjects without a resolvable coordinate. All filtering happens before any
// provider call is made, so opted-out subjects cost no upstream requests.
type Resolver struct {
	source     Source
	clock      clockwork.Clock
	tripWindow time.Duration
	logger     zerolog.Logger
}

// NewResolver creates a resolver, filling zero-value config with defaults.
func NewResolver(cfg ResolverConfig) *Resolver {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	window := cfg.TripWindow
	if window == 0 {
		window = 24 * time.Hour
	}

	return &Resolver{
		source:     cfg.Source,
		clock:      clock,
		tripWindow: window,
		logger:     cfg.Logger,
	}
}

// TripSubjects returns evaluable customers with trips departing within the
// window starting now.
func (r *Resolver) TripSubjects(ctx context.Context) ([]Subject, error) {
	now := r.clock.Now()
	subjects, err := r.source.UpcomingTripSubjects(ctx, now, now.Add(r.tripWindow))
	if err != nil {
		return nil, err
	}
	return r.filter(subjects), nil
}

// CaptainSubjects returns evaluable active captains.
func (r *Resolver) CaptainSubjects(ctx context.Context) ([]Subject, error) {
	subjects, err := r.source.ActiveCaptainSubjects(ctx)
	if err != nil {
		return nil, err
	}
	return r.filter(subjects), nil
}

func (r *Resolver) filter(subjects []Subject) []Subject {
	out := make([]Subject, 0, len(subjects))
	for _, subj := range subjects {
		if !subj.Preferences.WeatherAlerts {
			r.logger.Debug().
				Str("subject_id", subj.ID).
				Str("kind", string(subj.Kind)).
				Msg("subject opted out of weather alerts, skipping")
			continue
		}
		if subj.Coordinate == nil || subj.Coordinate.Validate() != nil {
			r.logger.Warn().
				Str("subject_id", subj.ID).
				Str("kind", string(subj.Kind)).
				Msg("subject has no resolvable coordinate, skipping")
			continue
		}
		out = append(out, subj)
	}
	return out
}
