package subject

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Repository errors.
var (
	// ErrSourceUnavailable indicates a subject query failed entirely. The
	// orchestrator skips that category for the cycle and continues with the
	// other one.
	ErrSourceUnavailable = errors.New("subject source unavailable")
)

// Source reads evaluation subjects from the platform's storage.
type Source interface {
	// UpcomingTripSubjects returns customers with a confirmed booking whose
	// trip date falls within [from, until).
	UpcomingTripSubjects(ctx context.Context, from, until time.Time) ([]Subject, error)

	// ActiveCaptainSubjects returns captains currently flagged active.
	ActiveCaptainSubjects(ctx context.Context) ([]Subject, error)
}

// InMemorySource is an in-memory Source for tests and local development.
type InMemorySource struct {
	mu       sync.RWMutex
	trips    []Subject
	captains []Subject
}

// NewInMemorySource creates an empty in-memory source.
func NewInMemorySource() *InMemorySource {
	return &InMemorySource{}
}

// AddTrip registers a trip subject.
func (s *InMemorySource) AddTrip(subj Subject) {
	s.mu.Lock()
	defer s.mu.Unlock()
	subj.Kind = KindTrip
	s.trips = append(s.trips, subj)
}

// AddCaptain registers a captain subject.
func (s *InMemorySource) AddCaptain(subj Subject) {
	s.mu.Lock()
	defer s.mu.Unlock()
	subj.Kind = KindCaptain
	s.captains = append(s.captains, subj)
}

// UpcomingTripSubjects returns registered trip subjects inside the window.
func (s *InMemorySource) UpcomingTripSubjects(_ context.Context, from, until time.Time) ([]Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Subject
	for _, subj := range s.trips {
		if !subj.TripDate.Before(from) && subj.TripDate.Before(until) {
			out = append(out, subj)
		}
	}
	return out, nil
}

// ActiveCaptainSubjects returns all registered captain subjects.
func (s *InMemorySource) ActiveCaptainSubjects(_ context.Context) ([]Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Subject, len(s.captains))
	copy(out, s.captains)
	return out, nil
}
