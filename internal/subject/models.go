// Package subject resolves who needs a weather evaluation this cycle:
// customers with imminent charter trips and captains currently active on the
// platform.
package subject

import (
	"time"

	"github.com/shataken-source/seawatch/internal/geo"
)

// Kind distinguishes the two evaluation passes.
type Kind string

const (
	KindTrip    Kind = "trip"
	KindCaptain Kind = "captain"
)

// NotificationPreferences are the per-subject delivery settings the evaluator
// honors. A subject with WeatherAlerts disabled is filtered out before any
// provider call is made on its behalf.
type NotificationPreferences struct {
	WeatherAlerts bool
}

// Subject is one person needing evaluation. Subjects are read fresh from
// storage each cycle; the evaluator does not own their lifecycle.
type Subject struct {
	ID          string
	Kind        Kind
	Email       string
	DisplayName string

	// Coordinate is the trip departure point or the captain's home port.
	// Nil when the record has no resolvable location; such subjects are
	// skipped with a log line rather than failed.
	Coordinate *geo.Coordinate

	Preferences NotificationPreferences

	// Trip fields, zero-valued for captains.
	TripTitle string
	TripDate  time.Time
}
