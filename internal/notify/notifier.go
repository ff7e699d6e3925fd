// Package notify defines the notification contract the evaluator hands
// results to. Actual email/push delivery lives outside this service; the
// bundled implementation publishes payloads onto a Pub/Sub topic consumed by
// the platform's dispatcher.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/shataken-source/seawatch/internal/marine"
	"github.com/shataken-source/seawatch/internal/subject"
)

// Notify errors.
var (
	// ErrDeliveryFailed indicates the notifier could not hand off the
	// payload. The orchestrator logs it, counts it as a failure, and moves
	// on to the next subject.
	ErrDeliveryFailed = errors.New("notification delivery failed")
)

// Outcome reports what the notifier did with a result.
type Outcome struct {
	Delivered bool
	Channel   string
}

// Notifier receives one subject's analysis result. Called only when the
// result carries at least one alert, and only after the result is fully
// computed.
type Notifier interface {
	Notify(ctx context.Context, subj subject.Subject, result marine.AnalysisResult) (Outcome, error)
}

// Payload is the wire format handed to the downstream dispatcher.
type Payload struct {
	SubjectID   string         `json:"subject_id"`
	SubjectKind string         `json:"subject_kind"`
	Email       string         `json:"email"`
	DisplayName string         `json:"display_name"`
	TripTitle   string         `json:"trip_title,omitempty"`
	TripDate    *time.Time     `json:"trip_date,omitempty"`
	Severity    string         `json:"severity"`
	Summary     string         `json:"summary"`
	Alerts      []PayloadAlert `json:"alerts"`
	EvaluatedAt time.Time      `json:"evaluated_at"`
}

// PayloadAlert is one alert in the dispatcher payload.
type PayloadAlert struct {
	Type           string     `json:"type"`
	Severity       string     `json:"severity"`
	Message        string     `json:"message"`
	Details        string     `json:"details,omitempty"`
	Recommendation string     `json:"recommendation,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
}

// NewPayload builds the dispatcher payload for a subject's result.
func NewPayload(subj subject.Subject, result marine.AnalysisResult, evaluatedAt time.Time) Payload {
	p := Payload{
		SubjectID:   subj.ID,
		SubjectKind: string(subj.Kind),
		Email:       subj.Email,
		DisplayName: subj.DisplayName,
		Summary:     result.Summary,
		EvaluatedAt: evaluatedAt,
	}
	if subj.Kind == subject.KindTrip {
		p.TripTitle = subj.TripTitle
		tripDate := subj.TripDate
		p.TripDate = &tripDate
	}
	if result.OverallSeverity != nil {
		p.Severity = result.OverallSeverity.String()
	}
	for _, a := range result.Alerts {
		p.Alerts = append(p.Alerts, PayloadAlert{
			Type:           string(a.Type),
			Severity:       a.Severity.String(),
			Message:        a.Message,
			Details:        a.Details,
			Recommendation: a.Recommendation,
			ExpiresAt:      a.Expires,
		})
	}
	return p
}
