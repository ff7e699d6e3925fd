// Package audit records alert notification attempts. The log is best-effort
// and append-only; a write failure never blocks or fails an evaluation cycle.
package audit

import (
	"context"
	"time"
)

// Entry is one recorded notification attempt.
type Entry struct {
	ID        string
	SubjectID string
	Kind      string
	Severity  string
	Channel   string
	Delivered bool
	At        time.Time
}

// Log records notification attempts.
type Log interface {
	Record(ctx context.Context, entry Entry) error
}
