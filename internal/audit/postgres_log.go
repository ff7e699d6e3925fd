package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLog appends audit entries to the weather_alert_audit table.
type PostgresLog struct {
	pool *pgxpool.Pool
}

// NewPostgresLog creates a PostgreSQL-backed audit log.
func NewPostgresLog(pool *pgxpool.Pool) *PostgresLog {
	return &PostgresLog{pool: pool}
}

// Record inserts one entry. Entries are never updated or deleted.
func (l *PostgresLog) Record(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	query := `
		INSERT INTO weather_alert_audit
			(id, subject_id, subject_kind, severity, channel, delivered, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := l.pool.Exec(ctx, query,
		entry.ID,
		entry.SubjectID,
		entry.Kind,
		entry.Severity,
		entry.Channel,
		entry.Delivered,
		entry.At,
	)
	if err != nil {
		return fmt.Errorf("recording audit entry: %w", err)
	}
	return nil
}
