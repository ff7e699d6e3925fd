package subject

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shataken-source/seawatch/internal/geo"
)

// PostgresSource reads subjects from the platform's booking database.
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource creates a PostgreSQL-backed subject source.
func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

// UpcomingTripSubjects returns customers with a confirmed booking departing
// within [from, until).
func (s *PostgresSource) UpcomingTripSubjects(ctx context.Context, from, until time.Time) ([]Subject, error) {
	query := `
		SELECT
			b.id, u.email, u.display_name,
			b.trip_title, b.trip_date,
			b.departure_lat, b.departure_lon,
			COALESCE(np.weather_alerts, TRUE)
		FROM bookings b
		JOIN users u ON u.id = b.user_id
		LEFT JOIN notification_preferences np ON np.user_id = u.id
		WHERE b.status = 'confirmed'
		  AND b.trip_date >= $1
		  AND b.trip_date < $2
		ORDER BY b.trip_date
	`

	rows, err := s.pool.Query(ctx, query, from, until)
	if err != nil {
		return nil, fmt.Errorf("querying upcoming trips: %w", ErrSourceUnavailable)
	}
	defer rows.Close()

	var subjects []Subject
	for rows.Next() {
		var (
			subj     Subject
			lat, lon *float64
		)
		subj.Kind = KindTrip

		if err := rows.Scan(
			&subj.ID,
			&subj.Email,
			&subj.DisplayName,
			&subj.TripTitle,
			&subj.TripDate,
			&lat,
			&lon,
			&subj.Preferences.WeatherAlerts,
		); err != nil {
			return nil, fmt.Errorf("scanning trip subject: %w", ErrSourceUnavailable)
		}

		if lat != nil && lon != nil {
			subj.Coordinate = &geo.Coordinate{Lat: *lat, Lon: *lon}
		}
		subjects = append(subjects, subj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading trip subjects: %w", ErrSourceUnavailable)
	}
	return subjects, nil
}

// ActiveCaptainSubjects returns captains currently flagged active.
func (s *PostgresSource) ActiveCaptainSubjects(ctx context.Context) ([]Subject, error) {
	query := `
		SELECT
			c.id, c.email, c.display_name,
			c.home_port_lat, c.home_port_lon,
			COALESCE(np.weather_alerts, TRUE)
		FROM captains c
		LEFT JOIN notification_preferences np ON np.captain_id = c.id
		WHERE c.active = TRUE
		ORDER BY c.id
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying active captains: %w", ErrSourceUnavailable)
	}
	defer rows.Close()

	var subjects []Subject
	for rows.Next() {
		var (
			subj     Subject
			lat, lon *float64
		)
		subj.Kind = KindCaptain

		if err := rows.Scan(
			&subj.ID,
			&subj.Email,
			&subj.DisplayName,
			&lat,
			&lon,
			&subj.Preferences.WeatherAlerts,
		); err != nil {
			return nil, fmt.Errorf("scanning captain subject: %w", ErrSourceUnavailable)
		}

		if lat != nil && lon != nil {
			subj.Coordinate = &geo.Coordinate{Lat: *lat, Lon: *lon}
		}
		subjects = append(subjects, subj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading captain subjects: %w", ErrSourceUnavailable)
	}
	return subjects, nil
}
