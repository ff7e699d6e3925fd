package notify_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shataken-source/seawatch/internal/geo"
	"github.com/shataken-source/seawatch/internal/marine"
	"github.com/shataken-source/seawatch/internal/notify"
	"github.com/shataken-source/seawatch/internal/subject"
)

func alertingResult() marine.AnalysisResult {
	severity := marine.SeverityHigh
	return marine.AnalysisResult{
		Alerts: []marine.Alert{{
			Type:           marine.AlertWind,
			Severity:       marine.SeverityHigh,
			Message:        "High winds of 28 kt",
			Recommendation: "Small craft advisory conditions. Only experienced captains with suitable vessels should consider departing.",
		}},
		OverallSeverity: &severity,
		Summary:         "HAZARDOUS CONDITIONS: High winds of 28 kt. Use extreme caution and consider rescheduling.",
	}
}

func TestNewPayload_TripSubject(t *testing.T) {
	departure := time.Date(2026, 7, 4, 6, 0, 0, 0, time.UTC)
	subj := subject.Subject{
		ID:          "booking-17",
		Kind:        subject.KindTrip,
		Email:       "angler@example.com",
		DisplayName: "Jo Angler",
		Coordinate:  &geo.Coordinate{Lat: 27.76, Lon: -82.63},
		TripTitle:   "Half-day reef trip",
		TripDate:    departure,
	}

	evaluated := time.Date(2026, 7, 3, 18, 0, 0, 0, time.UTC)
	payload := notify.NewPayload(subj, alertingResult(), evaluated)

	assert.Equal(t, "booking-17", payload.SubjectID)
	assert.Equal(t, "trip", payload.SubjectKind)
	assert.Equal(t, "high", payload.Severity)
	assert.Equal(t, "Half-day reef trip", payload.TripTitle)
	require.NotNil(t, payload.TripDate)
	assert.Equal(t, departure, *payload.TripDate)
	require.Len(t, payload.Alerts, 1)
	assert.Equal(t, "wind", payload.Alerts[0].Type)
}

func TestNewPayload_CaptainOmitsTripFields(t *testing.T) {
	subj := subject.Subject{
		ID:    "captain-3",
		Kind:  subject.KindCaptain,
		Email: "skipper@example.com",
	}

	payload := notify.NewPayload(subj, alertingResult(), time.Now())

	assert.Empty(t, payload.TripTitle)
	assert.Nil(t, payload.TripDate)
}

func TestLogNotifier_AlwaysDelivers(t *testing.T) {
	notifier := notify.NewLogNotifier(zerolog.Nop())

	outcome, err := notifier.Notify(context.Background(), subject.Subject{ID: "x"}, alertingResult())
	require.NoError(t, err)
	assert.True(t, outcome.Delivered)
	assert.Equal(t, notify.ChannelLog, outcome.Channel)
}
