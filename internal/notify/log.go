package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/shataken-source/seawatch/internal/marine"
	"github.com/shataken-source/seawatch/internal/subject"
)

// ChannelLog is the channel name reported by the log notifier.
const ChannelLog = "log"

// LogNotifier writes notifications to the service log. Used in local
// development where no Pub/Sub project is configured.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the subject's result.
func (n *LogNotifier) Notify(_ context.Context, subj subject.Subject, result marine.AnalysisResult) (Outcome, error) {
	severity := ""
	if result.OverallSeverity != nil {
		severity = result.OverallSeverity.String()
	}

	n.logger.Info().
		Str("subject_id", subj.ID).
		Str("kind", string(subj.Kind)).
		Str("email", subj.Email).
		Str("severity", severity).
		Int("alerts", len(result.Alerts)).
		Str("summary", result.Summary).
		Msg("weather alert notification")

	return Outcome{Delivered: true, Channel: ChannelLog}, nil
}
