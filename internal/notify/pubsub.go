package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/shataken-source/seawatch/internal/marine"
	"github.com/shataken-source/seawatch/internal/subject"
)

// ChannelPubSub is the channel name reported for Pub/Sub handoffs.
const ChannelPubSub = "pubsub"

// PubSubConfig holds configuration for the Pub/Sub notifier.
type PubSubConfig struct {
	ProjectID string
	TopicName string
	Logger    zerolog.Logger
}

// PubSubNotifier publishes notification payloads to a Pub/Sub topic. The
// platform's email/push dispatcher subscribes to the topic and performs the
// actual delivery.
type PubSubNotifier struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	topicName string
	logger    zerolog.Logger
}

// NewPubSubNotifier creates a Pub/Sub-backed notifier.
func NewPubSubNotifier(ctx context.Context, cfg PubSubConfig) (*PubSubNotifier, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	return &PubSubNotifier{
		client:    client,
		publisher: client.Publisher(cfg.TopicName),
		topicName: cfg.TopicName,
		logger:    cfg.Logger,
	}, nil
}

// Notify publishes the subject's result and waits for the publish to be
// acknowledged.
func (n *PubSubNotifier) Notify(ctx context.Context, subj subject.Subject, result marine.AnalysisResult) (Outcome, error) {
	payload := NewPayload(subj, result, time.Now().UTC())

	data, err := json.Marshal(payload)
	if err != nil {
		return Outcome{}, fmt.Errorf("encoding notification payload: %w", err)
	}

	msg := &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"subject_kind": string(subj.Kind),
			"severity":     payload.Severity,
		},
	}

	id, err := n.publisher.Publish(ctx, msg).Get(ctx)
	if err != nil {
		n.logger.Error().Err(err).
			Str("subject_id", subj.ID).
			Str("topic", n.topicName).
			Msg("publish failed")
		return Outcome{}, fmt.Errorf("publishing to %s: %w", n.topicName, ErrDeliveryFailed)
	}

	n.logger.Debug().
		Str("subject_id", subj.ID).
		Str("message_id", id).
		Msg("notification published")

	return Outcome{Delivered: true, Channel: ChannelPubSub}, nil
}

// Close releases the Pub/Sub client.
func (n *PubSubNotifier) Close() error {
	n.publisher.Stop()
	return n.client.Close()
}
