package service

import (
	"context"
	"encoding/json"

	"citadel/internal/model"
	"citadel/internal/pubsub"

	"github.com/rs/zerolog"
)

// EventPublisher emits domain events. Publishing never fails the caller;
// errors are logged and dropped.
type EventPublisher interface {
	Publish(ctx context.Context, e model.Event)
}

type eventPublisher struct {
	pub    pubsub.Publisher
	topic  string
	logger zerolog.Logger
}

// NewEventPublisher sends events to topic through pub. A nil pub disables events.
func NewEventPublisher(pub pubsub.Publisher, topic string, logger zerolog.Logger) EventPublisher {
	return &eventPublisher{
		pub:    pub,
		topic:  topic,
		logger: logger.With().Str("service", "EventPublisher").Logger(),
	}
}

func (p *eventPublisher) Publish(ctx context.Context, e model.Event) {
	if p.pub == nil {
		return
	}
	payload, err := json.Marshal(e)
	if err != nil {
		p.logger.Error().Err(err).Str("event_type", e.Type).Msg("Failed to encode event")
		return
	}
	id, err := p.pub.Publish(ctx, p.topic, payload)
	if err != nil {
		p.logger.Warn().Err(err).Str("event_type", e.Type).Str("user_id", e.UserID).Msg("Failed to publish event")
		return
	}
	p.logger.Debug().Str("event_type", e.Type).Str("message_id", id).Msg("Event published")
}
