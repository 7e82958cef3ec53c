package pubsub

import (
	"context"
	"fmt"

	"citadel/internal/config"

	"cloud.google.com/go/pubsub"
)

// Publisher defines an interface for publishing messages.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) (string, error)
}

// PubSubPublisher is an implementation of Publisher using Google Pub/Sub.
type PubSubPublisher struct {
	client *pubsub.Client
}

// NewPublisher creates a new PubSubPublisher using the GCP project from config.
// The client library honours PUBSUB_EMULATOR_HOST on its own.
func NewPublisher(ctx context.Context, cfg *config.Config) (*PubSubPublisher, error) {
	if cfg.GCPProjectID == "" {
		return nil, fmt.Errorf("GCP_PROJECT_ID is required for the pubsub events backend")
	}
	client, err := pubsub.NewClient(ctx, cfg.GCPProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Pub/Sub client: %w", err)
	}
	return &PubSubPublisher{client: client}, nil
}

// Publish sends the payload to the given Pub/Sub topic and returns the message ID.
func (p *PubSubPublisher) Publish(ctx context.Context, topic string, payload []byte) (string, error) {
	t := p.client.Topic(topic)
	result := t.Publish(ctx, &pubsub.Message{Data: payload})
	id, err := result.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to publish message to topic %s: %w", topic, err)
	}
	return id, nil
}

func (p *PubSubPublisher) Close() error {
	return p.client.Close()
}

// EnsureTopic creates topic unless it already exists. It reports whether a
// topic was created.
func (p *PubSubPublisher) EnsureTopic(ctx context.Context, topic string) (bool, error) {
	exists, err := p.client.Topic(topic).Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("checking topic %s: %w", topic, err)
	}
	if exists {
		return false, nil
	}
	if _, err := p.client.CreateTopic(ctx, topic); err != nil {
		return false, fmt.Errorf("creating topic %s: %w", topic, err)
	}
	return true, nil
}
