package pubsub

import (
	"context"
	"os"
	"testing"
	"time"

	"citadel/internal/config"

	ps "cloud.google.com/go/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublisherInvalidProject(t *testing.T) {
	cfg := &config.Config{GCPProjectID: ""}
	_, err := NewPublisher(context.Background(), cfg)
	assert.Error(t, err, "expected error when project ID is empty")
}

func TestPublishWithEmulator(t *testing.T) {
	if os.Getenv("PUBSUB_EMULATOR_HOST") == "" {
		t.Skip("PUBSUB_EMULATOR_HOST is not set, skip emulator integration test")
	}

	ctx := context.Background()
	pub, err := NewPublisher(ctx, &config.Config{GCPProjectID: "test-project"})
	require.NoError(t, err)
	defer pub.Close()

	topic, err := pub.client.CreateTopic(ctx, "citadel-events-test")
	require.NoError(t, err)
	sub, err := pub.client.CreateSubscription(ctx, "citadel-events-test-sub", ps.SubscriptionConfig{Topic: topic})
	require.NoError(t, err)

	msgID, err := pub.Publish(ctx, topic.ID(), []byte(`{"type":"content.created"}`))
	require.NoError(t, err)
	assert.NotEmpty(t, msgID)

	recvCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	c := make(chan []byte, 1)
	go func() {
		_ = sub.Receive(recvCtx, func(ctx context.Context, m *ps.Message) {
			c <- m.Data
			m.Ack()
			cancel()
		})
	}()

	select {
	case data := <-c:
		assert.JSONEq(t, `{"type":"content.created"}`, string(data))
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for message from emulator subscription")
	}
}

func TestEnsureTopicWithEmulator(t *testing.T) {
	if os.Getenv("PUBSUB_EMULATOR_HOST") == "" {
		t.Skip("PUBSUB_EMULATOR_HOST is not set, skip emulator integration test")
	}

	ctx := context.Background()
	pub, err := NewPublisher(ctx, &config.Config{GCPProjectID: "test-project"})
	require.NoError(t, err)
	defer pub.Close()

	created, err := pub.EnsureTopic(ctx, "citadel-ensure-test")
	require.NoError(t, err)
	assert.True(t, created)
	defer func() { _ = pub.client.Topic("citadel-ensure-test").Delete(ctx) }()

	created, err = pub.EnsureTopic(ctx, "citadel-ensure-test")
	require.NoError(t, err)
	assert.False(t, created)
}
