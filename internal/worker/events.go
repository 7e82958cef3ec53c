// Package worker drains the domain event queue written by the API when
// EVENTS_BACKEND=pgmq.
package worker

import (
	"context"
	"encoding/json"
	"time"

	"citadel/internal/model"
	"citadel/internal/pgmq"

	"github.com/rs/zerolog"
)

const (
	visibilityTimeoutSec = 30
	batchSize            = 10
)

// Queue is the subset of *pgmq.Client the consumer needs.
type Queue interface {
	Read(ctx context.Context, queue string, visibilitySec, maxMessages int) ([]*pgmq.Message, error)
	Delete(ctx context.Context, queue string, msgIDs []int64) error
}

// HandlerFunc processes one event. A returned error leaves the message on the
// queue to reappear after the visibility timeout.
type HandlerFunc func(ctx context.Context, e model.Event) error

// Run consumes events from queue until ctx is cancelled, sleeping idle between
// empty reads.
func Run(ctx context.Context, logger zerolog.Logger, q Queue, queue string, idle time.Duration, handle HandlerFunc) error {
	logger = logger.With().Str("queue", queue).Logger()
	logger.Info().Msg("Starting event consumer")
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Shutting down event consumer")
			return nil
		default:
		}

		msgs, err := q.Read(ctx, queue, visibilityTimeoutSec, batchSize)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			logger.Error().Err(err).Msg("Error reading event queue")
			sleep(ctx, time.Second)
			continue
		}
		if len(msgs) == 0 {
			sleep(ctx, idle)
			continue
		}

		done := make([]int64, 0, len(msgs))
		for _, msg := range msgs {
			var e model.Event
			if err := json.Unmarshal(msg.Data, &e); err != nil {
				logger.Warn().Err(err).Int64("msg_id", msg.ID).Msg("Dropping malformed event")
				done = append(done, msg.ID)
				continue
			}
			if err := handle(ctx, e); err != nil {
				logger.Error().Err(err).Int64("msg_id", msg.ID).Str("type", e.Type).Msg("Event handler failed")
				continue
			}
			done = append(done, msg.ID)
		}
		if len(done) == 0 {
			continue
		}
		if err := q.Delete(ctx, queue, done); err != nil {
			logger.Error().Err(err).Msg("Error deleting processed events")
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
