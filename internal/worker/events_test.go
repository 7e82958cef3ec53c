package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"citadel/internal/model"
	"citadel/internal/pgmq"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memQueue struct {
	mu      sync.Mutex
	pending []*pgmq.Message
	deleted []int64
}

func (q *memQueue) Read(_ context.Context, _ string, _, max int) ([]*pgmq.Message, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := min(max, len(q.pending))
	out := q.pending[:n]
	q.pending = q.pending[n:]
	return out, nil
}

func (q *memQueue) Delete(_ context.Context, _ string, ids []int64) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.deleted = append(q.deleted, ids...)
	return nil
}

func (q *memQueue) deletedIDs() []int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]int64(nil), q.deleted...)
}

func TestRunDeletesHandledAndMalformed(t *testing.T) {
	q := &memQueue{pending: []*pgmq.Message{
		{ID: 1, Data: []byte(`{"type":"content.created","userId":"u1","entityId":7}`)},
		{ID: 2, Data: []byte(`not json`)},
		{ID: 3, Data: []byte(`{"type":"integration.toggled","userId":"u1"}`)},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var seen []string
	handle := func(_ context.Context, e model.Event) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, e.Type)
		if e.Type == model.EventIntegrationToggled {
			return errors.New("try later")
		}
		return nil
	}

	errCh := make(chan error, 1)
	go func() { errCh <- Run(ctx, zerolog.Nop(), q, "events", 5*time.Millisecond, handle) }()

	require.Eventually(t, func() bool { return len(q.deletedIDs()) == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-errCh)

	assert.ElementsMatch(t, []int64{1, 2}, q.deletedIDs())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{model.EventContentCreated, model.EventIntegrationToggled}, seen)
}
