package pgmq

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Client wraps a Postgres pool for pgmq queue operations.
type Client struct {
	pool *pgxpool.Pool
}

// New returns a new PGMQ client backed by the given pool.
func New(pool *pgxpool.Pool) *Client {
	return &Client{pool: pool}
}

// Message represents a single pgmq message.
type Message struct {
	ID   int64  // message identifier
	Data []byte // raw JSON payload
}

// CreateQueue creates the queue if it does not exist yet.
func (c *Client) CreateQueue(ctx context.Context, queue string) error {
	if _, err := c.pool.Exec(ctx, "SELECT pgmq.create($1)", queue); err != nil {
		return fmt.Errorf("pgmq create %s failed: %w", queue, err)
	}
	return nil
}

// Send pushes a JSON payload into the given queue and returns the message id.
func (c *Client) Send(ctx context.Context, queue string, payload []byte) (int64, error) {
	var id int64
	if err := c.pool.QueryRow(ctx, "SELECT pgmq.send($1, $2::jsonb)", queue, string(payload)).Scan(&id); err != nil {
		return 0, fmt.Errorf("pgmq send failed: %w", err)
	}
	return id, nil
}

// Publish lets the client stand in for a topic publisher; the topic is the queue name.
func (c *Client) Publish(ctx context.Context, queue string, payload []byte) (string, error) {
	id, err := c.Send(ctx, queue, payload)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(id, 10), nil
}

// Read returns up to maxMessages from the queue, hiding them for visibilitySec seconds.
func (c *Client) Read(ctx context.Context, queue string, visibilitySec, maxMessages int) ([]*Message, error) {
	rows, err := c.pool.Query(ctx, "SELECT msg_id, message FROM pgmq.read($1, $2, $3)", queue, visibilitySec, maxMessages)
	if err != nil {
		return nil, fmt.Errorf("pgmq read failed: %w", err)
	}
	defer rows.Close()

	var msgs []*Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Data); err != nil {
			return nil, fmt.Errorf("pgmq read scan failed: %w", err)
		}
		msgs = append(msgs, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgmq read rows error: %w", err)
	}
	return msgs, nil
}

// Delete removes messages by their IDs from the specified queue.
func (c *Client) Delete(ctx context.Context, queue string, msgIDs []int64) error {
	if _, err := c.pool.Exec(ctx, "SELECT pgmq.delete($1, $2)", queue, msgIDs); err != nil {
		return fmt.Errorf("pgmq delete failed: %w", err)
	}
	return nil
}
