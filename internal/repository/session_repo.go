package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"citadel/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionRepository persists browser sessions keyed by an opaque id.
type SessionRepository interface {
	// GetSession ignores expired rows.
	GetSession(ctx context.Context, sid string) (*model.Session, error)
	SaveSession(ctx context.Context, s *model.Session) error
	DeleteSession(ctx context.Context, sid string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

type sessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) SessionRepository {
	return &sessionRepo{pool: pool}
}

func (r *sessionRepo) GetSession(ctx context.Context, sid string) (*model.Session, error) {
	var s model.Session
	err := r.pool.QueryRow(ctx, `SELECT sid, sess, expire FROM sessions WHERE sid = $1 AND expire > NOW()`, sid).
		Scan(&s.SID, &s.Data, &s.Expire)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch session: %w", err)
	}
	return &s, nil
}

func (r *sessionRepo) SaveSession(ctx context.Context, s *model.Session) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sessions (sid, sess, expire)
		VALUES ($1, $2, $3)
		ON CONFLICT (sid) DO UPDATE SET sess = EXCLUDED.sess, expire = EXCLUDED.expire`,
		s.SID, s.Data, s.Expire.UTC().Truncate(time.Microsecond))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *sessionRepo) DeleteSession(ctx context.Context, sid string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE sid = $1`, sid); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *sessionRepo) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expire <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
