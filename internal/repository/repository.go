package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a single addressed row does not exist.
var ErrNotFound = errors.New("not found")

// scanner is satisfied by pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Transactor runs fn with repositories bound to one transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	InTx(ctx context.Context, fn func(tx *Store) error) error
}

// Store bundles the per-entity repositories over one pool. It is the only
// component that touches persistent storage.
type Store struct {
	Users        UserRepository
	Content      ContentRepository
	Reminders    ReminderRepository
	Stats        StatsRepository
	Activity     ActivityRepository
	Integrations IntegrationRepository
	Sessions     SessionRepository

	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		Users:        NewUserRepo(pool),
		Content:      NewContentRepo(pool),
		Reminders:    NewReminderRepo(pool),
		Stats:        NewStatsRepo(pool),
		Activity:     NewActivityRepo(pool),
		Integrations: NewIntegrationRepo(pool),
		Sessions:     NewSessionRepo(pool),
		pool:         pool,
	}
}

// InTx hands fn a Store whose Content, Activity and Stats repositories run on
// a single transaction. The other repositories are left nil.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&Store{
			Content:  NewContentRepo(tx),
			Activity: NewActivityRepo(tx),
			Stats:    NewStatsRepo(tx),
		})
	})
}

// setClause accumulates "col = $n" assignments for partial updates.
type setClause struct {
	parts []string
	args  []any
}

func (s *setClause) add(column string, value any) {
	s.args = append(s.args, value)
	s.parts = append(s.parts, fmt.Sprintf("%s = $%d", column, len(s.args)))
}

// build returns the assignments plus updated_at and the placeholder index for the key.
func (s *setClause) build() (string, int) {
	parts := append(append([]string{}, s.parts...), "updated_at = NOW()")
	return strings.Join(parts, ", "), len(s.args) + 1
}
