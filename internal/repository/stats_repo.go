package repository

import (
	"context"
	"errors"
	"fmt"

	"citadel/internal/model"

	"github.com/jackc/pgx/v5"
)

type StatsRepository interface {
	// GetUserStats returns ErrNotFound when the user has no counters yet.
	GetUserStats(ctx context.Context, userID string) (*model.UserStats, error)
	// UpsertUserStats overwrites the given counters in one statement, creating the row if needed.
	UpsertUserStats(ctx context.Context, userID string, patch model.UserStatsPatch) (*model.UserStats, error)
	// IncrementUserStats adds delta to the counters in one statement, creating the row if needed.
	IncrementUserStats(ctx context.Context, userID string, delta model.UserStatsDelta) (*model.UserStats, error)
	GetSystemStats(ctx context.Context) (*model.SystemStats, error)
}

type statsRepo struct {
	db DBTX
}

func NewStatsRepo(db DBTX) StatsRepository {
	return &statsRepo{db: db}
}

const statsColumns = `id, user_id, total_entries, hours_studied, active_rituals, connections, updated_at`

func scanStats(row scanner) (*model.UserStats, error) {
	var s model.UserStats
	if err := row.Scan(&s.ID, &s.UserID, &s.TotalEntries, &s.HoursStudied, &s.ActiveRituals, &s.Connections, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *statsRepo) GetUserStats(ctx context.Context, userID string) (*model.UserStats, error) {
	s, err := scanStats(r.db.QueryRow(ctx, `SELECT `+statsColumns+` FROM user_stats WHERE user_id = $1`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch stats for user %s: %w", userID, err)
	}
	return s, nil
}

// UpsertUserStats replaces the read-then-write pattern with INSERT ... ON
// CONFLICT so concurrent writers cannot both insert or lose an update.
func (r *statsRepo) UpsertUserStats(ctx context.Context, userID string, patch model.UserStatsPatch) (*model.UserStats, error) {
	q := `
		INSERT INTO user_stats (user_id, total_entries, hours_studied, active_rituals, connections)
		VALUES ($1, COALESCE($2, 0), COALESCE($3, 0), COALESCE($4, 0), COALESCE($5, 0))
		ON CONFLICT (user_id) DO UPDATE SET
			total_entries = COALESCE($2, user_stats.total_entries),
			hours_studied = COALESCE($3, user_stats.hours_studied),
			active_rituals = COALESCE($4, user_stats.active_rituals),
			connections = COALESCE($5, user_stats.connections),
			updated_at = NOW()
		RETURNING ` + statsColumns
	s, err := scanStats(r.db.QueryRow(ctx, q, userID, patch.TotalEntries, patch.HoursStudied, patch.ActiveRituals, patch.Connections))
	if err != nil {
		return nil, fmt.Errorf("upsert stats for user %s: %w", userID, err)
	}
	return s, nil
}

func (r *statsRepo) IncrementUserStats(ctx context.Context, userID string, d model.UserStatsDelta) (*model.UserStats, error) {
	q := `
		INSERT INTO user_stats (user_id, total_entries, hours_studied, active_rituals, connections)
		VALUES ($1, GREATEST($2, 0), GREATEST($3, 0), GREATEST($4, 0), GREATEST($5, 0))
		ON CONFLICT (user_id) DO UPDATE SET
			total_entries = GREATEST(user_stats.total_entries + $2, 0),
			hours_studied = GREATEST(user_stats.hours_studied + $3, 0),
			active_rituals = GREATEST(user_stats.active_rituals + $4, 0),
			connections = GREATEST(user_stats.connections + $5, 0),
			updated_at = NOW()
		RETURNING ` + statsColumns
	s, err := scanStats(r.db.QueryRow(ctx, q, userID, d.TotalEntries, d.HoursStudied, d.ActiveRituals, d.Connections))
	if err != nil {
		return nil, fmt.Errorf("increment stats for user %s: %w", userID, err)
	}
	return s, nil
}

func (r *statsRepo) GetSystemStats(ctx context.Context) (*model.SystemStats, error) {
	var st model.SystemStats
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM content_entries),
			(SELECT COUNT(*) FROM reminders),
			(SELECT COUNT(*) FROM activity_log)`).
		Scan(&st.TotalUsers, &st.TotalContent, &st.TotalReminders, &st.TotalActivities)
	if err != nil {
		return nil, fmt.Errorf("count system totals: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT subscription_status, COUNT(*)
		FROM users
		GROUP BY subscription_status
		ORDER BY subscription_status`)
	if err != nil {
		return nil, fmt.Errorf("count subscriptions: %w", err)
	}
	defer rows.Close()

	st.SubscriptionBreakdown = []model.SubscriptionCount{}
	for rows.Next() {
		var c model.SubscriptionCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, fmt.Errorf("scan subscription count: %w", err)
		}
		st.SubscriptionBreakdown = append(st.SubscriptionBreakdown, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count subscriptions: %w", err)
	}
	return &st, nil
}
