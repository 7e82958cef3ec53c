package repository

import (
	"context"
	"fmt"

	"citadel/internal/model"
)

// ActivityRepository reads and appends to the activity feed. Rows are never updated.
type ActivityRepository interface {
	GetActivityForUser(ctx context.Context, userID string, limit int) ([]model.ActivityLog, error)
	CreateActivity(ctx context.Context, a *model.ActivityLog) error
	ListAllActivities(ctx context.Context, limit int) ([]model.ActivityLog, error)
}

type activityRepo struct {
	db DBTX
}

func NewActivityRepo(db DBTX) ActivityRepository {
	return &activityRepo{db: db}
}

const activityColumns = `id, user_id, action, description, image_url, created_at`

func (r *activityRepo) query(ctx context.Context, q string, args ...any) ([]model.ActivityLog, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := []model.ActivityLog{}
	for rows.Next() {
		var a model.ActivityLog
		if err := rows.Scan(&a.ID, &a.UserID, &a.Action, &a.Description, &a.ImageURL, &a.CreatedAt); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func (r *activityRepo) GetActivityForUser(ctx context.Context, userID string, limit int) ([]model.ActivityLog, error) {
	q := `SELECT ` + activityColumns + ` FROM activity_log WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`
	activities, err := r.query(ctx, q, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query activity for user %s: %w", userID, err)
	}
	return activities, nil
}

func (r *activityRepo) CreateActivity(ctx context.Context, a *model.ActivityLog) error {
	q := `
		INSERT INTO activity_log (user_id, action, description, image_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	if err := r.db.QueryRow(ctx, q, a.UserID, a.Action, a.Description, a.ImageURL).Scan(&a.ID, &a.CreatedAt); err != nil {
		return fmt.Errorf("insert activity for user %s: %w", a.UserID, err)
	}
	return nil
}

func (r *activityRepo) ListAllActivities(ctx context.Context, limit int) ([]model.ActivityLog, error) {
	q := `SELECT ` + activityColumns + ` FROM activity_log ORDER BY created_at DESC, id DESC LIMIT $1`
	activities, err := r.query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return activities, nil
}
