package repository

import (
	"context"
	"errors"
	"fmt"

	"citadel/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReminderRepository interface {
	// GetRemindersForUser returns the user's reminders soonest due first.
	GetRemindersForUser(ctx context.Context, userID string) ([]model.Reminder, error)
	GetReminderByID(ctx context.Context, id int64) (*model.Reminder, error)
	CreateReminder(ctx context.Context, rem *model.Reminder) error
	UpdateReminder(ctx context.Context, id int64, patch model.ReminderPatch) (*model.Reminder, error)
	DeleteReminder(ctx context.Context, id int64) error
	ListAllReminders(ctx context.Context) ([]model.Reminder, error)
}

type reminderRepo struct {
	pool *pgxpool.Pool
}

func NewReminderRepo(pool *pgxpool.Pool) ReminderRepository {
	return &reminderRepo{pool: pool}
}

const reminderColumns = `id, user_id, title, description, due_date, is_completed, type, created_at, updated_at`

func scanReminder(row scanner) (*model.Reminder, error) {
	var rem model.Reminder
	if err := row.Scan(
		&rem.ID,
		&rem.UserID,
		&rem.Title,
		&rem.Description,
		&rem.DueDate,
		&rem.IsCompleted,
		&rem.Type,
		&rem.CreatedAt,
		&rem.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rem, nil
}

func collectReminders(rows pgx.Rows) ([]model.Reminder, error) {
	defer rows.Close()
	reminders := []model.Reminder{}
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		reminders = append(reminders, *rem)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reminders, nil
}

func (r *reminderRepo) GetRemindersForUser(ctx context.Context, userID string) ([]model.Reminder, error) {
	q := `SELECT ` + reminderColumns + ` FROM reminders WHERE user_id = $1 ORDER BY due_date ASC, id ASC`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("query reminders for user %s: %w", userID, err)
	}
	reminders, err := collectReminders(rows)
	if err != nil {
		return nil, fmt.Errorf("read reminders for user %s: %w", userID, err)
	}
	return reminders, nil
}

func (r *reminderRepo) GetReminderByID(ctx context.Context, id int64) (*model.Reminder, error) {
	rem, err := scanReminder(r.pool.QueryRow(ctx, `SELECT `+reminderColumns+` FROM reminders WHERE id = $1`, id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("fetch reminder %d: %w", id, err)
	}
	return rem, err
}

func (r *reminderRepo) CreateReminder(ctx context.Context, rem *model.Reminder) error {
	q := `
		INSERT INTO reminders (user_id, title, description, due_date, is_completed, type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + reminderColumns
	created, err := scanReminder(r.pool.QueryRow(ctx, q, rem.UserID, rem.Title, rem.Description, rem.DueDate, rem.IsCompleted, rem.Type))
	if err != nil {
		return fmt.Errorf("insert reminder: %w", err)
	}
	*rem = *created
	return nil
}

func (r *reminderRepo) UpdateReminder(ctx context.Context, id int64, patch model.ReminderPatch) (*model.Reminder, error) {
	var set setClause
	if patch.Title != nil {
		set.add("title", *patch.Title)
	}
	if patch.ClearDescription {
		set.add("description", nil)
	} else if patch.Description != nil {
		set.add("description", *patch.Description)
	}
	if patch.DueDate != nil {
		set.add("due_date", *patch.DueDate)
	}
	if patch.IsCompleted != nil {
		set.add("is_completed", *patch.IsCompleted)
	}
	if patch.Type != nil {
		set.add("type", *patch.Type)
	}

	assignments, idx := set.build()
	q := fmt.Sprintf(`UPDATE reminders SET %s WHERE id = $%d RETURNING %s`, assignments, idx, reminderColumns)
	rem, err := scanReminder(r.pool.QueryRow(ctx, q, append(set.args, id)...))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("update reminder %d: %w", id, err)
	}
	return rem, err
}

func (r *reminderRepo) DeleteReminder(ctx context.Context, id int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM reminders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete reminder %d: %w", id, err)
	}
	return nil
}

func (r *reminderRepo) ListAllReminders(ctx context.Context) ([]model.Reminder, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+reminderColumns+` FROM reminders ORDER BY due_date ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	reminders, err := collectReminders(rows)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	return reminders, nil
}
