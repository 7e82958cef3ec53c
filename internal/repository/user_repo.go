package repository

import (
	"context"
	"errors"
	"fmt"

	"citadel/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByStripeCustomerID(ctx context.Context, customerID string) (*model.User, error)
	// UpsertUser inserts the user or, on an id conflict, overwrites the non-nil fields.
	UpsertUser(ctx context.Context, u *model.UserUpsert) (*model.User, error)
	UpdateTheme(ctx context.Context, id, theme string) (*model.User, error)
	UpdateStripeInfo(ctx context.Context, id, customerID, subscriptionID string) (*model.User, error)
	UpdateSubscriptionStatus(ctx context.Context, id, status string) error
	UpdateRole(ctx context.Context, id, role string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	// DeleteUser removes every row owned by the user, then the user, in one transaction.
	DeleteUser(ctx context.Context, id string) error
}

type userRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) UserRepository {
	return &userRepo{pool: pool}
}

const userColumns = `id, email, first_name, last_name, profile_image_url, stripe_customer_id,
	stripe_subscription_id, subscription_status, role, theme, created_at, updated_at`

func scanUser(row scanner) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.ProfileImageURL,
		&u.StripeCustomerID,
		&u.StripeSubscriptionID,
		&u.SubscriptionStatus,
		&u.Role,
		&u.Theme,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, q, id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("fetch user %s: %w", id, err)
	}
	return u, err
}

func (r *userRepo) GetUserByStripeCustomerID(ctx context.Context, customerID string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE stripe_customer_id = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, q, customerID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("fetch user by stripe customer %s: %w", customerID, err)
	}
	return u, err
}

func (r *userRepo) UpsertUser(ctx context.Context, in *model.UserUpsert) (*model.User, error) {
	q := `
		INSERT INTO users (id, email, first_name, last_name, profile_image_url, theme)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6, 'dark-academia'))
		ON CONFLICT (id) DO UPDATE SET
			email = COALESCE(EXCLUDED.email, users.email),
			first_name = COALESCE(EXCLUDED.first_name, users.first_name),
			last_name = COALESCE(EXCLUDED.last_name, users.last_name),
			profile_image_url = COALESCE(EXCLUDED.profile_image_url, users.profile_image_url),
			theme = COALESCE($6, users.theme),
			updated_at = NOW()
		RETURNING ` + userColumns
	u, err := scanUser(r.pool.QueryRow(ctx, q, in.ID, in.Email, in.FirstName, in.LastName, in.ProfileImageURL, in.Theme))
	if err != nil {
		return nil, fmt.Errorf("upsert user %s: %w", in.ID, err)
	}
	return u, nil
}

func (r *userRepo) UpdateTheme(ctx context.Context, id, theme string) (*model.User, error) {
	q := `UPDATE users SET theme = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + userColumns
	u, err := scanUser(r.pool.QueryRow(ctx, q, theme, id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("update theme for user %s: %w", id, err)
	}
	return u, err
}

// UpdateStripeInfo stores billing references only; subscription_status is
// driven by webhook events.
func (r *userRepo) UpdateStripeInfo(ctx context.Context, id, customerID, subscriptionID string) (*model.User, error) {
	q := `
		UPDATE users
		SET stripe_customer_id = $1, stripe_subscription_id = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING ` + userColumns
	u, err := scanUser(r.pool.QueryRow(ctx, q, customerID, subscriptionID, id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("store stripe info for user %s: %w", id, err)
	}
	return u, err
}

func (r *userRepo) UpdateSubscriptionStatus(ctx context.Context, id, status string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET subscription_status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update subscription status for user %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepo) UpdateRole(ctx context.Context, id, role string) (*model.User, error) {
	q := `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + userColumns
	u, err := scanUser(r.pool.QueryRow(ctx, q, role, id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("update role for user %s: %w", id, err)
	}
	return u, err
}

func (r *userRepo) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// cascadeTables lists the child tables in the order they are cleared before
// the users row; foreign keys require children first.
var cascadeTables = []string{
	"content_entries",
	"reminders",
	"user_stats",
	"activity_log",
	"integrations",
}

func (r *userRepo) DeleteUser(ctx context.Context, id string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin delete of user %s: %w", id, err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	for _, table := range cascadeTables {
		if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE user_id = $1`, id); err != nil {
			return fmt.Errorf("delete %s of user %s: %w", table, id, err)
		}
	}
	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete of user %s: %w", id, err)
	}
	return nil
}
