package repository

import (
	"context"
	"fmt"

	"citadel/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type IntegrationRepository interface {
	GetIntegrationsForUser(ctx context.Context, userID string) ([]model.Integration, error)
	// UpsertIntegration inserts, or on a (user_id, platform) conflict overwrites
	// is_connected, settings and updated_at.
	UpsertIntegration(ctx context.Context, in *model.Integration) error
}

type integrationRepo struct {
	pool *pgxpool.Pool
}

func NewIntegrationRepo(pool *pgxpool.Pool) IntegrationRepository {
	return &integrationRepo{pool: pool}
}

const integrationColumns = `id, user_id, platform, is_connected, settings, created_at, updated_at`

func scanIntegration(row scanner, in *model.Integration) error {
	return row.Scan(&in.ID, &in.UserID, &in.Platform, &in.IsConnected, &in.Settings, &in.CreatedAt, &in.UpdatedAt)
}

func (r *integrationRepo) GetIntegrationsForUser(ctx context.Context, userID string) ([]model.Integration, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+integrationColumns+` FROM integrations WHERE user_id = $1 ORDER BY platform`, userID)
	if err != nil {
		return nil, fmt.Errorf("query integrations for user %s: %w", userID, err)
	}
	defer rows.Close()

	integrations := []model.Integration{}
	for rows.Next() {
		var in model.Integration
		if err := scanIntegration(rows, &in); err != nil {
			return nil, fmt.Errorf("scan integration: %w", err)
		}
		integrations = append(integrations, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read integrations for user %s: %w", userID, err)
	}
	return integrations, nil
}

func (r *integrationRepo) UpsertIntegration(ctx context.Context, in *model.Integration) error {
	q := `
		INSERT INTO integrations (user_id, platform, is_connected, settings)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, platform) DO UPDATE SET
			is_connected = EXCLUDED.is_connected,
			settings = EXCLUDED.settings,
			updated_at = NOW()
		RETURNING ` + integrationColumns
	if err := scanIntegration(r.pool.QueryRow(ctx, q, in.UserID, in.Platform, in.IsConnected, in.Settings), in); err != nil {
		return fmt.Errorf("upsert %s integration for user %s: %w", in.Platform, in.UserID, err)
	}
	return nil
}
