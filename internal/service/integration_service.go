package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"citadel/internal/model"
	"citadel/internal/repository"

	"github.com/rs/zerolog"
)

// IntegrationInput is one toggle request. APIKey never reaches the database.
type IntegrationInput struct {
	UserID      string
	Platform    string
	IsConnected bool
	Settings    json.RawMessage
	APIKey      string
}

type IntegrationService interface {
	List(ctx context.Context, userID string) ([]model.Integration, error)
	Upsert(ctx context.Context, in IntegrationInput) (*model.Integration, error)
}

type integrationService struct {
	repo    repository.IntegrationRepository
	secrets SecretManagerService
	events  EventPublisher
	logger  zerolog.Logger
}

// NewIntegrationService builds the service; secrets may be nil when no
// secret store is configured.
func NewIntegrationService(repo repository.IntegrationRepository, secrets SecretManagerService, events EventPublisher, logger zerolog.Logger) IntegrationService {
	return &integrationService{
		repo:    repo,
		secrets: secrets,
		events:  events,
		logger:  logger.With().Str("service", "IntegrationService").Logger(),
	}
}

func (s *integrationService) List(ctx context.Context, userID string) ([]model.Integration, error) {
	return s.repo.GetIntegrationsForUser(ctx, userID)
}

func (s *integrationService) Upsert(ctx context.Context, in IntegrationInput) (*model.Integration, error) {
	if in.APIKey != "" && s.secrets == nil {
		return nil, ErrSecretsUnavailable
	}

	if s.secrets != nil {
		switch {
		case in.IsConnected && in.APIKey != "":
			if err := s.secrets.StoreUserAPIKey(ctx, in.UserID, in.Platform, in.APIKey); err != nil {
				return nil, fmt.Errorf("store %s key: %w", in.Platform, err)
			}
		case !in.IsConnected:
			if err := s.secrets.DeleteUserAPIKey(ctx, in.UserID, in.Platform); err != nil {
				s.logger.Warn().Err(err).Str("user_id", in.UserID).Str("platform", in.Platform).Msg("Failed to delete integration key")
			}
		}
	}

	settings := in.Settings
	if len(settings) == 0 || string(settings) == "null" {
		settings = json.RawMessage(`{}`)
	}
	integration := &model.Integration{
		UserID:      in.UserID,
		Platform:    in.Platform,
		IsConnected: in.IsConnected,
		Settings:    settings,
	}
	if err := s.repo.UpsertIntegration(ctx, integration); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, model.Event{
		Type:     model.EventIntegrationToggled,
		UserID:   in.UserID,
		EntityID: integration.ID,
		Attributes: map[string]string{
			"platform":    in.Platform,
			"isConnected": fmt.Sprint(in.IsConnected),
		},
		OccurredAt: time.Now().UTC(),
	})
	return integration, nil
}
