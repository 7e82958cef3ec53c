package service

import (
	"context"
	"errors"
	"fmt"

	"citadel/internal/config"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrSecretsUnavailable is returned when a credential is supplied but no
// secret store is configured.
var ErrSecretsUnavailable = errors.New("secret storage is not configured")

type SecretManagerService interface {
	StoreUserAPIKey(ctx context.Context, userID, platform, apiKey string) error
	GetUserAPIKey(ctx context.Context, userID, platform string) (string, error)
	// DeleteUserAPIKey is a no-op when the secret does not exist.
	DeleteUserAPIKey(ctx context.Context, userID, platform string) error
}

type secretManagerService struct {
	client    *secretmanager.Client
	projectID string
}

func NewSecretManagerService(ctx context.Context, cfg *config.Config) (SecretManagerService, error) {
	if cfg.GCPProjectID == "" {
		return nil, fmt.Errorf("GCP_PROJECT_ID is required when SECRETS_ENABLED is set")
	}

	var opts []option.ClientOption
	if cfg.GCPCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GCPCredentialsFile))
	}

	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Secret Manager client: %w", err)
	}

	return &secretManagerService{
		client:    client,
		projectID: cfg.GCPProjectID,
	}, nil
}

// SecretName is the secret id holding one user's key for one platform.
func SecretName(userID, platform string) string {
	return fmt.Sprintf("user-%s-%s-key", userID, platform)
}

func (s *secretManagerService) secretPath(userID, platform string) string {
	return fmt.Sprintf("projects/%s/secrets/%s", s.projectID, SecretName(userID, platform))
}

func (s *secretManagerService) StoreUserAPIKey(ctx context.Context, userID, platform, apiKey string) error {
	secretPath := s.secretPath(userID, platform)

	_, err := s.client.GetSecret(ctx, &secretmanagerpb.GetSecretRequest{Name: secretPath})
	if status.Code(err) == codes.NotFound {
		createReq := &secretmanagerpb.CreateSecretRequest{
			Parent:   fmt.Sprintf("projects/%s", s.projectID),
			SecretId: SecretName(userID, platform),
			Secret: &secretmanagerpb.Secret{
				Replication: &secretmanagerpb.Replication{
					Replication: &secretmanagerpb.Replication_Automatic_{
						Automatic: &secretmanagerpb.Replication_Automatic{},
					},
				},
			},
		}
		if _, err := s.client.CreateSecret(ctx, createReq); err != nil {
			return fmt.Errorf("failed to create secret: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to look up secret: %w", err)
	}

	addVersionReq := &secretmanagerpb.AddSecretVersionRequest{
		Parent:  secretPath,
		Payload: &secretmanagerpb.SecretPayload{Data: []byte(apiKey)},
	}
	if _, err := s.client.AddSecretVersion(ctx, addVersionReq); err != nil {
		return fmt.Errorf("failed to add secret version: %w", err)
	}
	return nil
}

func (s *secretManagerService) GetUserAPIKey(ctx context.Context, userID, platform string) (string, error) {
	req := &secretmanagerpb.AccessSecretVersionRequest{
		Name: s.secretPath(userID, platform) + "/versions/latest",
	}
	result, err := s.client.AccessSecretVersion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to access secret version: %w", err)
	}
	return string(result.Payload.Data), nil
}

func (s *secretManagerService) DeleteUserAPIKey(ctx context.Context, userID, platform string) error {
	err := s.client.DeleteSecret(ctx, &secretmanagerpb.DeleteSecretRequest{Name: s.secretPath(userID, platform)})
	if err != nil && status.Code(err) != codes.NotFound {
		return fmt.Errorf("failed to delete secret: %w", err)
	}
	return nil
}
