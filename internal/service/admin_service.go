package service

import (
	"context"
	"errors"

	"citadel/internal/model"
	"citadel/internal/repository"

	"github.com/rs/zerolog"
)

// AdminService backs the admin views. Callers must already have checked the
// admin role.
type AdminService interface {
	SystemStats(ctx context.Context) (*model.SystemStats, error)
	Users(ctx context.Context) ([]model.User, error)
	Content(ctx context.Context) ([]model.ContentEntry, error)
	Reminders(ctx context.Context) ([]model.Reminder, error)
	Activities(ctx context.Context, limit int) ([]model.ActivityLog, error)
	SetRole(ctx context.Context, userID, role string) (*model.User, error)
	DeleteUser(ctx context.Context, userID string) error
}

type adminService struct {
	store  *repository.Store
	logger zerolog.Logger
}

func NewAdminService(store *repository.Store, logger zerolog.Logger) AdminService {
	return &adminService{store: store, logger: logger.With().Str("service", "AdminService").Logger()}
}

func (s *adminService) SystemStats(ctx context.Context) (*model.SystemStats, error) {
	return s.store.Stats.GetSystemStats(ctx)
}

func (s *adminService) Users(ctx context.Context) ([]model.User, error) {
	return s.store.Users.ListUsers(ctx)
}

func (s *adminService) Content(ctx context.Context) ([]model.ContentEntry, error) {
	return s.store.Content.ListAllEntries(ctx)
}

func (s *adminService) Reminders(ctx context.Context) ([]model.Reminder, error) {
	return s.store.Reminders.ListAllReminders(ctx)
}

func (s *adminService) Activities(ctx context.Context, limit int) ([]model.ActivityLog, error) {
	return s.store.Activity.ListAllActivities(ctx, ClampActivityLimit(limit))
}

func (s *adminService) SetRole(ctx context.Context, userID, role string) (*model.User, error) {
	u, err := s.store.Users.UpdateRole(ctx, userID, role)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", userID).Str("role", role).Msg("User role changed")
	return u, nil
}

func (s *adminService) DeleteUser(ctx context.Context, userID string) error {
	err := s.store.Users.DeleteUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Msg("User deleted with owned rows")
	return nil
}
