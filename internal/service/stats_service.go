package service

import (
	"context"
	"errors"

	"citadel/internal/model"
	"citadel/internal/repository"
)

const (
	DefaultActivityLimit = 10
	MaxActivityLimit     = 100
)

type StatsService interface {
	// Get returns the user's counters, all zero when no row exists yet.
	Get(ctx context.Context, userID string) (*model.UserStats, error)
	Update(ctx context.Context, userID string, patch model.UserStatsPatch) (*model.UserStats, error)
	RecentActivity(ctx context.Context, userID string, limit int) ([]model.ActivityLog, error)
}

type statsService struct {
	statsRepo    repository.StatsRepository
	activityRepo repository.ActivityRepository
}

func NewStatsService(statsRepo repository.StatsRepository, activityRepo repository.ActivityRepository) StatsService {
	return &statsService{statsRepo: statsRepo, activityRepo: activityRepo}
}

func (s *statsService) Get(ctx context.Context, userID string) (*model.UserStats, error) {
	st, err := s.statsRepo.GetUserStats(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return &model.UserStats{UserID: userID}, nil
	}
	return st, err
}

func (s *statsService) Update(ctx context.Context, userID string, patch model.UserStatsPatch) (*model.UserStats, error) {
	return s.statsRepo.UpsertUserStats(ctx, userID, patch)
}

func (s *statsService) RecentActivity(ctx context.Context, userID string, limit int) ([]model.ActivityLog, error) {
	return s.activityRepo.GetActivityForUser(ctx, userID, ClampActivityLimit(limit))
}

// ClampActivityLimit maps non-positive limits to the default and caps large ones.
func ClampActivityLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultActivityLimit
	case limit > MaxActivityLimit:
		return MaxActivityLimit
	default:
		return limit
	}
}
