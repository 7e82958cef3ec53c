package service

import (
	"context"
	"errors"

	"citadel/internal/model"
	"citadel/internal/repository"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidTheme = errors.New("invalid theme")
)

type UserService interface {
	Get(ctx context.Context, id string) (*model.User, error)
	// SyncIdentity records the profile the identity provider returned at login.
	SyncIdentity(ctx context.Context, in *model.UserUpsert) (*model.User, error)
	UpdateTheme(ctx context.Context, id, theme string) (*model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	u, err := s.userRepo.GetUserByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) SyncIdentity(ctx context.Context, in *model.UserUpsert) (*model.User, error) {
	return s.userRepo.UpsertUser(ctx, in)
}

func (s *userService) UpdateTheme(ctx context.Context, id, theme string) (*model.User, error) {
	if !isTheme(theme) {
		return nil, ErrInvalidTheme
	}
	u, err := s.userRepo.UpdateTheme(ctx, id, theme)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func isTheme(t string) bool {
	for _, known := range model.Themes {
		if t == known {
			return true
		}
	}
	return false
}
