package service

import (
	"context"
	"time"

	"citadel/internal/agenda"
	"citadel/internal/model"
	"citadel/internal/repository"
)

type ReminderService interface {
	List(ctx context.Context, userID string, filter agenda.StatusFilter) ([]model.Reminder, error)
	// Upcoming returns the soonest n incomplete reminders tagged with urgency at now.
	Upcoming(ctx context.Context, userID string, n int, now time.Time) ([]agenda.Classified, error)
	OwnerOf(ctx context.Context, id int64) (string, error)
	Create(ctx context.Context, r *model.Reminder) error
	Update(ctx context.Context, id int64, patch model.ReminderPatch) (*model.Reminder, error)
	Delete(ctx context.Context, id int64) error
}

type reminderService struct {
	repo repository.ReminderRepository
}

func NewReminderService(repo repository.ReminderRepository) ReminderService {
	return &reminderService{repo: repo}
}

func (s *reminderService) List(ctx context.Context, userID string, filter agenda.StatusFilter) ([]model.Reminder, error) {
	reminders, err := s.repo.GetRemindersForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return agenda.Filter(reminders, filter), nil
}

func (s *reminderService) Upcoming(ctx context.Context, userID string, n int, now time.Time) ([]agenda.Classified, error) {
	reminders, err := s.repo.GetRemindersForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return agenda.ClassifyAll(agenda.Upcoming(reminders, n), now), nil
}

func (s *reminderService) OwnerOf(ctx context.Context, id int64) (string, error) {
	r, err := s.repo.GetReminderByID(ctx, id)
	if err != nil {
		return "", err
	}
	return r.UserID, nil
}

func (s *reminderService) Create(ctx context.Context, r *model.Reminder) error {
	return s.repo.CreateReminder(ctx, r)
}

func (s *reminderService) Update(ctx context.Context, id int64, patch model.ReminderPatch) (*model.Reminder, error) {
	return s.repo.UpdateReminder(ctx, id, patch)
}

func (s *reminderService) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteReminder(ctx, id)
}
