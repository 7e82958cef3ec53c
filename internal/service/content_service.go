package service

import (
	"context"
	"fmt"
	"time"

	"citadel/internal/agenda"
	"citadel/internal/model"
	"citadel/internal/repository"

	"github.com/rs/zerolog"
)

type ContentService interface {
	List(ctx context.Context, userID, category string) ([]model.ContentEntry, error)
	OwnerOf(ctx context.Context, id int64) (string, error)
	// Create stores the entry, appends a content_created activity row and bumps
	// the owner's entry counter in one transaction. The event is published only
	// after commit.
	Create(ctx context.Context, e *model.ContentEntry) error
	Update(ctx context.Context, id int64, patch model.ContentEntryPatch) (*model.ContentEntry, error)
	Delete(ctx context.Context, id int64) error
	CategoryCounts(ctx context.Context, userID string) (map[string]int, error)
}

type contentService struct {
	contentRepo repository.ContentRepository
	tx          repository.Transactor
	events      EventPublisher
	logger      zerolog.Logger
}

func NewContentService(
	contentRepo repository.ContentRepository,
	tx repository.Transactor,
	events EventPublisher,
	logger zerolog.Logger,
) ContentService {
	return &contentService{
		contentRepo: contentRepo,
		tx:          tx,
		events:      events,
		logger:      logger.With().Str("service", "ContentService").Logger(),
	}
}

func (s *contentService) List(ctx context.Context, userID, category string) ([]model.ContentEntry, error) {
	return s.contentRepo.GetEntriesForUser(ctx, userID, category)
}

func (s *contentService) OwnerOf(ctx context.Context, id int64) (string, error) {
	e, err := s.contentRepo.GetEntryByID(ctx, id)
	if err != nil {
		return "", err
	}
	return e.UserID, nil
}

func (s *contentService) Create(ctx context.Context, e *model.ContentEntry) error {
	err := s.tx.InTx(ctx, func(tx *repository.Store) error {
		if err := tx.Content.CreateEntry(ctx, e); err != nil {
			return err
		}

		desc := fmt.Sprintf("Added %q to %s", e.Title, e.Category)
		activity := &model.ActivityLog{
			UserID:      e.UserID,
			Action:      model.ActionContentCreated,
			Description: &desc,
			ImageURL:    e.ImageURL,
		}
		if err := tx.Activity.CreateActivity(ctx, activity); err != nil {
			return fmt.Errorf("log activity for entry %d: %w", e.ID, err)
		}
		if _, err := tx.Stats.IncrementUserStats(ctx, e.UserID, model.UserStatsDelta{TotalEntries: 1}); err != nil {
			return fmt.Errorf("bump stats for user %s: %w", e.UserID, err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", e.UserID).Msg("Failed to create content entry")
		return err
	}

	s.events.Publish(ctx, model.Event{
		Type:       model.EventContentCreated,
		UserID:     e.UserID,
		EntityID:   e.ID,
		Attributes: map[string]string{"category": e.Category},
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

func (s *contentService) Update(ctx context.Context, id int64, patch model.ContentEntryPatch) (*model.ContentEntry, error) {
	return s.contentRepo.UpdateEntry(ctx, id, patch)
}

func (s *contentService) Delete(ctx context.Context, id int64) error {
	return s.contentRepo.DeleteEntry(ctx, id)
}

func (s *contentService) CategoryCounts(ctx context.Context, userID string) (map[string]int, error) {
	entries, err := s.contentRepo.GetEntriesForUser(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	return agenda.CategoryCounts(entries), nil
}
