package services

import (
	"context"
	"time"

	"github.com/vytor/menuflash/internal/content"
	"github.com/vytor/menuflash/internal/errors"
	"github.com/vytor/menuflash/internal/logger"
	"github.com/vytor/menuflash/internal/mastery"
	"github.com/vytor/menuflash/internal/models"
	"github.com/vytor/menuflash/internal/repository"
	"github.com/vytor/menuflash/internal/review"
)

// ProgressService handles per-item mastery progress
type ProgressService interface {
	// GetProgress returns a fresh record for items that were never answered.
	GetProgress(ctx context.Context, itemID string) (*models.ItemProgress, error)
	RecordAttempt(ctx context.Context, itemID, componentID string, correct bool, responseTimeMs int, now time.Time) (AttemptResult, error)
	ListProgress(ctx context.Context, filter models.ProgressFilter) ([]*models.ItemProgress, error)
	ProgressMap(ctx context.Context) (map[string]*models.ItemProgress, error)
	SetBookmarked(ctx context.Context, itemID string, bookmarked bool) error
	SetNeedsReview(ctx context.Context, itemID string, needsReview bool) error
	DueItems(ctx context.Context, now time.Time) ([]models.MenuItem, error)
}

// AttemptResult is the progress after an attempt and the item status before it.
type AttemptResult struct {
	Progress       *models.ItemProgress
	PreviousStatus models.Status
}

// Mastered reports whether the attempt moved the item into mastered.
func (r AttemptResult) Mastered() bool {
	return r.Progress != nil && r.Progress.Status == models.StatusMastered && r.PreviousStatus != models.StatusMastered
}

type progressService struct {
	progressRepo repository.ProgressRepository
	menu         *content.Source
	itemLocks    *keyedMutex
}

// NewProgressService creates a new ProgressService
func NewProgressService(progressRepo repository.ProgressRepository, menu *content.Source) ProgressService {
	return &progressService{
		progressRepo: progressRepo,
		menu:         menu,
		itemLocks:    newKeyedMutex(),
	}
}

func (s *progressService) requireItem(itemID string) error {
	if _, ok := s.menu.Catalog().Item(itemID); !ok {
		return errors.NewNotFoundError("menu item", itemID)
	}
	return nil
}

func (s *progressService) GetProgress(ctx context.Context, itemID string) (*models.ItemProgress, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting progress: item_id=%s", itemID)

	if err := s.requireItem(itemID); err != nil {
		return nil, err
	}

	p, err := s.progressRepo.Get(ctx, itemID)
	if err != nil {
		log.Error("failed to get progress: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if p == nil {
		return mastery.NewItemProgress(itemID), nil
	}
	return p, nil
}

// RecordAttempt is a read-modify-write; the item lock keeps at most one in
// flight per item.
func (s *progressService) RecordAttempt(ctx context.Context, itemID, componentID string, correct bool, responseTimeMs int, now time.Time) (AttemptResult, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{"item_id": itemID, "component_id": componentID})
	log.Debug("recording attempt: correct=%v, response_ms=%d", correct, responseTimeMs)

	unlock := s.itemLocks.Lock(itemID)
	defer unlock()

	current, err := s.progressRepo.Get(ctx, itemID)
	if err != nil {
		log.Error("failed to load progress: %v", err)
		return AttemptResult{}, errors.NewInternalError(err)
	}
	previous := models.StatusNew
	if current != nil {
		previous = current.Status
	}

	next := mastery.RecordAttempt(current, itemID, componentID, correct, responseTimeMs, now)
	if err := s.progressRepo.Save(ctx, next); err != nil {
		log.Error("failed to save progress: %v", err)
		return AttemptResult{}, errors.NewInternalError(err)
	}

	if previous != next.Status {
		log.Info("item status changed: %s -> %s", previous, next.Status)
	}
	return AttemptResult{Progress: next, PreviousStatus: previous}, nil
}

func (s *progressService) ListProgress(ctx context.Context, filter models.ProgressFilter) ([]*models.ItemProgress, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing progress")

	if filter.Status != "" && !filter.Status.Valid() {
		return nil, errors.NewValidationError("status", "must be one of new, learning, confident, mastered")
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, errors.NewValidationError("pagination", "limit and offset cannot be negative")
	}

	list, err := s.progressRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list progress: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return list, nil
}

func (s *progressService) ProgressMap(ctx context.Context) (map[string]*models.ItemProgress, error) {
	list, err := s.ListProgress(ctx, models.ProgressFilter{})
	if err != nil {
		return nil, err
	}
	m := make(map[string]*models.ItemProgress, len(list))
	for _, p := range list {
		m[p.ItemID] = p
	}
	return m, nil
}

func (s *progressService) SetBookmarked(ctx context.Context, itemID string, bookmarked bool) error {
	log := logger.FromContext(ctx)
	log.Debug("setting bookmark: item_id=%s, bookmarked=%v", itemID, bookmarked)

	if err := s.requireItem(itemID); err != nil {
		return err
	}
	unlock := s.itemLocks.Lock(itemID)
	defer unlock()

	if err := s.progressRepo.SetBookmarked(ctx, itemID, bookmarked); err != nil {
		log.Error("failed to set bookmark: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *progressService) SetNeedsReview(ctx context.Context, itemID string, needsReview bool) error {
	log := logger.FromContext(ctx)
	log.Debug("setting review flag: item_id=%s, needs_review=%v", itemID, needsReview)

	if err := s.requireItem(itemID); err != nil {
		return err
	}
	unlock := s.itemLocks.Lock(itemID)
	defer unlock()

	if err := s.progressRepo.SetNeedsReview(ctx, itemID, needsReview); err != nil {
		log.Error("failed to set review flag: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *progressService) DueItems(ctx context.Context, now time.Time) ([]models.MenuItem, error) {
	log := logger.FromContext(ctx)

	progress, err := s.ProgressMap(ctx)
	if err != nil {
		return nil, err
	}

	catalog := s.menu.Catalog()
	var due []models.MenuItem
	for _, id := range review.DueItems(catalog.Items(), progress, now) {
		item, _ := catalog.Item(id)
		due = append(due, item)
	}
	log.Debug("%d items due for review", len(due))
	return due, nil
}
