package repository

import (
	"context"

	"github.com/vytor/menuflash/internal/models"
)

// ProgressRepository handles per-item mastery progress
type ProgressRepository interface {
	// Get returns nil, nil when the item has never been answered.
	Get(ctx context.Context, itemID string) (*models.ItemProgress, error)
	Save(ctx context.Context, progress *models.ItemProgress) error
	List(ctx context.Context, filter models.ProgressFilter) ([]*models.ItemProgress, error)
	SetBookmarked(ctx context.Context, itemID string, bookmarked bool) error
	SetNeedsReview(ctx context.Context, itemID string, needsReview bool) error
	DeleteAll(ctx context.Context) error
}
