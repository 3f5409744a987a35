package repository

import (
	"context"

	"github.com/vytor/menuflash/internal/models"
)

// PracticeTestRepository handles practice test results
type PracticeTestRepository interface {
	Insert(ctx context.Context, test models.PracticeTest) (int64, error)
	// List returns the most recent tests first; limit <= 0 means all.
	List(ctx context.Context, limit int) ([]models.PracticeTest, error)
	DeleteAll(ctx context.Context) error
}
