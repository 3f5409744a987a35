package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/menuflash/internal/models"
)

// MockProgressRepository is a mock implementation of repository.ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Get(ctx context.Context, itemID string) (*models.ItemProgress, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ItemProgress), args.Error(1)
}

func (m *MockProgressRepository) Save(ctx context.Context, progress *models.ItemProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockProgressRepository) List(ctx context.Context, filter models.ProgressFilter) ([]*models.ItemProgress, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ItemProgress), args.Error(1)
}

func (m *MockProgressRepository) SetBookmarked(ctx context.Context, itemID string, bookmarked bool) error {
	args := m.Called(ctx, itemID, bookmarked)
	return args.Error(0)
}

func (m *MockProgressRepository) SetNeedsReview(ctx context.Context, itemID string, needsReview bool) error {
	args := m.Called(ctx, itemID, needsReview)
	return args.Error(0)
}

func (m *MockProgressRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
