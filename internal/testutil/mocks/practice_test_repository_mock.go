package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/menuflash/internal/models"
)

// MockPracticeTestRepository is a mock implementation of repository.PracticeTestRepository
type MockPracticeTestRepository struct {
	mock.Mock
}

func (m *MockPracticeTestRepository) Insert(ctx context.Context, test models.PracticeTest) (int64, error) {
	args := m.Called(ctx, test)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPracticeTestRepository) List(ctx context.Context, limit int) ([]models.PracticeTest, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PracticeTest), args.Error(1)
}

func (m *MockPracticeTestRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
