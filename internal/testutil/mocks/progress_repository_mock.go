package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/timestables/internal/models"
)

// MockProgressRepository is a mock implementation of repository.ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Read(ctx context.Context, owner models.Owner) (*models.Progress, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Progress), args.Error(1)
}

func (m *MockProgressRepository) Write(ctx context.Context, owner models.Owner, update models.ProgressUpdate) error {
	args := m.Called(ctx, owner, update)
	return args.Error(0)
}

func (m *MockProgressRepository) Delete(ctx context.Context, owner models.Owner) error {
	args := m.Called(ctx, owner)
	return args.Error(0)
}
