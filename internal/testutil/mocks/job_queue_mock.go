package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/vytor/timestables/internal/models"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueStatsRefresh(owner models.Owner) error {
	args := m.Called(owner)
	return args.Error(0)
}
