package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/timestables/internal/models"
)

// MockChallengeRepository is a mock implementation of repository.ChallengeRepository
type MockChallengeRepository struct {
	mock.Mock
}

func (m *MockChallengeRepository) InsertSession(ctx context.Context, session models.ChallengeSession) (int64, error) {
	args := m.Called(ctx, session)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChallengeRepository) UpdateSession(ctx context.Context, session models.ChallengeSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockChallengeRepository) GetSession(ctx context.Context, id int64) (*models.ChallengeSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChallengeSession), args.Error(1)
}

func (m *MockChallengeRepository) InsertAnswer(ctx context.Context, answer models.ChallengeAnswer) (int64, error) {
	args := m.Called(ctx, answer)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChallengeRepository) WrongAnswers(ctx context.Context, sessionID int64) ([]models.ChallengeAnswer, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChallengeAnswer), args.Error(1)
}

func (m *MockChallengeRepository) RefreshStats(ctx context.Context, owner models.Owner) error {
	args := m.Called(ctx, owner)
	return args.Error(0)
}

func (m *MockChallengeRepository) GetStats(ctx context.Context, owner models.Owner) (*models.ChallengeStats, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChallengeStats), args.Error(1)
}
