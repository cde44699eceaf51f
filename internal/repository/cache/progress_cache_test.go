package cache_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/timestables/internal/models"
	"github.com/vytor/timestables/internal/repository/cache"
	"github.com/vytor/timestables/internal/testutil/mocks"
)

// memoryStore is an in-process stand-in for redis.
type memoryStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	failAll bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string][]byte{}}
}

var errDown = errors.New("redis down")

func (s *memoryStore) Get(_ context.Context, key string) *redis.StringCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return redis.NewStringResult("", errDown)
	}
	v, ok := s.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (s *memoryStore) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return redis.NewStatusResult("", errDown)
	}
	s.data[key] = value.([]byte)
	return redis.NewStatusResult("OK", nil)
}

func (s *memoryStore) Del(_ context.Context, keys ...string) *redis.IntCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return redis.NewIntResult(0, errDown)
	}
	var n int64
	for _, k := range keys {
		if _, ok := s.data[k]; ok {
			delete(s.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestProgressCache_ReadThrough(t *testing.T) {
	ctx := context.Background()
	inner := new(mocks.MockProgressRepository)
	store := newMemoryStore()
	owner := models.ProfileOwner(1)

	inner.On("Read", mock.Anything, owner).
		Return(&models.Progress{Owner: owner, TotalChallengesCompleted: 4, StreakBadges: []string{"Supernova"}}, nil).
		Once()

	repo := cache.NewProgressCache(inner, store, time.Minute)

	first, err := repo.Read(ctx, owner)
	require.NoError(t, err)
	second, err := repo.Read(ctx, owner)
	require.NoError(t, err)

	assert.Equal(t, 4, first.TotalChallengesCompleted)
	assert.Equal(t, first.TotalChallengesCompleted, second.TotalChallengesCompleted)
	assert.Equal(t, []string{"Supernova"}, second.StreakBadges)
	inner.AssertExpectations(t)
}

func TestProgressCache_WriteEvicts(t *testing.T) {
	ctx := context.Background()
	inner := new(mocks.MockProgressRepository)
	store := newMemoryStore()
	owner := models.AnonymousOwner
	total := 2
	update := models.ProgressUpdate{TotalChallengesCompleted: &total}

	inner.On("Read", mock.Anything, owner).Return(&models.Progress{Owner: owner, TotalChallengesCompleted: 1}, nil).Once()
	inner.On("Write", mock.Anything, owner, update).Return(nil).Once()
	inner.On("Read", mock.Anything, owner).Return(&models.Progress{Owner: owner, TotalChallengesCompleted: 2}, nil).Once()

	repo := cache.NewProgressCache(inner, store, time.Minute)

	_, err := repo.Read(ctx, owner)
	require.NoError(t, err)
	require.NoError(t, repo.Write(ctx, owner, update))

	p, err := repo.Read(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 2, p.TotalChallengesCompleted)
	inner.AssertExpectations(t)
}

func TestProgressCache_WriteErrorKeepsEntry(t *testing.T) {
	ctx := context.Background()
	inner := new(mocks.MockProgressRepository)
	store := newMemoryStore()
	owner := models.AnonymousOwner

	inner.On("Read", mock.Anything, owner).Return(&models.Progress{Owner: owner}, nil).Once()
	inner.On("Write", mock.Anything, owner, mock.Anything).Return(errors.New("disk full")).Once()

	repo := cache.NewProgressCache(inner, store, time.Minute)
	_, err := repo.Read(ctx, owner)
	require.NoError(t, err)

	err = repo.Write(ctx, owner, models.ProgressUpdate{AddStreakBadges: []string{"Supernova"}})
	assert.EqualError(t, err, "disk full")

	_, err = repo.Read(ctx, owner)
	require.NoError(t, err)
	inner.AssertExpectations(t)
}

func TestProgressCache_RedisFailureFallsBack(t *testing.T) {
	ctx := context.Background()
	inner := new(mocks.MockProgressRepository)
	store := newMemoryStore()
	store.failAll = true
	owner := models.ProfileOwner(9)

	inner.On("Read", mock.Anything, owner).Return(&models.Progress{Owner: owner, BestStreak: 7}, nil).Twice()
	inner.On("Delete", mock.Anything, owner).Return(nil).Once()

	repo := cache.NewProgressCache(inner, store, time.Minute)
	for i := 0; i < 2; i++ {
		p, err := repo.Read(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, 7, p.BestStreak)
	}
	require.NoError(t, repo.Delete(ctx, owner))
	inner.AssertExpectations(t)
}

func TestProgressCache_InnerReadError(t *testing.T) {
	inner := new(mocks.MockProgressRepository)
	inner.On("Read", mock.Anything, models.AnonymousOwner).Return(nil, errors.New("locked")).Once()

	repo := cache.NewProgressCache(inner, newMemoryStore(), time.Minute)
	p, err := repo.Read(context.Background(), models.AnonymousOwner)
	assert.Error(t, err)
	assert.Nil(t, p)
}
