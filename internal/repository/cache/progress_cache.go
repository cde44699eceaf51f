package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vytor/timestables/internal/logger"
	"github.com/vytor/timestables/internal/models"
	"github.com/vytor/timestables/internal/repository"
)

const progressKeyPrefix = "timestables:progress:"

// Store is the subset of redis commands the cache needs. *redis.Client
// satisfies it.
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type progressCache struct {
	inner repository.ProgressRepository
	store Store
	ttl   time.Duration
}

// NewProgressCache wraps inner with a read-through redis cache. Writes go to
// inner first and then evict the cached entry. Redis failures are logged and
// never surface to callers.
func NewProgressCache(inner repository.ProgressRepository, store Store, ttl time.Duration) repository.ProgressRepository {
	return &progressCache{inner: inner, store: store, ttl: ttl}
}

func progressKey(owner models.Owner) string {
	return progressKeyPrefix + owner.String()
}

func (c *progressCache) Read(ctx context.Context, owner models.Owner) (*models.Progress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_cache")
	key := progressKey(owner)

	val, err := c.store.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var p models.Progress
		if jsonErr := json.Unmarshal(val, &p); jsonErr == nil {
			log.Debug("cache hit: %s", key)
			return &p, nil
		}
		log.Warn("discarding undecodable cache entry: %s", key)
	case errors.Is(err, redis.Nil):
		log.Debug("cache miss: %s", key)
	default:
		log.Warn("cache read failed, falling back to database: %v", err)
	}

	p, err := c.inner.Read(ctx, owner)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(p); err == nil {
		if err := c.store.Set(ctx, key, data, c.ttl).Err(); err != nil {
			log.Warn("cache write failed: %v", err)
		}
	}
	return p, nil
}

func (c *progressCache) Write(ctx context.Context, owner models.Owner, update models.ProgressUpdate) error {
	if err := c.inner.Write(ctx, owner, update); err != nil {
		return err
	}
	c.evict(ctx, owner)
	return nil
}

func (c *progressCache) Delete(ctx context.Context, owner models.Owner) error {
	if err := c.inner.Delete(ctx, owner); err != nil {
		return err
	}
	c.evict(ctx, owner)
	return nil
}

func (c *progressCache) evict(ctx context.Context, owner models.Owner) {
	if err := c.store.Del(ctx, progressKey(owner)).Err(); err != nil {
		logger.FromContext(ctx).WithPrefix("progress_cache").Warn("cache eviction failed for %s: %v", owner, err)
	}
}
