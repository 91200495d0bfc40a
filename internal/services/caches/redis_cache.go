package caches

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"twin-editor/internal/services/cache"
	"twin-editor/internal/storage"
)

const redisKeyPrefix = "twin-editor:"

// RedisCache shares catalog entries between editor instances.
type RedisCache struct {
	client *storage.RedisClient

	// Statistics
	hits   atomic.Int64
	misses atomic.Int64
}

func NewRedisCache(client *storage.RedisClient) *RedisCache {
	return &RedisCache{client: client}
}

func (rc *RedisCache) Name() string {
	return "redis"
}

func (rc *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := rc.client.GetBytes(ctx, redisKeyPrefix+key)
	if err != nil {
		rc.misses.Add(1)
		return nil, errors.Wrap(err, "redis get")
	}
	if data == nil {
		rc.misses.Add(1)
		return nil, cache.ErrMiss
	}

	rc.hits.Add(1)
	return data, nil
}

func (rc *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := rc.client.SetBytes(ctx, redisKeyPrefix+key, data, ttl); err != nil {
		return errors.Wrap(err, "failed to store in Redis")
	}
	return nil
}

func (rc *RedisCache) Delete(ctx context.Context, keys ...string) error {
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = redisKeyPrefix + key
	}
	return rc.client.Delete(ctx, prefixed...)
}

func (rc *RedisCache) Stats() cache.LayerStats {
	hits := rc.hits.Load()
	misses := rc.misses.Load()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	keys, _ := rc.client.Keys(ctx, redisKeyPrefix+"*")

	return cache.LayerStats{
		Name:    rc.Name(),
		Entries: len(keys),
		Hits:    hits,
		Misses:  misses,
		HitRate: cache.HitRate(hits, misses),
	}
}
