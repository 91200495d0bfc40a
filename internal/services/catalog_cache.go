package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"twin-editor/internal/metrics"
	"twin-editor/internal/services/cache"
)

const (
	libraryCacheKey = "library:assets"
	devicesCacheKey = "devices:list"
)

// CatalogCache fronts slow-changing backend lists with a cache layer. Cache
// failures are logged and fall through to the backend. A nil layer disables
// caching.
type CatalogCache struct {
	layer   cache.Layer
	ttl     time.Duration
	metrics *metrics.Collector
	logger  *zap.Logger
}

func NewCatalogCache(layer cache.Layer, ttl time.Duration, collector *metrics.Collector, logger *zap.Logger) *CatalogCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogCache{layer: layer, ttl: ttl, metrics: collector, logger: logger}
}

// Stats reports the underlying layer's counters, if any.
func (c *CatalogCache) Stats() (cache.LayerStats, bool) {
	if c == nil || c.layer == nil {
		return cache.LayerStats{}, false
	}
	return c.layer.Stats(), true
}

func (c *CatalogCache) invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.layer == nil {
		return
	}
	if err := c.layer.Delete(ctx, keys...); err != nil {
		c.logger.Warn("Cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// readThrough returns the cached value for key or loads and stores it.
func readThrough[T any](ctx context.Context, c *CatalogCache, key string, load func(context.Context) (T, error)) (T, error) {
	if c == nil || c.layer == nil {
		return load(ctx)
	}

	data, err := c.layer.Get(ctx, key)
	switch {
	case err == nil:
		var cached T
		if jerr := json.Unmarshal(data, &cached); jerr == nil {
			c.metrics.CacheHit(key)
			return cached, nil
		}
		c.logger.Warn("Dropping undecodable cache entry", zap.String("key", key))
	case !errors.Is(err, cache.ErrMiss):
		c.logger.Warn("Cache read failed", zap.String("key", key), zap.String("layer", c.layer.Name()), zap.Error(err))
	}
	c.metrics.CacheMiss(key)

	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	if encoded, err := json.Marshal(value); err == nil {
		if err := c.layer.Set(ctx, key, encoded, c.ttl); err != nil {
			c.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return value, nil
}
