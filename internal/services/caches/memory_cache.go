package caches

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"twin-editor/internal/services/cache"
)

// MemoryCache is a process-local cache layer. Expired entries are dropped on
// access.
type MemoryCache struct {
	data sync.Map // map[string]memoryEntry
	now  func() time.Time

	// Statistics
	hits   atomic.Int64
	misses atomic.Int64
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{now: time.Now}
}

func (mc *MemoryCache) Name() string {
	return "memory"
}

func (mc *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	if value, ok := mc.data.Load(key); ok {
		entry := value.(memoryEntry)
		if entry.expiresAt.IsZero() || mc.now().Before(entry.expiresAt) {
			mc.hits.Add(1)
			return append([]byte(nil), entry.data...), nil
		}
		mc.data.CompareAndDelete(key, value)
	}

	mc.misses.Add(1)
	return nil, cache.ErrMiss
}

// Set stores data under key. A non-positive ttl never expires.
func (mc *MemoryCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	entry := memoryEntry{data: append([]byte(nil), data...)}
	if ttl > 0 {
		entry.expiresAt = mc.now().Add(ttl)
	}
	mc.data.Store(key, entry)
	return nil
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		mc.data.Delete(key)
	}
	return nil
}

func (mc *MemoryCache) Stats() cache.LayerStats {
	hits := mc.hits.Load()
	misses := mc.misses.Load()

	entries := 0
	mc.data.Range(func(key, value any) bool {
		entries++
		return true
	})

	return cache.LayerStats{
		Name:    mc.Name(),
		Entries: entries,
		Hits:    hits,
		Misses:  misses,
		HitRate: cache.HitRate(hits, misses),
	}
}
