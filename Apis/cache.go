package Apis

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// QueryCache keeps the last successful list per resource. Entries never
// expire on their own; writers invalidate them.
type QueryCache struct {
	mu          sync.Mutex
	entries     map[string]any
	generations map[string]uint64
	epoch       uint64
	group       singleflight.Group
}

func NewQueryCache() *QueryCache {
	return &QueryCache{
		entries:     map[string]any{},
		generations: map[string]uint64{},
	}
}

// Query returns the cached value for key, or runs fetch. Concurrent callers
// for the same key share one fetch. A fetch that started before an
// Invalidate or Reset does not repopulate the cache.
func Query[T any](ctx context.Context, cache *QueryCache, key string, fetch func(context.Context) (T, error)) (T, error) {
	cache.mu.Lock()
	if value, ok := cache.entries[key]; ok {
		cache.mu.Unlock()
		return value.(T), nil
	}
	epoch, generation := cache.epoch, cache.generations[key]
	cache.mu.Unlock()

	flight := key + "#" + strconv.FormatUint(epoch, 10) + "." + strconv.FormatUint(generation, 10)
	value, err, _ := cache.group.Do(flight, func() (any, error) {
		result, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		cache.mu.Lock()
		if cache.epoch == epoch && cache.generations[key] == generation {
			cache.entries[key] = result
		}
		cache.mu.Unlock()
		return result, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return value.(T), nil
}

// Refetch drops the entry for key and loads it again.
func Refetch[T any](ctx context.Context, cache *QueryCache, key string, fetch func(context.Context) (T, error)) (T, error) {
	cache.Invalidate(key)
	return Query(ctx, cache, key, fetch)
}

func (c *QueryCache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.generations[key]++
	c.mu.Unlock()
}

// Reset empties the cache, e.g. when the session logs out or expires.
func (c *QueryCache) Reset() {
	c.mu.Lock()
	c.entries = map[string]any{}
	c.epoch++
	c.mu.Unlock()
}

func (c *QueryCache) Cached(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}
