// internal/pkg/ttlcache/ttlcache.go
package ttlcache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL bounds how long a cached snapshot is served without a refresh.
const DefaultTTL = 60 * time.Second

// Loader fetches a fresh value from the upstream store.
type Loader[V any] func(ctx context.Context) (V, error)

// Cache is a single-flight, time-bounded read-through cache.
//
// Expired entries are not evicted: they are kept as the last-known value and
// served when a refresh fails, so read paths degrade gracefully instead of
// propagating upstream errors. Only when no prior value exists does Get fall
// back to the configured empty value.
type Cache[V any] struct {
	ttl      time.Duration
	fallback V
	logger   *zap.Logger

	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]entry[V]
	// gens invalidates in-flight loads: Invalidate bumps the key's
	// generation, and a load started under an older generation must not
	// write its result back.
	gens map[string]uint64
	now  func() time.Time
}

type entry[V any] struct {
	value     V
	fetchedAt time.Time
}

// New creates a cache with the given TTL and empty fallback value.
// A ttl of zero uses DefaultTTL.
func New[V any](ttl time.Duration, fallback V, logger *zap.Logger) *Cache[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache[V]{
		ttl:      ttl,
		fallback: fallback,
		logger:   logger,
		entries:  make(map[string]entry[V]),
		gens:     make(map[string]uint64),
		now:      time.Now,
	}
}

// Get returns the cached value for key, refreshing it through loader when
// absent or expired. Concurrent callers observing the same expired key share
// one in-flight load. Get never returns an error: on refresh failure it
// serves the last-known value, or the fallback if none exists.
func (c *Cache[V]) Get(ctx context.Context, key string, loader Loader[V]) V {
	if v, ok := c.fresh(key); ok {
		return v
	}

	gen := c.generation(key)
	res, err, _ := c.group.Do(key, func() (interface{}, error) {
		// A concurrent caller may have refreshed while we waited.
		if v, ok := c.fresh(key); ok {
			return v, nil
		}
		v, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		c.put(key, v, gen)
		return v, nil
	})
	if err != nil {
		if v, ok := c.Peek(key); ok {
			c.logger.Warn("cache refresh failed, serving stale value",
				zap.String("key", key),
				zap.Error(err),
			)
			return v
		}
		c.logger.Warn("cache refresh failed with no prior value, serving fallback",
			zap.String("key", key),
			zap.Error(err),
		)
		return c.fallback
	}
	return res.(V)
}

// Peek returns the last cached value for key regardless of freshness. It
// never triggers a load, so hot rendering paths can use it without blocking
// on upstream I/O.
func (c *Cache[V]) Peek(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e.value, ok
}

// Invalidate drops the entry for key. A pending in-flight load is abandoned:
// callers already waiting on it still receive its result, but that result is
// never written back, so the next Get forces a fresh load.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.gens[key]++
	c.mu.Unlock()
	c.group.Forget(key)
}

func (c *Cache[V]) fresh(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.fetchedAt) >= c.ttl {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *Cache[V]) generation(key string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gens[key]
}

func (c *Cache[V]) put(key string, v V, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[key] != gen {
		// Invalidated while the load was in flight; the result is stale.
		return
	}
	c.entries[key] = entry[V]{value: v, fetchedAt: c.now()}
}
