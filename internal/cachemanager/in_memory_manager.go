package cachemanager

import (
	"context"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/alloy/internal/log"
)

const DefaultExpiration = 10 * time.Minute
const DefaultCleanupInterval = 30 * time.Minute

// NoExpiration keeps an entry until it is deleted or the cache is flushed.
const NoExpiration = gocache.NoExpiration

// ErrKeyExists is returned by Add when the key is already cached.
var ErrKeyExists = errors.New("cache key already exists")

// NewInMemoryCacheManager initializes the in-memory cache with a default cleanup interval
func NewInMemoryCacheManager[K ~string, V any](useCase string, defaultExpiration, cleanupInterval time.Duration) *InMemoryCacheManager[K, V] {
	return &InMemoryCacheManager[K, V]{
		useCase: useCase,
		cache:   gocache.New(defaultExpiration, cleanupInterval),
	}
}

// InMemoryCacheManager is the go-cache implementation of CacheManager.
type InMemoryCacheManager[K ~string, V any] struct {
	useCase string
	cache   *gocache.Cache
}

var _ CacheManager[string, int] = (*InMemoryCacheManager[string, int])(nil)

// Get retrieves an item from the cache by its key
func (c *InMemoryCacheManager[K, V]) Get(_ context.Context, key K) (V, bool) {
	var zeroValue V

	value, found := c.cache.Get(string(key))
	if !found {
		return zeroValue, false
	}

	v, ok := value.(V)
	if !ok {
		log.Error(log.CatStore, "wrong type assertion when getting value", "cache", c.useCase, "key", key)
		return zeroValue, false
	}

	return v, true
}

// GetMultiple returns the cached values for keys. It reports false when none were found.
func (c *InMemoryCacheManager[K, V]) GetMultiple(ctx context.Context, keys []K) (map[K]V, bool) {
	if len(keys) == 0 {
		return nil, false
	}

	values := make(map[K]V, len(keys))
	missing := 0
	for _, key := range keys {
		v, ok := c.Get(ctx, key)
		if !ok {
			missing++
			continue
		}
		values[key] = v
	}

	if len(values) == 0 {
		return nil, false
	}
	if missing > 0 {
		log.Debug(log.CatStore, "partial cache miss", "cache", c.useCase, "missing", missing, "keys", len(keys))
	}

	return values, true
}

// GetWithRefresh retrieves an item from the cache if one is found we extend the ttl
// by putting the item back in the cache
func (c *InMemoryCacheManager[K, V]) GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool) {
	value, found := c.Get(ctx, key)
	if !found {
		return value, found
	}

	c.Set(ctx, key, value, ttl)

	return value, found
}

// Set sets a value in the cache with a key and TTL
func (c *InMemoryCacheManager[K, V]) Set(_ context.Context, key K, value V, ttl time.Duration) {
	c.cache.Set(string(key), value, ttl)
}

// Add stores value only if key is not already cached.
func (c *InMemoryCacheManager[K, V]) Add(_ context.Context, key K, value V, ttl time.Duration) error {
	if err := c.cache.Add(string(key), value, ttl); err != nil {
		return fmt.Errorf("%s %q: %w", c.useCase, key, ErrKeyExists)
	}
	return nil
}

// Items returns a snapshot of every unexpired entry.
func (c *InMemoryCacheManager[K, V]) Items(_ context.Context) map[K]V {
	items := c.cache.Items()
	out := make(map[K]V, len(items))
	for k, item := range items {
		if v, ok := item.Object.(V); ok {
			out[K(k)] = v
		}
	}
	return out
}

// Len returns the number of cached entries, including expired ones not yet cleaned up.
func (c *InMemoryCacheManager[K, V]) Len() int {
	return c.cache.ItemCount()
}

// OnEvicted registers fn to run when an entry expires or is deleted.
func (c *InMemoryCacheManager[K, V]) OnEvicted(fn func(key K, value V)) {
	c.cache.OnEvicted(func(k string, obj any) {
		v, _ := obj.(V)
		fn(K(k), v)
	})
}

// Delete remove a value in the cache by its key
func (c *InMemoryCacheManager[K, V]) Delete(_ context.Context, keys ...K) error {
	for _, key := range keys {
		c.cache.Delete(string(key))
	}

	return nil
}

// Flush removes every entry.
func (c *InMemoryCacheManager[K, V]) Flush(_ context.Context) error {
	c.cache.Flush()

	return nil
}
