// Package cachemanager wraps go-cache behind a typed, generic interface.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager is a typed key/value cache with per-entry expiry.
type CacheManager[K comparable, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	GetMultiple(ctx context.Context, keys []K) (map[K]V, bool)
	GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Add(ctx context.Context, key K, value V, ttl time.Duration) error
	Items(ctx context.Context) map[K]V
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
}
