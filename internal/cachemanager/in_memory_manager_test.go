package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewInMemoryCacheManager(t *testing.T) {
	require.NotPanics(t, func() {
		NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval)
	})
}

type unitKey string

type cachedUnit struct {
	Template string
	Seq      int
}

func TestNewInMemoryCacheManager_GetExistingValue_StructType(t *testing.T) {
	cache := NewInMemoryCacheManager[unitKey, cachedUnit]("units", DefaultExpiration, DefaultCleanupInterval)
	unit := cachedUnit{Template: "greeter", Seq: 1}
	cache.Set(context.Background(), "greeter::1", unit, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "greeter::1")
	require.True(t, ok)
	require.Equal(t, unit, got)
}

func TestNewInMemoryCacheManager_GetExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("units", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "greeter::1", "Hello, World", DefaultExpiration)

	got, ok := cache.Get(context.Background(), "greeter::1")
	require.True(t, ok)
	require.Equal(t, "Hello, World", got)
}

func TestNewInMemoryCacheManager_GetWithNoExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("units", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.Get(context.Background(), "greeter::1")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestNewInMemoryCacheManager_GetWithExistingInvalidValueType(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("units", DefaultExpiration, DefaultCleanupInterval)

	cache.cache.Set("greeter::1", 123, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "greeter::1")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestNewInMemoryCacheManager_GetMultipleWithNoKeysDoesNothing(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("units", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.GetMultiple(context.Background(), []string{})
	require.False(t, ok)
	require.Nil(t, got)
}

func TestNewInMemoryCacheManager_GetMultipleCacheHit(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("units", DefaultExpiration, DefaultCleanupInterval)

	cache.cache.Set("greeter::1", "Hello, World", DefaultExpiration)
	cache.cache.Set("greeter::2", "Hello, Moon", DefaultExpiration)

	got, ok := cache.GetMultiple(context.Background(), []string{"greeter::1", "greeter::2", "greeter::3"})
	require.True(t, ok)
	require.Equal(t, map[string]string{"greeter::1": "Hello, World", "greeter::2": "Hello, Moon"}, got)
}

func TestNewInMemoryCacheManager_GetMultipleCacheMiss(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("units", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.GetMultiple(context.Background(), []string{"greeter::1", "greeter::2", "greeter::3"})
	require.False(t, ok)
	require.Nil(t, got)
}

func TestNewInMemoryCacheManager_GetMultipleWithExistingInvalidValueType(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("units", DefaultExpiration, DefaultCleanupInterval)

	cache.cache.Set("greeter::1", "Hello, World", DefaultExpiration)
	cache.cache.Set("greeter::2", 123, DefaultExpiration)

	got, ok := cache.GetMultiple(context.Background(), []string{"greeter::1", "greeter::2"})
	require.True(t, ok)
	require.Equal(t, map[string]string{"greeter::1": "Hello, World"}, got)
}

func TestNewInMemoryCacheManager_GetWithRefresh_WithNoExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("units", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.GetWithRefresh(context.Background(), "greeter::1", time.Minute*60)
	require.False(t, ok)
	require.Equal(t, "", got)
}

func TestNewInMemoryCacheManager_GetWithRefresh_WithExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("units", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "greeter::1", "Hello, World", DefaultExpiration)

	got, ok := cache.GetWithRefresh(context.Background(), "greeter::1", time.Minute*60)
	require.True(t, ok)
	require.Equal(t, "Hello, World", got)
}

func TestNewInMemoryCacheManager_DeleteWithNoKeysDoesNothing(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("units", DefaultExpiration, DefaultCleanupInterval)

	err := cache.Delete(context.Background())
	require.NoError(t, err)
}

func TestNewInMemoryCacheManager_DeleteExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("units", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "greeter::1", "Hello, World", DefaultExpiration)

	got, ok := cache.Get(context.Background(), "greeter::1")
	require.True(t, ok)
	require.Equal(t, "Hello, World", got)

	err := cache.Delete(context.Background(), "greeter::1")
	require.NoError(t, err)

	got, ok = cache.Get(context.Background(), "greeter::1")
	require.False(t, ok)
	require.Equal(t, "", got)
}

func TestNewInMemoryCacheManager_Flush(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("units", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "greeter::1", "Hello, World", DefaultExpiration)

	got, ok := cache.Get(context.Background(), "greeter::1")
	require.True(t, ok)
	require.Equal(t, "Hello, World", got)

	err := cache.Flush(context.Background())
	require.NoError(t, err)

	got, ok = cache.Get(context.Background(), "greeter::1")
	require.False(t, ok)
	require.Equal(t, "", got)
}

func TestNewInMemoryCacheManager_AddRejectsExistingKey(t *testing.T) {
	cache := NewInMemoryCacheManager[unitKey, int]("units", DefaultExpiration, DefaultCleanupInterval)

	require.NoError(t, cache.Add(context.Background(), "greeter::1", 1, NoExpiration))
	err := cache.Add(context.Background(), "greeter::1", 2, NoExpiration)
	require.ErrorIs(t, err, ErrKeyExists)

	got, ok := cache.Get(context.Background(), "greeter::1")
	require.True(t, ok)
	require.Equal(t, 1, got)
}

func TestNewInMemoryCacheManager_Items(t *testing.T) {
	cache := NewInMemoryCacheManager[unitKey, int]("units", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "a::1", 1, NoExpiration)
	cache.Set(context.Background(), "b::2", 2, NoExpiration)
	cache.cache.Set("junk", "not an int", NoExpiration)

	require.Equal(t, map[unitKey]int{"a::1": 1, "b::2": 2}, cache.Items(context.Background()))
	require.Equal(t, 3, cache.Len())
}

func TestNewInMemoryCacheManager_OnEvicted(t *testing.T) {
	cache := NewInMemoryCacheManager[unitKey, int]("units", DefaultExpiration, DefaultCleanupInterval)

	var evicted []unitKey
	cache.OnEvicted(func(key unitKey, _ int) {
		evicted = append(evicted, key)
	})

	cache.Set(context.Background(), "a::1", 1, NoExpiration)
	require.NoError(t, cache.Delete(context.Background(), "a::1"))
	require.Equal(t, []unitKey{"a::1"}, evicted)
}

func TestNewInMemoryCacheManager_Expiry(t *testing.T) {
	cache := NewInMemoryCacheManager[unitKey, int]("units", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "a::1", 1, time.Millisecond)

	time.Sleep(5 * time.Millisecond)

	_, ok := cache.Get(context.Background(), "a::1")
	require.False(t, ok)
}
