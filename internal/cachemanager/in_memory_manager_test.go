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

type personEntry struct {
	Key  string
	Name string
}

func TestInMemoryCacheManager_GetExistingValue_StructType(t *testing.T) {
	cache := NewInMemoryCacheManager[string, personEntry]("people-cache", DefaultExpiration, DefaultCleanupInterval)
	entry := personEntry{
		Key:  "alice",
		Name: "Alice Chen",
	}
	cache.Set(context.Background(), "person:alice", entry, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "person:alice")
	require.True(t, ok)
	require.Equal(t, entry, got)
}

func TestInMemoryCacheManager_GetExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("people-cache", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "alice", "Alice Chen", DefaultExpiration)

	got, ok := cache.Get(context.Background(), "alice")
	require.True(t, ok)
	require.Equal(t, "Alice Chen", got)
}

func TestInMemoryCacheManager_GetWithNoExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("people-cache", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.Get(context.Background(), "alice")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_GetWithExistingInvalidValueType(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("people-cache", DefaultExpiration, DefaultCleanupInterval)

	cache.cache.Set("alice", 123, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "alice")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_GetWithRefresh_WithNoExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("people-cache", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.GetWithRefresh(context.Background(), "alice", time.Minute*60)
	require.False(t, ok)
	require.Equal(t, "", got)
}

func TestInMemoryCacheManager_GetWithRefresh_WithExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("people-cache", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "alice", "Alice Chen", DefaultExpiration)

	got, ok := cache.GetWithRefresh(context.Background(), "alice", time.Minute*60)
	require.True(t, ok)
	require.Equal(t, "Alice Chen", got)
}

func TestInMemoryCacheManager_DeleteWithNoKeysDoesNothing(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("people-cache", DefaultExpiration, DefaultCleanupInterval)

	err := cache.Delete(context.Background())
	require.NoError(t, err)
}

func TestInMemoryCacheManager_DeleteExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("people-cache", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "alice", "Alice Chen", DefaultExpiration)

	got, ok := cache.Get(context.Background(), "alice")
	require.True(t, ok)
	require.Equal(t, "Alice Chen", got)

	err := cache.Delete(context.Background(), "alice")
	require.NoError(t, err)

	got, ok = cache.Get(context.Background(), "alice")
	require.False(t, ok)
	require.Equal(t, "", got)
}

func TestInMemoryCacheManager_Flush(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("people-cache", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "alice", "Alice Chen", DefaultExpiration)

	got, ok := cache.Get(context.Background(), "alice")
	require.True(t, ok)
	require.Equal(t, "Alice Chen", got)

	err := cache.Flush(context.Background())
	require.NoError(t, err)

	got, ok = cache.Get(context.Background(), "alice")
	require.False(t, ok)
	require.Equal(t, "", got)
}
