package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Hour)
	defer c.Close()

	ctx := context.Background()

	t.Run("miss", func(t *testing.T) {
		_, ok, err := c.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "k1", []byte(`{"title":"Invoice"}`), time.Hour))

		v, ok, err := c.Get(ctx, "k1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.JSONEq(t, `{"title":"Invoice"}`, string(v))
	})

	t.Run("expired entries are misses", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "k2", []byte("x"), 10*time.Millisecond))
		time.Sleep(20 * time.Millisecond)

		_, ok, err := c.Get(ctx, "k2")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "k3", []byte("x"), time.Hour))
		require.NoError(t, c.Delete(ctx, "k3"))
		require.NoError(t, c.Delete(ctx, "never-set"))

		_, ok, _ := c.Get(ctx, "k3")
		assert.False(t, ok)
	})
}

func TestMemoryCache_Cleanup(t *testing.T) {
	c := NewMemoryCache(10 * time.Millisecond)
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "short", []byte("x"), time.Millisecond))
	require.NoError(t, c.Set(ctx, "long", []byte("x"), time.Hour))

	assert.Eventually(t, func() bool { return c.Size() == 1 }, time.Second, 10*time.Millisecond)
}

func TestMemoryCache_CloseIsIdempotent(t *testing.T) {
	c := NewMemoryCache(time.Hour)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}

func TestFactory_New(t *testing.T) {
	ctx := context.Background()

	t.Run("none", func(t *testing.T) {
		store, err := NewFactory(RedisConfig{}).New(ctx, BackendNone)
		require.NoError(t, err)
		assert.Nil(t, store)
	})

	t.Run("memory", func(t *testing.T) {
		store, err := NewFactory(RedisConfig{}).New(ctx, BackendMemory)
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &MemoryCache{}, store)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := NewFactory(RedisConfig{}).New(ctx, "memcached")
		assert.Error(t, err)
	})

	// Port 1 is never a Redis server, so connecting fails fast.
	unreachable := RedisConfig{Host: "127.0.0.1", Port: 1}

	t.Run("redis falls back to memory", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		store, err := NewFactory(unreachable, WithLogger(zap.New(core))).New(ctx, BackendRedis)
		require.NoError(t, err)
		defer store.Close()

		assert.IsType(t, &MemoryCache{}, store)
		assert.Equal(t, 1, logs.FilterMessageSnippet("falling back").Len())
	})

	t.Run("redis without fallback", func(t *testing.T) {
		_, err := NewFactory(unreachable, WithInMemoryFallback(false)).New(ctx, BackendRedis)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unavailable")
	})
}
