package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codegate/gate-server-go/internal/model"
)

func TestMemoryReputationCache(t *testing.T) {
	ctx := context.Background()
	rep := &model.Reputation{IP: "203.0.113.7", Privacy: &model.Privacy{VPN: true}}

	t.Run("miss returns nil without error", func(t *testing.T) {
		cache := NewMemoryReputationCache()
		got, err := cache.Get(ctx, "203.0.113.7")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("hit returns stored copy", func(t *testing.T) {
		cache := NewMemoryReputationCache()
		require.NoError(t, cache.Set(ctx, "203.0.113.7", rep, time.Minute))

		got, err := cache.Get(ctx, "203.0.113.7")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.Blocked())
		assert.Equal(t, "203.0.113.7", got.IP)
	})

	t.Run("expired entry is a miss", func(t *testing.T) {
		cache := NewMemoryReputationCache().(*memoryReputationCache)
		now := time.Now()
		cache.now = func() time.Time { return now }
		require.NoError(t, cache.Set(ctx, "203.0.113.7", rep, time.Second))

		cache.now = func() time.Time { return now.Add(2 * time.Second) }
		got, err := cache.Get(ctx, "203.0.113.7")
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.Empty(t, cache.entries)
	})

	t.Run("DeleteExpired sweeps entries never read again", func(t *testing.T) {
		cache := NewMemoryReputationCache().(*memoryReputationCache)
		now := time.Now()
		cache.now = func() time.Time { return now }

		for i := 0; i < 1000; i++ {
			ip := fmt.Sprintf("198.51.%d.%d", i/256, i%256)
			require.NoError(t, cache.Set(ctx, ip, rep, time.Millisecond))
		}
		require.NoError(t, cache.Set(ctx, "203.0.113.7", rep, time.Minute))

		cache.now = func() time.Time { return now.Add(20 * time.Millisecond) }
		count, err := cache.DeleteExpired(ctx)
		require.NoError(t, err)

		assert.EqualValues(t, 1000, count)
		assert.Len(t, cache.entries, 1)
		got, err := cache.Get(ctx, "203.0.113.7")
		require.NoError(t, err)
		assert.NotNil(t, got)
	})

	t.Run("DeleteExpired on empty cache", func(t *testing.T) {
		count, err := NewMemoryReputationCache().DeleteExpired(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("zero ttl is not stored", func(t *testing.T) {
		cache := NewMemoryReputationCache()
		require.NoError(t, cache.Set(ctx, "203.0.113.7", rep, 0))

		got, err := cache.Get(ctx, "203.0.113.7")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestRedisReputationCache_Unavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	cache := NewRedisReputationCache(client)
	ctx := context.Background()

	t.Run("get surfaces connection error", func(t *testing.T) {
		got, err := cache.Get(ctx, "203.0.113.7")
		assert.Error(t, err)
		assert.Nil(t, got)
	})

	t.Run("set surfaces connection error", func(t *testing.T) {
		err := cache.Set(ctx, "203.0.113.7", &model.Reputation{IP: "203.0.113.7"}, time.Minute)
		assert.Error(t, err)
	})

	t.Run("sweep is left to redis key expiry", func(t *testing.T) {
		count, err := cache.DeleteExpired(ctx)
		assert.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("nil reputation is skipped", func(t *testing.T) {
		assert.NoError(t, cache.Set(ctx, "203.0.113.7", nil, time.Minute))
	})
}
