package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unreachableRedis(t *testing.T) *RedisCache {
	t.Helper()
	return NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), "test")
}

func TestLayeredMemoryTTL(t *testing.T) {
	tests := []struct {
		name       string
		opts       []LayeredOption
		expiration time.Duration
		want       time.Duration
	}{
		{"default cap", nil, time.Hour, 30 * time.Second},
		{"configured cap", []LayeredOption{WithLayeredMemoryTTL(2 * time.Minute)}, time.Hour, 2 * time.Minute},
		{"shorter entry wins", []LayeredOption{WithLayeredMemoryTTL(2 * time.Minute)}, 10 * time.Second, 10 * time.Second},
		{"no expiration", []LayeredOption{WithLayeredMemoryTTL(2 * time.Minute)}, 0, 2 * time.Minute},
		{"non-positive ignored", []LayeredOption{WithLayeredMemoryTTL(0)}, time.Hour, 30 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := NewLayeredCache(unreachableRedis(t), tt.opts...)
			defer lc.Close()
			assert.Equal(t, tt.want, lc.memoryTTL(tt.expiration))
		})
	}
}

func TestWithRedisPool(t *testing.T) {
	cfg := &RedisConfig{}
	WithRedisPool(20, 4, 3*time.Second)(cfg)
	assert.Equal(t, 20, cfg.PoolSize)
	assert.Equal(t, 4, cfg.MinIdleConns)
	assert.Equal(t, 3*time.Second, cfg.PoolTimeout)
}

func TestMemoryCacheCleanupRemovesExpired(t *testing.T) {
	mc := NewMemoryCache(WithMemoryCleanup(5 * time.Millisecond))
	defer mc.Close()

	require.NoError(t, mc.Set(context.Background(), "k", 1, time.Millisecond))
	assert.Eventually(t, func() bool {
		mc.mutex.Lock()
		defer mc.mutex.Unlock()
		return len(mc.data) == 0
	}, time.Second, 5*time.Millisecond)
}
