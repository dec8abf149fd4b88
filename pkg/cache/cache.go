package cache

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// Service defines cache operations interface.
type Service interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, keys ...string) (bool, error)
	Close() error
}

// Remember returns the cached value for key, or calls load and caches its
// result for ttl. A ttl <= 0 bypasses the cache. Cache write failures are
// not reported; the loaded value is still returned.
func Remember[T any](ctx context.Context, c Service, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if c == nil || ttl <= 0 {
		return load(ctx)
	}

	var cached T
	if err := c.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	_ = c.Set(ctx, key, v, ttl)
	return v, nil
}
