package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bar struct {
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

func TestMemoryCacheTypedRoundTrip(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	in := []bar{{Close: 1.5, Volume: 10}, {Close: 2.5, Volume: 20}}
	require.NoError(t, mc.Set(ctx, "candles:BTC", in, time.Minute))

	var out []bar
	require.NoError(t, mc.Get(ctx, "candles:BTC", &out))
	assert.Equal(t, in, out)

	require.NoError(t, mc.Set(ctx, "summary", "plain text", time.Minute))
	var s string
	require.NoError(t, mc.Get(ctx, "summary", &s))
	assert.Equal(t, "plain text", s)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "k", 1, time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	var v int
	assert.ErrorIs(t, mc.Get(ctx, "k", &v), ErrCacheMiss)
	ok, err := mc.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "a", 1, time.Minute))
	time.Sleep(time.Millisecond)
	require.NoError(t, mc.Set(ctx, "b", 2, time.Minute))
	time.Sleep(time.Millisecond)

	var v int
	require.NoError(t, mc.Get(ctx, "a", &v)) // touch a, b becomes oldest
	time.Sleep(time.Millisecond)
	require.NoError(t, mc.Set(ctx, "c", 3, time.Minute))

	assert.Equal(t, 2, mc.Len())
	assert.ErrorIs(t, mc.Get(ctx, "b", &v), ErrCacheMiss)
	require.NoError(t, mc.Get(ctx, "a", &v))
	assert.Equal(t, 1, v)
}

func TestRemember(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	calls := 0
	load := func(context.Context) ([]bar, error) {
		calls++
		return []bar{{Close: float64(calls)}}, nil
	}

	first, err := Remember(ctx, mc, "k", time.Minute, load)
	require.NoError(t, err)
	second, err := Remember(ctx, mc, "k", time.Minute, load)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)

	_, err = Remember(ctx, mc, "k", 0, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "zero ttl bypasses the cache")
}

func TestRememberDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	boom := errors.New("upstream down")
	_, err := Remember(ctx, mc, "k", time.Minute, func(context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	ok, _ := mc.Exists(ctx, "k")
	assert.False(t, ok)
}

func TestGenerateKeyWithParams(t *testing.T) {
	assert.Equal(t, "candles:BTC-USD:1d:100", GenerateKeyWithParams("candles", "BTC-USD", "1d", 100))
	assert.Len(t, HashKey("https://cointelegraph.com/rss"), 32)
}
