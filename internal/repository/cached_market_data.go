package repository

import (
	"context"
	"time"

	"TradeLLM/internal/domain/models"
	domrepo "TradeLLM/internal/domain/repository"
	"TradeLLM/pkg/cache"
)

// CachedMarketData memoises candle fetches for ttl. Identical requests in
// the window cost one upstream call.
type CachedMarketData struct {
	inner domrepo.MarketData
	cache cache.Service
	ttl   time.Duration
}

func NewCachedMarketData(inner domrepo.MarketData, c cache.Service, ttl time.Duration) *CachedMarketData {
	return &CachedMarketData{inner: inner, cache: c, ttl: ttl}
}

func (m *CachedMarketData) GetLatestNCandles(ctx context.Context, symbol string, n int, tf domrepo.Timeframe) ([]models.Candle, error) {
	key := cache.GenerateKeyWithParams("candles", symbol, string(tf), n)
	return cache.Remember(ctx, m.cache, key, m.ttl, func(ctx context.Context) ([]models.Candle, error) {
		return m.inner.GetLatestNCandles(ctx, symbol, n, tf)
	})
}

var _ domrepo.MarketData = (*CachedMarketData)(nil)
