package news

import (
	"context"
	"fmt"
	"time"

	"TradeLLM/internal/domain/models"
	domrepo "TradeLLM/internal/domain/repository"
	"TradeLLM/pkg/cache"
)

// CachedSource keeps the last successful fetch of a source for ttl.
type CachedSource struct {
	inner domrepo.NewsSource
	cache cache.Service
	ttl   time.Duration
}

func NewCachedSource(inner domrepo.NewsSource, c cache.Service, ttl time.Duration) *CachedSource {
	return &CachedSource{inner: inner, cache: c, ttl: ttl}
}

// WrapAll decorates every source. A nil cache or ttl <= 0 leaves sources as they are.
func WrapAll(sources []domrepo.NewsSource, c cache.Service, ttl time.Duration) []domrepo.NewsSource {
	if c == nil || ttl <= 0 {
		return sources
	}
	out := make([]domrepo.NewsSource, len(sources))
	for i, s := range sources {
		out[i] = NewCachedSource(s, c, ttl)
	}
	return out
}

func (s *CachedSource) Name() string { return s.inner.Name() }

func (s *CachedSource) Fetch(ctx context.Context) ([]models.Article, error) {
	return cache.Remember(ctx, s.cache, s.key(), s.ttl, s.inner.Fetch)
}

// Refresh bypasses the cached copy and stores a fresh one.
func (s *CachedSource) Refresh(ctx context.Context) (int, error) {
	articles, err := s.inner.Fetch(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.cache.Set(ctx, s.key(), articles, s.ttl); err != nil {
		return 0, fmt.Errorf("store %s: %w", s.inner.Name(), err)
	}
	return len(articles), nil
}

func (s *CachedSource) key() string {
	return cache.GenerateKeyWithParams("news", cache.HashKey(s.inner.Name()))
}
