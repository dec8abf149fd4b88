package repository

import (
	"context"

	"TradeLLM/internal/domain/models"
)

// NewsSource yields recent articles from one feed.
type NewsSource interface {
	Name() string
	Fetch(ctx context.Context) ([]models.Article, error)
}

// SignalPublisher emits generated trade signals to downstream consumers.
type SignalPublisher interface {
	Publish(ctx context.Context, s *models.TradeSignal) error
	Close() error
}

type Metrics interface {
	RecordUpstream(provider string, seconds float64, err error)
	RecordSignal(instrument string, direction models.Direction)
	RecordLastPrice(symbol string, price float64)
	RecordArticles(n int)
	RecordError(kind string)
}
