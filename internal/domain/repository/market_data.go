package repository

import (
	"context"

	"TradeLLM/internal/domain/models"
)

// Timeframe is the bar resolution requested by callers.
type Timeframe string

const (
	TF1m  Timeframe = "1m"
	TF5m  Timeframe = "5m"
	TF15m Timeframe = "15m"
	TF30m Timeframe = "30m"
	TF1h  Timeframe = "1h"
	TF4h  Timeframe = "4h"
	TF1d  Timeframe = "1d"
	TF1wk Timeframe = "1wk"
	TF1mo Timeframe = "1mo"
)

// MarketData provides read-only OHLCV history.
type MarketData interface {
	// GetLatestNCandles returns up to n bars ordered oldest first.
	GetLatestNCandles(ctx context.Context, symbol string, n int, tf Timeframe) ([]models.Candle, error)
}
