package usecase

import (
	"context"
	"errors"
	"testing"

	domrepo "TradeLLM/internal/domain/repository"
	"TradeLLM/internal/services/features"
	"TradeLLM/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketAnalyzerAnalyze(t *testing.T) {
	md := &fakeMarketData{candles: risingCandles(60)}
	sum := &fakeSummarizer{out: "BTC trends higher."}
	m := newFakeMetrics()
	a := NewMarketAnalyzer(md, sum, m, logger.Nop(), 0)

	res, err := a.Analyze(context.Background(), "BTC-USD", domrepo.TF1d)
	require.NoError(t, err)

	assert.Equal(t, DefaultCandleCount, md.gotN)
	assert.Equal(t, domrepo.TF1d, md.gotTF)
	assert.Equal(t, 159.0, res.Price)
	assert.Equal(t, "1d", res.Timeframe)
	assert.Equal(t, "BTC trends higher.", res.Summary)
	assert.Greater(t, res.Indicators.SMA20, res.Indicators.SMA50)
	assert.False(t, res.Timestamp.IsZero())

	assert.Contains(t, sum.got, "BTC-USD is currently overbought")
	assert.Contains(t, sum.got, "Short-term trend is bullish")

	assert.Equal(t, 159.0, m.lastPrice["BTC-USD"])
	assert.Equal(t, 1, m.upstream[providerMarketData])
	assert.Equal(t, 1, m.upstream[providerSummarizer])
}

func TestMarketAnalyzerErrors(t *testing.T) {
	tests := []struct {
		name    string
		md      *fakeMarketData
		sum     *fakeSummarizer
		wantErr string
	}{
		{"no data", &fakeMarketData{}, &fakeSummarizer{}, "no data found for ETH-USD"},
		{"provider", &fakeMarketData{err: errors.New("quota exceeded")}, &fakeSummarizer{}, "quota exceeded"},
		{"short history", &fakeMarketData{candles: risingCandles(20)}, &fakeSummarizer{}, "insufficient data"},
		{"summarizer", &fakeMarketData{candles: risingCandles(60)}, &fakeSummarizer{err: errors.New("model loading")}, "model loading"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewMarketAnalyzer(tt.md, tt.sum, nil, nil, 100)
			_, err := a.Analyze(context.Background(), "ETH-USD", domrepo.TF1d)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "market analysis failed")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMarketAnalyzerCandleCount(t *testing.T) {
	tests := []struct {
		name       string
		configured int
		want       int
	}{
		{"unset", 0, DefaultCandleCount},
		{"below minimum", 20, features.MinCandles},
		{"minimum", features.MinCandles, features.MinCandles},
		{"above default", 250, 250},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := &fakeMarketData{candles: risingCandles(60)}
			a := NewMarketAnalyzer(md, &fakeSummarizer{}, nil, nil, tt.configured)
			_, err := a.Analyze(context.Background(), "BTC-USD", domrepo.TF1h)
			require.NoError(t, err)
			assert.Equal(t, tt.want, md.gotN)
			assert.Equal(t, domrepo.TF1h, md.gotTF)
		})
	}
}
