package twelvedata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domrepo "TradeLLM/internal/domain/repository"
	"TradeLLM/pkg/config"
	"TradeLLM/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.MarketData.BaseURL = srv.URL
	cfg.MarketData.APIKey = "td_key"
	cfg.MarketData.Timeout = 2 * time.Second
	cfg.MarketData.MaxRetryElapsed = 0
	cfg.MarketData.RequestsPerSec = 0
	return NewClient(cfg, logger.Nop())
}

func TestGetLatestNCandles(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/time_series", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "BTC/USD", q.Get("symbol"))
		assert.Equal(t, "1day", q.Get("interval"))
		assert.Equal(t, "3", q.Get("outputsize"))
		assert.Equal(t, "td_key", q.Get("apikey"))

		_, _ = w.Write([]byte(`{
			"meta": {"symbol": "BTC/USD", "interval": "1day"},
			"values": [
				{"datetime": "2024-01-03", "open": "3", "high": "3.5", "low": "2.5", "close": "3.2", "volume": "30"},
				{"datetime": "2024-01-02", "open": "2", "high": "2.5", "low": "1.5", "close": "2.2", "volume": "20"},
				{"datetime": "2024-01-01", "open": "1", "high": "1.5", "low": "0.5", "close": "1.2", "volume": "10"}
			],
			"status": "ok"
		}`))
	})

	candles, err := c.GetLatestNCandles(context.Background(), "btc-usd", 3, domrepo.TF1d)
	require.NoError(t, err)
	require.Len(t, candles, 3)
	assert.Equal(t, 1.2, candles[0].Close)
	assert.Equal(t, 3.2, candles[2].Close)
	assert.Equal(t, 30.0, candles[2].Volume)
	assert.Equal(t, "btc-usd", candles[0].Symbol)
	assert.True(t, candles[0].Bucket.Before(candles[1].Bucket))
}

func TestGetLatestNCandlesWithoutVolume(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"values":[{"datetime":"2024-01-01 10:00:00","open":"1.1","high":"1.2","low":"1.0","close":"1.15"}],"status":"ok"}`))
	})

	candles, err := c.GetLatestNCandles(context.Background(), "EUR-USD", 1, domrepo.TF1h)
	require.NoError(t, err)
	require.Len(t, candles, 1)
	assert.Zero(t, candles[0].Volume)
}

func TestGetLatestNCandlesErrors(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"code":404,"message":"symbol not found","status":"error"}`))
		})
		_, err := c.GetLatestNCandles(context.Background(), "NOPE", 10, domrepo.TF1d)
		assert.ErrorContains(t, err, "symbol not found")
	})

	t.Run("empty", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"values":[],"status":"ok"}`))
		})
		_, err := c.GetLatestNCandles(context.Background(), "BTC-USD", 10, domrepo.TF1d)
		assert.ErrorIs(t, err, ErrNoData)
	})

	t.Run("bad interval", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("unexpected request")
		})
		_, err := c.GetLatestNCandles(context.Background(), "BTC-USD", 10, domrepo.Timeframe("2d"))
		assert.ErrorIs(t, err, ErrUnsupportedInterval)
	})

	t.Run("http status", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		_, err := c.GetLatestNCandles(context.Background(), "BTC-USD", 10, domrepo.TF1d)
		assert.Error(t, err)
	})
}

func TestSymbolAndInterval(t *testing.T) {
	assert.Equal(t, "BTC/USD", Symbol(" btc-usd "))
	assert.Equal(t, "AAPL", Symbol("AAPL"))

	for tf, want := range map[domrepo.Timeframe]string{
		domrepo.TF1m: "1min", domrepo.TF4h: "4h", domrepo.TF1d: "1day",
		domrepo.TF1wk: "1week", domrepo.TF1mo: "1month",
	} {
		got, ok := Interval(tf)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
}
