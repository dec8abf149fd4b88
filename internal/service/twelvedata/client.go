package twelvedata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"TradeLLM/internal/domain/models"
	domrepo "TradeLLM/internal/domain/repository"
	"TradeLLM/pkg/config"
	xhttp "TradeLLM/pkg/http"
	"TradeLLM/pkg/logger"
	"TradeLLM/pkg/util"
)

var (
	ErrNoData              = errors.New("no data returned")
	ErrUnsupportedInterval = errors.New("unsupported timeframe")
)

// Client fetches OHLCV history from the Twelve Data time_series endpoint.
type Client struct {
	apiKey  string
	baseURL string
	client  *xhttp.Client
	log     *logger.Logger
}

func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		apiKey:  cfg.MarketData.APIKey,
		baseURL: strings.TrimRight(cfg.MarketData.BaseURL, "/"),
		client: xhttp.NewClient(
			xhttp.WithTimeout(cfg.MarketData.Timeout),
			xhttp.WithRateLimit(cfg.MarketData.RequestsPerSec, 1),
			xhttp.WithRetry(cfg.MarketData.MaxRetryElapsed),
		),
		log: log.With(logger.String("component", "twelvedata")),
	}
}

type timeSeriesResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Values  []valueJSON `json:"values"`
}

type valueJSON struct {
	Datetime string `json:"datetime"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
	Volume   string `json:"volume"`
}

// GetLatestNCandles implements domain MarketData.
func (c *Client) GetLatestNCandles(ctx context.Context, symbol string, n int, tf domrepo.Timeframe) ([]models.Candle, error) {
	interval, ok := Interval(tf)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedInterval, tf)
	}

	var body []byte
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/time_series",
		QueryParams: map[string][]string{
			"symbol":     {Symbol(symbol)},
			"interval":   {interval},
			"outputsize": {strconv.Itoa(n)},
			"apikey":     {c.apiKey},
		},
	}, &body)
	if err != nil {
		return nil, fmt.Errorf("time_series %s: %w", symbol, err)
	}

	var resp timeSeriesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse time_series: %w", err)
	}
	if resp.Status == "error" {
		c.log.Warn("twelvedata api error",
			logger.String("symbol", symbol),
			logger.Int("code", resp.Code),
			logger.String("message", resp.Message))
		return nil, fmt.Errorf("twelvedata error %d: %s", resp.Code, resp.Message)
	}
	if len(resp.Values) == 0 {
		return nil, ErrNoData
	}

	candles := make([]models.Candle, 0, len(resp.Values))
	for _, v := range resp.Values {
		candle, err := v.toCandle(symbol)
		if err != nil {
			return nil, err
		}
		candles = append(candles, candle)
	}

	// newest first on the wire
	sort.Slice(candles, func(i, j int) bool { return candles[i].Bucket.Before(candles[j].Bucket) })

	c.log.Debug("fetched candles", logger.String("symbol", symbol), logger.Int("count", len(candles)))
	return candles, nil
}

func (v valueJSON) toCandle(symbol string) (models.Candle, error) {
	ts, ok := util.ParseTime(v.Datetime)
	if !ok {
		return models.Candle{}, fmt.Errorf("parse datetime %q", v.Datetime)
	}
	c := models.Candle{Bucket: ts, Symbol: symbol}
	var err error
	fields := []struct {
		raw string
		dst *float64
	}{
		{v.Open, &c.Open},
		{v.High, &c.High},
		{v.Low, &c.Low},
		{v.Close, &c.Close},
	}
	for _, f := range fields {
		if *f.dst, err = strconv.ParseFloat(f.raw, 64); err != nil {
			return models.Candle{}, fmt.Errorf("parse price %q: %w", f.raw, err)
		}
	}
	// FX and index series come without volume.
	if v.Volume != "" {
		if c.Volume, err = strconv.ParseFloat(v.Volume, 64); err != nil {
			return models.Candle{}, fmt.Errorf("parse volume %q: %w", v.Volume, err)
		}
	}
	return c, nil
}

// Symbol converts "BTC-USD" style tickers to the provider's "BTC/USD".
func Symbol(instrument string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(instrument), "-", "/"))
}

// Interval maps a timeframe to the provider interval name.
func Interval(tf domrepo.Timeframe) (string, bool) {
	switch tf {
	case domrepo.TF1m:
		return "1min", true
	case domrepo.TF5m:
		return "5min", true
	case domrepo.TF15m:
		return "15min", true
	case domrepo.TF30m:
		return "30min", true
	case domrepo.TF1h:
		return "1h", true
	case domrepo.TF4h:
		return "4h", true
	case domrepo.TF1d:
		return "1day", true
	case domrepo.TF1wk:
		return "1week", true
	case domrepo.TF1mo:
		return "1month", true
	}
	return "", false
}

var _ domrepo.MarketData = (*Client)(nil)
