package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"TradeLLM/internal/domain/models"
	domrepo "TradeLLM/internal/domain/repository"
	domsvc "TradeLLM/internal/domain/service"
	"TradeLLM/internal/services/features"
	"TradeLLM/pkg/logger"
)

const DefaultCandleCount = 100

var ErrNoMarketData = errors.New("no data found")

// MarketAnalyzer computes indicators over recent candles and has them summarised.
type MarketAnalyzer struct {
	data        domrepo.MarketData
	summarizer  domsvc.Summarizer
	metrics     domrepo.Metrics
	log         *logger.Logger
	candleCount int
	now         func() time.Time
}

func NewMarketAnalyzer(data domrepo.MarketData, summarizer domsvc.Summarizer, m domrepo.Metrics, l *logger.Logger, candleCount int) *MarketAnalyzer {
	switch {
	case candleCount <= 0:
		candleCount = DefaultCandleCount
	case candleCount < features.MinCandles:
		candleCount = features.MinCandles
	}
	return &MarketAnalyzer{
		data:        data,
		summarizer:  summarizer,
		metrics:     orNopMetrics(m),
		log:         orNopLogger(l),
		candleCount: candleCount,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Analyze returns price, indicators and summary for instrument at timeframe.
func (a *MarketAnalyzer) Analyze(ctx context.Context, instrument string, tf domrepo.Timeframe) (models.TechnicalAnalysis, error) {
	res, err := a.analyze(ctx, instrument, tf)
	if err != nil {
		return res, fmt.Errorf("market analysis failed: %w", err)
	}
	return res, nil
}

func (a *MarketAnalyzer) analyze(ctx context.Context, instrument string, tf domrepo.Timeframe) (models.TechnicalAnalysis, error) {
	out := models.TechnicalAnalysis{Instrument: instrument, Timeframe: string(tf)}

	start := time.Now()
	candles, err := a.data.GetLatestNCandles(ctx, instrument, a.candleCount, tf)
	observe(a.metrics, providerMarketData, start, err)
	if err != nil {
		return out, err
	}
	if len(candles) == 0 {
		return out, fmt.Errorf("%w for %s", ErrNoMarketData, instrument)
	}

	ind, err := features.Extract(candles)
	if err != nil {
		return out, err
	}
	out.Indicators = ind
	out.Price = candles[len(candles)-1].Close

	start = time.Now()
	summary, err := a.summarizer.Summarize(ctx, features.Describe(instrument, ind))
	observe(a.metrics, providerSummarizer, start, err)
	if err != nil {
		return out, err
	}
	out.Summary = summary
	out.Timestamp = a.now()

	a.metrics.RecordLastPrice(instrument, out.Price)
	a.log.Debug("market analysed",
		logger.String("instrument", instrument),
		logger.String("timeframe", string(tf)),
		logger.Int("candles", len(candles)),
		logger.Float64("price", out.Price))
	return out, nil
}
