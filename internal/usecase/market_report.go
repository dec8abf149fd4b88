package usecase

import (
	"context"

	"TradeLLM/internal/domain/models"
	domrepo "TradeLLM/internal/domain/repository"
)

// MarketReport joins technical and news analysis for the market endpoint.
type MarketReport struct {
	market    *MarketAnalyzer
	sentiment *SentimentAnalyzer
}

func NewMarketReport(market *MarketAnalyzer, sentiment *SentimentAnalyzer) *MarketReport {
	return &MarketReport{market: market, sentiment: sentiment}
}

func (r *MarketReport) Analyze(ctx context.Context, instrument string, tf domrepo.Timeframe) (models.MarketAnalysis, error) {
	ta, sr, err := analyzeConcurrently(ctx, r.market, r.sentiment, instrument, tf)
	if err != nil {
		return models.MarketAnalysis{}, err
	}
	return models.MarketAnalysis{
		Instrument:          instrument,
		Timeframe:           string(tf),
		Price:               ta.Price,
		TechnicalIndicators: ta.Indicators,
		Sentiment:           sr.Label,
		SentimentScore:      sr.Score,
		Summary:             ta.Summary,
		Timestamp:           ta.Timestamp,
	}, nil
}
