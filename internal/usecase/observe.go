package usecase

import (
	"time"

	domrepo "TradeLLM/internal/domain/repository"
	"TradeLLM/pkg/logger"
	"TradeLLM/pkg/metrics"
)

// Upstream provider labels.
const (
	providerMarketData = "market_data"
	providerSummarizer = "summarizer"
	providerSentiment  = "sentiment_model"
	providerNews       = "news"
	providerReasoning  = "reasoning"
	providerLLM        = "llm"
	providerOnchain    = "onchain"
)

func orNopMetrics(m domrepo.Metrics) domrepo.Metrics {
	if m == nil {
		return metrics.Nop{}
	}
	return m
}

func orNopLogger(l *logger.Logger) *logger.Logger {
	if l == nil {
		return logger.Nop()
	}
	return l
}

func observe(m domrepo.Metrics, provider string, start time.Time, err error) {
	m.RecordUpstream(provider, time.Since(start).Seconds(), err)
}
