package models

import (
	"strings"
	"time"
)

// Indicators are the technical values computed over a candle series.
type Indicators struct {
	SMA20          float64 `json:"sma_20"`
	SMA50          float64 `json:"sma_50"`
	RSI            float64 `json:"rsi"`
	MACD           float64 `json:"macd"`
	BollingerUpper float64 `json:"bollinger_upper"`
	BollingerLower float64 `json:"bollinger_lower"`
	VolumeRatio    float64 `json:"volume_ratio"`
}

// TechnicalAnalysis is what MarketAnalyzer produces before sentiment is attached.
type TechnicalAnalysis struct {
	Instrument string     `json:"instrument"`
	Timeframe  string     `json:"timeframe"`
	Price      float64    `json:"price"`
	Indicators Indicators `json:"indicators"`
	Summary    string     `json:"summary"`
	Timestamp  time.Time  `json:"timestamp"`
}

type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// ParseSentimentLabel lower-cases a model label; anything unknown is neutral.
func ParseSentimentLabel(s string) SentimentLabel {
	switch SentimentLabel(strings.ToLower(strings.TrimSpace(s))) {
	case SentimentPositive:
		return SentimentPositive
	case SentimentNegative:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// SentimentScore is a single classifier output. Raw keeps the model's own label.
type SentimentScore struct {
	Label SentimentLabel `json:"label"`
	Score float64        `json:"score"`
	Raw   string         `json:"-"`
}

// SentimentResult is the aggregate over all matched articles.
type SentimentResult struct {
	Label    SentimentLabel `json:"sentiment"`
	Score    float64        `json:"score"`
	Articles int            `json:"articles"`
}

// Article is a news item from RSS or Finnhub.
type Article struct {
	Source      string    `json:"source"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
	Published   time.Time `json:"published"`
}

// MarketAnalysis is the response of the market analysis endpoint.
type MarketAnalysis struct {
	Instrument          string         `json:"instrument"`
	Timeframe           string         `json:"timeframe"`
	Price               float64        `json:"price"`
	TechnicalIndicators Indicators     `json:"technical_indicators"`
	Sentiment           SentimentLabel `json:"sentiment"`
	SentimentScore      float64        `json:"sentiment_score"`
	Summary             string         `json:"summary"`
	Timestamp           time.Time      `json:"timestamp"`
}

// ChatAnalysis is the response of the chat endpoint.
type ChatAnalysis struct {
	Analysis        string   `json:"analysis"`
	Recommendations []string `json:"recommendations"`
	ConfidenceScore float64  `json:"confidence_score"`
}
