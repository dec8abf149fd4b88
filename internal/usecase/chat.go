package usecase

import (
	"context"
	"fmt"
	"time"

	"TradeLLM/internal/domain/models"
	domrepo "TradeLLM/internal/domain/repository"
	domsvc "TradeLLM/internal/domain/service"
)

var recommendations = map[models.SentimentLabel][]string{
	models.SentimentPositive: {
		"Consider maintaining current positions",
		"Look for potential entry points",
		"Monitor market for confirmation",
	},
	models.SentimentNegative: {
		"Review risk management strategies",
		"Consider reducing exposure",
		"Wait for market stabilization",
	},
	models.SentimentNeutral: {
		"Continue monitoring market conditions",
		"Review trading plan",
		"Watch for clearer signals",
	},
}

// ChatAnalyzer classifies a single chat message.
type ChatAnalyzer struct {
	classifier domsvc.SentimentClassifier
	metrics    domrepo.Metrics
}

func NewChatAnalyzer(c domsvc.SentimentClassifier, m domrepo.Metrics) *ChatAnalyzer {
	return &ChatAnalyzer{classifier: c, metrics: orNopMetrics(m)}
}

func (a *ChatAnalyzer) Analyze(ctx context.Context, message string) (models.ChatAnalysis, error) {
	start := time.Now()
	s, err := a.classifier.Classify(ctx, message)
	observe(a.metrics, providerSentiment, start, err)
	if err != nil {
		return models.ChatAnalysis{}, fmt.Errorf("chat analysis failed: %w", err)
	}

	label := s.Raw
	if label == "" {
		label = string(s.Label)
	}
	return models.ChatAnalysis{
		Analysis:        "Message sentiment: " + label,
		Recommendations: Recommendations(s.Label),
		ConfidenceScore: s.Score,
	}, nil
}

// Recommendations returns a copy of the fixed advice for label; unknown labels get neutral advice.
func Recommendations(label models.SentimentLabel) []string {
	r, ok := recommendations[label]
	if !ok {
		r = recommendations[models.SentimentNeutral]
	}
	return append([]string(nil), r...)
}
