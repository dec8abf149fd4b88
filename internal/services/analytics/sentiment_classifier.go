package analytics

import (
	"context"
	"encoding/json"
	"fmt"

	"TradeLLM/internal/domain/models"
	domsvc "TradeLLM/internal/domain/service"
	"TradeLLM/pkg/config"
	"TradeLLM/pkg/util"
)

// HTTPSentimentClassifier calls a hosted text-classification model.
type HTTPSentimentClassifier struct {
	base     *HTTPServiceBase
	model    string
	maxChars int
}

// NewHTTPSentimentClassifier uses the configured news sentiment model.
func NewHTTPSentimentClassifier(cfg *config.Config) *HTTPSentimentClassifier {
	return NewHTTPSentimentClassifierForModel(cfg, cfg.Inference.SentimentModel)
}

// NewHTTPSentimentClassifierForModel targets an explicit model, e.g. the chat classifier.
func NewHTTPSentimentClassifierForModel(cfg *config.Config, model string) *HTTPSentimentClassifier {
	return &HTTPSentimentClassifier{
		base:     NewHTTPServiceBase(cfg),
		model:    model,
		maxChars: cfg.Inference.MaxInputChars,
	}
}

type classification struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify returns the highest scoring label for text.
func (c *HTTPSentimentClassifier) Classify(ctx context.Context, text string) (models.SentimentScore, error) {
	var raw json.RawMessage
	if err := c.base.Infer(ctx, c.model, util.Truncate(text, c.maxChars), nil, &raw); err != nil {
		return models.SentimentScore{}, fmt.Errorf("classify: %w", err)
	}
	labels, err := decodeClassifications(raw)
	if err != nil {
		return models.SentimentScore{}, err
	}
	if len(labels) == 0 {
		return models.SentimentScore{}, fmt.Errorf("classify: empty response")
	}

	best := labels[0]
	for _, l := range labels[1:] {
		if l.Score > best.Score {
			best = l
		}
	}
	return models.SentimentScore{Label: models.ParseSentimentLabel(best.Label), Score: best.Score, Raw: best.Label}, nil
}

// The API answers [[{label,score}...]] for a single input; some deployments drop the outer list.
func decodeClassifications(raw json.RawMessage) ([]classification, error) {
	var nested [][]classification
	if err := json.Unmarshal(raw, &nested); err == nil {
		if len(nested) == 0 {
			return nil, nil
		}
		return nested[0], nil
	}
	var flat []classification
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("decode classification: %w", err)
	}
	return flat, nil
}

var _ domsvc.SentimentClassifier = (*HTTPSentimentClassifier)(nil)
