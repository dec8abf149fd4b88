package analytics

import (
	"context"
	"fmt"
	"strings"

	domsvc "TradeLLM/internal/domain/service"
	"TradeLLM/pkg/config"
	"TradeLLM/pkg/util"
)

type HTTPSummarizer struct {
	base     *HTTPServiceBase
	model    string
	maxLen   int
	maxChars int
}

func NewHTTPSummarizer(cfg *config.Config) *HTTPSummarizer {
	return &HTTPSummarizer{
		base:     NewHTTPServiceBase(cfg),
		model:    cfg.Inference.SummaryModel,
		maxLen:   cfg.Inference.SummaryMaxLen,
		maxChars: cfg.Inference.MaxInputChars,
	}
}

type summaryResponse []struct {
	SummaryText string `json:"summary_text"`
}

func (s *HTTPSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	var params map[string]any
	if s.maxLen > 0 {
		params = map[string]any{"max_length": s.maxLen}
	}
	var out summaryResponse
	if err := s.base.Infer(ctx, s.model, util.Truncate(text, s.maxChars), params, &out); err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	if len(out) == 0 {
		return "", fmt.Errorf("summarize: empty response")
	}
	return strings.TrimSpace(out[0].SummaryText), nil
}

var _ domsvc.Summarizer = (*HTTPSummarizer)(nil)
