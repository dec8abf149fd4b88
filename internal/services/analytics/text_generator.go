package analytics

import (
	"context"
	"fmt"

	domsvc "TradeLLM/internal/domain/service"
	"TradeLLM/pkg/config"
)

// HTTPTextGenerator calls a hosted text-generation model. Only the
// continuation is returned, not the prompt.
type HTTPTextGenerator struct {
	base         *HTTPServiceBase
	model        string
	maxNewTokens int
}

func NewHTTPTextGenerator(cfg *config.Config) *HTTPTextGenerator {
	return &HTTPTextGenerator{
		base:         NewHTTPServiceBase(cfg),
		model:        cfg.Inference.GenerationModel,
		maxNewTokens: cfg.Inference.MaxNewTokens,
	}
}

type generationResponse []struct {
	GeneratedText string `json:"generated_text"`
}

func (g *HTTPTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	params := map[string]any{"return_full_text": false}
	if g.maxNewTokens > 0 {
		params["max_new_tokens"] = g.maxNewTokens
	}
	var out generationResponse
	if err := g.base.Infer(ctx, g.model, prompt, params, &out); err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	if len(out) == 0 {
		return "", fmt.Errorf("generate: empty response")
	}
	return out[0].GeneratedText, nil
}

var _ domsvc.TextGenerator = (*HTTPTextGenerator)(nil)
