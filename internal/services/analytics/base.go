package analytics

import (
	"context"
	"fmt"
	"strings"

	"TradeLLM/pkg/config"
	xhttp "TradeLLM/pkg/http"
)

// HTTPServiceBase is shared by the hosted-inference clients.
// It holds the authenticated client and posts model requests.
type HTTPServiceBase struct {
	baseURL string
	apiKey  string
	client  *xhttp.Client
}

type inferenceRequest struct {
	Inputs     string         `json:"inputs"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Options    map[string]any `json:"options,omitempty"`
}

// NewHTTPServiceBase builds an inference client with timeout and retry from config.
func NewHTTPServiceBase(cfg *config.Config) *HTTPServiceBase {
	return &HTTPServiceBase{
		baseURL: strings.TrimRight(cfg.Inference.BaseURL, "/"),
		apiKey:  cfg.Inference.APIKey,
		client: xhttp.NewClient(
			xhttp.WithTimeout(cfg.Inference.Timeout),
			xhttp.WithRetry(cfg.Inference.MaxRetryElapsed),
		),
	}
}

// PostJSON posts the given payload to path under baseURL and decodes JSON into dest.
func (b *HTTPServiceBase) PostJSON(ctx context.Context, path string, payload interface{}, dest interface{}) error {
	if b.client == nil || b.baseURL == "" {
		return fmt.Errorf("inference http client not initialized")
	}
	headers := map[string]string{"Content-Type": "application/json"}
	if b.apiKey != "" {
		headers["Authorization"] = "Bearer " + b.apiKey
	}
	err := b.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodPost,
		URL:     b.baseURL + path,
		Headers: headers,
		Body:    payload,
	}, dest)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	return nil
}

// Infer runs one model over text. A loading model is waited for instead of failing with 503.
func (b *HTTPServiceBase) Infer(ctx context.Context, model, text string, params map[string]any, dest interface{}) error {
	if model == "" {
		return fmt.Errorf("inference model not configured")
	}
	return b.PostJSON(ctx, "/models/"+model, inferenceRequest{
		Inputs:     text,
		Parameters: params,
		Options:    map[string]any{"wait_for_model": true},
	}, dest)
}
