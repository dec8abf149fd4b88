package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"TradeLLM/internal/domain/models"
	"TradeLLM/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Path string
	Auth string
	Body inferenceRequest
}

func newInferenceServer(t *testing.T, status int, response string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	got := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Path = r.URL.Path
		got.Auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func testConfig(baseURL string) *config.Config {
	cfg := config.Default()
	cfg.Inference.BaseURL = baseURL
	cfg.Inference.APIKey = "hf_test"
	cfg.Inference.Timeout = 2 * time.Second
	cfg.Inference.MaxRetryElapsed = 0
	return cfg
}

func TestSentimentClassifierNested(t *testing.T) {
	srv, got := newInferenceServer(t, http.StatusOK,
		`[[{"label":"positive","score":0.81},{"label":"negative","score":0.12},{"label":"neutral","score":0.07}]]`)
	c := NewHTTPSentimentClassifier(testConfig(srv.URL))

	res, err := c.Classify(context.Background(), "Bitcoin rallies to new highs")
	require.NoError(t, err)
	assert.Equal(t, models.SentimentPositive, res.Label)
	assert.InDelta(t, 0.81, res.Score, 1e-9)

	assert.Equal(t, "/models/ProsusAI/finbert", got.Path)
	assert.Equal(t, "Bearer hf_test", got.Auth)
	assert.Equal(t, "Bitcoin rallies to new highs", got.Body.Inputs)
	assert.Equal(t, true, got.Body.Options["wait_for_model"])
}

func TestSentimentClassifierFlatAndUnknownLabel(t *testing.T) {
	srv, _ := newInferenceServer(t, http.StatusOK,
		`[{"label":"Specific FLS","score":0.4},{"label":"Not FLS","score":0.6}]`)
	cfg := testConfig(srv.URL)
	c := NewHTTPSentimentClassifierForModel(cfg, cfg.Inference.ChatModel)

	res, err := c.Classify(context.Background(), "we expect growth next quarter")
	require.NoError(t, err)
	assert.Equal(t, models.SentimentNeutral, res.Label)
	assert.Equal(t, "Not FLS", res.Raw)
	assert.InDelta(t, 0.6, res.Score, 1e-9)
}

func TestSentimentClassifierTruncatesInput(t *testing.T) {
	srv, got := newInferenceServer(t, http.StatusOK, `[[{"label":"neutral","score":1}]]`)
	cfg := testConfig(srv.URL)
	cfg.Inference.MaxInputChars = 5
	c := NewHTTPSentimentClassifier(cfg)

	_, err := c.Classify(context.Background(), "abcdefghij")
	require.NoError(t, err)
	assert.Equal(t, "abcde", got.Body.Inputs)
}

func TestSentimentClassifierErrors(t *testing.T) {
	srv, _ := newInferenceServer(t, http.StatusBadRequest, `{"error":"bad input"}`)
	_, err := NewHTTPSentimentClassifier(testConfig(srv.URL)).Classify(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")

	srv, _ = newInferenceServer(t, http.StatusOK, `[]`)
	_, err = NewHTTPSentimentClassifier(testConfig(srv.URL)).Classify(context.Background(), "x")
	assert.Error(t, err)
}

func TestSummarizer(t *testing.T) {
	srv, got := newInferenceServer(t, http.StatusOK, `[{"summary_text":"  BTC looks bullish.  "}]`)
	s := NewHTTPSummarizer(testConfig(srv.URL))

	out, err := s.Summarize(context.Background(), "long analysis text")
	require.NoError(t, err)
	assert.Equal(t, "BTC looks bullish.", out)
	assert.Equal(t, "/models/human-centered-summarization/financial-summarization-pegasus", got.Path)
	assert.EqualValues(t, 128, got.Body.Parameters["max_length"])
}

func TestTextGenerator(t *testing.T) {
	srv, got := newInferenceServer(t, http.StatusOK, `[{"generated_text":"1. Trend up\n2. RSI neutral"}]`)
	g := NewHTTPTextGenerator(testConfig(srv.URL))

	out, err := g.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "1. Trend up\n2. RSI neutral", out)
	assert.Equal(t, false, got.Body.Parameters["return_full_text"])
	assert.EqualValues(t, 256, got.Body.Parameters["max_new_tokens"])
}

func TestInferenceRetriesLoadingModel(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[{"summary_text":"ok"}]`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Inference.MaxRetryElapsed = 5 * time.Second
	out, err := NewHTTPSummarizer(cfg).Summarize(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestInferRequiresModel(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Inference.SummaryModel = ""
	_, err := NewHTTPSummarizer(cfg).Summarize(context.Background(), "x")
	assert.ErrorContains(t, err, "model not configured")
}
