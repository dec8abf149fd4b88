package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"TradeLLM/internal/domain/models"
	domrepo "TradeLLM/internal/domain/repository"
)

type fakeMarketData struct {
	candles []models.Candle
	err     error
	gotN    int
	gotTF   domrepo.Timeframe
}

func (f *fakeMarketData) GetLatestNCandles(_ context.Context, _ string, n int, tf domrepo.Timeframe) ([]models.Candle, error) {
	f.gotN, f.gotTF = n, tf
	return f.candles, f.err
}

type fakeSummarizer struct {
	out string
	err error
	got string
}

func (f *fakeSummarizer) Summarize(_ context.Context, text string) (string, error) {
	f.got = text
	return f.out, f.err
}

type fakeSource struct {
	name     string
	articles []models.Article
	err      error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(context.Context) ([]models.Article, error) {
	return f.articles, f.err
}

// keywordClassifier labels text by the first keyword it contains.
type keywordClassifier struct {
	mu    sync.Mutex
	seen  []string
	err   error
	score float64
}

func (c *keywordClassifier) Classify(_ context.Context, text string) (models.SentimentScore, error) {
	c.mu.Lock()
	c.seen = append(c.seen, text)
	c.mu.Unlock()
	if c.err != nil {
		return models.SentimentScore{}, c.err
	}
	score := c.score
	if score == 0 {
		score = 0.8
	}
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "rally"), strings.Contains(lower, "surge"):
		return models.SentimentScore{Label: models.SentimentPositive, Score: score, Raw: "positive"}, nil
	case strings.Contains(lower, "crash"), strings.Contains(lower, "hack"):
		return models.SentimentScore{Label: models.SentimentNegative, Score: score, Raw: "negative"}, nil
	}
	return models.SentimentScore{Label: models.SentimentNeutral, Score: score, Raw: "neutral"}, nil
}

type fakeGenerator struct {
	out    string
	err    error
	prompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.out, f.err
}

type fakeCompleter struct {
	out    string
	err    error
	system string
	prompt string
}

func (f *fakeCompleter) Complete(_ context.Context, system, prompt string) (string, error) {
	f.system, f.prompt = system, prompt
	return f.out, f.err
}

type fakePublisher struct {
	published []*models.TradeSignal
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, s *models.TradeSignal) error {
	f.published = append(f.published, s)
	return f.err
}

func (f *fakePublisher) Close() error { return nil }

type fakeAccount struct {
	state  models.AccountState
	err    error
	wallet string
}

func (f *fakeAccount) AccountState(_ context.Context, wallet string) (models.AccountState, error) {
	f.wallet = wallet
	return f.state, f.err
}

type fakeMetrics struct {
	mu        sync.Mutex
	upstream  map[string]int
	signals   map[models.Direction]int
	errors    map[string]int
	lastPrice map[string]float64
	articles  []int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		upstream:  map[string]int{},
		signals:   map[models.Direction]int{},
		errors:    map[string]int{},
		lastPrice: map[string]float64{},
	}
}

func (m *fakeMetrics) RecordUpstream(provider string, _ float64, _ error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upstream[provider]++
}

func (m *fakeMetrics) RecordSignal(_ string, d models.Direction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signals[d]++
}

func (m *fakeMetrics) RecordLastPrice(symbol string, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastPrice[symbol] = price
}

func (m *fakeMetrics) RecordArticles(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.articles = append(m.articles, n)
}

func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[kind]++
}

// risingCandles is n daily bars closing at 100, 101, ... with flat volume
// except a 4x spike on the last bar.
func risingCandles(n int) []models.Candle {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Candle, n)
	for i := range out {
		c := 100 + float64(i)
		out[i] = models.Candle{Bucket: start.AddDate(0, 0, i), Symbol: "BTC-USD", Open: c, High: c, Low: c, Close: c, Volume: 10}
	}
	out[n-1].Volume = 40
	return out
}

func flatCandles(n int) []models.Candle {
	out := risingCandles(n)
	for i := range out {
		out[i].Close = 100
		out[i].Volume = 10
	}
	return out
}
