package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"TradeLLM/internal/domain/models"
	domrepo "TradeLLM/internal/domain/repository"
	"TradeLLM/pkg/logger"
	"TradeLLM/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func articles(prefix string, n int) []models.Article {
	out := make([]models.Article, n)
	for i := range out {
		out[i] = models.Article{Title: fmt.Sprintf("%s %d", prefix, i)}
	}
	return out
}

func TestSentimentAnalyzerAggregates(t *testing.T) {
	sources := []domrepo.NewsSource{
		&fakeSource{name: "a", articles: []models.Article{
			{Title: "Bitcoin rally continues", Description: "ETF demand"},
			{Title: "Solana upgrade", Description: "unrelated"},
			{Title: "Exchange hack", Description: "BTC withdrawals paused"},
		}},
		&fakeSource{name: "b", articles: []models.Article{
			{Title: "BTC-USD surge", Description: ""},
		}},
	}
	cls := &keywordClassifier{}
	m := newFakeMetrics()
	a := NewSentimentAnalyzer(sources, cls, m, logger.Nop(), 0, 0)

	res, err := a.Analyze(context.Background(), "BTC-USD")
	require.NoError(t, err)
	assert.Equal(t, models.SentimentPositive, res.Label)
	assert.Equal(t, 3, res.Articles)
	assert.InDelta(t, 0.8, res.Score, 1e-9)
	assert.Len(t, cls.seen, 3)
	assert.Contains(t, cls.seen, "Bitcoin rally continues ETF demand")
	assert.Equal(t, []int{3}, m.articles)
}

func TestSentimentAnalyzerSkipsFailingSource(t *testing.T) {
	sources := []domrepo.NewsSource{
		&fakeSource{name: "down", err: errors.New("timeout")},
		&fakeSource{name: "up", articles: []models.Article{{Title: "ETH crash deepens"}}},
	}
	a := NewSentimentAnalyzer(sources, &keywordClassifier{}, nil, nil, 5, 10)

	res, err := a.Analyze(context.Background(), "ETH")
	require.NoError(t, err)
	assert.Equal(t, models.SentimentNegative, res.Label)
	assert.Equal(t, 1, res.Articles)
}

func TestSentimentAnalyzerLimits(t *testing.T) {
	sources := []domrepo.NewsSource{
		&fakeSource{name: "a", articles: articles("bitcoin a", 8)},
		&fakeSource{name: "b", articles: articles("bitcoin b", 8)},
		&fakeSource{name: "c", articles: articles("bitcoin c", 8)},
	}
	cls := &keywordClassifier{}
	a := NewSentimentAnalyzer(sources, cls, nil, nil, 5, 10)

	res, err := a.Analyze(context.Background(), "BTC")
	require.NoError(t, err)
	assert.Equal(t, 10, res.Articles)
	assert.Len(t, cls.seen, 10)
	for _, s := range cls.seen {
		assert.NotContains(t, s, "bitcoin c", "third source is past the total cap")
	}
}

func TestSentimentAnalyzerNoArticles(t *testing.T) {
	a := NewSentimentAnalyzer([]domrepo.NewsSource{&fakeSource{name: "a"}}, &keywordClassifier{}, nil, nil, 5, 10)
	res, err := a.Analyze(context.Background(), "XAU-USD")
	require.NoError(t, err)
	assert.Equal(t, models.SentimentResult{Label: models.SentimentNeutral, Score: 0.5}, res)
}

func TestSentimentAnalyzerClassifierError(t *testing.T) {
	sources := []domrepo.NewsSource{&fakeSource{name: "a", articles: []models.Article{{Title: "btc"}}}}
	a := NewSentimentAnalyzer(sources, &keywordClassifier{err: errors.New("503")}, nil, nil, 5, 10)
	_, err := a.Analyze(context.Background(), "BTC")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sentiment analysis failed")
}

func TestSearchTerms(t *testing.T) {
	assert.Equal(t, []string{"btc-usd", "btc", "bitcoin"}, SearchTerms("BTC-USD"))
	assert.Equal(t, []string{"eth/usdt", "eth", "ethereum"}, SearchTerms(" ETH/USDT "))
	assert.Equal(t, []string{"sol", "solana"}, SearchTerms("SOL"))
	assert.Equal(t, []string{"aapl"}, SearchTerms("AAPL"))
	assert.Equal(t, []string{"op-usd"}, SearchTerms("OP-USD"))
	assert.Nil(t, SearchTerms(""))
}

func TestAggregate(t *testing.T) {
	pos := models.SentimentScore{Label: models.SentimentPositive, Score: 0.9}
	neg := models.SentimentScore{Label: models.SentimentNegative, Score: 0.7}
	neu := models.SentimentScore{Label: models.SentimentNeutral, Score: 0.5}
	odd := models.SentimentScore{Label: "Not FLS", Score: 0.3}

	tests := []struct {
		name   string
		scores []models.SentimentScore
		want   models.SentimentLabel
	}{
		{"majority negative", []models.SentimentScore{neg, neg, pos}, models.SentimentNegative},
		{"tie positive wins", []models.SentimentScore{pos, neg, neu}, models.SentimentPositive},
		{"tie negative beats neutral", []models.SentimentScore{neg, neu}, models.SentimentNegative},
		{"unknown counts neutral", []models.SentimentScore{odd, odd, pos}, models.SentimentNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.scores)
			assert.Equal(t, tt.want, got.Label)
			assert.Equal(t, len(tt.scores), got.Articles)
		})
	}

	got := Aggregate([]models.SentimentScore{pos, neg})
	assert.InDelta(t, 0.8, got.Score, 1e-9)
}

func TestSentimentAnalyzerUnknownInstrumentsShareArticleSeries(t *testing.T) {
	reg := prometheus.NewRegistry()
	sources := []domrepo.NewsSource{&fakeSource{name: "a", articles: articles("Bitcoin rally", 2)}}
	a := NewSentimentAnalyzer(sources, &keywordClassifier{}, metrics.New(reg), nil, 5, 10)

	for i := 0; i < 50; i++ {
		_, err := a.Analyze(context.Background(), fmt.Sprintf("JUNK%d", i))
		require.NoError(t, err)
	}

	n, err := testutil.GatherAndCount(reg, "tradellm_sentiment_articles")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
