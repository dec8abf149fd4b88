package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"TradeLLM/internal/domain/models"
	domrepo "TradeLLM/internal/domain/repository"
	domsvc "TradeLLM/internal/domain/service"
	"TradeLLM/pkg/logger"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultPerSourceLimit = 5
	DefaultTotalLimit     = 10

	classifyConcurrency = 4
)

var assetAliases = map[string]string{
	"btc":   "bitcoin",
	"eth":   "ethereum",
	"sol":   "solana",
	"xrp":   "ripple",
	"ada":   "cardano",
	"doge":  "dogecoin",
	"dot":   "polkadot",
	"avax":  "avalanche",
	"link":  "chainlink",
	"matic": "polygon",
	"ltc":   "litecoin",
	"bnb":   "binance",
	"trx":   "tron",
	"usdt":  "tether",
}

// SentimentAnalyzer scores recent news about an instrument.
type SentimentAnalyzer struct {
	sources    []domrepo.NewsSource
	classifier domsvc.SentimentClassifier
	metrics    domrepo.Metrics
	log        *logger.Logger
	perSource  int
	total      int
}

func NewSentimentAnalyzer(sources []domrepo.NewsSource, classifier domsvc.SentimentClassifier, m domrepo.Metrics, l *logger.Logger, perSource, total int) *SentimentAnalyzer {
	if perSource <= 0 {
		perSource = DefaultPerSourceLimit
	}
	if total <= 0 {
		total = DefaultTotalLimit
	}
	return &SentimentAnalyzer{
		sources:    sources,
		classifier: classifier,
		metrics:    orNopMetrics(m),
		log:        orNopLogger(l),
		perSource:  perSource,
		total:      total,
	}
}

// Analyze fetches matching articles, classifies them and aggregates the labels.
func (a *SentimentAnalyzer) Analyze(ctx context.Context, instrument string) (models.SentimentResult, error) {
	articles := a.fetch(ctx, SearchTerms(instrument))
	a.metrics.RecordArticles(len(articles))

	scores := make([]models.SentimentScore, len(articles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(classifyConcurrency)
	for i, art := range articles {
		g.Go(func() error {
			start := time.Now()
			s, err := a.classifier.Classify(gctx, strings.TrimSpace(art.Title+" "+art.Description))
			observe(a.metrics, providerSentiment, start, err)
			if err != nil {
				return err
			}
			scores[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.SentimentResult{}, fmt.Errorf("sentiment analysis failed: %w", err)
	}

	res := Aggregate(scores)
	a.log.Debug("sentiment analysed",
		logger.String("instrument", instrument),
		logger.Int("articles", res.Articles),
		logger.String("label", string(res.Label)))
	return res, nil
}

// fetch reads every source concurrently. A failing source is logged and skipped.
func (a *SentimentAnalyzer) fetch(ctx context.Context, terms []string) []models.Article {
	perSource := make([][]models.Article, len(a.sources))

	var g errgroup.Group
	for i, src := range a.sources {
		g.Go(func() error {
			start := time.Now()
			items, err := src.Fetch(ctx)
			observe(a.metrics, providerNews, start, err)
			if err != nil {
				a.log.Warn("news source failed", logger.String("source", src.Name()), logger.Error(err))
				return nil
			}
			perSource[i] = filterArticles(items, terms, a.perSource)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]models.Article, 0, a.total)
	for _, items := range perSource {
		for _, it := range items {
			if len(out) == a.total {
				return out
			}
			out = append(out, it)
		}
	}
	return out
}

func filterArticles(items []models.Article, terms []string, limit int) []models.Article {
	out := make([]models.Article, 0, limit)
	for _, it := range items {
		if len(out) == limit {
			break
		}
		if matchesAny(strings.ToLower(it.Title), terms) || matchesAny(strings.ToLower(it.Description), terms) {
			out = append(out, it)
		}
	}
	return out
}

func matchesAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

// SearchTerms returns the lower-cased instrument, its base asset when it is
// at least three characters, and the asset's common name.
func SearchTerms(instrument string) []string {
	inst := strings.ToLower(strings.TrimSpace(instrument))
	if inst == "" {
		return nil
	}
	terms := []string{inst}
	base := inst
	if i := strings.IndexAny(inst, "-/"); i > 0 {
		base = inst[:i]
	}
	if base != inst && len(base) >= 3 {
		terms = append(terms, base)
	}
	if alias, ok := assetAliases[base]; ok {
		terms = append(terms, alias)
	}
	return terms
}

// Aggregate picks the most frequent label (ties resolve positive, negative,
// neutral) and averages the scores. No input reads neutral at 0.5.
func Aggregate(scores []models.SentimentScore) models.SentimentResult {
	if len(scores) == 0 {
		return models.SentimentResult{Label: models.SentimentNeutral, Score: 0.5}
	}

	counts := map[models.SentimentLabel]int{}
	var total float64
	for _, s := range scores {
		counts[models.ParseSentimentLabel(string(s.Label))]++
		total += s.Score
	}

	dominant := models.SentimentPositive
	for _, l := range []models.SentimentLabel{models.SentimentNegative, models.SentimentNeutral} {
		if counts[l] > counts[dominant] {
			dominant = l
		}
	}
	return models.SentimentResult{
		Label:    dominant,
		Score:    total / float64(len(scores)),
		Articles: len(scores),
	}
}
