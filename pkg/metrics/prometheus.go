package metrics

import (
	"strings"

	"TradeLLM/internal/domain/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OtherInstrument labels signals for instruments outside the tracked set.
const OtherInstrument = "other"

// Recorder implements domain.repository.Metrics using Prometheus.
// Instrument labels are limited to the tracked symbols so caller input
// cannot create new series.
type Recorder struct {
	upstreamLatency *prometheus.HistogramVec
	upstreamErrors  *prometheus.CounterVec
	signals         *prometheus.CounterVec
	articles        prometheus.Histogram
	errorsTotal     *prometheus.CounterVec
	lastPrice       *prometheus.GaugeVec
	tracked         map[string]struct{}
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithTrackedSymbols sets the instruments that get their own label values.
func WithTrackedSymbols(symbols ...string) Option {
	return func(r *Recorder) {
		for _, s := range symbols {
			if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
				r.tracked[s] = struct{}{}
			}
		}
	}
}

// New creates a recorder registered on reg (prometheus.DefaultRegisterer in production).
func New(reg prometheus.Registerer, opts ...Option) *Recorder {
	f := promauto.With(reg)
	r := &Recorder{
		upstreamLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tradellm_upstream_duration_seconds",
				Help:    "Latency of calls to upstream providers",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"provider", "result"},
		),
		upstreamErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradellm_upstream_errors_total",
				Help: "Failed calls to upstream providers",
			},
			[]string{"provider"},
		),
		signals: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradellm_signals_generated_total",
				Help: "Trade signals generated",
			},
			[]string{"instrument", "direction"},
		),
		articles: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tradellm_sentiment_articles",
				Help:    "Articles matched per sentiment analysis",
				Buckets: []float64{0, 1, 2, 5, 10, 20},
			},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradellm_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tradellm_last_price",
				Help: "Last analysed price for an instrument",
			},
			[]string{"symbol"},
		),
		tracked: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RecordUpstream records one upstream call.
func (r *Recorder) RecordUpstream(provider string, seconds float64, err error) {
	result := "ok"
	if err != nil {
		result = "error"
		r.upstreamErrors.WithLabelValues(provider).Inc()
	}
	r.upstreamLatency.WithLabelValues(provider, result).Observe(seconds)
}

// RecordSignal counts a generated signal.
func (r *Recorder) RecordSignal(instrument string, direction models.Direction) {
	label := OtherInstrument
	if s, ok := r.trackedSymbol(instrument); ok {
		label = s
	}
	r.signals.WithLabelValues(label, string(direction)).Inc()
}

// RecordArticles observes how many articles fed a sentiment result.
func (r *Recorder) RecordArticles(n int) {
	r.articles.Observe(float64(n))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a tracked symbol. Others are dropped.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	if s, ok := r.trackedSymbol(symbol); ok {
		r.lastPrice.WithLabelValues(s).Set(price)
	}
}

func (r *Recorder) trackedSymbol(symbol string) (string, bool) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	_, ok := r.tracked[s]
	return s, ok
}

// Nop discards everything. Useful in tests and tools.
type Nop struct{}

func (Nop) RecordUpstream(string, float64, error) {}
func (Nop) RecordSignal(string, models.Direction) {}
func (Nop) RecordArticles(int)                    {}
func (Nop) RecordError(string)                    {}
func (Nop) RecordLastPrice(string, float64)       {}
