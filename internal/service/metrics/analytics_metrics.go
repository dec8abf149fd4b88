package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Endpoints tracks latency and failures of the analysis usecases per endpoint.
type Endpoints struct {
	latency *prometheus.HistogramVec
	errors  *prometheus.CounterVec
}

func NewEndpoints(reg prometheus.Registerer) *Endpoints {
	f := promauto.With(reg)
	return &Endpoints{
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "tradellm",
				Subsystem: "analysis",
				Name:      "latency_seconds",
				Help:      "Latency of analysis endpoints",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"endpoint"},
		),
		errors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tradellm",
				Subsystem: "analysis",
				Name:      "errors_total",
				Help:      "Errors by analysis endpoint",
			},
			[]string{"endpoint"},
		),
	}
}

// Observe records one call. Use as: defer m.Observe("signal", time.Now(), &err).
func (m *Endpoints) Observe(endpoint string, start time.Time, err *error) {
	if m == nil {
		return
	}
	m.latency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil && *err != nil {
		m.errors.WithLabelValues(endpoint).Inc()
	}
}
