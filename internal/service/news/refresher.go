package news

import (
	"context"
	"fmt"
	"time"

	domrepo "TradeLLM/internal/domain/repository"
	"TradeLLM/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Refresher re-fetches cached sources on a cron schedule so requests hit a warm cache.
type Refresher struct {
	sources []*CachedSource
	timeout time.Duration
	log     *logger.Logger
	cron    *cron.Cron
}

// NewRefresher picks the cached sources out of sources; others are ignored.
func NewRefresher(sources []domrepo.NewsSource, timeout time.Duration, log *logger.Logger) *Refresher {
	r := &Refresher{timeout: timeout, log: log.With(logger.String("component", "news_refresher"))}
	for _, s := range sources {
		if cs, ok := s.(*CachedSource); ok {
			r.sources = append(r.sources, cs)
		}
	}
	return r
}

// Start schedules RefreshAll. An empty schedule disables the refresher.
func (r *Refresher) Start(schedule string) error {
	if schedule == "" || len(r.sources) == 0 {
		return nil
	}
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { r.RefreshAll(context.Background()) }); err != nil {
		return fmt.Errorf("schedule news refresh %q: %w", schedule, err)
	}
	r.cron = c
	c.Start()
	r.log.Info("news refresher started", logger.String("schedule", schedule), logger.Int("sources", len(r.sources)))
	return nil
}

// Stop waits for a running refresh to finish.
func (r *Refresher) Stop() {
	if r.cron == nil {
		return
	}
	<-r.cron.Stop().Done()
	r.cron = nil
}

// RefreshAll refreshes sources one after another. Failures are logged.
func (r *Refresher) RefreshAll(ctx context.Context) {
	for _, s := range r.sources {
		fctx, cancel := context.WithTimeout(ctx, r.timeout)
		n, err := s.Refresh(fctx)
		cancel()
		if err != nil {
			r.log.Warn("news refresh failed", logger.String("source", s.Name()), logger.Error(err))
			continue
		}
		r.log.Debug("news refreshed", logger.String("source", s.Name()), logger.Int("articles", n))
	}
}
