package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"TradeLLM/pkg/config"
	xhttp "TradeLLM/pkg/http"
	applogger "TradeLLM/pkg/logger"
)

// Scheduler runs background jobs on a cron schedule.
type Scheduler interface {
	Start(schedule string) error
	Stop()
}

// Pruner drops idle state, returning how many entries went away.
type Pruner interface {
	Prune() int
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	httpServer *xhttp.Server
	scheduler  Scheduler
	pruner     Pruner
	closers    []namedCloser

	pruneEvery time.Duration
}

type namedCloser struct {
	name string
	c    io.Closer
}

// New creates a new App. scheduler and pruner may be nil.
func New(cfg *config.Config, l *applogger.Logger, srv *xhttp.Server, scheduler Scheduler, pruner Pruner) *App {
	if l == nil {
		l = applogger.Nop()
	}
	return &App{
		cfg:        cfg,
		log:        l,
		httpServer: srv,
		scheduler:  scheduler,
		pruner:     pruner,
		pruneEvery: time.Minute,
	}
}

// OnShutdown registers c to be closed after the HTTP server stops, in
// registration order. A nil closer is ignored.
func (a *App) OnShutdown(name string, c io.Closer) {
	if c == nil {
		return
	}
	a.closers = append(a.closers, namedCloser{name: name, c: c})
}

// Run starts the application and blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the application and blocks until ctx is done.
func (a *App) RunContext(ctx context.Context) error {
	if err := a.start(ctx); err != nil {
		return err
	}
	<-ctx.Done()

	a.log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.httpServer.ShutdownTimeout())
	defer cancel()
	return a.shutdown(shutdownCtx)
}

func (a *App) start(ctx context.Context) error {
	if a.scheduler != nil {
		if err := a.scheduler.Start(a.cfg.News.RefreshSchedule); err != nil {
			a.log.Error("news refresher start error", applogger.Error(err))
			return err
		}
		if a.cfg.News.RefreshSchedule != "" {
			a.log.Info("news refresher started", applogger.String("schedule", a.cfg.News.RefreshSchedule))
		}
	}

	if a.pruner != nil {
		go a.pruneLoop(ctx)
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("app started",
		applogger.String("env", a.cfg.Environment),
		applogger.String("market_data", a.cfg.MarketData.Provider),
		applogger.Bool("kafka", a.cfg.Kafka.Enabled),
		applogger.Bool("redis", a.cfg.Cache.Redis.Enabled),
	)
	return nil
}

func (a *App) pruneLoop(ctx context.Context) {
	t := time.NewTicker(a.pruneEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := a.pruner.Prune(); n > 0 {
				a.log.Debug("rate limit buckets pruned", applogger.Int("count", n))
			}
		}
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	a.log.Info("shutting down...")

	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	for _, nc := range a.closers {
		if err := nc.c.Close(); err != nil {
			a.log.Warn("close error", applogger.String("component", nc.name), applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
