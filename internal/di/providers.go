package di

import (
	"fmt"

	"TradeLLM/internal/domain/repository"
	domsvc "TradeLLM/internal/domain/service"
	"TradeLLM/internal/handler/api"
	internalrepo "TradeLLM/internal/repository"
	"TradeLLM/internal/service/finnhub"
	"TradeLLM/internal/service/hyperliquid"
	"TradeLLM/internal/service/llm"
	imetrics "TradeLLM/internal/service/metrics"
	"TradeLLM/internal/service/news"
	"TradeLLM/internal/service/ratelimit"
	"TradeLLM/internal/service/twelvedata"
	"TradeLLM/internal/services/analytics"
	"TradeLLM/internal/usecase"
	"TradeLLM/pkg/cache"
	pkgch "TradeLLM/pkg/clickhouse"
	"TradeLLM/pkg/config"
	xhttp "TradeLLM/pkg/http"
	pkgkafka "TradeLLM/pkg/kafka"
	applogger "TradeLLM/pkg/logger"
	"TradeLLM/pkg/metrics"
	"TradeLLM/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// ProvideRegistry creates the registry every metric of the process lives on.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config, reg *prometheus.Registry) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
		pkgkafka.WithAutoCreateTopic(cfg.Environment == "development"),
		pkgkafka.WithRegisterer(reg),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideLogger builds the app logger. With Kafka enabled and a log topic
// set, error logs are aggregated and shipped to that topic.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	if producer != nil && cfg.Kafka.LogTopic != "" {
		l.AddCollector(&applogger.CollectionConfig{
			Topic:     cfg.Kafka.LogTopic,
			Publisher: producer,
		})
	}
	return l, nil
}

// ProvideMetrics creates the Prometheus recorder used by the usecases.
func ProvideMetrics(cfg *config.Config, reg *prometheus.Registry) repository.Metrics {
	return metrics.New(reg, metrics.WithTrackedSymbols(cfg.Metrics.TrackedSymbols...))
}

// ProvideEndpointMetrics creates the per-endpoint latency metrics.
func ProvideEndpointMetrics(reg *prometheus.Registry) *imetrics.Endpoints {
	return imetrics.NewEndpoints(reg)
}

// ProvideCache creates a layered memory+Redis cache when Redis is enabled,
// memory only otherwise.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryCache(
			cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize),
			cache.WithMemoryCleanup(cfg.Cache.MemoryCleanup),
		), nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Cache.Redis.Host),
		cache.WithRedisPort(cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		cache.WithRedisPool(cfg.Cache.Redis.PoolSize, cfg.Cache.Redis.MinIdleConns, cfg.Cache.Redis.PoolTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(rc,
		cache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize),
		cache.WithLayeredMemoryTTL(cfg.Cache.MemoryTTL),
	), nil
}

// ProvideClickHouseClient connects only when ClickHouse is the market data provider.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.MarketData.Provider != "clickhouse" {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideMarketData selects the candle provider and puts the cache in front of it.
func ProvideMarketData(cfg *config.Config, ch *pkgch.Client, c cache.Service, l *applogger.Logger) (repository.MarketData, error) {
	var inner repository.MarketData
	switch cfg.MarketData.Provider {
	case "clickhouse":
		if ch == nil {
			return nil, fmt.Errorf("market data: clickhouse client not configured")
		}
		store, err := internalrepo.NewCHCandles(ch.DB(), cfg.MarketData.Table, l)
		if err != nil {
			return nil, fmt.Errorf("market data: %w", err)
		}
		inner = store
	default:
		inner = twelvedata.NewClient(cfg, l)
	}
	return internalrepo.NewCachedMarketData(inner, c, cfg.MarketData.CacheTTL), nil
}

// ProvideNewsSources builds the RSS feeds plus Finnhub when enabled, each cached.
func ProvideNewsSources(cfg *config.Config, c cache.Service) []repository.NewsSource {
	sources := news.NewRSSSources(cfg.News.Feeds, cfg.News.Timeout)
	if cfg.News.Finnhub.Enabled && cfg.News.Finnhub.APIKey != "" {
		sources = append(sources, finnhub.New(cfg))
	}
	return news.WrapAll(sources, c, cfg.News.CacheTTL)
}

// ProvideNewsRefresher keeps cached feeds warm on cfg.News.RefreshSchedule.
func ProvideNewsRefresher(cfg *config.Config, sources []repository.NewsSource, l *applogger.Logger) *news.Refresher {
	return news.NewRefresher(sources, cfg.News.Timeout, l)
}

// ProvideLLMClient creates the chat completion client.
func ProvideLLMClient(cfg *config.Config) *llm.Client {
	return llm.NewClient(cfg)
}

// ProvideReasoner picks the backend that writes trade reasoning.
func ProvideReasoner(cfg *config.Config, c *llm.Client) domsvc.TextGenerator {
	if cfg.Trading.ReasoningBackend == "inference" {
		return analytics.NewHTTPTextGenerator(cfg)
	}
	return llm.NewGenerator(c, llm.TraderSystemPrompt)
}

// ProvideSignalPublisher publishes signals to Kafka, or drops them when Kafka is off.
func ProvideSignalPublisher(cfg *config.Config, producer *pkgkafka.Producer) repository.SignalPublisher {
	if producer == nil {
		return internalrepo.NoopSignalPublisher{}
	}
	return internalrepo.NewKafkaSignalPublisher(producer, cfg.Kafka.SignalTopic)
}

func ProvideMarketAnalyzer(cfg *config.Config, md repository.MarketData, m repository.Metrics, l *applogger.Logger) *usecase.MarketAnalyzer {
	return usecase.NewMarketAnalyzer(md, analytics.NewHTTPSummarizer(cfg), m, l, cfg.MarketData.CandleCount)
}

func ProvideSentimentAnalyzer(cfg *config.Config, sources []repository.NewsSource, m repository.Metrics, l *applogger.Logger) *usecase.SentimentAnalyzer {
	return usecase.NewSentimentAnalyzer(sources, analytics.NewHTTPSentimentClassifier(cfg), m, l, cfg.News.PerFeedLimit, cfg.News.TotalLimit)
}

func ProvideTradeSignalGenerator(
	cfg *config.Config,
	market *usecase.MarketAnalyzer,
	sentiment *usecase.SentimentAnalyzer,
	reasoner domsvc.TextGenerator,
	pub repository.SignalPublisher,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.TradeSignalGenerator {
	return usecase.NewTradeSignalGenerator(market, sentiment, reasoner, pub, m, l, usecase.SignalParams{
		Timeframe:     repository.NormalizeTimeframe(cfg.Trading.Timeframe),
		RiskPerTrade:  cfg.Trading.RiskPerTrade,
		TakeProfitATR: cfg.Trading.TakeProfitATR,
		StopLossATR:   cfg.Trading.StopLossATR,
		ATRFactor:     cfg.Trading.ATRFactor,
		MaxReasons:    cfg.Trading.MaxReasons,
	})
}

func ProvideMarketReport(market *usecase.MarketAnalyzer, sentiment *usecase.SentimentAnalyzer) *usecase.MarketReport {
	return usecase.NewMarketReport(market, sentiment)
}

func ProvideOnchainAnalyzer(cfg *config.Config, m repository.Metrics, l *applogger.Logger) *usecase.OnchainAnalyzer {
	return usecase.NewOnchainAnalyzer(hyperliquid.NewClient(cfg), m, l)
}

func ProvideProfileService(c *llm.Client, m repository.Metrics) *usecase.ProfileService {
	return usecase.NewProfileService(c, m)
}

func ProvideChatAnalyzer(cfg *config.Config, m repository.Metrics) *usecase.ChatAnalyzer {
	return usecase.NewChatAnalyzer(analytics.NewHTTPSentimentClassifierForModel(cfg, cfg.Inference.ChatModel), m)
}

// ProvideRateLimiter creates the per-IP limiter for LLM-backed routes, or nil when disabled.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return ratelimit.New(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec)
}

// ProvideAnalysisHandler registers the /api/v1 routes.
func ProvideAnalysisHandler(
	l *applogger.Logger,
	report *usecase.MarketReport,
	signals *usecase.TradeSignalGenerator,
	onchain *usecase.OnchainAnalyzer,
	profile *usecase.ProfileService,
	chat *usecase.ChatAnalyzer,
	endpoints *imetrics.Endpoints,
	limiter *ratelimit.Limiter,
) *api.AnalysisHandler {
	uc := api.Usecases{
		Market:  report,
		Signals: signals,
		Onchain: onchain,
		Profile: profile,
		Chat:    chat,
	}
	if limiter == nil {
		return api.NewAnalysisHandler(l, uc, endpoints, nil)
	}
	return api.NewAnalysisHandler(l, uc, endpoints, limiter.Middleware())
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(cfg *config.Config, h *api.AnalysisHandler, l *applogger.Logger, reg *prometheus.Registry) *xhttp.Server {
	return xhttp.NewServer(h,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithSlowRequest(cfg.Server.SlowRequest),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithLogger(l),
		xhttp.WithRegistry(reg),
	)
}

// ProvideApp creates the application and registers what it must close on
// shutdown. The log collector flushes before the producer it publishes through closes.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	refresher *news.Refresher,
	limiter *ratelimit.Limiter,
	pub repository.SignalPublisher,
	c cache.Service,
	ch *pkgch.Client,
) *server.App {
	var pruner server.Pruner
	if limiter != nil {
		pruner = limiter
	}
	app := server.New(cfg, l, srv, refresher, pruner)
	app.OnShutdown("log_collector", closerFunc(func() error {
		l.RemoveCollector()
		return nil
	}))
	app.OnShutdown("signal_publisher", pub)
	app.OnShutdown("cache", c)
	if ch != nil {
		app.OnShutdown("clickhouse", ch)
	}
	return app
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
