package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"TradeLLM/pkg/util"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"8000"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"90s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"15s"`
		SlowRequest     time.Duration `yaml:"slow_request" default:"10s"`
		CORS            bool          `yaml:"cors" default:"true"`
	} `yaml:"server"`
	Log struct {
		Level      string `yaml:"level" default:"info"`
		Format     string `yaml:"format" default:"json"`
		Output     string `yaml:"output" default:"stdout"`
		MaxSizeMB  int    `yaml:"max_size_mb" default:"100"`
		MaxBackups int    `yaml:"max_backups" default:"5"`
		MaxAgeDays int    `yaml:"max_age_days" default:"14"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"log"`
	RateLimit struct {
		Enabled      bool    `yaml:"enabled" default:"true"`
		Capacity     float64 `yaml:"capacity" default:"10"`
		RefillPerSec float64 `yaml:"refill_per_sec" default:"0.5"`
	} `yaml:"rate_limit"`
	MarketData struct {
		Provider        string        `yaml:"provider" default:"twelvedata"`
		BaseURL         string        `yaml:"base_url" default:"https://api.twelvedata.com"`
		APIKey          string        `yaml:"api_key"`
		CandleCount     int           `yaml:"candle_count" default:"100"`
		RequestsPerSec  float64       `yaml:"requests_per_sec" default:"5"`
		Timeout         time.Duration `yaml:"timeout" default:"15s"`
		MaxRetryElapsed time.Duration `yaml:"max_retry_elapsed" default:"20s"`
		CacheTTL        time.Duration `yaml:"cache_ttl" default:"1m"`
		Table           string        `yaml:"table" default:"market.ohlcv"`
	} `yaml:"market_data"`
	Inference struct {
		BaseURL         string        `yaml:"base_url" default:"https://api-inference.huggingface.co"`
		APIKey          string        `yaml:"api_key"`
		SentimentModel  string        `yaml:"sentiment_model" default:"ProsusAI/finbert"`
		ChatModel       string        `yaml:"chat_model" default:"FinanceInc/finbert_fls"`
		SummaryModel    string        `yaml:"summary_model" default:"human-centered-summarization/financial-summarization-pegasus"`
		GenerationModel string        `yaml:"generation_model" default:"TuringTrader/llama-2-finance-7b"`
		SummaryMaxLen   int           `yaml:"summary_max_length" default:"128"`
		MaxNewTokens    int           `yaml:"max_new_tokens" default:"256"`
		MaxInputChars   int           `yaml:"max_input_chars" default:"2000"`
		Timeout         time.Duration `yaml:"timeout" default:"30s"`
		MaxRetryElapsed time.Duration `yaml:"max_retry_elapsed" default:"45s"`
	} `yaml:"inference"`
	LLM struct {
		BaseURL     string        `yaml:"base_url" default:"https://api.groq.com/openai/v1"`
		APIKey      string        `yaml:"api_key"`
		Model       string        `yaml:"model" default:"mixtral-8x7b-32768"`
		Temperature float32       `yaml:"temperature" default:"0.7"`
		MaxTokens   int           `yaml:"max_tokens" default:"1024"`
		Timeout     time.Duration `yaml:"timeout" default:"60s"`
	} `yaml:"llm"`
	Hyperliquid struct {
		Network string        `yaml:"network" default:"mainnet"`
		InfoURL string        `yaml:"info_url"`
		Timeout time.Duration `yaml:"timeout" default:"10s"`
		Retries int           `yaml:"retries" default:"2"`
	} `yaml:"hyperliquid"`
	News struct {
		Feeds           []string      `yaml:"feeds" default:"[\"https://cointelegraph.com/rss\",\"https://bitcoinmagazine.com/.rss/full/\",\"https://feeds.feedburner.com/CoinDesk\",\"https://cryptonews.com/news/feed/\"]"`
		PerFeedLimit    int           `yaml:"per_feed_limit" default:"5"`
		TotalLimit      int           `yaml:"total_limit" default:"10"`
		Timeout         time.Duration `yaml:"timeout" default:"10s"`
		CacheTTL        time.Duration `yaml:"cache_ttl" default:"5m"`
		RefreshSchedule string        `yaml:"refresh_schedule"`
		Finnhub         struct {
			Enabled  bool   `yaml:"enabled"`
			BaseURL  string `yaml:"base_url" default:"https://finnhub.io/api/v1"`
			APIKey   string `yaml:"api_key"`
			Category string `yaml:"category" default:"crypto"`
		} `yaml:"finnhub"`
	} `yaml:"news"`
	Trading struct {
		Timeframe        string  `yaml:"timeframe" default:"1d"`
		RiskPerTrade     float64 `yaml:"risk_per_trade" default:"0.02"`
		TakeProfitATR    float64 `yaml:"take_profit_atr" default:"3"`
		StopLossATR      float64 `yaml:"stop_loss_atr" default:"1.5"`
		ATRFactor        float64 `yaml:"atr_factor" default:"0.1"`
		ReasoningBackend string  `yaml:"reasoning_backend" default:"llm"`
		MaxReasons       int     `yaml:"max_reasons" default:"3"`
	} `yaml:"trading"`
	Cache struct {
		MemoryMaxSize int           `yaml:"memory_max_size" default:"1000"`
		MemoryCleanup time.Duration `yaml:"memory_cleanup" default:"5m"`
		MemoryTTL     time.Duration `yaml:"memory_ttl" default:"30s"`
		Redis         struct {
			Enabled      bool          `yaml:"enabled"`
			Host         string        `yaml:"host" default:"localhost"`
			Port         int           `yaml:"port" default:"6379"`
			Password     string        `yaml:"password"`
			DB           int           `yaml:"db"`
			Prefix       string        `yaml:"prefix" default:"tradellm"`
			PoolSize     int           `yaml:"pool_size" default:"10"`
			MinIdleConns int           `yaml:"min_idle_conns" default:"2"`
			PoolTimeout  time.Duration `yaml:"pool_timeout" default:"30s"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Metrics struct {
		TrackedSymbols []string `yaml:"tracked_symbols" default:"[\"BTC-USD\",\"ETH-USD\",\"SOL-USD\"]"`
	} `yaml:"metrics"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		SignalTopic  string   `yaml:"signal_topic" default:"trade-signals"`
		LogTopic     string   `yaml:"log_topic"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"100ms"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host" default:"localhost"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"market"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	} `yaml:"clickhouse"`
}

// Default returns a configuration with only struct defaults applied.
func Default() *Config {
	var c Config
	if err := defaults.Set(&c); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return &c
}

// Load reads and parses a YAML configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	c, err := load(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads .env (if present), then YAML, then applies environment overrides.
func LoadWithEnv(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	c, err := load(path)
	if err != nil {
		return nil, err
	}

	c.applyEnv()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("MARKETDATA_API_KEY"); v != "" {
		c.MarketData.APIKey = v
	}
	if v := os.Getenv("HF_API_KEY"); v != "" {
		c.Inference.APIKey = v
	}
	if v := os.Getenv("HUGGINGFACE_API_KEY"); v != "" && c.Inference.APIKey == "" {
		c.Inference.APIKey = v
	}
	if v := os.Getenv("GROQ_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		c.News.Finnhub.APIKey = v
	}
	if v := os.Getenv("HYPERLIQUID_NETWORK"); v != "" {
		c.Hyperliquid.Network = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port, _ := strings.Cut(v, ":")
		c.Cache.Redis.Enabled = true
		c.Cache.Redis.Host = host
		c.Cache.Redis.Port = util.ParseIntDefault(port, c.Cache.Redis.Port)
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Enabled = true
		c.Kafka.Brokers = util.SplitCSV(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	c.Server.Port = util.ParseIntDefault(os.Getenv("PORT"), c.Server.Port)
}

// HyperliquidURL resolves the info endpoint from network unless set explicitly.
func (c *Config) HyperliquidURL() string {
	if c.Hyperliquid.InfoURL != "" {
		return strings.TrimRight(c.Hyperliquid.InfoURL, "/")
	}
	if c.Hyperliquid.Network == "testnet" {
		return "https://api.hyperliquid-testnet.xyz"
	}
	return "https://api.hyperliquid.xyz"
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	switch c.MarketData.Provider {
	case "twelvedata":
		if c.MarketData.BaseURL == "" {
			return fmt.Errorf("market_data.base_url is required")
		}
	case "clickhouse":
		if c.MarketData.Table == "" {
			return fmt.Errorf("market_data.table is required for clickhouse provider")
		}
	default:
		return fmt.Errorf("market_data.provider must be 'twelvedata' or 'clickhouse', got '%s'", c.MarketData.Provider)
	}
	if c.MarketData.CandleCount < 50 {
		return fmt.Errorf("market_data.candle_count must be at least 50, got %d", c.MarketData.CandleCount)
	}
	switch c.Trading.ReasoningBackend {
	case "llm", "inference":
	default:
		return fmt.Errorf("trading.reasoning_backend must be 'llm' or 'inference', got '%s'", c.Trading.ReasoningBackend)
	}
	if c.Trading.RiskPerTrade <= 0 || c.Trading.ATRFactor <= 0 {
		return fmt.Errorf("trading.risk_per_trade and trading.atr_factor must be positive")
	}
	if c.Hyperliquid.Network != "mainnet" && c.Hyperliquid.Network != "testnet" {
		return fmt.Errorf("hyperliquid.network must be 'mainnet' or 'testnet', got '%s'", c.Hyperliquid.Network)
	}
	if c.News.PerFeedLimit <= 0 || c.News.TotalLimit <= 0 {
		return fmt.Errorf("news limits must be positive")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.News.Finnhub.Enabled && c.News.Finnhub.APIKey == "" {
		return fmt.Errorf("news.finnhub.api_key is required when finnhub is enabled")
	}
	return nil
}
