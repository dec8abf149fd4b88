//go:build wireinject
// +build wireinject

package di

import (
	"TradeLLM/pkg/config"
	"TradeLLM/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Metrics
		ProvideRegistry,
		ProvideMetrics,
		ProvideEndpointMetrics,

		// Infrastructure clients
		ProvideKafkaProducer,
		ProvideLogger,
		ProvideCache,
		ProvideClickHouseClient,
		ProvideLLMClient,

		// Repositories and upstream sources
		ProvideMarketData,
		ProvideNewsSources,
		ProvideNewsRefresher,
		ProvideReasoner,
		ProvideSignalPublisher,

		// Use cases
		ProvideMarketAnalyzer,
		ProvideSentimentAnalyzer,
		ProvideTradeSignalGenerator,
		ProvideMarketReport,
		ProvideOnchainAnalyzer,
		ProvideProfileService,
		ProvideChatAnalyzer,

		// HTTP
		ProvideRateLimiter,
		ProvideAnalysisHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
