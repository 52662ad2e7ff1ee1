//go:build wireinject
// +build wireinject

package di

import (
	"PatternScan/internal/usecase"
	"PatternScan/pkg/config"
	"PatternScan/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Market data
		ProvideHTTPClient,
		ProvideBybitClient,
		ProvideCache,
		ProvideMarketData,

		// Analytics
		ProvideClassifier,
		ProvideCalculator,

		// Use cases
		ProvideScanner,
		usecase.NewMarket,
		ProvideLimiter,

		// Signal fan-out
		ProvideKafkaProducer,
		ProvideSignalPublisher,
		ProvideHub,
		ProvideScheduler,
		ProvideLatestSnapshot,

		// HTTP
		ProvidePatternsHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return nil, nil, nil
}
