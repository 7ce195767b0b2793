//go:build wireinject
// +build wireinject

package di

import (
	"CryptoAnalyst/pkg/config"
	"CryptoAnalyst/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Domain data
		ProvideCatalog,
		ProvidePromptRegistry,
		ProvideCache,

		// Resolution
		ProvideResolver,

		// Enrichment services
		ProvidePriceSource,
		ProvideTechnicalAnalyzer,
		ProvideNewsSource,
		ProvideSentimentAnalyzer,
		ProvideReportWriter,

		// Infrastructure
		ProvideAuditPublisher,
		ProvideJobQueue,

		// Use cases
		ProvideAnalyzer,
		ProvideJobService,

		// HTTP
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
