//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"StockSquad/pkg/config"
	"StockSquad/pkg/server"
)

// InitializeApp builds the application with all dependencies.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideRedisCache,
		ProvideCacheService,
		ProvideYahooClient,
		ProvideMarketData,
		ProvidePostgres,
		ProvidePortfolioStore,
		ProvideAlertStore,
		ProvideClickHouse,
		ProvideSnapshotStore,
		ProvideKafkaProducer,
		ProvideAlertPublisher,
		ProvideKafkaConsumer,
		ProvideAlertEventHandler,
		ProvideSeriesBuilder,
		ProvideComparator,
		ProvideRewardService,
		ProvideAlertSweeper,
		ProvideSnapshotJob,
		ProvideQueue,
		ProvideSnapshotScheduler,
		ProvideRouter,
		ProvideApp,
	)
	return nil, nil
}
