package di

import (
	"context"
	"fmt"
	"time"

	"StockSquad/internal/domain/repository"
	"StockSquad/internal/handler/api"
	internalrepo "StockSquad/internal/repository"
	"StockSquad/internal/service/marketdata"
	"StockSquad/internal/service/yahoo"
	"StockSquad/internal/usecase"
	pkgcache "StockSquad/pkg/cache"
	pkgch "StockSquad/pkg/clickhouse"
	"StockSquad/pkg/config"
	xhttp "StockSquad/pkg/http"
	pkgkafka "StockSquad/pkg/kafka"
	"StockSquad/pkg/logger"
	"StockSquad/pkg/metrics"
	"StockSquad/pkg/queue"
	"StockSquad/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() *metrics.Recorder {
	return metrics.New()
}

// ProvideRedisCache connects the shared Redis tier. Returns nil when
// Redis is disabled; a connection failure is an error because enabling
// Redis and silently running memory-only would hide a misconfiguration.
func ProvideRedisCache(cfg *config.Config, l *logger.Logger) (*pkgcache.RedisCache, error) {
	if !cfg.Cache.Redis.Enabled {
		l.Info("redis disabled, memory-only cache")
		return nil, nil
	}

	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(cfg.Cache.Redis.Host),
		pkgcache.WithRedisPort(cfg.Cache.Redis.Port),
		pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
		pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
		pkgcache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return rc, nil
}

// ProvideCacheService layers the in-process tier over Redis.
func ProvideCacheService(cfg *config.Config, rc *pkgcache.RedisCache) pkgcache.Service {
	return pkgcache.NewLayeredCache(rc,
		pkgcache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize),
	)
}

// ProvideYahooClient creates the provider client.
func ProvideYahooClient(cfg *config.Config, l *logger.Logger) *yahoo.Client {
	return yahoo.NewClient(l, &yahoo.Config{
		ChartURL:       cfg.Provider.ChartURL,
		QuoteURL:       cfg.Provider.QuoteURL,
		SummaryURL:     cfg.Provider.SummaryURL,
		Timeout:        cfg.Provider.Timeout,
		RequestsPerSec: cfg.Provider.RequestsPerSec,
		Burst:          cfg.Provider.Burst,
	})
}

// ProvideMarketData puts the cached gateway in front of the provider.
func ProvideMarketData(cfg *config.Config, l *logger.Logger, client *yahoo.Client, c pkgcache.Service, m *metrics.Recorder) repository.MarketData {
	return marketdata.NewGateway(l, &marketdata.Config{
		QuoteTTL:        cfg.Cache.QuoteTTL,
		HistoricalTTL:   cfg.Cache.HistoricalTTL,
		FundamentalsTTL: cfg.Cache.FundamentalsTTL,
	}, client, c, m)
}

// ProvidePostgres opens the relational store, or nil when no DSN is set.
func ProvidePostgres(cfg *config.Config, l *logger.Logger) (*internalrepo.Postgres, error) {
	if cfg.Postgres.DSN == "" {
		l.Info("postgres not configured, portfolios and alerts disabled")
		return nil, nil
	}
	return internalrepo.NewPostgres(l, cfg.Postgres.DSN)
}

// ProvidePortfolioStore binds the portfolio store, nil-safe.
func ProvidePortfolioStore(pg *internalrepo.Postgres) repository.PortfolioStore {
	return internalrepo.NewPortfolioStore(pg)
}

// ProvideAlertStore binds the alert store, nil-safe.
func ProvideAlertStore(pg *internalrepo.Postgres) repository.AlertStore {
	return internalrepo.NewAlertStore(pg)
}

// ProvideClickHouse connects the analytics store, or nil when disabled.
func ProvideClickHouse(cfg *config.Config, l *logger.Logger) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		l.Info("clickhouse disabled, leaderboard and event log off")
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideSnapshotStore ensures the analytics schema, nil-safe.
func ProvideSnapshotStore(ch *pkgch.Client) (repository.SnapshotStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return internalrepo.NewSnapshotStore(ctx, ch)
}

// ProvideKafkaProducer creates the alert-event producer, or nil when
// Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	return pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithHashByKey(true),
	)
}

// ProvideAlertPublisher binds the Kafka publisher, nil-safe.
func ProvideAlertPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.AlertPublisher {
	return internalrepo.NewAlertPublisher(producer, cfg.Kafka.AlertTopic)
}

// ProvideKafkaConsumer creates the alert-event consumer, or nil when
// Kafka or ClickHouse is off (there is nowhere to log events to).
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled || !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	return pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerTopic(cfg.Kafka.AlertTopic),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
	)
}

// ProvideAlertEventHandler wires the consumer-side event logger.
func ProvideAlertEventHandler(l *logger.Logger, cfg *config.Config, snapshots repository.SnapshotStore) pkgkafka.MessageHandler {
	return internalrepo.NewAlertEventHandler(l, cfg.Kafka.AlertTopic, snapshots)
}

// ProvideSeriesBuilder wires the series builder.
func ProvideSeriesBuilder(l *logger.Logger, market repository.MarketData) *usecase.SeriesBuilder {
	return usecase.NewSeriesBuilder(l, market)
}

// ProvideComparator wires the comparison orchestrator.
func ProvideComparator(l *logger.Logger, builder *usecase.SeriesBuilder, market repository.MarketData, portfolios repository.PortfolioStore, m *metrics.Recorder) *usecase.Comparator {
	return usecase.NewComparator(l, builder, market, portfolios, m)
}

// ProvideRewardService wires daily rewards over the cache.
func ProvideRewardService(cfg *config.Config, l *logger.Logger, c pkgcache.Service) *usecase.RewardService {
	return usecase.NewRewardService(l, c, &usecase.RewardsConfig{
		BaseXP:      cfg.Rewards.BaseXP,
		StreakBonus: cfg.Rewards.StreakBonus,
		MaxBonus:    cfg.Rewards.MaxBonus,
	})
}

// ProvideAlertSweeper wires the background alert evaluator. Nil when
// alerts cannot work end to end (no database or no broker).
func ProvideAlertSweeper(cfg *config.Config, l *logger.Logger, pg *internalrepo.Postgres, store repository.AlertStore, market repository.MarketData, publisher repository.AlertPublisher, m *metrics.Recorder) *usecase.AlertSweeper {
	if pg == nil || !cfg.Kafka.Enabled {
		return nil
	}
	return usecase.NewAlertSweeper(l, store, market, publisher, m, cfg.Alerts.SweepInterval)
}

// ProvideQueue wires the Redis job queue with the snapshot job. Nil
// when Redis or the stores behind the job are unavailable.
func ProvideQueue(cfg *config.Config, l *logger.Logger, rc *pkgcache.RedisCache, job *usecase.SnapshotJob, pg *internalrepo.Postgres) queue.Service {
	if rc == nil || pg == nil || !cfg.ClickHouse.Enabled {
		return nil
	}
	return queue.NewRedisQueue(l, &queue.Config{
		Workers:    cfg.Leaderboard.Workers,
		RetryMax:   3,
		RetryDelay: 5 * time.Second,
	}, rc.Client(), []queue.Job{job})
}

// ProvideSnapshotJob wires the leaderboard snapshot job.
func ProvideSnapshotJob(l *logger.Logger, portfolios repository.PortfolioStore, builder *usecase.SeriesBuilder, snapshots repository.SnapshotStore, m *metrics.Recorder) *usecase.SnapshotJob {
	return usecase.NewSnapshotJob(l, portfolios, builder, snapshots, m)
}

// ProvideSnapshotScheduler wires the periodic enqueue loop, nil when
// there is no queue to feed.
func ProvideSnapshotScheduler(cfg *config.Config, l *logger.Logger, jobs queue.Service) *usecase.SnapshotScheduler {
	if jobs == nil {
		return nil
	}
	return usecase.NewSnapshotScheduler(l, jobs, cfg.Leaderboard.SnapshotInterval, cfg.Leaderboard.Range)
}

// ProvideRouter assembles the HTTP surface.
func ProvideRouter(
	cfg *config.Config,
	l *logger.Logger,
	market repository.MarketData,
	portfolios repository.PortfolioStore,
	alerts repository.AlertStore,
	snapshots repository.SnapshotStore,
	builder *usecase.SeriesBuilder,
	comparator *usecase.Comparator,
	rewards *usecase.RewardService,
) (xhttp.Handler, error) {
	if err := api.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	return api.NewRouter(
		api.NewMarketHandler(l, market),
		api.NewPortfolioHandler(l, portfolios, builder),
		api.NewCompareHandler(l, comparator),
		api.NewAlertHandler(l, alerts),
		api.NewLeaderboardHandler(l, snapshots),
		api.NewRewardsHandler(l, rewards),
		api.NewStreamHandler(l, market, &api.StreamConfig{
			PushInterval: cfg.Stream.PushInterval,
			MaxSymbols:   cfg.Stream.MaxSymbols,
		}),
	), nil
}

// ProvideApp assembles the application and registers resource closers.
func ProvideApp(
	cfg *config.Config,
	l *logger.Logger,
	handler xhttp.Handler,
	jobs queue.Service,
	consumer *pkgkafka.Consumer,
	alertHandler pkgkafka.MessageHandler,
	sweeper *usecase.AlertSweeper,
	scheduler *usecase.SnapshotScheduler,
	c pkgcache.Service,
	pg *internalrepo.Postgres,
	ch *pkgch.Client,
	producer *pkgkafka.Producer,
) *server.App {
	app := server.New(cfg, l, handler, jobs, consumer, alertHandler, sweeper, scheduler)

	app.AddCloser(c)
	if pg != nil {
		app.AddCloser(pg)
	}
	if ch != nil {
		app.AddCloser(ch)
	}
	if producer != nil {
		app.AddCloser(producer)
	}
	return app
}
