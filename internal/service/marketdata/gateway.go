package marketdata

import (
	"context"
	"time"

	"StockSquad/internal/domain/models"
	"StockSquad/internal/domain/repository"
	"StockSquad/pkg/cache"
	"StockSquad/pkg/logger"
	"StockSquad/pkg/util"
)

// MetricsRecorder is the slice of metrics the gateway emits.
type MetricsRecorder interface {
	RecordProviderRequest(kind, result string, seconds float64)
	RecordCacheHit(kind string)
	RecordCacheMiss(kind string)
}

// Config holds per-kind cache TTLs.
type Config struct {
	QuoteTTL        time.Duration `yaml:"quote_ttl" default:"15m"`
	HistoricalTTL   time.Duration `yaml:"historical_ttl" default:"15m"`
	FundamentalsTTL time.Duration `yaml:"fundamentals_ttl" default:"15m"`
}

// Gateway is the cached front of the market-data provider. Concurrent
// requests for the same key collapse into one provider call; every
// successful fetch is written through the cache with its kind's TTL.
type Gateway struct {
	provider repository.MarketData
	cache    cache.Service
	group    *cache.Group
	cfg      *Config
	metrics  MetricsRecorder
	logger   *logger.Logger
}

// NewGateway wires the gateway in front of a provider.
func NewGateway(l *logger.Logger, cfg *Config, provider repository.MarketData, c cache.Service, m MetricsRecorder) *Gateway {
	return &Gateway{
		provider: provider,
		cache:    c,
		group:    cache.NewGroup(),
		cfg:      cfg,
		metrics:  m,
		logger:   l,
	}
}

// GetQuote returns the quote for symbol, from cache when fresh.
func (g *Gateway) GetQuote(ctx context.Context, symbol string) (*models.AssetQuote, error) {
	key := cache.Key("quote", symbol)
	return fetch(ctx, g, "quote", key, g.cfg.QuoteTTL, func(ctx context.Context) (*models.AssetQuote, error) {
		return g.provider.GetQuote(ctx, symbol)
	})
}

// GetHistorical returns daily bars for symbol over the window.
func (g *Gateway) GetHistorical(ctx context.Context, symbol string, r repository.TimeRange) ([]models.HistoricalPoint, error) {
	key := cache.Key("hist", symbol, r.Label,
		r.Start.Format(util.DateLayout), r.End.Format(util.DateLayout))
	return fetch(ctx, g, "historical", key, g.cfg.HistoricalTTL, func(ctx context.Context) ([]models.HistoricalPoint, error) {
		return g.provider.GetHistorical(ctx, symbol, r)
	})
}

// GetFundamentals returns extended ratios for symbol.
func (g *Gateway) GetFundamentals(ctx context.Context, symbol string) (*models.Fundamentals, error) {
	key := cache.Key("fund", symbol)
	return fetch(ctx, g, "fundamentals", key, g.cfg.FundamentalsTTL, func(ctx context.Context) (*models.Fundamentals, error) {
		return g.provider.GetFundamentals(ctx, symbol)
	})
}

func fetch[T any](ctx context.Context, g *Gateway, kind, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var cached T
	if err := g.cache.Get(ctx, key, &cached); err == nil {
		g.metrics.RecordCacheHit(kind)
		return cached, nil
	}
	g.metrics.RecordCacheMiss(kind)

	return cache.GetOrCompute(ctx, g.cache, g.group, key, ttl, func(ctx context.Context) (T, error) {
		started := time.Now()
		v, err := load(ctx)
		elapsed := time.Since(started).Seconds()
		if err != nil {
			g.metrics.RecordProviderRequest(kind, "error", elapsed)
			var zero T
			return zero, err
		}
		g.metrics.RecordProviderRequest(kind, "success", elapsed)
		return v, nil
	})
}
