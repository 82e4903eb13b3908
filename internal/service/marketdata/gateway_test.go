package marketdata

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSquad/internal/domain/models"
	"StockSquad/internal/domain/repository"
	"StockSquad/pkg/cache"
	"StockSquad/pkg/logger"
)

type fakeProvider struct {
	quoteCalls int64
	histCalls  int64
}

func (f *fakeProvider) GetQuote(ctx context.Context, symbol string) (*models.AssetQuote, error) {
	atomic.AddInt64(&f.quoteCalls, 1)
	return &models.AssetQuote{Symbol: symbol, Price: 100}, nil
}

func (f *fakeProvider) GetHistorical(ctx context.Context, symbol string, r repository.TimeRange) ([]models.HistoricalPoint, error) {
	atomic.AddInt64(&f.histCalls, 1)
	return []models.HistoricalPoint{{Date: "2024-01-02", Close: 100}}, nil
}

func (f *fakeProvider) GetFundamentals(ctx context.Context, symbol string) (*models.Fundamentals, error) {
	return &models.Fundamentals{Symbol: symbol}, nil
}

type noopMetrics struct{}

func (noopMetrics) RecordProviderRequest(string, string, float64) {}
func (noopMetrics) RecordCacheHit(string)                         {}
func (noopMetrics) RecordCacheMiss(string)                        {}

func testGateway(t *testing.T) (*Gateway, *fakeProvider) {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "console"})
	require.NoError(t, err)

	mem := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mem.Close() })

	provider := &fakeProvider{}
	cfg := &Config{QuoteTTL: time.Minute, HistoricalTTL: time.Minute, FundamentalsTTL: time.Minute}
	return NewGateway(l, cfg, provider, mem, noopMetrics{}), provider
}

func TestGatewayCachesQuotes(t *testing.T) {
	g, provider := testGateway(t)
	ctx := context.Background()

	q1, err := g.GetQuote(ctx, "AAPL")
	require.NoError(t, err)
	q2, err := g.GetQuote(ctx, "AAPL")
	require.NoError(t, err)

	assert.Equal(t, q1.Symbol, q2.Symbol)
	assert.EqualValues(t, 1, atomic.LoadInt64(&provider.quoteCalls))
}

func TestGatewayDeduplicatesConcurrentFetches(t *testing.T) {
	g, provider := testGateway(t)
	ctx := context.Background()

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = g.GetQuote(ctx, "MSFT")
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
	}
	assert.EqualValues(t, 1, atomic.LoadInt64(&provider.quoteCalls))
}

func TestGatewayKeysHistoricalByWindow(t *testing.T) {
	g, provider := testGateway(t)
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	r1, err := repository.ResolveRange("1M", "", "", now)
	require.NoError(t, err)
	r2, err := repository.ResolveRange("3M", "", "", now)
	require.NoError(t, err)

	_, err = g.GetHistorical(ctx, "AAPL", r1)
	require.NoError(t, err)
	_, err = g.GetHistorical(ctx, "AAPL", r2)
	require.NoError(t, err)
	_, err = g.GetHistorical(ctx, "AAPL", r1)
	require.NoError(t, err)

	assert.EqualValues(t, 2, atomic.LoadInt64(&provider.histCalls))
}
