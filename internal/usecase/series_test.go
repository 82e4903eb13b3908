package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSquad/internal/domain/models"
	"StockSquad/internal/domain/repository"
	"StockSquad/pkg/logger"
)

type stubMarket struct {
	history map[string][]models.HistoricalPoint
	quotes  map[string]*models.AssetQuote
	funds   map[string]*models.Fundamentals
}

func (s *stubMarket) GetQuote(ctx context.Context, symbol string) (*models.AssetQuote, error) {
	if q, ok := s.quotes[symbol]; ok {
		return q, nil
	}
	return nil, repository.ErrSymbolNotFound
}

func (s *stubMarket) GetHistorical(ctx context.Context, symbol string, r repository.TimeRange) ([]models.HistoricalPoint, error) {
	points, ok := s.history[symbol]
	if !ok {
		return nil, repository.ErrSymbolNotFound
	}
	return points, nil
}

func (s *stubMarket) GetFundamentals(ctx context.Context, symbol string) (*models.Fundamentals, error) {
	if f, ok := s.funds[symbol]; ok {
		return f, nil
	}
	return nil, repository.ErrSymbolNotFound
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "console"})
	require.NoError(t, err)
	return l
}

// linearCloses produces n daily bars moving linearly from start to end close.
func linearCloses(n int, start, end float64) []models.HistoricalPoint {
	points := make([]models.HistoricalPoint, n)
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		var c float64
		if n == 1 {
			c = start
		} else {
			c = start + (end-start)*float64(i)/float64(n-1)
		}
		points[i] = models.HistoricalPoint{
			Date:  day.AddDate(0, 0, i).Format("2006-01-02"),
			Close: c,
		}
	}
	return points
}

func monthRange(t *testing.T) repository.TimeRange {
	t.Helper()
	r, err := repository.ResolveRange("1M", "", "", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return r
}

func TestBuildWeightedPortfolioReturn(t *testing.T) {
	// AAPL 60% flat, MSFT 40% +10% over 22 sessions: blended return ~4%.
	market := &stubMarket{history: map[string][]models.HistoricalPoint{
		"AAPL": linearCloses(22, 150, 150),
		"MSFT": linearCloses(22, 400, 440),
	}}
	b := NewSeriesBuilder(testLogger(t), market)

	series, dropped := b.Build(context.Background(), []models.PortfolioHolding{
		{Symbol: "AAPL", AllocationPercent: 60},
		{Symbol: "MSFT", AllocationPercent: 40},
	}, monthRange(t))

	assert.Empty(t, dropped)
	require.Len(t, series, 22)
	assert.Equal(t, 100.0, series[0].IndexValue)
	assert.Zero(t, series[0].ReturnFromStart)

	last := series[len(series)-1]
	assert.InDelta(t, 4.0, last.ReturnFromStart, 1e-9)
}

func TestBuildDropsFailedHoldingAndRenormalizes(t *testing.T) {
	market := &stubMarket{history: map[string][]models.HistoricalPoint{
		"AAPL": linearCloses(10, 100, 110),
		"EMPT": {},
	}}
	b := NewSeriesBuilder(testLogger(t), market)

	series, dropped := b.Build(context.Background(), []models.PortfolioHolding{
		{Symbol: "AAPL", AllocationPercent: 50},
		{Symbol: "EMPT", AllocationPercent: 30},
		{Symbol: "GONE", AllocationPercent: 20},
	}, monthRange(t))

	assert.ElementsMatch(t, []string{"EMPT", "GONE"}, dropped)
	require.Len(t, series, 10)
	// AAPL carries full weight after renormalization.
	assert.InDelta(t, 10.0, series[len(series)-1].ReturnFromStart, 1e-9)
}

func TestBuildStrictDateIntersection(t *testing.T) {
	short := linearCloses(5, 100, 104)
	long := linearCloses(8, 200, 214)
	market := &stubMarket{history: map[string][]models.HistoricalPoint{
		"A": short,
		"B": long,
	}}
	b := NewSeriesBuilder(testLogger(t), market)

	series, dropped := b.Build(context.Background(), []models.PortfolioHolding{
		{Symbol: "A", AllocationPercent: 50},
		{Symbol: "B", AllocationPercent: 50},
	}, monthRange(t))

	assert.Empty(t, dropped)
	// Only the 5 shared dates survive; B's extra 3 days are excluded.
	require.Len(t, series, 5)
	for i := 1; i < len(series); i++ {
		assert.Greater(t, series[i].Date, series[i-1].Date)
	}
}

func TestBuildEmptyInputs(t *testing.T) {
	b := NewSeriesBuilder(testLogger(t), &stubMarket{})

	series, dropped := b.Build(context.Background(), nil, monthRange(t))
	assert.Empty(t, series)
	assert.Empty(t, dropped)

	series, dropped = b.Build(context.Background(), []models.PortfolioHolding{
		{Symbol: "GONE", AllocationPercent: 100},
	}, monthRange(t))
	assert.Empty(t, series)
	assert.Equal(t, []string{"GONE"}, dropped)
}

func TestBuildToleratesAllocationsNotSummingTo100(t *testing.T) {
	market := &stubMarket{history: map[string][]models.HistoricalPoint{
		"A": linearCloses(10, 100, 100),
		"B": linearCloses(10, 100, 110),
	}}
	b := NewSeriesBuilder(testLogger(t), market)

	// 30 + 20 = 50; weights renormalize to 0.6/0.4.
	series, _ := b.Build(context.Background(), []models.PortfolioHolding{
		{Symbol: "A", AllocationPercent: 30},
		{Symbol: "B", AllocationPercent: 20},
	}, monthRange(t))

	require.NotEmpty(t, series)
	assert.InDelta(t, 4.0, series[len(series)-1].ReturnFromStart, 1e-9)
}

func TestNormalizeSeries(t *testing.T) {
	points := linearCloses(3, 50, 55)
	series := NormalizeSeries(points)

	require.Len(t, series, 3)
	assert.Equal(t, 100.0, series[0].IndexValue)
	assert.InDelta(t, 110.0, series[2].IndexValue, 1e-9)

	assert.Nil(t, NormalizeSeries(nil))
	assert.Nil(t, NormalizeSeries([]models.HistoricalPoint{{Close: 0}}))
}

func TestBuildManyHoldingsConcurrently(t *testing.T) {
	history := make(map[string][]models.HistoricalPoint)
	holdings := make([]models.PortfolioHolding, 0, 20)
	for i := 0; i < 20; i++ {
		sym := fmt.Sprintf("S%02d", i)
		history[sym] = linearCloses(15, 100, 105)
		holdings = append(holdings, models.PortfolioHolding{Symbol: sym, AllocationPercent: 5})
	}
	b := NewSeriesBuilder(testLogger(t), &stubMarket{history: history})

	series, dropped := b.Build(context.Background(), holdings, monthRange(t))
	assert.Empty(t, dropped)
	require.Len(t, series, 15)
	assert.InDelta(t, 5.0, series[len(series)-1].ReturnFromStart, 1e-9)
}
