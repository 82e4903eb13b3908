package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSquad/internal/domain/models"
	"StockSquad/internal/domain/repository"
)

type stubPortfolios struct {
	repository.PortfolioStore
	byID map[string]*models.Portfolio
}

func (s *stubPortfolios) GetByID(ctx context.Context, id string) (*models.Portfolio, error) {
	if s.byID == nil {
		return nil, repository.ErrNotConfigured
	}
	p, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

type noopComparisonMetrics struct{}

func (noopComparisonMetrics) RecordComparison(float64) {}

func testComparator(t *testing.T, market *stubMarket, portfolios *stubPortfolios) *Comparator {
	t.Helper()
	l := testLogger(t)
	if portfolios == nil {
		portfolios = &stubPortfolios{}
	}
	return NewComparator(l, NewSeriesBuilder(l, market), market, portfolios, noopComparisonMetrics{})
}

func TestCompareRanksSymbolParticipants(t *testing.T) {
	market := &stubMarket{history: map[string][]models.HistoricalPoint{
		"UP":   linearCloses(22, 100, 112),
		"FLAT": linearCloses(22, 100, 100),
	}}
	c := testComparator(t, market, nil)

	out, err := c.Compare(context.Background(), &models.CompareRequest{
		Range: "1M",
		Participants: []models.Participant{
			{Label: "riser", Symbol: "UP"},
			{Label: "sleeper", Symbol: "FLAT"},
		},
	})
	require.NoError(t, err)
	require.Len(t, out.Results, 2)
	assert.Empty(t, out.Skipped)

	// Caller order is preserved.
	assert.Equal(t, "riser", out.Results[0].Label)
	assert.Equal(t, "sleeper", out.Results[1].Label)

	assert.Contains(t, out.Results[0].Best, "totalReturnPercent")
	assert.Contains(t, out.Results[1].Best, "volatility")
	assert.NotContains(t, out.Results[1].Best, "totalReturnPercent")
}

func TestCompareSkipsFailedParticipants(t *testing.T) {
	market := &stubMarket{history: map[string][]models.HistoricalPoint{
		"OK": linearCloses(10, 100, 105),
	}}
	c := testComparator(t, market, nil)

	out, err := c.Compare(context.Background(), &models.CompareRequest{
		Range: "1M",
		Participants: []models.Participant{
			{Label: "good", Symbol: "OK"},
			{Label: "bad", Symbol: "MISSING"},
			{Label: "empty", Holdings: []models.PortfolioHolding{{Symbol: "MISSING", AllocationPercent: 100}}},
		},
	})
	require.NoError(t, err)
	require.Len(t, out.Results, 1)
	assert.Equal(t, "good", out.Results[0].Label)

	require.Len(t, out.Skipped, 2)
	assert.Equal(t, "bad", out.Skipped[0].Label)
	assert.Equal(t, "empty", out.Skipped[1].Label)
	assert.Equal(t, "insufficient data", out.Skipped[1].Reason)
}

func TestCompareComputesAlphaWithBenchmark(t *testing.T) {
	beta := 1.2
	market := &stubMarket{
		history: map[string][]models.HistoricalPoint{
			"AAPL": linearCloses(22, 100, 108),
			"SPY":  linearCloses(22, 500, 525),
		},
		quotes: map[string]*models.AssetQuote{
			"AAPL": {Symbol: "AAPL", Beta: &beta},
		},
	}
	c := testComparator(t, market, nil)

	out, err := c.Compare(context.Background(), &models.CompareRequest{
		Range:     "1M",
		Benchmark: "SPY",
		Participants: []models.Participant{
			{Label: "squad", Holdings: []models.PortfolioHolding{{Symbol: "AAPL", AllocationPercent: 100}}},
			{Label: "index", Symbol: "SPY"},
		},
	})
	require.NoError(t, err)
	require.Len(t, out.Results, 2)

	// 8 - (4 + 1.2*(5-4)) = 2.8
	require.NotNil(t, out.Results[0].Metrics.Alpha)
	assert.InDelta(t, 2.8, *out.Results[0].Metrics.Alpha, 1e-6)
}

func TestCompareOmitsAlphaWithoutBenchmark(t *testing.T) {
	market := &stubMarket{history: map[string][]models.HistoricalPoint{
		"AAPL": linearCloses(10, 100, 105),
	}}
	c := testComparator(t, market, nil)

	out, err := c.Compare(context.Background(), &models.CompareRequest{
		Range: "1M",
		Participants: []models.Participant{
			{Label: "a", Symbol: "AAPL"},
			{Label: "b", Symbol: "AAPL"},
		},
	})
	require.NoError(t, err)
	require.Len(t, out.Results, 2)
	assert.Nil(t, out.Results[0].Metrics.Alpha)
}

func TestCompareResolvesStoredPortfolios(t *testing.T) {
	market := &stubMarket{history: map[string][]models.HistoricalPoint{
		"MSFT": linearCloses(22, 400, 420),
	}}
	portfolios := &stubPortfolios{byID: map[string]*models.Portfolio{
		"p1": {ID: "p1", Name: "Tech XI", Holdings: []models.PortfolioHolding{
			{Symbol: "MSFT", AllocationPercent: 100},
		}},
	}}
	c := testComparator(t, market, portfolios)

	out, err := c.Compare(context.Background(), &models.CompareRequest{
		Range: "1M",
		Participants: []models.Participant{
			{Label: "mine", PortfolioID: "p1"},
			{Label: "ghost", PortfolioID: "p2"},
		},
	})
	require.NoError(t, err)
	require.Len(t, out.Results, 1)
	assert.InDelta(t, 5.0, out.Results[0].Metrics.TotalReturnPercent, 1e-9)

	require.Len(t, out.Skipped, 1)
	assert.Equal(t, "ghost", out.Skipped[0].Label)
}

func TestCompareSkipsPortfoliosWhenStoreUnconfigured(t *testing.T) {
	market := &stubMarket{history: map[string][]models.HistoricalPoint{
		"SPY": linearCloses(10, 500, 505),
	}}
	c := testComparator(t, market, &stubPortfolios{})

	out, err := c.Compare(context.Background(), &models.CompareRequest{
		Range: "1M",
		Participants: []models.Participant{
			{Label: "stored", PortfolioID: "p1"},
			{Label: "index", Symbol: "SPY"},
		},
	})
	require.NoError(t, err)
	require.Len(t, out.Results, 1)
	require.Len(t, out.Skipped, 1)
	assert.Contains(t, out.Skipped[0].Reason, "not configured")
}

func TestCompareRejectsBadRange(t *testing.T) {
	c := testComparator(t, &stubMarket{}, nil)
	_, err := c.Compare(context.Background(), &models.CompareRequest{
		Range:        "5Y",
		Participants: []models.Participant{{Label: "a", Symbol: "SPY"}},
	})
	assert.Error(t, err)
}
