package perf

import (
	"math"
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSquad/internal/domain/models"
)

func series(values ...float64) []models.NormalizedSeriesPoint {
	out := make([]models.NormalizedSeriesPoint, len(values))
	for i, v := range values {
		out[i] = models.NormalizedSeriesPoint{IndexValue: v, ReturnFromStart: v - 100}
	}
	return out
}

func TestComputeEmptySeriesIsAllZero(t *testing.T) {
	m := Compute(nil)
	assert.Zero(t, m.TotalReturnPercent)
	assert.Zero(t, m.Volatility)
	assert.Zero(t, m.SharpeRatio)
	assert.Zero(t, m.MaxDrawdownPercent)
	assert.Nil(t, m.Alpha)

	m = Compute(series(100))
	assert.Zero(t, m.TotalReturnPercent)
}

func TestComputeTotalReturnMatchesEndpoints(t *testing.T) {
	s := series(100, 98, 103, 110)
	m := Compute(s)

	expected := (s[len(s)-1].IndexValue - s[0].IndexValue) / s[0].IndexValue * 100
	assert.InDelta(t, expected, m.TotalReturnPercent, 1e-12)
	assert.InDelta(t, 10.0, m.TotalReturnPercent, 1e-12)
}

func TestComputeVolatilityAnnualizes(t *testing.T) {
	s := series(100, 102, 101, 104, 103)
	m := Compute(s)

	returns := make(stats.Float64Data, 0, 4)
	for i := 1; i < len(s); i++ {
		returns = append(returns, (s[i].IndexValue-s[i-1].IndexValue)/s[i-1].IndexValue)
	}
	sd, err := stats.StandardDeviationSample(returns)
	require.NoError(t, err)

	assert.InDelta(t, sd*math.Sqrt(252)*100, m.Volatility, 1e-9)
}

func TestComputeFlatSeriesHasZeroVolatilityAndDrawdown(t *testing.T) {
	m := Compute(series(100, 100, 100, 100))
	assert.Zero(t, m.TotalReturnPercent)
	assert.Zero(t, m.Volatility)
	assert.Zero(t, m.MaxDrawdownPercent)
	// Zero stddev substitutes 1 for the denominator instead of dividing by zero.
	assert.InDelta(t, -riskFreeRate, m.SharpeRatio, 1e-12)
	assert.False(t, math.IsNaN(m.SharpeRatio))
}

func TestComputeMonotoneRiseHasZeroDrawdown(t *testing.T) {
	m := Compute(series(100, 101, 103, 108, 112))
	assert.Zero(t, m.MaxDrawdownPercent)
}

func TestComputeMaxDrawdownUsesRunningPeak(t *testing.T) {
	// Peak 120, trough 90 afterwards: (120-90)/120 = 25%.
	m := Compute(series(100, 120, 110, 90, 115))
	assert.InDelta(t, 25.0, m.MaxDrawdownPercent, 1e-9)
}

func TestComputeIsIdempotent(t *testing.T) {
	s := series(100, 97, 105, 102, 111)
	assert.Equal(t, Compute(s), Compute(s))
}

func TestAlphaAgainstBenchmark(t *testing.T) {
	// Return 8%, beta 1.2, benchmark 5%: 8 - (4 + 1.2*(5-4)) = 2.8.
	a := Alpha(8, 1.2, 5)
	assert.InDelta(t, 2.8, a, 1e-12)
	assert.False(t, math.IsNaN(a))
}

func TestAggregateWeightsPerField(t *testing.T) {
	pe1, pe2 := 20.0, 30.0
	eps := 5.0
	enriched := []models.EnrichedHolding{
		{
			Holding:      models.PortfolioHolding{Symbol: "AAPL", AllocationPercent: 60},
			Fundamentals: &models.Fundamentals{ForwardPE: &pe1, EPS: &eps},
		},
		{
			Holding:      models.PortfolioHolding{Symbol: "MSFT", AllocationPercent: 40},
			Fundamentals: &models.Fundamentals{ForwardPE: &pe2},
		},
	}

	agg := Aggregate(enriched)

	require.NotNil(t, agg.WeightedPE)
	assert.InDelta(t, 24.0, *agg.WeightedPE, 1e-9) // (20*60 + 30*40) / 100

	// Only AAPL reports EPS, so its value carries full weight.
	require.NotNil(t, agg.WeightedEPS)
	assert.InDelta(t, 5.0, *agg.WeightedEPS, 1e-9)

	assert.Nil(t, agg.WeightedROE)
	assert.Nil(t, agg.WeightedDebtToEquity)
}

func TestAggregateEmptyHoldings(t *testing.T) {
	agg := Aggregate(nil)
	assert.Nil(t, agg.WeightedPE)
	assert.Nil(t, agg.WeightedEPS)
}
