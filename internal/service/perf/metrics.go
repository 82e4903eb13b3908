package perf

import (
	"math"

	"github.com/montanaflynn/stats"

	"StockSquad/internal/domain/models"
)

const (
	// Annual risk-free rate used by Sharpe, as a decimal.
	riskFreeRate = 0.04
	// Percent equivalent used by the CAPM alpha formula.
	riskFreePercent = 4.0
	tradingDays     = 252
)

// Compute reduces a normalized series to its performance metrics.
// Degenerate inputs (empty series, single point, zero variance) yield
// zeros, never NaN; alpha is left nil for the caller to fill when a
// benchmark is present.
func Compute(series []models.NormalizedSeriesPoint) models.PerformanceMetrics {
	var m models.PerformanceMetrics
	if len(series) < 2 {
		return m
	}

	first := series[0].IndexValue
	last := series[len(series)-1].IndexValue
	if first != 0 {
		m.TotalReturnPercent = sanitize((last - first) / first * 100)
	}

	returns := dailyReturns(series)
	if len(returns) >= 2 {
		sd, err := stats.StandardDeviationSample(returns)
		if err == nil {
			m.Volatility = sanitize(sd * math.Sqrt(tradingDays) * 100)

			mean, merr := stats.Mean(returns)
			if merr == nil {
				denom := sd * math.Sqrt(tradingDays)
				if denom == 0 {
					denom = 1
				}
				m.SharpeRatio = sanitize((mean*tradingDays - riskFreeRate) / denom)
			}
		}
	}

	m.MaxDrawdownPercent = sanitize(maxDrawdown(series))
	return m
}

// Alpha computes the CAPM-style excess return, in percent terms.
func Alpha(portfolioReturn, portfolioBeta, benchmarkReturn float64) float64 {
	return portfolioReturn - (riskFreePercent + portfolioBeta*(benchmarkReturn-riskFreePercent))
}

func dailyReturns(series []models.NormalizedSeriesPoint) stats.Float64Data {
	returns := make(stats.Float64Data, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		prev := series[i-1].IndexValue
		if prev == 0 {
			continue
		}
		returns = append(returns, (series[i].IndexValue-prev)/prev)
	}
	return returns
}

func maxDrawdown(series []models.NormalizedSeriesPoint) float64 {
	var worst float64
	peak := series[0].IndexValue
	for _, p := range series {
		if p.IndexValue > peak {
			peak = p.IndexValue
		}
		if peak == 0 {
			continue
		}
		dd := (peak - p.IndexValue) / peak * 100
		if dd > worst {
			worst = dd
		}
	}
	return worst
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
