package usecase

import (
	"context"
	"sort"
	"sync"

	"StockSquad/internal/domain/models"
	"StockSquad/internal/domain/repository"
	"StockSquad/pkg/logger"
)

// SeriesBuilder turns a portfolio's weighted holdings into one normalized
// time series. Holdings whose data cannot be fetched are dropped and the
// remaining weights renormalized over the survivors.
type SeriesBuilder struct {
	market repository.MarketData
	logger *logger.Logger
}

// NewSeriesBuilder creates a series builder over a market-data source.
func NewSeriesBuilder(l *logger.Logger, market repository.MarketData) *SeriesBuilder {
	return &SeriesBuilder{market: market, logger: l}
}

type holdingSeries struct {
	holding models.PortfolioHolding
	points  []models.HistoricalPoint
}

// Build fetches every holding's history concurrently and reduces them to a
// single base-100 weighted series. Dates are kept only when every surviving
// holding has a bar for them; partial coverage is excluded, never
// interpolated. An empty result means insufficient data, not an error.
func (b *SeriesBuilder) Build(ctx context.Context, holdings []models.PortfolioHolding, r repository.TimeRange) ([]models.NormalizedSeriesPoint, []string) {
	if len(holdings) == 0 {
		return nil, nil
	}

	results := make([]holdingSeries, len(holdings))
	var wg sync.WaitGroup
	for i, h := range holdings {
		wg.Add(1)
		go func(i int, h models.PortfolioHolding) {
			defer wg.Done()
			points, err := b.market.GetHistorical(ctx, h.Symbol, r)
			if err != nil {
				b.logger.Warn("holding dropped from series",
					logger.String("symbol", h.Symbol), logger.Error(err))
				return
			}
			results[i] = holdingSeries{holding: h, points: points}
		}(i, h)
	}
	wg.Wait()

	survivors := make([]holdingSeries, 0, len(holdings))
	var dropped []string
	for i, hs := range results {
		if len(hs.points) == 0 {
			dropped = append(dropped, holdings[i].Symbol)
			continue
		}
		survivors = append(survivors, hs)
	}
	if len(survivors) == 0 {
		return nil, dropped
	}

	return weightedSeries(survivors), dropped
}

// NormalizeSeries rebases a single symbol's bars to 100 at the first bar.
func NormalizeSeries(points []models.HistoricalPoint) []models.NormalizedSeriesPoint {
	if len(points) == 0 {
		return nil
	}
	base := points[0].Close
	if base <= 0 {
		return nil
	}

	out := make([]models.NormalizedSeriesPoint, 0, len(points))
	for _, p := range points {
		idx := p.Close / base * 100
		out = append(out, models.NormalizedSeriesPoint{
			Date:            p.Date,
			IndexValue:      idx,
			ReturnFromStart: idx - 100,
		})
	}
	return out
}

func weightedSeries(survivors []holdingSeries) []models.NormalizedSeriesPoint {
	// Strict intersection: a date counts only when every survivor has it.
	closes := make([]map[string]float64, len(survivors))
	counts := make(map[string]int)
	for i, hs := range survivors {
		closes[i] = make(map[string]float64, len(hs.points))
		for _, p := range hs.points {
			if _, dup := closes[i][p.Date]; dup {
				continue
			}
			closes[i][p.Date] = p.Close
			counts[p.Date]++
		}
	}

	dates := make([]string, 0, len(counts))
	for d, n := range counts {
		if n == len(survivors) {
			dates = append(dates, d)
		}
	}
	if len(dates) == 0 {
		return nil
	}
	sort.Strings(dates)

	var totalAlloc float64
	for _, hs := range survivors {
		totalAlloc += hs.holding.AllocationPercent
	}
	if totalAlloc == 0 {
		return nil
	}

	// Each survivor rebases at the first common date so the weighted sum
	// starts at exactly 100.
	bases := make([]float64, len(survivors))
	for i := range survivors {
		bases[i] = closes[i][dates[0]]
		if bases[i] <= 0 {
			return nil
		}
	}

	// Rebase the weighted sum over its own first value so the series
	// starts at exactly 100 whatever the allocation sum was.
	raw := make([]float64, len(dates))
	for di, d := range dates {
		var v float64
		for i, hs := range survivors {
			weight := hs.holding.AllocationPercent / totalAlloc
			v += weight * (closes[i][d] / bases[i])
		}
		raw[di] = v
	}

	out := make([]models.NormalizedSeriesPoint, 0, len(dates))
	for di, d := range dates {
		idx := raw[di] / raw[0] * 100
		out = append(out, models.NormalizedSeriesPoint{
			Date:            d,
			IndexValue:      idx,
			ReturnFromStart: idx - 100,
		})
	}
	return out
}
