package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"StockSquad/internal/domain/models"
	"StockSquad/internal/domain/repository"
	"StockSquad/internal/service/perf"
	"StockSquad/pkg/logger"
)

// ComparisonMetrics is the slice of metrics the comparator emits.
type ComparisonMetrics interface {
	RecordComparison(seconds float64)
}

// Comparator runs side-by-side portfolio and benchmark comparisons.
// Participants are computed concurrently; a failing participant lands on
// the skipped list instead of aborting the whole comparison.
type Comparator struct {
	builder    *SeriesBuilder
	market     repository.MarketData
	portfolios repository.PortfolioStore
	metrics    ComparisonMetrics
	logger     *logger.Logger
}

// NewComparator wires a comparator.
func NewComparator(l *logger.Logger, builder *SeriesBuilder, market repository.MarketData, portfolios repository.PortfolioStore, m ComparisonMetrics) *Comparator {
	return &Comparator{
		builder:    builder,
		market:     market,
		portfolios: portfolios,
		metrics:    m,
		logger:     l,
	}
}

type participantOutcome struct {
	result  *models.ParticipantResult
	skipped *models.SkippedParticipant
	beta    float64
}

// Compare computes metrics for every participant over the requested range
// and flags the best value per metric. Result order follows the caller's
// participant order; higher is better for return, Sharpe and alpha, lower
// is better for volatility and drawdown.
func (c *Comparator) Compare(ctx context.Context, req *models.CompareRequest) (*models.ComparisonResult, error) {
	started := time.Now()
	defer func() {
		c.metrics.RecordComparison(time.Since(started).Seconds())
	}()

	r, err := repository.ResolveRange(req.Range, req.Start, req.End, time.Now())
	if err != nil {
		return nil, err
	}

	benchmarkReturn, haveBenchmark := c.benchmarkReturn(ctx, req.Benchmark, r)

	outcomes := make([]participantOutcome, len(req.Participants))
	var wg sync.WaitGroup
	for i, p := range req.Participants {
		wg.Add(1)
		go func(i int, p models.Participant) {
			defer wg.Done()
			outcomes[i] = c.evaluate(ctx, p, r)
		}(i, p)
	}
	wg.Wait()

	out := &models.ComparisonResult{Range: r.Label}
	for _, o := range outcomes {
		if o.skipped != nil {
			out.Skipped = append(out.Skipped, *o.skipped)
			continue
		}
		if haveBenchmark {
			a := perf.Alpha(o.result.Metrics.TotalReturnPercent, o.beta, benchmarkReturn)
			o.result.Metrics.Alpha = &a
		}
		out.Results = append(out.Results, *o.result)
	}

	flagBest(out.Results)
	return out, nil
}

func (c *Comparator) evaluate(ctx context.Context, p models.Participant, r repository.TimeRange) participantOutcome {
	skip := func(reason string) participantOutcome {
		return participantOutcome{skipped: &models.SkippedParticipant{Label: p.Label, Reason: reason}}
	}

	switch {
	case p.Symbol != "":
		points, err := c.market.GetHistorical(ctx, p.Symbol, r)
		if err != nil {
			return skip(err.Error())
		}
		series := NormalizeSeries(points)
		if len(series) == 0 {
			return skip("insufficient data")
		}
		return participantOutcome{
			result: &models.ParticipantResult{
				Label:   p.Label,
				Series:  series,
				Metrics: perf.Compute(series),
			},
			beta: c.symbolBeta(ctx, p.Symbol),
		}

	case p.PortfolioID != "":
		stored, err := c.portfolios.GetByID(ctx, p.PortfolioID)
		if err != nil {
			return skip(fmt.Sprintf("portfolio unavailable: %v", err))
		}
		return c.evaluateHoldings(ctx, p.Label, stored.Holdings, r)

	case len(p.Holdings) > 0:
		return c.evaluateHoldings(ctx, p.Label, p.Holdings, r)

	default:
		return skip("participant has no portfolio, holdings or symbol")
	}
}

func (c *Comparator) evaluateHoldings(ctx context.Context, label string, holdings []models.PortfolioHolding, r repository.TimeRange) participantOutcome {
	series, dropped := c.builder.Build(ctx, holdings, r)
	if len(dropped) > 0 {
		c.logger.Warn("holdings dropped from comparison",
			logger.String("participant", label), logger.Strings("symbols", dropped))
	}
	if len(series) == 0 {
		return participantOutcome{skipped: &models.SkippedParticipant{Label: label, Reason: "insufficient data"}}
	}

	enriched, beta := c.enrich(ctx, holdings)
	fundamentals := perf.Aggregate(enriched)

	return participantOutcome{
		result: &models.ParticipantResult{
			Label:        label,
			Series:       series,
			Metrics:      perf.Compute(series),
			Fundamentals: &fundamentals,
		},
		beta: beta,
	}
}

// enrich fetches fundamentals and quotes per holding concurrently, best
// effort. The weighted beta averages over holdings whose quote reports
// one, defaulting to 1 when none do.
func (c *Comparator) enrich(ctx context.Context, holdings []models.PortfolioHolding) ([]models.EnrichedHolding, float64) {
	enriched := make([]models.EnrichedHolding, len(holdings))
	betas := make([]*float64, len(holdings))

	var wg sync.WaitGroup
	for i, h := range holdings {
		enriched[i] = models.EnrichedHolding{Holding: h}
		wg.Add(1)
		go func(i int, h models.PortfolioHolding) {
			defer wg.Done()
			if f, err := c.market.GetFundamentals(ctx, h.Symbol); err == nil {
				enriched[i].Fundamentals = f
			}
			if q, err := c.market.GetQuote(ctx, h.Symbol); err == nil {
				betas[i] = q.Beta
			}
		}(i, h)
	}
	wg.Wait()

	var betaSum, betaWeight float64
	for i, b := range betas {
		if b == nil {
			continue
		}
		betaSum += *b * holdings[i].AllocationPercent
		betaWeight += holdings[i].AllocationPercent
	}
	if betaWeight == 0 {
		return enriched, 1
	}
	return enriched, betaSum / betaWeight
}

func (c *Comparator) symbolBeta(ctx context.Context, symbol string) float64 {
	q, err := c.market.GetQuote(ctx, symbol)
	if err != nil || q.Beta == nil {
		return 1
	}
	return *q.Beta
}

func (c *Comparator) benchmarkReturn(ctx context.Context, symbol string, r repository.TimeRange) (float64, bool) {
	if symbol == "" {
		return 0, false
	}
	points, err := c.market.GetHistorical(ctx, symbol, r)
	if err != nil {
		c.logger.Warn("benchmark unavailable, alpha omitted",
			logger.String("symbol", symbol), logger.Error(err))
		return 0, false
	}
	series := NormalizeSeries(points)
	if len(series) < 2 {
		return 0, false
	}
	m := perf.Compute(series)
	return m.TotalReturnPercent, true
}

type metricRanking struct {
	name         string
	higherBetter bool
	value        func(models.ParticipantResult) (float64, bool)
}

var rankings = []metricRanking{
	{"totalReturnPercent", true, func(r models.ParticipantResult) (float64, bool) {
		return r.Metrics.TotalReturnPercent, true
	}},
	{"sharpeRatio", true, func(r models.ParticipantResult) (float64, bool) {
		return r.Metrics.SharpeRatio, true
	}},
	{"alpha", true, func(r models.ParticipantResult) (float64, bool) {
		if r.Metrics.Alpha == nil {
			return 0, false
		}
		return *r.Metrics.Alpha, true
	}},
	{"volatility", false, func(r models.ParticipantResult) (float64, bool) {
		return r.Metrics.Volatility, true
	}},
	{"maxDrawdownPercent", false, func(r models.ParticipantResult) (float64, bool) {
		return r.Metrics.MaxDrawdownPercent, true
	}},
}

// flagBest marks, per metric, the participant with the winning value.
// Ties keep the first occurrence in caller order.
func flagBest(results []models.ParticipantResult) {
	for _, rk := range rankings {
		best := -1
		var bestVal float64
		for i := range results {
			v, ok := rk.value(results[i])
			if !ok {
				continue
			}
			if best == -1 || (rk.higherBetter && v > bestVal) || (!rk.higherBetter && v < bestVal) {
				best = i
				bestVal = v
			}
		}
		if best >= 0 {
			results[best].Best = append(results[best].Best, rk.name)
		}
	}
}
