package perf

import "StockSquad/internal/domain/models"

// Aggregate computes allocation-weighted fundamentals over holdings.
// Each field averages only over the holdings that report it: a holding
// missing a field drops out of that field's numerator and denominator
// without affecting the others.
func Aggregate(enriched []models.EnrichedHolding) models.AggregateFundamentals {
	return models.AggregateFundamentals{
		WeightedPE:           weightedAverage(enriched, func(f *models.Fundamentals) *float64 { return f.ForwardPE }),
		WeightedEPS:          weightedAverage(enriched, func(f *models.Fundamentals) *float64 { return f.EPS }),
		WeightedROE:          weightedAverage(enriched, func(f *models.Fundamentals) *float64 { return f.ROE }),
		WeightedMargin:       weightedAverage(enriched, func(f *models.Fundamentals) *float64 { return f.ProfitMargin }),
		WeightedDebtToEquity: weightedAverage(enriched, func(f *models.Fundamentals) *float64 { return f.DebtToEquity }),
	}
}

func weightedAverage(enriched []models.EnrichedHolding, field func(*models.Fundamentals) *float64) *float64 {
	var sum, weight float64
	for _, e := range enriched {
		if e.Fundamentals == nil {
			continue
		}
		v := field(e.Fundamentals)
		if v == nil {
			continue
		}
		sum += *v * e.Holding.AllocationPercent
		weight += e.Holding.AllocationPercent
	}
	if weight == 0 {
		return nil
	}
	avg := sum / weight
	return &avg
}
