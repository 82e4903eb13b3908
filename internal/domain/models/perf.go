package models

// NormalizedSeriesPoint is one point of a series rebased to 100 at its start.
// Derived on every request, never persisted.
type NormalizedSeriesPoint struct {
	Date            string  `json:"date"` // YYYY-MM-DD
	IndexValue      float64 `json:"indexValue"`
	ReturnFromStart float64 `json:"returnFromStart"`
}

// PerformanceMetrics is the pure-function output of a normalized series.
type PerformanceMetrics struct {
	TotalReturnPercent float64  `json:"totalReturnPercent"`
	Volatility         float64  `json:"volatility"` // annualized, percent
	SharpeRatio        float64  `json:"sharpeRatio"`
	MaxDrawdownPercent float64  `json:"maxDrawdownPercent"`
	Alpha              *float64 `json:"alpha,omitempty"`
}

// AggregateFundamentals holds allocation-weighted fundamentals across a
// portfolio's holdings. Each field is nil when no holding reports it.
type AggregateFundamentals struct {
	WeightedPE           *float64 `json:"weightedPE,omitempty"`
	WeightedEPS          *float64 `json:"weightedEPS,omitempty"`
	WeightedROE          *float64 `json:"weightedROE,omitempty"`
	WeightedMargin       *float64 `json:"weightedMargin,omitempty"`
	WeightedDebtToEquity *float64 `json:"weightedDebtToEquity,omitempty"`
}

// EnrichedHolding pairs a holding with whatever fundamentals were available.
type EnrichedHolding struct {
	Holding      PortfolioHolding
	Fundamentals *Fundamentals
}
