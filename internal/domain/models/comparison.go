package models

// Participant identifies one side of a comparison: a saved portfolio
// (by ID), an ad-hoc set of holdings supplied inline, or a bare symbol
// such as a benchmark index. Exactly one of the three should be set.
type Participant struct {
	Label       string             `json:"label"`
	PortfolioID string             `json:"portfolioId,omitempty"`
	Symbol      string             `json:"symbol,omitempty"`
	Holdings    []PortfolioHolding `json:"holdings,omitempty"`
}

// ParticipantResult is the computed outcome for one comparison participant.
type ParticipantResult struct {
	Label        string                  `json:"label"`
	Series       []NormalizedSeriesPoint `json:"series"`
	Metrics      PerformanceMetrics      `json:"metrics"`
	Fundamentals *AggregateFundamentals  `json:"fundamentals,omitempty"`
	Best         []string                `json:"best,omitempty"` // metric names this participant wins
}

// SkippedParticipant records a participant excluded from a comparison
// together with the reason, so partial results stay explainable.
type SkippedParticipant struct {
	Label  string `json:"label"`
	Reason string `json:"reason"`
}

// ComparisonResult is the full outcome of a multi-participant comparison.
// Results preserve the caller's participant order.
type ComparisonResult struct {
	Range   string               `json:"range"`
	Results []ParticipantResult  `json:"results"`
	Skipped []SkippedParticipant `json:"skipped,omitempty"`
}
