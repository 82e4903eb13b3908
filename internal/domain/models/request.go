package models

// GetHistoricalRequest binds query parameters for historical series lookups.
type GetHistoricalRequest struct {
	Symbol string `param:"symbol" validate:"required,symbol"`
	Range  string `query:"range" default:"1M" validate:"omitempty,timerange"`
	Start  string `query:"start" validate:"omitempty,datetime=2006-01-02"`
	End    string `query:"end" validate:"omitempty,datetime=2006-01-02"`
}

// GetQuoteRequest binds path parameters for quote lookups.
type GetQuoteRequest struct {
	Symbol string `param:"symbol" validate:"required,symbol"`
}

// PortfolioSeriesRequest binds parameters for a portfolio's series view.
type PortfolioSeriesRequest struct {
	ID    string `param:"id" validate:"required"`
	Range string `query:"range" default:"1M" validate:"omitempty,timerange"`
	Start string `query:"start" validate:"omitempty,datetime=2006-01-02"`
	End   string `query:"end" validate:"omitempty,datetime=2006-01-02"`
}

// CreatePortfolioRequest creates or replaces a squad.
type CreatePortfolioRequest struct {
	UserID    string             `json:"userId" validate:"required"`
	Name      string             `json:"name" validate:"required,max=64"`
	Formation string             `json:"formation" default:"4-3-3"`
	Holdings  []PortfolioHolding `json:"holdings" validate:"required,min=1,max=30,dive"`
}

// CompareRequest describes a multi-participant comparison.
type CompareRequest struct {
	Range        string        `json:"range" default:"1M" validate:"omitempty,timerange"`
	Start        string        `json:"start" validate:"omitempty,datetime=2006-01-02"`
	End          string        `json:"end" validate:"omitempty,datetime=2006-01-02"`
	Benchmark    string        `json:"benchmark" validate:"omitempty,symbol"`
	Participants []Participant `json:"participants" validate:"required,min=2,max=10"`
}

// CreateAlertRequest registers a one-shot price alert.
type CreateAlertRequest struct {
	UserID    string  `json:"userId" validate:"required"`
	Symbol    string  `json:"symbol" validate:"required,symbol"`
	Direction string  `json:"direction" validate:"required,oneof=above below"`
	Threshold float64 `json:"threshold" validate:"required,gt=0"`
}

// LeaderboardRequest binds leaderboard query parameters.
type LeaderboardRequest struct {
	Range string `query:"range" default:"1M" validate:"omitempty,timerange"`
	Limit int    `query:"limit" default:"20" validate:"omitempty,min=1,max=100"`
}

// ClaimRewardRequest claims the daily check-in reward.
type ClaimRewardRequest struct {
	UserID string `json:"userId" validate:"required"`
}
