package models

import "time"

// PerformanceSnapshot is a periodic record of a portfolio's computed
// metrics, written to the analytics store for leaderboard queries.
type PerformanceSnapshot struct {
	PortfolioID        string    `json:"portfolio_id"`
	UserID             string    `json:"user_id"`
	Name               string    `json:"name"`
	Range              string    `json:"range"`
	TotalReturnPercent float64   `json:"total_return_percent"`
	Volatility         float64   `json:"volatility"`
	SharpeRatio        float64   `json:"sharpe_ratio"`
	MaxDrawdownPercent float64   `json:"max_drawdown_percent"`
	TakenAt            time.Time `json:"taken_at"`
}

// LeaderboardEntry is one ranked row returned to clients.
type LeaderboardEntry struct {
	Rank               int     `json:"rank"`
	PortfolioID        string  `json:"portfolioId"`
	UserID             string  `json:"userId"`
	Name               string  `json:"name"`
	TotalReturnPercent float64 `json:"totalReturnPercent"`
	SharpeRatio        float64 `json:"sharpeRatio"`
}
