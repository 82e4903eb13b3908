package models

import "time"

// PortfolioHolding is one asset and its allocation within a portfolio.
// Allocations normally sum to 100 across a portfolio but the system
// tolerates other sums by renormalizing at calculation time.
type PortfolioHolding struct {
	Symbol            string  `json:"symbol"`
	AllocationPercent float64 `json:"allocationPercent"`
	Position          string  `json:"position,omitempty"` // slot in the squad formation, e.g. "ST", "CM"
}

// Portfolio is a user's squad of assets.
type Portfolio struct {
	ID        string             `json:"id"`
	UserID    string             `json:"userId"`
	Name      string             `json:"name"`
	Formation string             `json:"formation,omitempty"` // e.g. "4-3-3"
	Holdings  []PortfolioHolding `json:"holdings"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
