package models

import "time"

// Alert direction values.
const (
	AlertAbove = "above"
	AlertBelow = "below"
)

// Alert is a user-configured price threshold on a symbol. One-shot:
// a triggered alert is deactivated, not re-armed.
type Alert struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Symbol    string     `json:"symbol"`
	Direction string     `json:"direction"` // above | below
	Threshold float64    `json:"threshold"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"createdAt"`
	FiredAt   *time.Time `json:"firedAt,omitempty"`
}

// AlertEvent is published when an alert fires and flows through the
// broker into the event log.
type AlertEvent struct {
	AlertID   string    `json:"alert_id"`
	UserID    string    `json:"user_id"`
	Symbol    string    `json:"symbol"`
	Direction string    `json:"direction"`
	Threshold float64   `json:"threshold"`
	Price     float64   `json:"price"`
	FiredAt   time.Time `json:"fired_at"`
}
