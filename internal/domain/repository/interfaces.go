package repository

import (
	"context"
	"errors"
	"time"

	"StockSquad/internal/domain/models"
)

// Sentinel errors shared across data sources.
var (
	ErrInvalidSymbol  = errors.New("invalid symbol")
	ErrSymbolNotFound = errors.New("symbol not found")
	ErrProvider       = errors.New("provider unavailable")
	ErrNotFound       = errors.New("not found")
	ErrNotConfigured  = errors.New("store not configured")
)

// MarketData serves quotes, historical series and fundamentals. Results
// may be shared with other callers through caching; treat them as
// immutable and copy before modifying.
type MarketData interface {
	GetQuote(ctx context.Context, symbol string) (*models.AssetQuote, error)
	GetHistorical(ctx context.Context, symbol string, r TimeRange) ([]models.HistoricalPoint, error)
	GetFundamentals(ctx context.Context, symbol string) (*models.Fundamentals, error)
}

// PortfolioStore persists user squads.
type PortfolioStore interface {
	Create(ctx context.Context, p *models.Portfolio) error
	GetByID(ctx context.Context, id string) (*models.Portfolio, error)
	ListByUser(ctx context.Context, userID string) ([]models.Portfolio, error)
	ListAll(ctx context.Context) ([]models.Portfolio, error)
	Update(ctx context.Context, p *models.Portfolio) error
	Delete(ctx context.Context, id string) error
}

// AlertStore persists price alerts.
type AlertStore interface {
	Create(ctx context.Context, a *models.Alert) error
	ListByUser(ctx context.Context, userID string) ([]models.Alert, error)
	ListActive(ctx context.Context) ([]models.Alert, error)
	Deactivate(ctx context.Context, id string, firedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

// AlertPublisher pushes fired-alert events to the broker.
type AlertPublisher interface {
	PublishTriggered(ctx context.Context, ev models.AlertEvent) error
}

// SnapshotStore writes performance snapshots and serves leaderboard queries.
type SnapshotStore interface {
	InsertSnapshot(ctx context.Context, s models.PerformanceSnapshot) error
	TopByReturn(ctx context.Context, rangeName string, limit int) ([]models.LeaderboardEntry, error)
	InsertAlertEvent(ctx context.Context, ev models.AlertEvent) error
}
