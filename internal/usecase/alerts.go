package usecase

import (
	"context"
	"time"

	"StockSquad/internal/domain/models"
	"StockSquad/internal/domain/repository"
	"StockSquad/pkg/logger"
)

// AlertMetrics is the slice of metrics the sweeper emits.
type AlertMetrics interface {
	RecordAlertTriggered(direction string)
}

// AlertSweeper periodically evaluates active price alerts against live
// quotes. Alerts are one-shot: publish first, deactivate after, so a
// failed publish retries on the next sweep instead of losing the event.
type AlertSweeper struct {
	store     repository.AlertStore
	market    repository.MarketData
	publisher repository.AlertPublisher
	metrics   AlertMetrics
	logger    *logger.Logger
	interval  time.Duration
}

// NewAlertSweeper wires an alert sweeper.
func NewAlertSweeper(l *logger.Logger, store repository.AlertStore, market repository.MarketData, publisher repository.AlertPublisher, m AlertMetrics, interval time.Duration) *AlertSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &AlertSweeper{
		store:     store,
		market:    market,
		publisher: publisher,
		metrics:   m,
		logger:    l,
		interval:  interval,
	}
}

// Run sweeps on a fixed interval until ctx is cancelled.
func (s *AlertSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fired, err := s.SweepOnce(ctx)
			if err != nil {
				s.logger.Warn("alert sweep failed", logger.Error(err))
				continue
			}
			if fired > 0 {
				s.logger.Info("alerts fired", logger.Int("count", fired))
			}
		}
	}
}

// SweepOnce evaluates all active alerts and returns how many fired.
// Quotes are fetched once per distinct symbol through the cached gateway.
func (s *AlertSweeper) SweepOnce(ctx context.Context) (int, error) {
	alerts, err := s.store.ListActive(ctx)
	if err != nil {
		return 0, err
	}
	if len(alerts) == 0 {
		return 0, nil
	}

	quotes := make(map[string]*models.AssetQuote)
	for _, a := range alerts {
		if _, seen := quotes[a.Symbol]; seen {
			continue
		}
		q, err := s.market.GetQuote(ctx, a.Symbol)
		if err != nil {
			s.logger.Warn("alert quote unavailable",
				logger.String("symbol", a.Symbol), logger.Error(err))
			quotes[a.Symbol] = nil
			continue
		}
		quotes[a.Symbol] = q
	}

	fired := 0
	for _, a := range alerts {
		q := quotes[a.Symbol]
		if q == nil || !crossed(a, q.Price) {
			continue
		}

		now := time.Now().UTC()
		ev := models.AlertEvent{
			AlertID:   a.ID,
			UserID:    a.UserID,
			Symbol:    a.Symbol,
			Direction: a.Direction,
			Threshold: a.Threshold,
			Price:     q.Price,
			FiredAt:   now,
		}
		if err := s.publisher.PublishTriggered(ctx, ev); err != nil {
			s.logger.Error("alert event publish failed",
				logger.String("alert_id", a.ID), logger.Error(err))
			continue
		}
		if err := s.store.Deactivate(ctx, a.ID, now); err != nil {
			s.logger.Error("alert deactivate failed",
				logger.String("alert_id", a.ID), logger.Error(err))
			continue
		}

		s.metrics.RecordAlertTriggered(a.Direction)
		fired++
	}

	return fired, nil
}

func crossed(a models.Alert, price float64) bool {
	switch a.Direction {
	case models.AlertAbove:
		return price >= a.Threshold
	case models.AlertBelow:
		return price <= a.Threshold
	default:
		return false
	}
}
