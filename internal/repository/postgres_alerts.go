package repository

import (
	"context"
	"time"

	"StockSquad/internal/domain/models"
	"StockSquad/internal/domain/repository"
)

// AlertStore persists price alerts in Postgres. Like PortfolioStore, a
// nil receiver reports ErrNotConfigured from every call.
type AlertStore struct {
	pg *Postgres
}

// NewAlertStore wraps the shared connection; pass nil when the database
// is not configured.
func NewAlertStore(pg *Postgres) *AlertStore {
	if pg == nil {
		return nil
	}
	return &AlertStore{pg: pg}
}

func (s *AlertStore) Create(ctx context.Context, a *models.Alert) error {
	if s == nil {
		return repository.ErrNotConfigured
	}
	_, err := s.pg.db.ExecContext(ctx, `
		INSERT INTO alerts (id, user_id, symbol, direction, threshold, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.UserID, a.Symbol, a.Direction, a.Threshold, a.Active, a.CreatedAt,
	)
	return err
}

func (s *AlertStore) ListByUser(ctx context.Context, userID string) ([]models.Alert, error) {
	if s == nil {
		return nil, repository.ErrNotConfigured
	}
	return s.queryAlerts(ctx, `
		SELECT id, user_id, symbol, direction, threshold, active, created_at, fired_at
		FROM alerts WHERE user_id = $1 ORDER BY created_at`, userID)
}

func (s *AlertStore) ListActive(ctx context.Context) ([]models.Alert, error) {
	if s == nil {
		return nil, repository.ErrNotConfigured
	}
	return s.queryAlerts(ctx, `
		SELECT id, user_id, symbol, direction, threshold, active, created_at, fired_at
		FROM alerts WHERE active ORDER BY created_at`)
}

// Deactivate marks a fired alert inactive. The AND active guard makes a
// double fire on the same alert a no-op race instead of a second event.
func (s *AlertStore) Deactivate(ctx context.Context, id string, firedAt time.Time) error {
	if s == nil {
		return repository.ErrNotConfigured
	}
	res, err := s.pg.db.ExecContext(ctx, `
		UPDATE alerts SET active = FALSE, fired_at = $2 WHERE id = $1 AND active`, id, firedAt)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *AlertStore) Delete(ctx context.Context, id string) error {
	if s == nil {
		return repository.ErrNotConfigured
	}
	res, err := s.pg.db.ExecContext(ctx, `DELETE FROM alerts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *AlertStore) queryAlerts(ctx context.Context, query string, args ...interface{}) ([]models.Alert, error) {
	rows, err := s.pg.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Alert
	for rows.Next() {
		var a models.Alert
		if err := rows.Scan(&a.ID, &a.UserID, &a.Symbol, &a.Direction, &a.Threshold, &a.Active, &a.CreatedAt, &a.FiredAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
