package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"StockSquad/internal/domain/models"
	"StockSquad/internal/domain/repository"
)

// PortfolioStore persists squads in Postgres. A nil receiver is the
// explicit "not configured" variant: every call returns
// repository.ErrNotConfigured instead of panicking.
type PortfolioStore struct {
	pg *Postgres
}

// NewPortfolioStore wraps the shared connection; pass nil when the
// database is not configured.
func NewPortfolioStore(pg *Postgres) *PortfolioStore {
	if pg == nil {
		return nil
	}
	return &PortfolioStore{pg: pg}
}

func (s *PortfolioStore) Create(ctx context.Context, p *models.Portfolio) error {
	if s == nil {
		return repository.ErrNotConfigured
	}
	holdings, err := json.Marshal(p.Holdings)
	if err != nil {
		return fmt.Errorf("marshal holdings: %w", err)
	}

	_, err = s.pg.db.ExecContext(ctx, `
		INSERT INTO portfolios (id, user_id, name, formation, holdings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.UserID, p.Name, p.Formation, holdings, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (s *PortfolioStore) GetByID(ctx context.Context, id string) (*models.Portfolio, error) {
	if s == nil {
		return nil, repository.ErrNotConfigured
	}
	row := s.pg.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, formation, holdings, created_at, updated_at
		FROM portfolios WHERE id = $1`, id)
	return scanPortfolio(row)
}

func (s *PortfolioStore) ListByUser(ctx context.Context, userID string) ([]models.Portfolio, error) {
	if s == nil {
		return nil, repository.ErrNotConfigured
	}
	rows, err := s.pg.db.QueryContext(ctx, `
		SELECT id, user_id, name, formation, holdings, created_at, updated_at
		FROM portfolios WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPortfolios(rows)
}

func (s *PortfolioStore) ListAll(ctx context.Context) ([]models.Portfolio, error) {
	if s == nil {
		return nil, repository.ErrNotConfigured
	}
	rows, err := s.pg.db.QueryContext(ctx, `
		SELECT id, user_id, name, formation, holdings, created_at, updated_at
		FROM portfolios ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPortfolios(rows)
}

func (s *PortfolioStore) Update(ctx context.Context, p *models.Portfolio) error {
	if s == nil {
		return repository.ErrNotConfigured
	}
	holdings, err := json.Marshal(p.Holdings)
	if err != nil {
		return fmt.Errorf("marshal holdings: %w", err)
	}

	res, err := s.pg.db.ExecContext(ctx, `
		UPDATE portfolios SET name = $2, formation = $3, holdings = $4, updated_at = $5
		WHERE id = $1`,
		p.ID, p.Name, p.Formation, holdings, p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *PortfolioStore) Delete(ctx context.Context, id string) error {
	if s == nil {
		return repository.ErrNotConfigured
	}
	res, err := s.pg.db.ExecContext(ctx, `DELETE FROM portfolios WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPortfolio(row rowScanner) (*models.Portfolio, error) {
	var p models.Portfolio
	var holdings []byte
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Formation, &holdings, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(holdings, &p.Holdings); err != nil {
		return nil, fmt.Errorf("unmarshal holdings: %w", err)
	}
	return &p, nil
}

func collectPortfolios(rows *sql.Rows) ([]models.Portfolio, error) {
	var out []models.Portfolio
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
