package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"StockSquad/internal/domain/repository"
	"StockSquad/pkg/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS portfolios (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	name       TEXT NOT NULL,
	formation  TEXT NOT NULL DEFAULT '',
	holdings   JSONB NOT NULL DEFAULT '[]',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS portfolios_user_idx ON portfolios (user_id);

CREATE TABLE IF NOT EXISTS alerts (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	symbol     TEXT NOT NULL,
	direction  TEXT NOT NULL,
	threshold  DOUBLE PRECISION NOT NULL,
	active     BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL,
	fired_at   TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS alerts_active_idx ON alerts (active) WHERE active;
CREATE INDEX IF NOT EXISTS alerts_user_idx ON alerts (user_id);
`

// Postgres holds the shared connection pool behind the relational stores.
type Postgres struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewPostgres opens the database and ensures the schema exists.
func NewPostgres(l *logger.Logger, dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	l.Info("postgres ready")
	return &Postgres{db: db, logger: l}, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
