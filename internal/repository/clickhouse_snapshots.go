package repository

import (
	"context"

	"StockSquad/internal/domain/models"
	"StockSquad/internal/domain/repository"
	"StockSquad/pkg/clickhouse"
)

var snapshotSchema = []string{
	`CREATE TABLE IF NOT EXISTS performance_snapshots (
		portfolio_id         String,
		user_id              String,
		name                 String,
		range_name           LowCardinality(String),
		total_return_percent Float64,
		volatility           Float64,
		sharpe_ratio         Float64,
		max_drawdown_percent Float64,
		taken_at             DateTime
	) ENGINE = MergeTree()
	ORDER BY (range_name, taken_at, portfolio_id)`,

	`CREATE TABLE IF NOT EXISTS alert_events (
		alert_id  String,
		user_id   String,
		symbol    LowCardinality(String),
		direction LowCardinality(String),
		threshold Float64,
		price     Float64,
		fired_at  DateTime
	) ENGINE = MergeTree()
	ORDER BY (symbol, fired_at)`,
}

// SnapshotStore writes performance snapshots and alert events to
// ClickHouse and serves leaderboard reads. A nil receiver is the
// "analytics disabled" variant and reports ErrNotConfigured.
type SnapshotStore struct {
	ch *clickhouse.Client
}

// NewSnapshotStore ensures the analytics schema and wraps the client;
// pass nil when ClickHouse is not configured.
func NewSnapshotStore(ctx context.Context, ch *clickhouse.Client) (*SnapshotStore, error) {
	if ch == nil {
		return nil, nil
	}
	if err := ch.InitSchema(ctx, snapshotSchema); err != nil {
		return nil, err
	}
	return &SnapshotStore{ch: ch}, nil
}

// InsertSnapshot implements repository.SnapshotStore.
func (s *SnapshotStore) InsertSnapshot(ctx context.Context, snap models.PerformanceSnapshot) error {
	if s == nil {
		return repository.ErrNotConfigured
	}
	_, err := s.ch.DB().ExecContext(ctx, `
		INSERT INTO performance_snapshots
			(portfolio_id, user_id, name, range_name, total_return_percent,
			 volatility, sharpe_ratio, max_drawdown_percent, taken_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.PortfolioID, snap.UserID, snap.Name, snap.Range, snap.TotalReturnPercent,
		snap.Volatility, snap.SharpeRatio, snap.MaxDrawdownPercent, snap.TakenAt,
	)
	return err
}

// TopByReturn implements repository.SnapshotStore: ranks portfolios by
// their most recent snapshot for the range.
func (s *SnapshotStore) TopByReturn(ctx context.Context, rangeName string, limit int) ([]models.LeaderboardEntry, error) {
	if s == nil {
		return nil, repository.ErrNotConfigured
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.ch.DB().QueryContext(ctx, `
		SELECT portfolio_id, user_id, name,
		       argMax(total_return_percent, taken_at) AS ret,
		       argMax(sharpe_ratio, taken_at) AS sharpe
		FROM performance_snapshots
		WHERE range_name = ?
		GROUP BY portfolio_id, user_id, name
		ORDER BY ret DESC
		LIMIT ?`, rangeName, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.LeaderboardEntry
	rank := 0
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.PortfolioID, &e.UserID, &e.Name, &e.TotalReturnPercent, &e.SharpeRatio); err != nil {
			return nil, err
		}
		rank++
		e.Rank = rank
		out = append(out, e)
	}
	return out, rows.Err()
}

// InsertAlertEvent implements repository.SnapshotStore: appends one fired
// alert to the event log.
func (s *SnapshotStore) InsertAlertEvent(ctx context.Context, ev models.AlertEvent) error {
	if s == nil {
		return repository.ErrNotConfigured
	}
	_, err := s.ch.DB().ExecContext(ctx, `
		INSERT INTO alert_events
			(alert_id, user_id, symbol, direction, threshold, price, fired_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.AlertID, ev.UserID, ev.Symbol, ev.Direction, ev.Threshold, ev.Price, ev.FiredAt,
	)
	return err
}
