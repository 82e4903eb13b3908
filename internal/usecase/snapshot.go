package usecase

import (
	"context"
	"time"

	"StockSquad/internal/domain/models"
	"StockSquad/internal/domain/repository"
	"StockSquad/internal/service/perf"
	"StockSquad/pkg/logger"
	"StockSquad/pkg/queue"
)

// SnapshotJobType is the queue message type for leaderboard snapshots.
const SnapshotJobType = "leaderboard_snapshot"

// SnapshotMetrics is the slice of metrics the snapshot job emits.
type SnapshotMetrics interface {
	RecordSnapshotWritten()
}

// SnapshotPayload is the queue payload for one snapshot round.
type SnapshotPayload struct {
	Range string `json:"range"`
}

// SnapshotJob recomputes every portfolio's range metrics and writes a
// snapshot row per portfolio into the analytics store. Leaderboard reads
// then rank over the latest snapshots instead of refetching the market.
type SnapshotJob struct {
	portfolios repository.PortfolioStore
	builder    *SeriesBuilder
	snapshots  repository.SnapshotStore
	metrics    SnapshotMetrics
	logger     *logger.Logger
}

// NewSnapshotJob wires the snapshot job.
func NewSnapshotJob(l *logger.Logger, portfolios repository.PortfolioStore, builder *SeriesBuilder, snapshots repository.SnapshotStore, m SnapshotMetrics) *SnapshotJob {
	return &SnapshotJob{
		portfolios: portfolios,
		builder:    builder,
		snapshots:  snapshots,
		metrics:    m,
		logger:     l,
	}
}

// Type implements queue.Job.
func (j *SnapshotJob) Type() string { return SnapshotJobType }

// Process implements queue.Job. Portfolios that yield no series are
// skipped; a failing insert fails the job so the queue retries it.
func (j *SnapshotJob) Process(ctx context.Context, payload []byte) error {
	p, err := queue.ParsePayload[SnapshotPayload](payload)
	if err != nil {
		return err
	}

	r, err := repository.ResolveRange(p.Range, "", "", time.Now())
	if err != nil {
		return err
	}

	portfolios, err := j.portfolios.ListAll(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, pf := range portfolios {
		series, _ := j.builder.Build(ctx, pf.Holdings, r)
		if len(series) == 0 {
			j.logger.Debug("snapshot skipped, no series",
				logger.String("portfolio_id", pf.ID))
			continue
		}

		m := perf.Compute(series)
		snap := models.PerformanceSnapshot{
			PortfolioID:        pf.ID,
			UserID:             pf.UserID,
			Name:               pf.Name,
			Range:              r.Label,
			TotalReturnPercent: m.TotalReturnPercent,
			Volatility:         m.Volatility,
			SharpeRatio:        m.SharpeRatio,
			MaxDrawdownPercent: m.MaxDrawdownPercent,
			TakenAt:            now,
		}
		if err := j.snapshots.InsertSnapshot(ctx, snap); err != nil {
			return err
		}
		j.metrics.RecordSnapshotWritten()
	}

	return nil
}

// SnapshotScheduler enqueues a snapshot round on a fixed interval.
type SnapshotScheduler struct {
	queue     queue.Service
	logger    *logger.Logger
	interval  time.Duration
	rangeName string
}

// NewSnapshotScheduler wires the scheduler.
func NewSnapshotScheduler(l *logger.Logger, q queue.Service, interval time.Duration, rangeName string) *SnapshotScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	if rangeName == "" {
		rangeName = repository.RangeMonth
	}
	return &SnapshotScheduler{queue: q, logger: l, interval: interval, rangeName: rangeName}
}

// Run enqueues until ctx is cancelled.
func (s *SnapshotScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := s.queue.Enqueue(ctx, SnapshotJobType, SnapshotPayload{Range: s.rangeName})
			if err != nil {
				s.logger.Warn("snapshot enqueue failed", logger.Error(err))
			}
		}
	}
}
