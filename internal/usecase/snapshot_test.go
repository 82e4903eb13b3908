package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSquad/internal/domain/models"
	"StockSquad/internal/domain/repository"
)

type stubSnapshotStore struct {
	repository.SnapshotStore
	inserted []models.PerformanceSnapshot
}

func (s *stubSnapshotStore) InsertSnapshot(ctx context.Context, snap models.PerformanceSnapshot) error {
	s.inserted = append(s.inserted, snap)
	return nil
}

type listingPortfolios struct {
	repository.PortfolioStore
	all []models.Portfolio
}

func (s *listingPortfolios) ListAll(ctx context.Context) ([]models.Portfolio, error) {
	return s.all, nil
}

type countingSnapshotMetrics struct{ written int }

func (m *countingSnapshotMetrics) RecordSnapshotWritten() { m.written++ }

func TestSnapshotJobWritesOneRowPerPortfolio(t *testing.T) {
	market := &stubMarket{history: map[string][]models.HistoricalPoint{
		"AAPL": linearCloses(22, 100, 110),
	}}
	portfolios := &listingPortfolios{all: []models.Portfolio{
		{ID: "p1", UserID: "u1", Name: "Tech XI", Holdings: []models.PortfolioHolding{
			{Symbol: "AAPL", AllocationPercent: 100},
		}},
		{ID: "p2", UserID: "u2", Name: "Ghost XI", Holdings: []models.PortfolioHolding{
			{Symbol: "GONE", AllocationPercent: 100},
		}},
	}}
	store := &stubSnapshotStore{}
	metrics := &countingSnapshotMetrics{}
	l := testLogger(t)
	job := NewSnapshotJob(l, portfolios, NewSeriesBuilder(l, market), store, metrics)

	assert.Equal(t, SnapshotJobType, job.Type())

	payload, err := json.Marshal(SnapshotPayload{Range: "1M"})
	require.NoError(t, err)
	require.NoError(t, job.Process(context.Background(), payload))

	// p2 has no data and is skipped without failing the round.
	require.Len(t, store.inserted, 1)
	assert.Equal(t, "p1", store.inserted[0].PortfolioID)
	assert.Equal(t, "1M", store.inserted[0].Range)
	assert.InDelta(t, 10.0, store.inserted[0].TotalReturnPercent, 1e-9)
	assert.Equal(t, 1, metrics.written)
}

func TestSnapshotJobRejectsBadPayload(t *testing.T) {
	l := testLogger(t)
	job := NewSnapshotJob(l, &listingPortfolios{}, NewSeriesBuilder(l, &stubMarket{}), &stubSnapshotStore{}, &countingSnapshotMetrics{})

	assert.Error(t, job.Process(context.Background(), []byte("{not json")))
}
