package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSquad/internal/domain/models"
	"StockSquad/internal/domain/repository"
)

type stubAlertStore struct {
	repository.AlertStore
	active      []models.Alert
	deactivated []string
}

func (s *stubAlertStore) ListActive(ctx context.Context) ([]models.Alert, error) {
	return s.active, nil
}

func (s *stubAlertStore) Deactivate(ctx context.Context, id string, firedAt time.Time) error {
	s.deactivated = append(s.deactivated, id)
	return nil
}

type stubPublisher struct {
	events []models.AlertEvent
	fail   bool
}

func (p *stubPublisher) PublishTriggered(ctx context.Context, ev models.AlertEvent) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.events = append(p.events, ev)
	return nil
}

type countingAlertMetrics struct{ triggered int }

func (m *countingAlertMetrics) RecordAlertTriggered(string) { m.triggered++ }

func TestSweepFiresCrossedAlertsOnly(t *testing.T) {
	store := &stubAlertStore{active: []models.Alert{
		{ID: "a1", UserID: "u1", Symbol: "AAPL", Direction: models.AlertAbove, Threshold: 150, Active: true},
		{ID: "a2", UserID: "u1", Symbol: "AAPL", Direction: models.AlertAbove, Threshold: 500, Active: true},
		{ID: "a3", UserID: "u2", Symbol: "MSFT", Direction: models.AlertBelow, Threshold: 450, Active: true},
	}}
	market := &stubMarket{quotes: map[string]*models.AssetQuote{
		"AAPL": {Symbol: "AAPL", Price: 200},
		"MSFT": {Symbol: "MSFT", Price: 410},
	}}
	pub := &stubPublisher{}
	m := &countingAlertMetrics{}
	s := NewAlertSweeper(testLogger(t), store, market, pub, m, time.Minute)

	fired, err := s.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, fired)
	assert.Equal(t, 2, m.triggered)
	assert.ElementsMatch(t, []string{"a1", "a3"}, store.deactivated)

	require.Len(t, pub.events, 2)
	assert.Equal(t, "a1", pub.events[0].AlertID)
	assert.InDelta(t, 200.0, pub.events[0].Price, 1e-9)
}

func TestSweepKeepsAlertActiveWhenPublishFails(t *testing.T) {
	store := &stubAlertStore{active: []models.Alert{
		{ID: "a1", Symbol: "AAPL", Direction: models.AlertAbove, Threshold: 150, Active: true},
	}}
	market := &stubMarket{quotes: map[string]*models.AssetQuote{
		"AAPL": {Symbol: "AAPL", Price: 200},
	}}
	s := NewAlertSweeper(testLogger(t), store, market, &stubPublisher{fail: true}, &countingAlertMetrics{}, time.Minute)

	fired, err := s.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, fired)
	assert.Empty(t, store.deactivated)
}

func TestSweepSkipsSymbolsWithoutQuotes(t *testing.T) {
	store := &stubAlertStore{active: []models.Alert{
		{ID: "a1", Symbol: "GONE", Direction: models.AlertAbove, Threshold: 1, Active: true},
	}}
	s := NewAlertSweeper(testLogger(t), store, &stubMarket{}, &stubPublisher{}, &countingAlertMetrics{}, time.Minute)

	fired, err := s.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, fired)
}
