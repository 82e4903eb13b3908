package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"StockSquad/internal/domain/models"
	"StockSquad/internal/domain/repository"
	"StockSquad/pkg/kafka"
	"StockSquad/pkg/logger"
)

// AlertPublisher pushes fired-alert events to Kafka, keyed by symbol so
// one symbol's events stay ordered within a partition. A nil receiver
// reports ErrNotConfigured.
type AlertPublisher struct {
	producer *kafka.Producer
	topic    string
}

// NewAlertPublisher wraps a producer; pass nil when Kafka is disabled.
func NewAlertPublisher(producer *kafka.Producer, topic string) *AlertPublisher {
	if producer == nil {
		return nil
	}
	return &AlertPublisher{producer: producer, topic: topic}
}

// PublishTriggered implements repository.AlertPublisher.
func (p *AlertPublisher) PublishTriggered(ctx context.Context, ev models.AlertEvent) error {
	if p == nil {
		return repository.ErrNotConfigured
	}
	return p.producer.Publish(ctx, p.topic, []byte(ev.Symbol), ev)
}

// AlertEventHandler consumes fired-alert events from Kafka and appends
// them to the ClickHouse event log.
type AlertEventHandler struct {
	topic  string
	store  repository.SnapshotStore
	logger *logger.Logger
}

// NewAlertEventHandler wires the consumer-side handler.
func NewAlertEventHandler(l *logger.Logger, topic string, store repository.SnapshotStore) *AlertEventHandler {
	return &AlertEventHandler{topic: topic, store: store, logger: l}
}

// Topic implements kafka.MessageHandler.
func (h *AlertEventHandler) Topic() string { return h.topic }

// Handle implements kafka.MessageHandler. Unparseable messages are
// dropped with a log line; store failures return for the retry loop.
func (h *AlertEventHandler) Handle(ctx context.Context, data []byte) error {
	var ev models.AlertEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		h.logger.Warn("alert event unparseable", logger.Error(err))
		return nil
	}
	if ev.AlertID == "" {
		h.logger.Warn("alert event missing id, dropped")
		return nil
	}

	if err := h.store.InsertAlertEvent(ctx, ev); err != nil {
		return fmt.Errorf("insert alert event: %w", err)
	}

	h.logger.Debug("alert event logged",
		logger.String("alert_id", ev.AlertID),
		logger.String("symbol", ev.Symbol),
	)
	return nil
}
