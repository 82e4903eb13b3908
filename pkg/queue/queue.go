package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Service enqueues and processes background messages.
type Service interface {
	Enqueue(ctx context.Context, msgType string, payload interface{}) error
	Start() error
	Stop(ctx context.Context) error
}

// Config holds queue configuration.
type Config struct {
	Workers    int
	RetryMax   int
	RetryDelay time.Duration
}

// Message is the envelope stored on the queue.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Attempts  int             `json:"attempts"`
	CreatedAt time.Time       `json:"created_at"`
}

// ParsePayload decodes a message payload into T.
func ParsePayload[T any](payload []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(payload, &v); err != nil {
		return nil, fmt.Errorf("parse payload: %w", err)
	}
	return &v, nil
}
