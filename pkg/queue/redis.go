package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"StockSquad/pkg/logger"
)

// RedisQueue is a Redis-list backed job queue with a worker pool.
type RedisQueue struct {
	client    *redis.Client
	logger    *logger.Logger
	cfg       *Config
	keyPrefix string
	jobs      map[string]Job
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// RedisQueueOption configures RedisQueue.
type RedisQueueOption func(*RedisQueue)

// WithKeyPrefix sets the Redis key prefix.
func WithKeyPrefix(prefix string) RedisQueueOption {
	return func(q *RedisQueue) {
		q.keyPrefix = prefix
	}
}

// NewRedisQueue creates a queue around an existing Redis client.
func NewRedisQueue(l *logger.Logger, cfg *Config, client *redis.Client, jobs []Job, opts ...RedisQueueOption) *RedisQueue {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 5 * time.Second
	}

	q := &RedisQueue{
		client:    client,
		logger:    l,
		cfg:       cfg,
		keyPrefix: "stocksquad:queue",
		jobs:      make(map[string]Job),
		stopChan:  make(chan struct{}),
	}

	for _, opt := range opts {
		opt(q)
	}
	for _, j := range jobs {
		q.jobs[j.Type()] = j
	}

	return q
}

// Enqueue pushes a message onto the queue.
func (q *RedisQueue) Enqueue(ctx context.Context, msgType string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	msg := Message{
		Type:      msgType,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return q.client.LPush(ctx, q.queueKey(), data).Err()
}

// Start launches the worker pool.
func (q *RedisQueue) Start() error {
	for i := 0; i < q.cfg.Workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
	q.logger.Info("queue started", logger.Int("workers", q.cfg.Workers))
	return nil
}

// Stop signals workers to finish and waits for them.
func (q *RedisQueue) Stop(ctx context.Context) error {
	q.stopOnce.Do(func() {
		close(q.stopChan)
	})

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *RedisQueue) worker(id int) {
	defer q.wg.Done()
	for {
		select {
		case <-q.stopChan:
			return
		default:
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		res, err := q.client.BRPop(ctx, 2*time.Second, q.queueKey()).Result()
		cancel()
		if err != nil {
			if !errors.Is(err, redis.Nil) && !errors.Is(err, context.DeadlineExceeded) {
				q.logger.Warn("queue pop error", logger.Error(err))
				time.Sleep(time.Second)
			}
			continue
		}
		if len(res) < 2 {
			continue
		}

		q.processMessage([]byte(res[1]))
	}
}

func (q *RedisQueue) processMessage(data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		q.logger.Warn("queue message unparseable", logger.Error(err))
		return
	}

	job, ok := q.jobs[msg.Type]
	if !ok {
		q.logger.Warn("no job for message type", logger.String("type", msg.Type))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := job.Process(ctx, msg.Payload); err != nil {
		q.handleProcessingError(msg, err)
	}
}

func (q *RedisQueue) handleProcessingError(msg Message, err error) {
	msg.Attempts++
	if msg.Attempts > q.cfg.RetryMax {
		q.logger.Error("queue message dropped after retries",
			logger.String("type", msg.Type),
			logger.Int("attempts", msg.Attempts),
			logger.Error(err),
		)
		return
	}

	q.logger.Warn("queue job failed, requeueing",
		logger.String("type", msg.Type),
		logger.Int("attempt", msg.Attempts),
		logger.Error(err),
	)

	time.Sleep(q.cfg.RetryDelay)
	data, merr := json.Marshal(msg)
	if merr != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = q.client.LPush(ctx, q.queueKey(), data).Err()
}

func (q *RedisQueue) queueKey() string {
	return q.keyPrefix + ":messages"
}
