package kafka

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// MessageHandler handles messages from a topic.
type MessageHandler interface {
	Topic() string
	Handle(context.Context, []byte) error
}

// Consumer wraps a Kafka reader with a worker pool.
type Consumer struct {
	cfg      *ConsumerConfig
	reader   *kafka.Reader
	handler  MessageHandler
	msgChan  chan []byte
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewConsumer creates a consumer for a single topic.
func NewConsumer(opts ...ConsumerOption) (*Consumer, error) {
	cfg := &ConsumerConfig{
		WorkerCount: 4,
		RetryMax:    3,
		BackoffMin:  200 * time.Millisecond,
		BackoffMax:  5 * time.Second,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("topic is required")
	}
	if cfg.GroupID == "" {
		return nil, fmt.Errorf("group id is required")
	}

	return &Consumer{
		cfg:      cfg,
		msgChan:  make(chan []byte, 256),
		stopChan: make(chan struct{}),
	}, nil
}

// RegisterHandler sets the message handler. Must be called before Start.
func (c *Consumer) RegisterHandler(h MessageHandler) {
	c.handler = h
}

// Start begins reading and dispatching messages. Blocks until Stop.
func (c *Consumer) Start() error {
	if c.handler == nil {
		return fmt.Errorf("no handler registered")
	}

	c.reader = kafka.NewReader(kafka.ReaderConfig{
		Brokers: c.cfg.Brokers,
		Topic:   c.cfg.Topic,
		GroupID: c.cfg.GroupID,
	})

	for i := 0; i < c.cfg.WorkerCount; i++ {
		c.wg.Add(1)
		go c.worker()
	}

	for {
		select {
		case <-c.stopChan:
			close(c.msgChan)
			c.wg.Wait()
			return nil
		default:
		}

		msg, err := c.reader.ReadMessage(context.Background())
		if err != nil {
			select {
			case <-c.stopChan:
				close(c.msgChan)
				c.wg.Wait()
				return nil
			default:
				time.Sleep(c.cfg.BackoffMin)
				continue
			}
		}
		c.msgChan <- msg.Value
	}
}

// Stop shuts down the consumer and waits for workers to drain.
func (c *Consumer) Stop(ctx context.Context) error {
	c.stopOnce.Do(func() {
		close(c.stopChan)
		if c.reader != nil {
			_ = c.reader.Close()
		}
	})
	return nil
}

func (c *Consumer) worker() {
	defer c.wg.Done()
	for data := range c.msgChan {
		c.handleWithRetry(data)
	}
}

func (c *Consumer) handleWithRetry(data []byte) {
	backoff := c.cfg.BackoffMin
	for attempt := 0; attempt <= c.cfg.RetryMax; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := c.handler.Handle(ctx, data)
		cancel()
		if err == nil {
			return
		}
		// jittered exponential backoff between attempts
		sleep := backoff + time.Duration(rand.Int63n(int64(backoff)))
		time.Sleep(sleep)
		backoff *= 2
		if backoff > c.cfg.BackoffMax {
			backoff = c.cfg.BackoffMax
		}
	}
}
