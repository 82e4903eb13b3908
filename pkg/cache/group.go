package cache

import (
	"context"
	"sync"
	"time"
)

// Group collapses concurrent producers for the same key into a single call.
// The first caller runs the producer; everyone else waits for its result.
type Group struct {
	mu       sync.Mutex
	inflight map[string]*call
}

type call struct {
	done chan struct{}
	val  interface{}
	err  error
}

// NewGroup creates an empty in-flight group.
func NewGroup() *Group {
	return &Group{inflight: make(map[string]*call)}
}

// Do runs fn for key, deduplicating concurrent callers. The get-or-create of
// the pending slot happens under one lock, so there is no window in which two
// callers can both start a producer.
func (g *Group) Do(key string, fn func() (interface{}, error)) (interface{}, error) {
	g.mu.Lock()
	if c, ok := g.inflight[key]; ok {
		g.mu.Unlock()
		<-c.done
		return c.val, c.err
	}
	c := &call{done: make(chan struct{})}
	g.inflight[key] = c
	g.mu.Unlock()

	c.val, c.err = fn()

	g.mu.Lock()
	delete(g.inflight, key)
	g.mu.Unlock()
	close(c.done)

	return c.val, c.err
}

// GetOrCompute returns the cached value for key, or runs producer exactly once
// across concurrent callers, caches its result with ttl, and returns it.
// A failing cache write does not fail the call.
func GetOrCompute[T any](ctx context.Context, c Service, g *Group, key string, ttl time.Duration, producer func(ctx context.Context) (T, error)) (T, error) {
	var cached T
	if err := c.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	v, err := g.Do(key, func() (interface{}, error) {
		// Another caller may have filled the cache while we queued.
		var again T
		if err := c.Get(ctx, key, &again); err == nil {
			return again, nil
		}
		produced, err := producer(ctx)
		if err != nil {
			return nil, err
		}
		_ = c.Set(ctx, key, produced, ttl)
		return produced, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	typed, ok := v.(T)
	if !ok {
		var zero T
		return zero, ErrCacheMiss
	}
	return typed, nil
}
