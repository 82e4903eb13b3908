package cache

import (
	"context"
	"errors"
	"reflect"
	"time"
)

// sharedTier is the surface the layered cache needs from its L2 store.
// *RedisCache satisfies it.
type sharedTier interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, keys ...string) (bool, error)
	Increment(ctx context.Context, key string) (int64, error)
	IncrementBy(ctx context.Context, key string, delta int64) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) (bool, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
	Close() error
}

// LayeredCache implements a two-tier cache (L1: memory, L2: Redis).
// The L2 tier is optional; when absent the cache degrades to memory-only.
// L2 failures are treated as misses so a broken store never blocks reads.
type LayeredCache struct {
	memCache *MemoryCache
	shared   sharedTier
}

// NewLayeredCache creates a layered cache. redisCache may be nil.
func NewLayeredCache(redisCache *RedisCache, opts ...LayeredOption) *LayeredCache {
	cfg := &LayeredConfig{
		MemoryMaxSize: 1000,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	lc := &LayeredCache{
		memCache: NewMemoryCache(WithMemoryMaxSize(cfg.MemoryMaxSize)),
	}
	if redisCache != nil {
		lc.shared = redisCache
	}
	return lc
}

func (lc *LayeredCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	// Memory tier always succeeds; the shared tier is best-effort.
	_ = lc.memCache.Set(ctx, key, value, expiration)
	if lc.shared != nil {
		return lc.shared.Set(ctx, key, value, expiration)
	}
	return nil
}

func (lc *LayeredCache) Get(ctx context.Context, key string, dest interface{}) error {
	if err := lc.memCache.Get(ctx, key, dest); err == nil {
		return nil
	}

	if lc.shared == nil {
		return ErrCacheMiss
	}

	if err := lc.shared.Get(ctx, key, dest); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return ErrCacheMiss
		}
		// Store unavailable: report a miss and let the caller recompute.
		return ErrCacheMiss
	}

	// Backfill L1 with the shared tier's remaining lifetime so the local
	// copy cannot outlive its source. Redis reports a negative TTL for a
	// missing or non-expiring key; then the entry is not worth pinning.
	if ttl, err := lc.shared.TTL(ctx, key); err == nil && ttl > 0 {
		_ = lc.memCache.Set(ctx, key, deref(dest), ttl)
	}
	return nil
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	_ = lc.memCache.Delete(ctx, keys...)
	if lc.shared != nil {
		return lc.shared.Delete(ctx, keys...)
	}
	return nil
}

func (lc *LayeredCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	if ok, err := lc.memCache.Exists(ctx, keys...); err == nil && ok {
		return true, nil
	}
	if lc.shared != nil {
		return lc.shared.Exists(ctx, keys...)
	}
	return false, nil
}

func (lc *LayeredCache) Increment(ctx context.Context, key string) (int64, error) {
	if lc.shared != nil {
		return lc.shared.Increment(ctx, key)
	}
	return lc.memCache.Increment(ctx, key)
}

func (lc *LayeredCache) IncrementBy(ctx context.Context, key string, delta int64) (int64, error) {
	if lc.shared != nil {
		return lc.shared.IncrementBy(ctx, key, delta)
	}
	return lc.memCache.IncrementBy(ctx, key, delta)
}

func (lc *LayeredCache) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	if lc.shared != nil {
		return lc.shared.Expire(ctx, key, expiration)
	}
	return lc.memCache.Expire(ctx, key, expiration)
}

func (lc *LayeredCache) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if lc.shared != nil {
		return lc.shared.TryLock(ctx, key, ttl)
	}
	return lc.memCache.TryLock(ctx, key, ttl)
}

func (lc *LayeredCache) Unlock(ctx context.Context, key string) error {
	if lc.shared != nil {
		return lc.shared.Unlock(ctx, key)
	}
	return lc.memCache.Unlock(ctx, key)
}

// Close closes both cache tiers.
func (lc *LayeredCache) Close() error {
	_ = lc.memCache.Close()
	if lc.shared != nil {
		return lc.shared.Close()
	}
	return nil
}

func deref(dest interface{}) interface{} {
	dv := reflect.ValueOf(dest)
	if dv.Kind() == reflect.Ptr && !dv.IsNil() {
		return dv.Elem().Interface()
	}
	return dest
}
