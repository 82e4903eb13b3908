package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeSharedTier is a map-backed stand-in for the Redis tier.
type fakeSharedTier struct {
	mu   sync.Mutex
	data map[string]fakeEntry
	gets int
}

type fakeEntry struct {
	value    interface{}
	expireAt time.Time
}

func newFakeSharedTier() *fakeSharedTier {
	return &fakeSharedTier{data: make(map[string]fakeEntry)}
}

func (f *fakeSharedTier) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := fakeEntry{value: value}
	if expiration > 0 {
		e.expireAt = time.Now().Add(expiration)
	}
	f.data[key] = e
	return nil
}

func (f *fakeSharedTier) Get(_ context.Context, key string, dest interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	e, ok := f.data[key]
	if !ok {
		return ErrCacheMiss
	}
	return assign(dest, e.value)
}

func (f *fakeSharedTier) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeSharedTier) Exists(_ context.Context, keys ...string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSharedTier) Increment(ctx context.Context, key string) (int64, error) {
	return f.IncrementBy(ctx, key, 1)
}

func (f *fakeSharedTier) IncrementBy(_ context.Context, key string, delta int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, _ := f.data[key].value.(int64)
	n += delta
	f.data[key] = fakeEntry{value: n}
	return n, nil
}

func (f *fakeSharedTier) Expire(_ context.Context, key string, expiration time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.data[key]
	if !ok {
		return false, nil
	}
	e.expireAt = time.Now().Add(expiration)
	f.data[key] = e
	return true, nil
}

// TTL mirrors the Redis convention: -2 for a missing key, -1 for a key
// without expiration.
func (f *fakeSharedTier) TTL(_ context.Context, key string) (time.Duration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.data[key]
	switch {
	case !ok:
		return time.Duration(-2), nil
	case e.expireAt.IsZero():
		return time.Duration(-1), nil
	default:
		return time.Until(e.expireAt), nil
	}
}

func (f *fakeSharedTier) TryLock(_ context.Context, key string, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	f.data[key] = fakeEntry{value: "locked", expireAt: time.Now().Add(ttl)}
	return true, nil
}

func (f *fakeSharedTier) Unlock(ctx context.Context, key string) error {
	return f.Delete(ctx, key)
}

func (f *fakeSharedTier) Close() error { return nil }

func newLayeredWithShared(shared sharedTier) *LayeredCache {
	return &LayeredCache{
		memCache: NewMemoryCache(WithMemoryMaxSize(10)),
		shared:   shared,
	}
}

func TestLayeredSetWritesThrough(t *testing.T) {
	shared := newFakeSharedTier()
	lc := newLayeredWithShared(shared)
	defer lc.Close()
	ctx := context.Background()

	require.NoError(t, lc.Set(ctx, "k", "v", time.Minute))

	ok, err := shared.Exists(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestLayeredBackfillExpiresWithSource(t *testing.T) {
	shared := newFakeSharedTier()
	lc := newLayeredWithShared(shared)
	defer lc.Close()
	ctx := context.Background()

	require.NoError(t, shared.Set(ctx, "q", "close-101.5", 40*time.Millisecond))

	// Not in the memory tier yet, so this read is served from the shared
	// tier and backfilled locally.
	var got string
	require.NoError(t, lc.Get(ctx, "q", &got))
	require.Equal(t, "close-101.5", got)

	// Drop the shared copy; the backfilled one still serves for now.
	require.NoError(t, shared.Delete(ctx, "q"))
	require.NoError(t, lc.Get(ctx, "q", &got))

	// Past the source TTL the local copy must be gone as well.
	time.Sleep(60 * time.Millisecond)
	err := lc.Get(ctx, "q", &got)
	require.ErrorIs(t, err, ErrCacheMiss)
}

func TestLayeredBackfillSkipsNonExpiringKeys(t *testing.T) {
	shared := newFakeSharedTier()
	lc := newLayeredWithShared(shared)
	defer lc.Close()
	ctx := context.Background()

	require.NoError(t, shared.Set(ctx, "k", "v", 0))

	var got string
	require.NoError(t, lc.Get(ctx, "k", &got))
	require.Equal(t, 1, shared.gets)

	// Without a TTL to bound it, the value is not pinned in memory; the
	// next read goes back to the shared tier.
	require.NoError(t, lc.Get(ctx, "k", &got))
	require.Equal(t, 2, shared.gets)
}
