package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLimiterConsumesTokens(t *testing.T) {
	l := NewLimiter()

	require.True(t, l.Allow("a", 2, 0))
	require.True(t, l.Allow("a", 2, 0))
	require.False(t, l.Allow("a", 2, 0))
}

func TestLimiterRefillsOverTime(t *testing.T) {
	l := NewLimiter()

	require.True(t, l.Allow("a", 1, 10))
	require.False(t, l.Allow("a", 1, 10))

	l.mu.Lock()
	l.m["a"].last = time.Now().Add(-time.Second)
	l.mu.Unlock()

	require.True(t, l.Allow("a", 1, 10))
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	l := NewLimiter()

	require.True(t, l.Allow("a", 1, 0))
	require.False(t, l.Allow("a", 1, 0))
	require.True(t, l.Allow("b", 1, 0))
}

func TestLimiterPrunesIdleBuckets(t *testing.T) {
	l := NewLimiter()

	require.True(t, l.Allow("idle", 10, 1))
	require.True(t, l.Allow("busy", 10, 1))

	l.mu.Lock()
	l.m["idle"].last = time.Now().Add(-2 * bucketIdleMax)
	l.lastPrune = time.Now().Add(-2 * pruneInterval)
	l.mu.Unlock()

	// The next call runs a prune pass under the lock.
	require.True(t, l.Allow("busy", 10, 1))

	l.mu.Lock()
	_, idleKept := l.m["idle"]
	_, busyKept := l.m["busy"]
	l.mu.Unlock()

	require.False(t, idleKept)
	require.True(t, busyKept)
}
