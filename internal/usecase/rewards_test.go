package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSquad/pkg/cache"
)

func testRewards(t *testing.T) *RewardService {
	t.Helper()
	mem := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mem.Close() })
	return NewRewardService(testLogger(t), mem, &RewardsConfig{
		BaseXP:      10,
		StreakBonus: 5,
		MaxBonus:    50,
	})
}

func TestClaimAwardsBaseXPOnFirstDay(t *testing.T) {
	s := testRewards(t)

	claim, err := s.Claim(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, claim.AlreadyClaimed)
	assert.Equal(t, 1, claim.Streak)
	assert.Equal(t, 10, claim.XPAwarded)
	assert.EqualValues(t, 10, claim.TotalXP)
}

func TestClaimIsIdempotentPerDay(t *testing.T) {
	s := testRewards(t)
	ctx := context.Background()

	first, err := s.Claim(ctx, "u1")
	require.NoError(t, err)
	second, err := s.Claim(ctx, "u1")
	require.NoError(t, err)

	assert.True(t, second.AlreadyClaimed)
	assert.Zero(t, second.XPAwarded)
	assert.Equal(t, first.Streak, second.Streak)
	assert.Equal(t, first.TotalXP, second.TotalXP)
}

func TestClaimsAreIndependentPerUser(t *testing.T) {
	s := testRewards(t)
	ctx := context.Background()

	_, err := s.Claim(ctx, "u1")
	require.NoError(t, err)

	claim, err := s.Claim(ctx, "u2")
	require.NoError(t, err)
	assert.False(t, claim.AlreadyClaimed)
	assert.Equal(t, 1, claim.Streak)
}
