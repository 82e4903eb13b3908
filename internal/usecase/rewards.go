package usecase

import (
	"context"
	"time"

	"StockSquad/internal/domain/models"
	"StockSquad/pkg/cache"
	"StockSquad/pkg/logger"
	"StockSquad/pkg/util"
)

// RewardsConfig tunes the daily check-in reward.
type RewardsConfig struct {
	BaseXP      int `yaml:"base_xp" default:"10"`
	StreakBonus int `yaml:"streak_bonus" default:"5"`
	MaxBonus    int `yaml:"max_bonus" default:"50"`
}

// RewardService grants one check-in reward per UTC day and tracks
// consecutive-day streaks on Redis counters. The streak key expires
// 48 hours after the last claim, so missing a full day resets it.
type RewardService struct {
	cache  cache.Service
	cfg    *RewardsConfig
	logger *logger.Logger
}

// NewRewardService wires the reward service.
func NewRewardService(l *logger.Logger, c cache.Service, cfg *RewardsConfig) *RewardService {
	return &RewardService{cache: c, cfg: cfg, logger: l}
}

// Claim grants today's reward for userID, idempotently per UTC day.
// A repeat claim returns the current standing with AlreadyClaimed set.
func (s *RewardService) Claim(ctx context.Context, userID string) (*models.RewardClaim, error) {
	now := time.Now().UTC()
	day := now.Format(util.DateLayout)

	claimKey := cache.Key("rewards:claimed", userID, day)
	streakKey := cache.Key("rewards:streak", userID)
	xpKey := cache.Key("rewards:xp", userID)

	// Lock for the rest of the UTC day plus a margin; the streak window
	// does the real bookkeeping.
	locked, err := s.cache.TryLock(ctx, claimKey, 26*time.Hour)
	if err != nil {
		return nil, err
	}
	if !locked {
		streak, _ := cache.GetTyped[int64](ctx, s.cache, streakKey)
		total, _ := cache.GetTyped[int64](ctx, s.cache, xpKey)
		return &models.RewardClaim{
			UserID:         userID,
			Streak:         int(streak),
			TotalXP:        total,
			AlreadyClaimed: true,
			ClaimedAt:      now,
		}, nil
	}

	streak64, err := s.cache.Increment(ctx, streakKey)
	if err != nil {
		return nil, err
	}
	if _, err := s.cache.Expire(ctx, streakKey, 48*time.Hour); err != nil {
		s.logger.Warn("streak expiry not set", logger.Error(err))
	}

	streak := int(streak64)
	bonus := s.cfg.StreakBonus * (streak - 1)
	if bonus > s.cfg.MaxBonus {
		bonus = s.cfg.MaxBonus
	}
	xp := s.cfg.BaseXP + bonus

	total, err := s.cache.IncrementBy(ctx, xpKey, int64(xp))
	if err != nil {
		return nil, err
	}

	return &models.RewardClaim{
		UserID:    userID,
		Streak:    streak,
		XPAwarded: xp,
		TotalXP:   total,
		ClaimedAt: now,
	}, nil
}
