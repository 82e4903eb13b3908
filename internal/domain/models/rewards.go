package models

import "time"

// RewardClaim is the outcome of a daily check-in.
type RewardClaim struct {
	UserID         string    `json:"userId"`
	Streak         int       `json:"streak"`
	XPAwarded      int       `json:"xpAwarded"`
	TotalXP        int64     `json:"totalXP"`
	AlreadyClaimed bool      `json:"alreadyClaimed"`
	ClaimedAt      time.Time `json:"claimedAt"`
}
