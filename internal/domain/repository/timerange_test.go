package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResolveRangeNamed(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 30, 0, 0, time.UTC)

	r, err := ResolveRange("1M", "", "", now)
	require.NoError(t, err)
	require.Equal(t, "1M", r.Label)
	require.Equal(t, now.AddDate(0, -1, 0), r.Start)
	require.Equal(t, now, r.End)
}

func TestResolveRangeCustomDates(t *testing.T) {
	r, err := ResolveRange("", "2024-01-02", "2024-01-31", time.Now())
	require.NoError(t, err)
	require.Equal(t, "custom", r.Label)
	require.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), r.Start)
	// The end date is inclusive, so the window runs through the whole day.
	require.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), r.End)
}

func TestResolveRangeSnapsTimestampsToDays(t *testing.T) {
	r, err := ResolveRange("", "2024-01-02T15:04:05Z", "2024-01-02T18:00:00Z", time.Now())
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), r.Start)
	require.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), r.End)
}

func TestResolveRangeRejectsBadInput(t *testing.T) {
	now := time.Now()

	_, err := ResolveRange("", "2024-01-02", "", now)
	require.Error(t, err)

	_, err = ResolveRange("", "bogus", "2024-01-31", now)
	require.Error(t, err)

	_, err = ResolveRange("", "2024-02-01", "2024-01-31", now)
	require.Error(t, err)

	_, err = ResolveRange("5Y", "", "", now)
	require.Error(t, err)
}
