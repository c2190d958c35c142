package syncutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestLimiter(limit int, window time.Duration) (*RateLimiter, *time.Time) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rl := &RateLimiter{
		limit:  limit,
		window: window,
		hits:   make(map[string][]time.Time),
		now:    func() time.Time { return now },
	}
	return rl, &now
}

func TestRateLimiterRejectsOverLimit(t *testing.T) {
	rl, _ := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		res := rl.Allow("user:1", "POST /api/transactions")
		require.True(t, res.Allowed, "call %d should pass", i+1)
	}

	res := rl.Allow("user:1", "POST /api/transactions")
	require.False(t, res.Allowed)
	require.Equal(t, 0, res.Remaining)
	require.Equal(t, time.Minute, res.RetryAfter)
}

func TestRateLimiterWindowSlides(t *testing.T) {
	rl, now := newTestLimiter(2, time.Minute)

	require.True(t, rl.Allow("u", "e").Allowed)
	require.True(t, rl.Allow("u", "e").Allowed)
	require.False(t, rl.Allow("u", "e").Allowed)

	// Once the window has elapsed the old stamps are pruned and calls pass
	// again.
	*now = now.Add(time.Minute + time.Second)
	require.True(t, rl.Allow("u", "e").Allowed)
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	rl, _ := newTestLimiter(1, time.Minute)

	require.True(t, rl.Allow("user:1", "a").Allowed)
	require.False(t, rl.Allow("user:1", "a").Allowed)

	// Different endpoint, different identifier: both unaffected.
	require.True(t, rl.Allow("user:1", "b").Allowed)
	require.True(t, rl.Allow("user:2", "a").Allowed)
}

func TestRateLimiterRetryAfterShrinks(t *testing.T) {
	rl, now := newTestLimiter(1, time.Minute)

	require.True(t, rl.Allow("u", "e").Allowed)
	*now = now.Add(40 * time.Second)
	res := rl.Allow("u", "e")
	require.False(t, res.Allowed)
	require.Equal(t, 20*time.Second, res.RetryAfter)
}

func TestRateLimiterZeroLimitRejectsWithoutPanic(t *testing.T) {
	rl, _ := newTestLimiter(0, time.Minute)

	res := rl.Allow("u", "e")
	require.False(t, res.Allowed)
	require.Equal(t, 0, res.Remaining)
	require.Equal(t, time.Minute, res.RetryAfter)

	// Stays rejected on repeat calls, still no panic.
	require.False(t, rl.Allow("u", "e").Allowed)
}

func TestRateLimiterReset(t *testing.T) {
	rl, _ := newTestLimiter(1, time.Minute)

	require.True(t, rl.Allow("u", "e").Allowed)
	require.False(t, rl.Allow("u", "e").Allowed)
	rl.Reset("u", "e")
	require.True(t, rl.Allow("u", "e").Allowed)
}
