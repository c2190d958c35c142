package syncutil

import (
	"sync"
	"time"
)

// RateLimitResult is what Allow reports back to the caller. RetryAfter is an
// estimate of when the oldest counted request leaves the window; it is only
// meaningful when Allowed is false.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// RateLimiter is a sliding-window counter keyed by identifier:endpoint. It
// keeps the timestamps of recent requests per key, prunes stamps outside the
// window on every check, and rejects once the count reaches the limit. It
// never returns an error; a rejected check carries a retry-after estimate.
type RateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	hits   map[string][]time.Time
	now    func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		limit:  limit,
		window: window,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
	go rl.sweep()
	return rl
}

// Allow checks and records a request for identifier:endpoint.
func (rl *RateLimiter) Allow(identifier, endpoint string) RateLimitResult {
	key := identifier + ":" + endpoint
	now := rl.now()
	cutoff := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	stamps := rl.hits[key]
	kept := stamps[:0]
	for _, ts := range stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= rl.limit {
		rl.hits[key] = kept
		// A non-positive limit rejects everything; there is no oldest stamp
		// to age out, so the whole window is the estimate.
		retryAfter := rl.window
		if len(kept) > 0 {
			retryAfter = kept[0].Add(rl.window).Sub(now)
		}
		return RateLimitResult{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: retryAfter,
		}
	}

	kept = append(kept, now)
	rl.hits[key] = kept
	return RateLimitResult{
		Allowed:   true,
		Remaining: rl.limit - len(kept),
	}
}

// Reset drops all recorded requests for identifier:endpoint.
func (rl *RateLimiter) Reset(identifier, endpoint string) {
	rl.mu.Lock()
	delete(rl.hits, identifier+":"+endpoint)
	rl.mu.Unlock()
}

// sweep removes keys whose every stamp has aged out, so idle identifiers
// don't accumulate forever.
func (rl *RateLimiter) sweep() {
	for {
		time.Sleep(time.Minute)
		cutoff := rl.now().Add(-rl.window)
		rl.mu.Lock()
		for key, stamps := range rl.hits {
			if len(stamps) == 0 || !stamps[len(stamps)-1].After(cutoff) {
				delete(rl.hits, key)
			}
		}
		rl.mu.Unlock()
	}
}
