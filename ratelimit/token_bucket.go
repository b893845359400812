package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultPollInterval is how often a blocked Acquire re-checks the bucket.
const DefaultPollInterval = 100 * time.Millisecond

// RPMLimiter is a token bucket rate limiter for requests per minute.
//
// The bucket starts full and refills continuously: capacity is a float64 so
// fractional tokens accumulate between polls, but Acquire only consumes whole
// units. Capacity never exceeds the configured per-minute rate, which bounds
// the burst size to one minute's worth of requests.
//
// Thread-Safety: all refill-and-consume steps run under a single mutex, so
// concurrent callers can never both observe and consume the same fractional
// token. The mutex is never held across a sleep.
type RPMLimiter struct {
	mu           sync.Mutex
	capacity     float64
	maxPerMinute float64
	lastRefill   time.Time
	pollInterval time.Duration
}

// NewRPMLimiter creates a limiter that admits at most maxPerMinute requests
// per minute. Returns an error if maxPerMinute is not positive.
func NewRPMLimiter(maxPerMinute int) (*RPMLimiter, error) {
	if maxPerMinute <= 0 {
		return nil, fmt.Errorf("ratelimit: maxPerMinute must be positive, got %d", maxPerMinute)
	}
	return &RPMLimiter{
		capacity:     float64(maxPerMinute),
		maxPerMinute: float64(maxPerMinute),
		lastRefill:   time.Now(),
		pollInterval: DefaultPollInterval,
	}, nil
}

// Acquire blocks until one unit of capacity is available, then atomically
// consumes it. There is no maximum wait; the only early exit is cancellation
// of ctx, in which case ctx.Err() is returned and nothing is consumed.
func (l *RPMLimiter) Acquire(ctx context.Context) error {
	for {
		l.mu.Lock()
		l.refillLocked()
		if l.capacity >= 1.0 {
			l.capacity -= 1.0
			l.mu.Unlock()
			return nil
		}
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.pollInterval):
		}
	}
}

// Available returns the capacity that would be available right now,
// including refill since the last acquire. Advisory only; by the time the
// caller acts on it another goroutine may have consumed tokens.
func (l *RPMLimiter) Available() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	elapsed := time.Since(l.lastRefill)
	available := l.capacity + l.maxPerMinute*elapsed.Seconds()/60.0
	if available > l.maxPerMinute {
		available = l.maxPerMinute
	}
	return available
}

// refillLocked replenishes capacity based on time elapsed since the last
// refill. Caller must hold l.mu.
func (l *RPMLimiter) refillLocked() {
	now := time.Now()
	elapsed := now.Sub(l.lastRefill)
	l.capacity += l.maxPerMinute * elapsed.Seconds() / 60.0
	if l.capacity > l.maxPerMinute {
		l.capacity = l.maxPerMinute
	}
	l.lastRefill = now
}
