package ratelimit

import (
	"context"
	"fmt"
	"sync"

	"nanogen/logging"

	"go.uber.org/zap"
)

// GrowthThreshold is the number of consecutive successes required before the
// window grows by one permit.
const GrowthThreshold = 10

// ShrinkStep is how many permits the window loses on each rate-limit report.
const ShrinkStep = 2

// AdaptiveLimiter is a resizable counting permit pool that bounds
// simultaneous in-flight requests.
//
// The pool tracks a logical target size separately from the number of permits
// physically in circulation, and converges the latter toward the former:
//
//   - ReportSuccess grows the target by 1 every GrowthThreshold consecutive
//     successes (capped at the maximum) and injects one new permit.
//   - ReportRateLimited shrinks the target by ShrinkStep (floored at the
//     minimum), resets the success streak, and immediately reclaims as many
//     currently-available permits as it can without blocking. Permits held by
//     in-flight callers are reclaimed lazily: Release retires a permit
//     instead of recirculating it while the pool is over its target.
//
// Invariant: min <= target <= max at all times.
//
// Thread-Safety: all size and streak mutations happen under one mutex.
// Acquire waits on a buffered channel and never blocks other operations.
type AdaptiveLimiter struct {
	mu sync.Mutex

	// permits holds the currently-available permits. Capacity is the
	// maximum window size, so injecting a permit never blocks.
	permits chan struct{}

	target      int // logical window size
	circulating int // permits in existence: available + held
	minSize     int
	maxSize     int
	streak      int // consecutive successes since the last rate limit

	logger *logging.Logger
}

// NewAdaptiveLimiter creates a permit pool with the given initial, minimum,
// and maximum window sizes. The logger receives resize events; pass
// logging.NewNopLogger() to discard them.
//
// Returns an error unless 1 <= min <= initial <= max.
func NewAdaptiveLimiter(initial, min, max int, logger *logging.Logger) (*AdaptiveLimiter, error) {
	if min < 1 || initial < min || max < initial {
		return nil, fmt.Errorf("ratelimit: invalid window bounds (initial=%d, min=%d, max=%d)", initial, min, max)
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	l := &AdaptiveLimiter{
		permits:     make(chan struct{}, max),
		target:      initial,
		circulating: initial,
		minSize:     min,
		maxSize:     max,
		logger:      logger.Named("ratelimit"),
	}
	for i := 0; i < initial; i++ {
		l.permits <- struct{}{}
	}
	return l, nil
}

// Acquire blocks until a permit is available or ctx is cancelled.
// Every successful Acquire must be paired with exactly one Release.
func (l *AdaptiveLimiter) Acquire(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.permits:
		return nil
	}
}

// Release returns a permit to the pool. If the pool is over its target size
// (a shrink happened while this permit was held), the permit is retired
// instead of recirculated.
func (l *AdaptiveLimiter) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.circulating > l.target {
		l.circulating--
		return
	}
	// circulating <= maxSize == cap(permits), so this never blocks.
	l.permits <- struct{}{}
}

// ReportSuccess records one successful request. Every GrowthThreshold-th
// consecutive success grows the window by one permit, up to the maximum.
func (l *AdaptiveLimiter) ReportSuccess() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.streak++
	if l.streak%GrowthThreshold != 0 {
		return
	}
	if l.target >= l.maxSize {
		return
	}

	old := l.target
	l.target++
	l.circulating++
	l.permits <- struct{}{}

	l.logger.Info("increased concurrency window",
		zap.Int("old_size", old),
		zap.Int("new_size", l.target),
	)
}

// ReportRateLimited records an upstream rate-limit rejection. The window
// shrinks by ShrinkStep (floored at the minimum) and the success streak
// resets. Reclaiming permits is best-effort and non-blocking: only
// currently-available permits are removed now; the rest are retired as
// in-flight callers release them.
func (l *AdaptiveLimiter) ReportRateLimited() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.streak = 0
	if l.target <= l.minSize {
		return
	}

	old := l.target
	l.target = l.target - ShrinkStep
	if l.target < l.minSize {
		l.target = l.minSize
	}

	for l.circulating > l.target {
		select {
		case <-l.permits:
			l.circulating--
		default:
			// Remaining permits are held by in-flight callers;
			// Release retires them once the holders finish.
			l.logger.Warn("decreased concurrency window",
				zap.Int("old_size", old),
				zap.Int("new_size", l.target),
				zap.Int("pending_reclaim", l.circulating-l.target),
			)
			return
		}
	}

	l.logger.Warn("decreased concurrency window",
		zap.Int("old_size", old),
		zap.Int("new_size", l.target),
	)
}

// Current returns the logical window size.
func (l *AdaptiveLimiter) Current() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.target
}

// available returns the number of permits ready for immediate acquisition.
// Test hook.
func (l *AdaptiveLimiter) available() int {
	return len(l.permits)
}
