package batch

import (
	"sync/atomic"
)

// Stats aggregates the outcome counts of one batch run.
//
// Invariant: Successful+Failed+Skipped == Total once the run completes.
// RateLimited counts rate-limited *attempts*, not items, so a single item
// that was throttled four times before succeeding contributes four.
type Stats struct {
	Total       int
	Successful  int
	Failed      int
	Skipped     int
	RateLimited int
}

// runCounters is the mutable, concurrency-safe backing for Stats.
// Items run concurrently, so every increment is atomic.
type runCounters struct {
	successful  atomic.Int64
	failed      atomic.Int64
	skipped     atomic.Int64
	rateLimited atomic.Int64
}

// snapshot freezes the counters into a Stats value.
func (c *runCounters) snapshot(total int) Stats {
	return Stats{
		Total:       total,
		Successful:  int(c.successful.Load()),
		Failed:      int(c.failed.Load()),
		Skipped:     int(c.skipped.Load()),
		RateLimited: int(c.rateLimited.Load()),
	}
}
