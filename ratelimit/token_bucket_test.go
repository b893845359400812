package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewRPMLimiter(t *testing.T) {
	tests := []struct {
		name         string
		maxPerMinute int
		wantErr      bool
	}{
		{"valid rate", 50, false},
		{"rate of one", 1, false},
		{"zero rate fails", 0, true},
		{"negative rate fails", -10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter, err := NewRPMLimiter(tt.maxPerMinute)
			if tt.wantErr {
				if err == nil {
					t.Error("NewRPMLimiter() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewRPMLimiter() error = %v", err)
			}
			if limiter == nil {
				t.Fatal("NewRPMLimiter() returned nil limiter")
			}
		})
	}
}

func TestRPMLimiter_GrantsUpToBurstImmediately(t *testing.T) {
	limiter, err := NewRPMLimiter(10)
	if err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	for i := 0; i < 10; i++ {
		if err := limiter.Acquire(context.Background()); err != nil {
			t.Fatalf("Acquire %d error = %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("10 acquires within burst capacity took %v, want immediate", elapsed)
	}
}

func TestRPMLimiter_BlocksWhenExhausted(t *testing.T) {
	limiter, err := NewRPMLimiter(600) // 10 tokens/second
	if err != nil {
		t.Fatal(err)
	}
	limiter.pollInterval = 5 * time.Millisecond

	// Drain the initial burst capacity.
	for i := 0; i < 600; i++ {
		if err := limiter.Acquire(context.Background()); err != nil {
			t.Fatal(err)
		}
	}

	// The next token needs ~100ms of refill.
	start := time.Now()
	if err := limiter.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	elapsed := time.Since(start)

	if elapsed < 50*time.Millisecond {
		t.Errorf("Acquire on empty bucket returned after %v, want >= 50ms of refill wait", elapsed)
	}
}

func TestRPMLimiter_QuotaNeverExceeded(t *testing.T) {
	limiter, err := NewRPMLimiter(1200) // 20 tokens/second
	if err != nil {
		t.Fatal(err)
	}
	limiter.pollInterval = 5 * time.Millisecond

	// Drain the burst so subsequent grants are refill-paced.
	for i := 0; i < 1200; i++ {
		if err := limiter.Acquire(context.Background()); err != nil {
			t.Fatal(err)
		}
	}

	// Hammer the limiter from several goroutines for a fixed window and
	// count the grants.
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	var granted int64
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if err := limiter.Acquire(ctx); err != nil {
					return
				}
				atomic.AddInt64(&granted, 1)
			}
		}()
	}
	wg.Wait()

	// 20 tokens/second over 300ms is 6 tokens. Allow generous slack for
	// scheduling plus one poll interval, but a serialization bug (two
	// callers consuming the same token) would roughly double the count.
	got := atomic.LoadInt64(&granted)
	if got > 10 {
		t.Errorf("granted %d tokens in 300ms at 20/s, want <= 10", got)
	}
}

func TestRPMLimiter_AcquireRespectsCancellation(t *testing.T) {
	limiter, err := NewRPMLimiter(60) // 1 token/second
	if err != nil {
		t.Fatal(err)
	}
	limiter.pollInterval = 5 * time.Millisecond

	for i := 0; i < 60; i++ {
		if err := limiter.Acquire(context.Background()); err != nil {
			t.Fatal(err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- limiter.Acquire(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Acquire() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Acquire did not return after cancellation")
	}
}

func TestRPMLimiter_FractionalTokensAccumulate(t *testing.T) {
	limiter, err := NewRPMLimiter(600) // 10 tokens/second
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 600; i++ {
		if err := limiter.Acquire(context.Background()); err != nil {
			t.Fatal(err)
		}
	}

	// After draining, available capacity should climb smoothly rather
	// than in whole-token steps.
	time.Sleep(50 * time.Millisecond)
	available := limiter.Available()
	if available <= 0 {
		t.Errorf("Available() = %v after 50ms of refill, want > 0", available)
	}
	if available > 2 {
		t.Errorf("Available() = %v after 50ms at 10/s, want <= 2", available)
	}
}

func TestRPMLimiter_AvailableCapsAtMax(t *testing.T) {
	limiter, err := NewRPMLimiter(50)
	if err != nil {
		t.Fatal(err)
	}

	time.Sleep(10 * time.Millisecond)
	if available := limiter.Available(); available > 50 {
		t.Errorf("Available() = %v, want <= 50", available)
	}
}
