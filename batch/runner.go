package batch

import (
	"context"
	"sync"
	"time"

	"nanogen/core"
	"nanogen/imagegen"
	"nanogen/logging"
	"nanogen/ratelimit"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Window sizing constants for the shared adaptive limiter.
const (
	// MinWindow is the floor the concurrency window can shrink to.
	MinWindow = 2

	// InitialWindowCap bounds the starting window size: runs start
	// conservative even when the caller allows more concurrency.
	InitialWindowCap = 8
)

// DefaultBaseDelay is the first retry backoff; it doubles per attempt.
const DefaultBaseDelay = 2 * time.Second

// DefaultMaxRetries is the attempt budget per item.
const DefaultMaxRetries = 5

// Options configures a batch run.
type Options struct {
	// MaxConcurrent is the ceiling of the adaptive concurrency window.
	MaxConcurrent int

	// RPMLimit is the requests-per-minute ceiling shared by all items.
	RPMLimit int

	// MaxRetries is the attempt budget per item for retryable failures.
	// Zero uses DefaultMaxRetries.
	MaxRetries int

	// BaseDelay is the first backoff delay. Zero uses DefaultBaseDelay.
	BaseDelay time.Duration

	// SkipExisting skips items whose output file already exists.
	SkipExisting bool
}

// Runner coordinates one or more batch runs against a single provider.
//
// Thread-Safety: Runner is safe for concurrent use; every Run constructs its
// own limiters and counters, so runs do not interfere with each other.
type Runner struct {
	provider imagegen.Provider
	opts     Options
	logger   *logging.Logger
	recorder Recorder
}

// NewRunner creates a batch runner.
//
// Parameters:
//   - provider: the generation backend (required)
//   - opts: throttling and retry configuration
//   - logger: structured logger; nil discards
//   - recorder: terminal-outcome sink; nil disables recording
func NewRunner(provider imagegen.Provider, opts Options, logger *logging.Logger, recorder Recorder) (*Runner, error) {
	if provider == nil {
		return nil, core.NewGenerationError("batch: provider cannot be nil", nil)
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 1
	}
	if opts.RPMLimit < 1 {
		opts.RPMLimit = 1
	}
	if opts.MaxRetries < 1 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = DefaultBaseDelay
	}

	return &Runner{
		provider: provider,
		opts:     opts,
		logger:   logger.Named("batch"),
		recorder: recorder,
	}, nil
}

// Run generates all items concurrently, throttled by a shared adaptive
// concurrency window and a shared RPM token bucket.
//
// The returned results preserve the submission order of items, with skipped
// and failed items absent. Stats counts every item exactly once; a single
// item's failure never aborts its siblings. Cancelling ctx stops all pending
// work and is reported as the returned error; items already in a terminal
// state keep their counts.
func (r *Runner) Run(ctx context.Context, items []Item) ([]imagegen.Result, Stats, error) {
	initial := r.opts.MaxConcurrent
	if initial > InitialWindowCap {
		initial = InitialWindowCap
	}
	minWindow := MinWindow
	if minWindow > r.opts.MaxConcurrent {
		minWindow = r.opts.MaxConcurrent
	}

	window, err := ratelimit.NewAdaptiveLimiter(initial, minWindow, r.opts.MaxConcurrent, r.logger)
	if err != nil {
		return nil, Stats{}, err
	}
	bucket, err := ratelimit.NewRPMLimiter(r.opts.RPMLimit)
	if err != nil {
		return nil, Stats{}, err
	}

	runID := uuid.NewString()
	logger := r.logger.With(zap.String("run_id", runID))
	logger.Info("batch started",
		zap.Int("items", len(items)),
		zap.Int("max_concurrent", r.opts.MaxConcurrent),
		zap.Int("initial_window", initial),
		zap.Int("rpm_limit", r.opts.RPMLimit),
		zap.Bool("skip_existing", r.opts.SkipExisting),
	)

	counters := &runCounters{}
	slots := make([]*imagegen.Result, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(idx int, it Item) {
			defer wg.Done()
			slots[idx] = r.processItem(ctx, runID, it, window, bucket, counters, logger)
		}(i, item)
	}
	wg.Wait()

	results := make([]imagegen.Result, 0, len(items))
	for _, result := range slots {
		if result != nil {
			results = append(results, *result)
		}
	}

	stats := counters.snapshot(len(items))
	logger.Info("batch complete",
		zap.Int("total", stats.Total),
		zap.Int("successful", stats.Successful),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
		zap.Int("rate_limited", stats.RateLimited),
	)

	return results, stats, ctx.Err()
}

// processItem is the per-item retry loop. It drives the item from pending to
// exactly one terminal state and increments exactly one of the successful,
// failed, or skipped counters.
func (r *Runner) processItem(ctx context.Context, runID string, item Item, window *ratelimit.AdaptiveLimiter, bucket *ratelimit.RPMLimiter, counters *runCounters, logger *logging.Logger) *imagegen.Result {
	if r.opts.SkipExisting && item.outputExists() {
		counters.skipped.Add(1)
		logger.Info("skipped, output exists", zap.String("output", item.OutputPath))
		r.record(Outcome{
			RunID:      runID,
			Prompt:     item.Prompt,
			OutputPath: item.OutputPath,
			Status:     StatusSkipped,
		})
		return nil
	}

	req := imagegen.Request{
		Prompt:      item.Prompt,
		OutputPath:  item.OutputPath,
		Model:       item.Model,
		AspectRatio: item.AspectRatio,
	}

	for attempt := 0; attempt < r.opts.MaxRetries; attempt++ {
		// Concurrency admission gates rate admission: take a window
		// permit first, then a token.
		if err := window.Acquire(ctx); err != nil {
			return r.fail(runID, item, attempt, err, counters, logger)
		}
		if err := bucket.Acquire(ctx); err != nil {
			window.Release()
			return r.fail(runID, item, attempt, err, counters, logger)
		}

		result, err := r.provider.Generate(ctx, req)
		if err == nil {
			counters.successful.Add(1)
			window.ReportSuccess()
			window.Release()
			logger.Info("generated",
				zap.String("output", result.Path),
				zap.Int("width", result.Width),
				zap.Int("height", result.Height),
				zap.Duration("duration", result.Duration),
			)
			r.record(Outcome{
				RunID:      runID,
				Prompt:     item.Prompt,
				OutputPath: item.OutputPath,
				Status:     StatusSuccess,
				Model:      result.Model,
				Width:      result.Width,
				Height:     result.Height,
				Duration:   result.Duration,
				Attempts:   attempt + 1,
			})
			return result
		}

		switch core.ClassifyError(err) {
		case core.KindRateLimited:
			counters.rateLimited.Add(1)
			window.ReportRateLimited()
			window.Release()
			delay := backoffDelay(r.opts.BaseDelay, attempt)
			logger.Warn("rate limited",
				zap.String("output", item.OutputPath),
				zap.Int("attempt", attempt+1),
				zap.Int("max_retries", r.opts.MaxRetries),
				zap.Duration("backoff", delay),
			)
			if !sleepContext(ctx, delay) {
				return r.fail(runID, item, attempt+1, ctx.Err(), counters, logger)
			}

		case core.KindServiceOverloaded:
			window.Release()
			delay := backoffDelay(r.opts.BaseDelay, attempt)
			logger.Warn("service overloaded",
				zap.String("output", item.OutputPath),
				zap.Int("attempt", attempt+1),
				zap.Int("max_retries", r.opts.MaxRetries),
				zap.Duration("backoff", delay),
			)
			if !sleepContext(ctx, delay) {
				return r.fail(runID, item, attempt+1, ctx.Err(), counters, logger)
			}

		default:
			window.Release()
			return r.fail(runID, item, attempt+1, err, counters, logger)
		}
	}

	// Retry budget exhausted; counted identically to an immediate failure.
	counters.failed.Add(1)
	logger.Error("failed after exhausting retries",
		zap.String("output", item.OutputPath),
		zap.Int("attempts", r.opts.MaxRetries),
	)
	r.record(Outcome{
		RunID:      runID,
		Prompt:     item.Prompt,
		OutputPath: item.OutputPath,
		Status:     StatusFailed,
		Attempts:   r.opts.MaxRetries,
		Error:      "retry budget exhausted",
	})
	return nil
}

// fail marks the item terminally failed.
func (r *Runner) fail(runID string, item Item, attempts int, err error, counters *runCounters, logger *logging.Logger) *imagegen.Result {
	counters.failed.Add(1)
	logger.Error("failed",
		zap.String("output", item.OutputPath),
		zap.Int("attempts", attempts),
		zap.Error(err),
	)
	message := ""
	if err != nil {
		message = err.Error()
	}
	r.record(Outcome{
		RunID:      runID,
		Prompt:     item.Prompt,
		OutputPath: item.OutputPath,
		Status:     StatusFailed,
		Attempts:   attempts,
		Error:      message,
	})
	return nil
}

// record forwards an outcome to the recorder when one is configured.
func (r *Runner) record(outcome Outcome) {
	if r.recorder != nil {
		r.recorder.Record(outcome)
	}
}

// backoffDelay computes base * 2^attempt.
func backoffDelay(base time.Duration, attempt int) time.Duration {
	return base << uint(attempt)
}

// sleepContext sleeps for d unless ctx is cancelled first.
// Returns false on cancellation.
func sleepContext(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
