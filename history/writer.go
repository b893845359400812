package history

import (
	"context"
	"sync"
	"time"
)

// DefaultQueueCapacity is the default buffer size for the pending-insert queue.
const DefaultQueueCapacity = 100

// DefaultDrainTimeout is the maximum time to wait for pending inserts during
// shutdown.
const DefaultDrainTimeout = 30 * time.Second

// insertHandler processes one queued record. Implementations handle their
// own error logging.
type insertHandler func(record GenerationRecord) error

// asyncWriter serializes ledger inserts through a buffered channel and a
// single background goroutine. Producers never block: if the queue is full
// the record is dropped, which keeps ledger hiccups from slowing down the
// generation pipeline.
type asyncWriter struct {
	queue   chan GenerationRecord
	handler insertHandler
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	mu      sync.Mutex
}

func newAsyncWriter(handler insertHandler, capacity int) *asyncWriter {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &asyncWriter{
		queue:   make(chan GenerationRecord, capacity),
		handler: handler,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// start launches the background goroutine. Safe to call more than once.
func (w *asyncWriter) start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return
	}

	w.started = true
	w.wg.Add(1)
	go w.processInserts()
}

func (w *asyncWriter) processInserts() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			// Drain whatever is still buffered before exiting.
			w.drain()
			return
		case record, ok := <-w.queue:
			if !ok {
				return
			}
			_ = w.handler(record)
		}
	}
}

// drain processes any remaining records in the buffer without blocking.
func (w *asyncWriter) drain() {
	for {
		select {
		case record, ok := <-w.queue:
			if !ok {
				return
			}
			_ = w.handler(record)
		default:
			return
		}
	}
}

// enqueue queues a record for background insertion.
// Returns false if the queue is full; the record is dropped in that case.
func (w *asyncWriter) enqueue(record GenerationRecord) bool {
	select {
	case w.queue <- record:
		return true
	default:
		return false
	}
}

// pending returns the number of records waiting in the buffer.
func (w *asyncWriter) pending() int {
	return len(w.queue)
}

// stopWithTimeout signals the goroutine to stop and waits for the drain.
// Returns true if stopped gracefully, false if the timeout elapsed first.
func (w *asyncWriter) stopWithTimeout(timeout time.Duration) bool {
	w.cancel()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
