package history

import (
	"sync"
	"testing"
	"time"
)

func TestAsyncWriter_ProcessesInOrder(t *testing.T) {
	var mu sync.Mutex
	var seen []string

	writer := newAsyncWriter(func(record GenerationRecord) error {
		mu.Lock()
		seen = append(seen, record.OutputPath)
		mu.Unlock()
		return nil
	}, 10)
	writer.start()

	for _, path := range []string{"a.png", "b.png", "c.png"} {
		if !writer.enqueue(GenerationRecord{OutputPath: path}) {
			t.Fatalf("enqueue(%q) = false, want true", path)
		}
	}

	if !writer.stopWithTimeout(2 * time.Second) {
		t.Fatal("stopWithTimeout() = false, want graceful stop")
	}

	mu.Lock()
	defer mu.Unlock()
	want := []string{"a.png", "b.png", "c.png"}
	if len(seen) != len(want) {
		t.Fatalf("processed %d records, want %d", len(seen), len(want))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("seen[%d] = %q, want %q", i, seen[i], want[i])
		}
	}
}

func TestAsyncWriter_EnqueueDropsWhenFull(t *testing.T) {
	// Handler never runs: the writer is not started, so the queue fills.
	writer := newAsyncWriter(func(record GenerationRecord) error { return nil }, 2)

	if !writer.enqueue(GenerationRecord{}) || !writer.enqueue(GenerationRecord{}) {
		t.Fatal("enqueue failed while queue had capacity")
	}
	if writer.enqueue(GenerationRecord{}) {
		t.Error("enqueue() = true on full queue, want false")
	}
	if got := writer.pending(); got != 2 {
		t.Errorf("pending() = %d, want 2", got)
	}
}

func TestAsyncWriter_StartIsIdempotent(t *testing.T) {
	var mu sync.Mutex
	count := 0

	writer := newAsyncWriter(func(record GenerationRecord) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	}, 10)
	writer.start()
	writer.start()

	writer.enqueue(GenerationRecord{})
	if !writer.stopWithTimeout(2 * time.Second) {
		t.Fatal("stopWithTimeout() = false, want graceful stop")
	}

	mu.Lock()
	defer mu.Unlock()
	if count != 1 {
		t.Errorf("handler ran %d times, want 1", count)
	}
}

func TestAsyncWriter_StopDrainsPending(t *testing.T) {
	var mu sync.Mutex
	count := 0

	writer := newAsyncWriter(func(record GenerationRecord) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	}, 50)

	for i := 0; i < 25; i++ {
		writer.enqueue(GenerationRecord{})
	}
	writer.start()

	if !writer.stopWithTimeout(2 * time.Second) {
		t.Fatal("stopWithTimeout() = false, want graceful stop")
	}

	mu.Lock()
	defer mu.Unlock()
	if count != 25 {
		t.Errorf("handler ran %d times, want 25", count)
	}
}
