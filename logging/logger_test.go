package logging

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// syncBuffer is a bytes.Buffer that satisfies zapcore.WriteSyncer.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Sync() error { return nil }

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestTestLogger_WritesStructuredFields(t *testing.T) {
	buf := &syncBuffer{}
	logger := NewTestLogger(buf)

	logger.Info("window resized",
		zap.Int("old_size", 8),
		zap.Int("new_size", 9),
	)

	out := buf.String()
	if !strings.Contains(out, "window resized") {
		t.Errorf("log output missing message: %q", out)
	}
	if !strings.Contains(out, "8") || !strings.Contains(out, "9") {
		t.Errorf("log output missing field values: %q", out)
	}
}

func TestLogger_Named(t *testing.T) {
	buf := &syncBuffer{}
	logger := NewTestLogger(buf).Named("batch").Named("orchestrator")

	logger.Warn("rate limited")

	if !strings.Contains(buf.String(), "batch.orchestrator") {
		t.Errorf("log output missing named path: %q", buf.String())
	}
}

func TestLogger_With(t *testing.T) {
	buf := &syncBuffer{}
	logger := NewTestLogger(buf).With(zap.String("run_id", "abc-123"))

	logger.Info("first")
	logger.Info("second")

	out := buf.String()
	if strings.Count(out, "abc-123") != 2 {
		t.Errorf("run_id field not carried on every entry: %q", out)
	}
}

func TestNopLogger_DoesNotPanic(t *testing.T) {
	logger := NewNopLogger()
	logger.Debug("ignored")
	logger.Info("ignored")
	logger.Warn("ignored")
	logger.Error("ignored")
	logger.Infow("ignored", "k", "v")
	if err := logger.Sync(); err != nil {
		t.Errorf("Sync() error = %v", err)
	}
}

func TestNilLogger_SyncIsSafe(t *testing.T) {
	var logger *Logger
	if err := logger.Sync(); err != nil {
		t.Errorf("Sync() on nil logger error = %v", err)
	}
}

func TestNewMultiCoreWithWriters_TeesOutput(t *testing.T) {
	console := &syncBuffer{}
	file := &syncBuffer{}

	core := NewMultiCoreWithWriters(zapcore.InfoLevel, console, file, false)
	logger := zap.New(core)
	logger.Info("batch complete")

	if !strings.Contains(console.String(), "batch complete") {
		t.Error("console output missing entry")
	}
	if !strings.Contains(file.String(), "batch complete") {
		t.Error("file output missing entry")
	}
	// File output is always JSON
	if !strings.Contains(file.String(), `"`+FieldMessage+`"`) {
		t.Errorf("file output not JSON-encoded: %q", file.String())
	}
}

func TestNewMultiCoreWithWriters_RespectsLevel(t *testing.T) {
	console := &syncBuffer{}
	file := &syncBuffer{}

	core := NewMultiCoreWithWriters(zapcore.InfoLevel, console, file, false)
	logger := zap.New(core)
	logger.Debug("below threshold")

	if console.String() != "" || file.String() != "" {
		t.Error("debug entry emitted despite info level")
	}
}
