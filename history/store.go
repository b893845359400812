package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"nanogen/batch"
	"nanogen/logging"
)

// GenerationRecord is one row of the generations ledger. Every item that
// reaches a terminal state during a batch run produces exactly one record.
type GenerationRecord struct {
	ID           int64     // Auto-incremented primary key
	RunID        string    // Identifier shared by every item in one batch run
	Prompt       string    // Full prompt sent to the provider
	OutputPath   string    // Where the image was (or would have been) written
	Status       string    // "success", "failed", or "skipped"
	Model        string    // Model that produced the image, empty when none ran
	Width        int       // Image width in pixels, 0 when no image was produced
	Height       int       // Image height in pixels
	DurationMS   int       // Provider call duration in milliseconds
	Attempts     int       // Generation attempts consumed
	ErrorMessage string    // Failure reason, empty on success
	CreatedAt    time.Time // Timestamp when the record was written
}

// Store is the generation-history ledger backed by SQLite.
//
// Writes go through a background queue so recording an outcome never blocks
// a generation worker. Reads are synchronous.
//
// A nil *Store is valid and turns every method into a no-op, which is how
// the rest of the program treats a disabled ledger.
type Store struct {
	db     *sql.DB
	writer *asyncWriter
	logger *logging.Logger
}

// Open opens (creating if necessary) the ledger at dbPath, applies pending
// schema migrations, and starts the background insert queue.
//
// The caller owns the returned Store and must Close it to flush pending
// inserts.
func Open(dbPath string, logger *logging.Logger) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("history database path is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	// Migrations run on their own connection; the migrator closes it.
	if err := migrateUp(dbPath); err != nil {
		return nil, fmt.Errorf("history migration failed: %w", err)
	}

	db, err := openConnection(DefaultConnectionConfig(dbPath))
	if err != nil {
		return nil, err
	}

	store := &Store{
		db:     db,
		logger: logger.Named("history"),
	}
	store.writer = newAsyncWriter(store.insert, DefaultQueueCapacity)
	store.writer.start()

	return store, nil
}

// Record implements batch.Recorder. It converts the outcome to a ledger row
// and queues it for background insertion. If the queue is full the record is
// dropped with a warning rather than stalling the caller.
func (s *Store) Record(outcome batch.Outcome) {
	if s == nil {
		return
	}

	record := GenerationRecord{
		RunID:        outcome.RunID,
		Prompt:       outcome.Prompt,
		OutputPath:   outcome.OutputPath,
		Status:       outcome.Status,
		Model:        outcome.Model,
		Width:        outcome.Width,
		Height:       outcome.Height,
		DurationMS:   int(outcome.Duration.Milliseconds()),
		Attempts:     outcome.Attempts,
		ErrorMessage: outcome.Error,
	}

	if !s.writer.enqueue(record) {
		s.logger.Warnw("history queue full, outcome dropped",
			"output", outcome.OutputPath,
			"status", outcome.Status,
		)
	}
}

// insert performs the actual ledger write. It runs on the writer goroutine.
func (s *Store) insert(record GenerationRecord) error {
	query := `
		INSERT INTO generations (
			run_id, prompt, output_path, status, model,
			width, height, duration_ms, attempts, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.Exec(query,
		record.RunID,
		record.Prompt,
		record.OutputPath,
		record.Status,
		record.Model,
		record.Width,
		record.Height,
		record.DurationMS,
		record.Attempts,
		record.ErrorMessage,
	)
	if err != nil {
		s.logger.Errorw("failed to insert generation record",
			"output", record.OutputPath,
			"error", err,
		)
		return err
	}
	return nil
}

// Recent retrieves the most recent ledger records, newest first.
// A non-positive limit defaults to 10.
func (s *Store) Recent(ctx context.Context, limit int) ([]GenerationRecord, error) {
	if s == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, run_id, prompt, output_path, status,
			   COALESCE(model, ''), width, height, duration_ms, attempts,
			   COALESCE(error_message, ''), created_at
		FROM generations
		ORDER BY created_at DESC, id DESC
		LIMIT ?`

	return s.queryRecords(ctx, query, limit)
}

// ByRun retrieves every record written under the given run ID, newest first.
func (s *Store) ByRun(ctx context.Context, runID string) ([]GenerationRecord, error) {
	if s == nil {
		return nil, nil
	}

	query := `
		SELECT id, run_id, prompt, output_path, status,
			   COALESCE(model, ''), width, height, duration_ms, attempts,
			   COALESCE(error_message, ''), created_at
		FROM generations
		WHERE run_id = ?
		ORDER BY created_at DESC, id DESC`

	return s.queryRecords(ctx, query, runID)
}

func (s *Store) queryRecords(ctx context.Context, query string, args ...interface{}) ([]GenerationRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query generations: %w", err)
	}
	defer rows.Close()

	var records []GenerationRecord
	for rows.Next() {
		var rec GenerationRecord
		var createdAt string

		err := rows.Scan(
			&rec.ID,
			&rec.RunID,
			&rec.Prompt,
			&rec.OutputPath,
			&rec.Status,
			&rec.Model,
			&rec.Width,
			&rec.Height,
			&rec.DurationMS,
			&rec.Attempts,
			&rec.ErrorMessage,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan generation row: %w", err)
		}

		// Parse SQLite datetime
		rec.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdAt)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating generation rows: %w", err)
	}

	return records, nil
}

// Pending returns the number of outcomes queued but not yet written.
func (s *Store) Pending() int {
	if s == nil {
		return 0
	}
	return s.writer.pending()
}

// Close drains the insert queue and closes the database. It waits at most
// DefaultDrainTimeout for pending inserts.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}

	if !s.writer.stopWithTimeout(DefaultDrainTimeout) {
		s.logger.Warn("history drain timed out, some outcomes may be lost")
	}
	return s.db.Close()
}
