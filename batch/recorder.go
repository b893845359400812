package batch

import (
	"time"
)

// Outcome statuses recorded for terminal item states.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Outcome is the terminal state of one batch item, emitted once per item.
type Outcome struct {
	RunID      string        // Batch run this item belonged to
	Prompt     string        // The item's prompt (before profile styling)
	OutputPath string        // The item's output target
	Status     string        // StatusSuccess, StatusFailed, or StatusSkipped
	Model      string        // Model used, when known
	Width      int           // Image width on success
	Height     int           // Image height on success
	Duration   time.Duration // Generation time on success
	Attempts   int           // Attempts consumed (0 for skipped items)
	Error      string        // Failure description, empty otherwise
}

// Recorder receives terminal outcomes, e.g. to persist a generation ledger.
// Implementations must not block: the Runner calls Record from item
// goroutines. A nil Recorder on the Runner disables recording.
type Recorder interface {
	Record(outcome Outcome)
}
