package batch

import (
	"os"

	"nanogen/core"
)

// Item is a single unit of work in a batch run: one prompt, one output
// file, and optional per-item overrides of the run's generation settings.
// Items are immutable once submitted.
type Item struct {
	// Prompt is the text description of the image (required).
	Prompt string

	// OutputPath is where the generated image is written (required).
	OutputPath string

	// Model overrides the provider's model for this item when non-empty.
	Model string

	// AspectRatio overrides the run's aspect ratio when non-empty.
	AspectRatio core.AspectRatio
}

// outputExists reports whether the item's output file is already present.
// Used for skip-existing semantics; a stat error other than non-existence is
// treated as absent so the item still gets generated.
func (it Item) outputExists() bool {
	info, err := os.Stat(it.OutputPath)
	return err == nil && !info.IsDir()
}
