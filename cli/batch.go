package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"nanogen/batch"
	"nanogen/core"
)

// promptEntry is one element of a batch prompts file. The file is a JSON
// array whose elements are either bare strings or objects:
//
//	[
//	  "a watercolor fox",
//	  {"prompt": "city skyline at dusk", "output": "skyline.png", "aspect_ratio": "16:9"}
//	]
type promptEntry struct {
	Prompt      string `json:"prompt"`
	Output      string `json:"output,omitempty"`
	Model       string `json:"model,omitempty"`
	AspectRatio string `json:"aspect_ratio,omitempty"`
}

// UnmarshalJSON accepts both the string and the object form.
func (e *promptEntry) UnmarshalJSON(data []byte) error {
	var prompt string
	if err := json.Unmarshal(data, &prompt); err == nil {
		e.Prompt = prompt
		return nil
	}

	type plain promptEntry
	return json.Unmarshal(data, (*plain)(e))
}

// loadPromptsFile reads and validates a batch prompts file.
func loadPromptsFile(path string) ([]promptEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompts file: %w", err)
	}

	var entries []promptEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse prompts file %s: %w", path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("prompts file %s contains no prompts", path)
	}
	for i, entry := range entries {
		if entry.Prompt == "" {
			return nil, fmt.Errorf("prompts file %s: entry %d has no prompt", path, i)
		}
	}

	return entries, nil
}

// buildItems converts prompt entries into batch items, filling in default
// output names (image_0000.png, image_0001.png, ...) and applying the
// resolved settings. Per-entry fields override the resolved defaults.
func buildItems(entries []promptEntry, outputDir string, settings *promptSettings) ([]batch.Item, error) {
	items := make([]batch.Item, len(entries))
	for i, entry := range entries {
		output := entry.Output
		if output == "" {
			output = fmt.Sprintf("image_%04d.png", i)
		}
		if !filepath.IsAbs(output) {
			output = filepath.Join(outputDir, output)
		}

		model := settings.model
		if entry.Model != "" {
			model = entry.Model
		}

		ratio := settings.aspectRatio
		if entry.AspectRatio != "" {
			parsed, err := core.ParseAspectRatio(entry.AspectRatio)
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", i, err)
			}
			ratio = parsed
		}

		items[i] = batch.Item{
			Prompt:      settings.applyStyle(entry.Prompt),
			OutputPath:  output,
			Model:       model,
			AspectRatio: ratio,
		}
	}
	return items, nil
}

func newBatchCmd(app *App) *cobra.Command {
	var (
		outputDirFlag   string
		profileFlag     string
		modelFlag       string
		ratioFlag       string
		concurrencyFlag int
		rpmFlag         int
		skipFlag        bool
	)

	batchCmd := &cobra.Command{
		Use:   "batch <prompts-file>",
		Short: "Generate images for every prompt in a JSON file",
		Long: `Reads a JSON array of prompts and generates all of them concurrently,
adapting the concurrency window to provider throttling and retrying
rate-limited requests with exponential backoff.

Each array element is either a prompt string or an object with "prompt"
and optional "output", "model", and "aspect_ratio" fields. Outputs
without an explicit name are numbered image_0000.png, image_0001.png
and so on inside the output directory.`,
		Example: `  nanogen batch prompts.json
  nanogen batch prompts.json --profile comic-panel --skip-existing
  nanogen batch prompts.json -d ./renders -c 8 -r 30`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			entries, err := loadPromptsFile(args[0])
			if err != nil {
				return err
			}

			settings, err := resolveSettings(app, profileFlag, modelFlag, ratioFlag)
			if err != nil {
				return err
			}

			outputDir := outputDirFlag
			if outputDir == "" {
				outputDir = app.Config.OutputDir
			}

			items, err := buildItems(entries, outputDir, settings)
			if err != nil {
				return err
			}

			maxConcurrent := app.Config.MaxConcurrent
			if concurrencyFlag > 0 {
				maxConcurrent = concurrencyFlag
			}
			rpm := app.Config.RPMLimit
			if rpmFlag > 0 {
				rpm = rpmFlag
			}

			provider, cleanup, err := newProvider(ctx, app, settings.model)
			if err != nil {
				return err
			}
			defer cleanup()

			runner, err := batch.NewRunner(provider, batch.Options{
				MaxConcurrent: maxConcurrent,
				RPMLimit:      rpm,
				MaxRetries:    app.Config.MaxRetries,
				BaseDelay:     app.Config.RetryBaseDelay,
				SkipExisting:  skipFlag,
			}, app.Logger, app.Store)
			if err != nil {
				return err
			}

			printHeader("Generating %d images (window up to %d, %d rpm)", len(items), maxConcurrent, rpm)

			results, stats, runErr := runner.Run(ctx, items)

			fmt.Println()
			printHeader("Batch summary")
			printField("Total", stats.Total)
			printField("Successful", stats.Successful)
			printField("Failed", stats.Failed)
			printField("Skipped", stats.Skipped)
			printField("Rate limited", stats.RateLimited)

			for _, result := range results {
				printSuccess("%s (%dx%d)", result.Path, result.Width, result.Height)
			}
			if stats.Failed > 0 {
				printWarn("%d prompts failed; see the log for details", stats.Failed)
			}

			if runErr != nil {
				return runErr
			}
			if stats.Failed > 0 {
				return &exitPartialError{failed: stats.Failed}
			}
			return nil
		},
	}

	batchCmd.Flags().StringVarP(&outputDirFlag, "output-dir", "d", "", "directory for generated images (default: configured output dir)")
	batchCmd.Flags().StringVarP(&profileFlag, "profile", "p", "", "generation profile to apply")
	batchCmd.Flags().StringVarP(&modelFlag, "model", "m", "", "model ID (default: provider default)")
	batchCmd.Flags().StringVarP(&ratioFlag, "aspect-ratio", "a", "", "aspect ratio, e.g. 2:3 or landscape")
	batchCmd.Flags().IntVarP(&concurrencyFlag, "concurrency", "c", 0, "max concurrent generations (default: configured limit)")
	batchCmd.Flags().IntVarP(&rpmFlag, "rpm", "r", 0, "requests-per-minute ceiling (default: configured limit)")
	batchCmd.Flags().BoolVar(&skipFlag, "skip-existing", false, "skip prompts whose output file already exists")

	return batchCmd
}

// exitPartialError signals that the batch finished but some items failed.
// main maps it to a distinct exit code.
type exitPartialError struct {
	failed int
}

func (e *exitPartialError) Error() string {
	return fmt.Sprintf("%d of the batch items failed", e.failed)
}
