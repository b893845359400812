package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"nanogen/imagegen"
)

func newTestCmd(app *App) *cobra.Command {
	var keepFlag bool

	testCmd := &cobra.Command{
		Use:   "test",
		Short: "Verify provider connectivity with a small test generation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			provider, cleanup, err := newProvider(ctx, app, "")
			if err != nil {
				return err
			}
			defer cleanup()

			output := filepath.Join(app.Config.OutputDir, "nanogen_test.png")
			fmt.Printf("Testing %s with %s...\n", app.Config.Provider, app.Config.DefaultModel())

			result, err := provider.Generate(ctx, imagegen.Request{
				Prompt:     "A simple red circle on a white background",
				OutputPath: output,
			})
			if err != nil {
				printError("provider test failed: %v", err)
				return err
			}

			printSuccess("provider responded in %s (%dx%d image)",
				result.Duration.Round(100*time.Millisecond), result.Width, result.Height)

			if !keepFlag {
				if err := os.Remove(result.Path); err != nil {
					printWarn("could not remove test image %s: %v", result.Path, err)
				}
			} else {
				fmt.Printf("Test image kept at %s\n", result.Path)
			}
			return nil
		},
	}

	testCmd.Flags().BoolVar(&keepFlag, "keep", false, "keep the generated test image")

	return testCmd
}
