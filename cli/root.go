package cli

import (
	"github.com/spf13/cobra"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

func newRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nanogen",
		Short: "Throttled batch image generation for Gemini and OpenAI",
		Long: `nanogen generates images from text prompts through Gemini or OpenAI,
with adaptive concurrency and request-rate throttling tuned for batch work.

Configuration comes from the environment (a .env file is honored):
set GOOGLE_API_KEY or OPENAI_API_KEY and pick a provider with
NANOGEN_PROVIDER.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newGenerateCmd(app),
		newBatchCmd(app),
		newProfilesCmd(app),
		newAspectRatiosCmd(),
		newInfoCmd(app),
		newTestCmd(app),
		newHistoryCmd(app),
	)

	return rootCmd
}
