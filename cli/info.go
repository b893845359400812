package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"nanogen/core"
)

func newAspectRatiosCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "aspect-ratios",
		Aliases: []string{"aspects"},
		Short:   "List the supported aspect ratios",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printHeader("Supported aspect ratios")
			for _, ratio := range core.AspectRatios() {
				marker := " "
				if ratio == core.DefaultAspectRatio {
					marker = "*"
				}
				fmt.Printf("  %s %-6s %s\n", marker, ratio, ratio.Name())
			}
			fmt.Println("\n  * default")
		},
	}
}

func newInfoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the active configuration",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := app.Config

			printHeader("Provider")
			printField("Provider", cfg.Provider)
			printField("Model", cfg.DefaultModel())
			switch cfg.Provider {
			case core.ProviderGemini:
				printField("API key", maskKey(cfg.GoogleAPIKey))
			case core.ProviderOpenAI:
				printField("API key", maskKey(cfg.OpenAIAPIKey))
			}

			fmt.Println()
			printHeader("Throttling")
			printField("Max concurrent", cfg.MaxConcurrent)
			printField("RPM limit", cfg.RPMLimit)
			printField("Max retries", cfg.MaxRetries)
			printField("Base delay", cfg.RetryBaseDelay)

			fmt.Println()
			printHeader("Paths")
			printField("Output dir", cfg.OutputDir)
			printField("Profiles dir", cfg.ProfilesDir)
			if cfg.HistoryDB != "" {
				printField("History DB", cfg.HistoryDB)
			} else {
				printField("History DB", "(disabled)")
			}
			printField("Log file", cfg.LogFile)
		},
	}
}

// maskKey shows enough of an API key to recognize it without leaking it.
func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
