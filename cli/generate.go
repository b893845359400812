package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"nanogen/core"
	"nanogen/imagegen"
	"nanogen/profile"
)

// promptSettings is the resolved set of generation options for a prompt:
// explicit flags win over the profile, which wins over configured defaults.
type promptSettings struct {
	model       string
	aspectRatio core.AspectRatio
	profile     *profile.Profile
}

// resolveSettings merges flags, an optional profile, and config defaults.
func resolveSettings(app *App, profileID, modelFlag, ratioFlag string) (*promptSettings, error) {
	settings := &promptSettings{
		model:       app.Config.DefaultModel(),
		aspectRatio: core.DefaultAspectRatio,
	}

	if profileID != "" {
		p, err := profile.Load(profileID, app.Config.ProfilesDir)
		if err != nil {
			return nil, err
		}
		settings.profile = p
		if p.Config.Model != "" {
			settings.model = p.Config.Model
		}
		ratio, err := p.AspectRatio()
		if err != nil {
			return nil, err
		}
		settings.aspectRatio = ratio
	}

	if modelFlag != "" {
		settings.model = modelFlag
	}
	if ratioFlag != "" {
		ratio, err := core.ParseAspectRatio(ratioFlag)
		if err != nil {
			return nil, err
		}
		settings.aspectRatio = ratio
	}

	return settings, nil
}

// applyStyle runs the prompt through the profile's styling, if any.
func (s *promptSettings) applyStyle(prompt string) string {
	if s.profile == nil {
		return prompt
	}
	return s.profile.FormatPrompt(prompt)
}

func newGenerateCmd(app *App) *cobra.Command {
	var (
		outputFlag  string
		profileFlag string
		modelFlag   string
		ratioFlag   string
	)

	generateCmd := &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Generate a single image from a prompt",
		Example: `  nanogen generate "a watercolor fox in a snowy forest"
  nanogen generate "city skyline at dusk" -o skyline.png -a 16:9
  nanogen generate "hero close-up" --profile comic-panel`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			settings, err := resolveSettings(app, profileFlag, modelFlag, ratioFlag)
			if err != nil {
				return err
			}

			output := outputFlag
			if output == "" {
				output = filepath.Join(app.Config.OutputDir, defaultFileName(args[0]))
			}

			provider, cleanup, err := newProvider(ctx, app, settings.model)
			if err != nil {
				return err
			}
			defer cleanup()

			fmt.Printf("Generating with %s (%s)...\n", settings.model, settings.aspectRatio.Name())

			result, err := provider.Generate(ctx, imagegen.Request{
				Prompt:      settings.applyStyle(args[0]),
				OutputPath:  output,
				Model:       settings.model,
				AspectRatio: settings.aspectRatio,
			})
			if err != nil {
				printError("generation failed: %v", err)
				return err
			}

			printSuccess("%s (%dx%d, %s)", result.Path, result.Width, result.Height,
				result.Duration.Round(100*time.Millisecond))
			return nil
		},
	}

	generateCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "output file path (default: derived from the prompt)")
	generateCmd.Flags().StringVarP(&profileFlag, "profile", "p", "", "generation profile to apply")
	generateCmd.Flags().StringVarP(&modelFlag, "model", "m", "", "model ID (default: provider default)")
	generateCmd.Flags().StringVarP(&ratioFlag, "aspect-ratio", "a", "", "aspect ratio, e.g. 2:3 or landscape")

	return generateCmd
}

// defaultFileName derives a filesystem-friendly name from the prompt's
// leading words.
func defaultFileName(prompt string) string {
	words := strings.Fields(strings.ToLower(prompt))
	if len(words) > 5 {
		words = words[:5]
	}
	name := strings.Join(words, "_")

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "image.png"
	}
	return b.String() + ".png"
}
