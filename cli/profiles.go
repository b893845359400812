package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"nanogen/profile"
)

func newProfilesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the available generation profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := profile.List(app.Config.ProfilesDir)
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Printf("No profiles found in %s\n", app.Config.ProfilesDir)
				return nil
			}

			printHeader("Profiles in %s", app.Config.ProfilesDir)
			for _, id := range ids {
				p, err := profile.Load(id, app.Config.ProfilesDir)
				if err != nil {
					printWarn("%s: %v", id, err)
					continue
				}

				fmt.Printf("\n  %s", p.ID)
				if p.Name != p.ID {
					fmt.Printf(" (%s)", p.Name)
				}
				fmt.Println()
				if p.Description != "" {
					fmt.Printf("    %s\n", p.Description)
				}
				if p.Config.Model != "" {
					fmt.Printf("    model: %s\n", p.Config.Model)
				}
				if p.Config.AspectRatio != "" {
					fmt.Printf("    aspect ratio: %s\n", p.Config.AspectRatio)
				}
			}
			return nil
		},
	}
}
