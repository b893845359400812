package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"nanogen/batch"
	"nanogen/history"
)

func newHistoryCmd(app *App) *cobra.Command {
	var (
		limitFlag int
		runFlag   string
	)

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent generation outcomes from the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				printWarn("history is disabled; set HISTORY_DB to enable the ledger")
				return nil
			}

			var (
				records []history.GenerationRecord
				err     error
			)
			if runFlag != "" {
				records, err = app.Store.ByRun(cmd.Context(), runFlag)
			} else {
				records, err = app.Store.Recent(cmd.Context(), limitFlag)
			}
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No generation history yet.")
				return nil
			}

			printHeader("Generation history")
			for _, rec := range records {
				printHistoryRecord(rec)
			}
			return nil
		},
	}

	historyCmd.Flags().IntVarP(&limitFlag, "limit", "n", 10, "number of records to show")
	historyCmd.Flags().StringVar(&runFlag, "run", "", "show every record for one run ID")

	return historyCmd
}

func printHistoryRecord(rec history.GenerationRecord) {
	when := rec.CreatedAt.Format(time.DateTime)

	switch rec.Status {
	case batch.StatusSuccess:
		printSuccess("%s  %s (%dx%d, %d attempt(s))", when, rec.OutputPath, rec.Width, rec.Height, rec.Attempts)
	case batch.StatusSkipped:
		printWarn("%s  %s (skipped, output existed)", when, rec.OutputPath)
	default:
		printError("%s  %s (%s)", when, rec.OutputPath, rec.ErrorMessage)
	}
	fmt.Printf("      run %s  %q\n", rec.RunID, truncate(rec.Prompt, 70))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
