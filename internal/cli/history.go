// internal/cli/history.go
package gemmbench

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwiater/gemmbench/internal/history"
)

type historyOptions struct {
	limit int
}

var historyOpts historyOptions

// historyCmd lists past suite runs from the local run database, newest first.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded benchmark runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.Open(historyDBPath())
		if err != nil {
			return fmt.Errorf("unable to open run history: %w", err)
		}
		defer store.Close()

		entries, err := store.Recent(historyOpts.limit)
		if err != nil {
			return fmt.Errorf("unable to read run history: %w", err)
		}
		if len(entries) == 0 {
			cmd.Println("No runs recorded yet.")
			return nil
		}

		for _, e := range entries {
			canceled := ""
			if e.Canceled {
				canceled = "  [canceled]"
			}
			cmd.Printf("%s  %-24s  %3d jobs  %3d measured  %3d failed%s\n",
				e.StartedAt.Format("2006-01-02 15:04:05"), e.Suite,
				e.TotalJobs, e.Measured, e.Failed, canceled)
			cmd.Printf("  %s  reports: %s\n", e.ID, e.OutputDir)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyOpts.limit, "limit", 10, "maximum number of runs to list")

	rootCmd.AddCommand(historyCmd)
}
