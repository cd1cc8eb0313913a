package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent sync runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 10, "number of runs to show (0 = all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	s, err := requireServices("sync service")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return fmt.Errorf("getting limit flag: %w", err)
	}

	runs, err := s.Sync.History(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}
	if len(runs) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}

	cmd.Printf("%-19s  %-14s  %-11s  %6s  %8s  %-10s\n", "STARTED", "OUTCOME", "STOP", "PAGES", "RECORDS", "CHECKPOINT")
	for _, r := range runs {
		cmd.Printf("%-19s  %-14s  %-11s  %6d  %8d  %-10s\n",
			r.StartedAt.Local().Format(time.DateTime), r.Outcome, r.StopReason, r.Pages, r.Records, r.EndCursor)
	}
	return nil
}
