package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/helpscout-archive/internal/adapters/driving/watch"
	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the lookup index",
}

var indexRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the index from the archive",
	Long: `Scans every file in the archive and replaces the index. Files that cannot
be parsed are skipped and counted.`,
	RunE: runIndexRebuild,
}

var indexWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the index whenever the archive changes",
	Long: `Rebuilds the index once, then watches the archive directory and rebuilds
again after changes settle. Runs until interrupted.`,
	RunE: runIndexWatch,
}

func init() {
	indexWatchCmd.Flags().Duration("debounce", watch.DefaultDebounce, "quiet period before a rebuild")
	indexCmd.AddCommand(indexRebuildCmd, indexWatchCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexRebuild(cmd *cobra.Command, _ []string) error {
	s, err := requireServices("index service")
	if err != nil {
		return err
	}

	report, err := s.Index.Rebuild(cmd.Context())
	if err != nil {
		return fmt.Errorf("rebuilding index: %w", err)
	}
	printIndexReport(cmd, report)
	return nil
}

func runIndexWatch(cmd *cobra.Command, _ []string) error {
	s, err := requireServices("index service")
	if err != nil {
		return err
	}
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("getting debounce flag: %w", err)
	}

	report, err := s.Index.Rebuild(cmd.Context())
	if err != nil {
		return fmt.Errorf("rebuilding index: %w", err)
	}
	printIndexReport(cmd, report)

	w := watch.New(s.Settings.Paths.Archive, s.Index, debounce, func(r *domain.IndexReport, err error) {
		if err != nil {
			cmd.PrintErrf("Index rebuild failed: %v\n", err)
			return
		}
		cmd.Printf("[%s] ", time.Now().Format(time.TimeOnly))
		printIndexReport(cmd, r)
	})
	cmd.Printf("Watching %s for changes...\n", s.Settings.Paths.Archive)
	return w.Run(cmd.Context())
}

func printIndexReport(cmd *cobra.Command, r *domain.IndexReport) {
	cmd.Printf("Indexed %d records", r.Entries)
	if r.Skipped > 0 {
		cmd.Printf(" (%d unreadable files skipped)", r.Skipped)
	}
	cmd.Printf(" into %s\n", r.Path)
}
