package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
	"github.com/custodia-labs/helpscout-archive/internal/core/ports/driving"
)

// progressInterval is how often a running sync is polled for progress.
var progressInterval = 500 * time.Millisecond

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Archive conversations from Help Scout",
	Long: `Fetches conversations from the stored checkpoint onwards, archives each
one with its full thread history, then rebuilds the index.

A run stops when the history is exhausted or the batch limit is reached;
in the latter case the next run resumes where this one stopped. The command
exits non-zero when authentication, a page fetch or a write fails.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	s, err := requireServices("sync service")
	if err != nil {
		return err
	}
	if s.Sync == nil {
		return fmt.Errorf("sync service not configured")
	}

	cmd.Printf("Syncing (%s)...\n", s.Settings.Sync.Strategy.Description())

	report, err := syncWithProgress(cmd.Context(), cmd, s.Sync)
	if report != nil {
		printReport(cmd, report)
	}
	if err != nil {
		if report != nil {
			return fmt.Errorf("sync failed (%s): %w", report.Outcome, err)
		}
		return fmt.Errorf("sync failed: %w", err)
	}
	return nil
}

// syncWithProgress runs sync while displaying progress updates.
func syncWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	syncOrch driving.SyncOrchestrator,
) (*domain.SyncReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// Terminals get one redrawn line; other outputs get a line per page.
	interactive := isTerminal(cmd.OutOrStdout())
	var progress driving.ProgressFunc
	if !interactive {
		progress = func(p driving.PageProgress) {
			cmd.Printf("  Archived %s: %d records\n", p.Cursor.Label(), p.Records)
		}
	}

	type result struct {
		report *domain.SyncReport
		err    error
	}
	done := make(chan result, 1)
	go func() {
		report, err := syncOrch.Run(ctx, progress)
		done <- result{report, err}
	}()

	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	lastPages := -1
	for {
		select {
		case r := <-done:
			if interactive && lastPages >= 0 {
				cmd.Println()
			}
			return r.report, r.err
		case <-ticker.C:
			status := syncOrch.Status()
			if !interactive || status == nil || !status.Running || status.Pages == lastPages {
				continue
			}
			cmd.Printf("\r  %s: %d pages, %d records archived",
				status.Cursor.Label(), status.Pages, status.RecordsArchived)
			lastPages = status.Pages
		}
	}
}

func printReport(cmd *cobra.Command, r *domain.SyncReport) {
	cmd.Printf("Run %s: %s", r.RunID, r.Outcome)
	if r.StopReason != domain.StopNone {
		cmd.Printf(" (%s)", r.StopReason)
	}
	cmd.Printf(" in %s\n", r.Duration().Round(time.Millisecond))

	cmd.Printf("  Pages:              %d\n", r.Pages)
	cmd.Printf("  Records archived:   %d\n", r.Records)
	if r.Skipped > 0 {
		cmd.Printf("  Records skipped:    %d\n", r.Skipped)
	}
	if r.ThreadFallbacks > 0 {
		cmd.Printf("  Thread fallbacks:   %d\n", r.ThreadFallbacks)
	}
	if r.RateLimitRetries > 0 {
		cmd.Printf("  Rate-limit retries: %d\n", r.RateLimitRetries)
	}

	switch {
	case r.StopReason == domain.StopExhausted:
		cmd.Println("  Checkpoint:         reset (history exhausted)")
	case r.EndCursor != "":
		cmd.Printf("  Checkpoint:         %s\n", r.EndCursor)
	}
	if r.Index != nil {
		cmd.Printf("  Index:              %d entries (%d skipped) in %s\n", r.Index.Entries, r.Index.Skipped, r.Index.Path)
	}
	if r.Error != "" {
		cmd.Printf("  Error:              %s\n", r.Error)
	}
}
