package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
)

var checkpointCmd = &cobra.Command{
	Use:   "checkpoint",
	Short: "Inspect or reset the sync checkpoint",
}

var checkpointShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored checkpoint",
	RunE:  runCheckpointShow,
}

var checkpointResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the stored checkpoint so the next sync starts over",
	RunE:  runCheckpointReset,
}

func init() {
	checkpointCmd.AddCommand(checkpointShowCmd, checkpointResetCmd)
	rootCmd.AddCommand(checkpointCmd)
}

func runCheckpointShow(cmd *cobra.Command, _ []string) error {
	s, err := requireServices("sync service")
	if err != nil {
		return err
	}

	cursor, found, err := s.Sync.Checkpoint(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading checkpoint %s: %w", s.Settings.CheckpointPath(), err)
	}

	cmd.Printf("Strategy:   %s\n", s.Settings.Sync.Strategy)
	cmd.Printf("File:       %s\n", s.Settings.CheckpointPath())
	if !found {
		cmd.Printf("Checkpoint: none stored; the next sync starts at %s\n", cursor.Label())
		return nil
	}
	cmd.Printf("Checkpoint: %s (next sync starts at %s)\n", cursor, cursor.Label())
	if floor := s.Settings.Sync.WindowFloor; cursor.Strategy == domain.StrategyWindow && !floor.IsZero() {
		cmd.Printf("Floor:      %s\n", floor.Start().Format("2006-01"))
	}
	return nil
}

func runCheckpointReset(cmd *cobra.Command, _ []string) error {
	s, err := requireServices("sync service")
	if err != nil {
		return err
	}

	if err := s.Sync.ResetCheckpoint(cmd.Context()); err != nil {
		return fmt.Errorf("resetting checkpoint: %w", err)
	}
	cmd.Printf("Checkpoint %s reset at %s.\n", s.Settings.CheckpointPath(), time.Now().Format(time.DateTime))
	return nil
}
