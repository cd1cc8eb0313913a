package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/helpscout-archive/internal/adapters/driving/tui"
	"github.com/custodia-labs/helpscout-archive/internal/logger"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the archive interactively",
	Long: `Opens a terminal browser over the lookup index. Type to filter, use
field:value terms (company, customer, status, tag, id) to narrow further,
and press enter to see where a conversation is archived.

ctrl+s runs a sync in the background and ctrl+r rebuilds the index.`,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	s, err := requireServices("index service")
	if err != nil {
		return err
	}

	app, err := tui.NewApp(tui.NewPorts(s.Index, s.Sync))
	if err != nil {
		return err
	}

	// Log lines would corrupt the alternate screen.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(cmd.ErrOrStderr())

	return app.WithContext(cmd.Context()).Run()
}
