// Package cli implements the hsarchive command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
	"github.com/custodia-labs/helpscout-archive/internal/core/ports/driving"
	"github.com/custodia-labs/helpscout-archive/internal/logger"
)

// skipBootstrap marks commands that run without loading the configuration.
const skipBootstrap = "skip-bootstrap"

// version is set at build time.
var version = "dev"

// ConfigEditor reads and updates the configuration file.
type ConfigEditor interface {
	Path() string
	Keys() []string
	Get(key string) (any, bool)
	Set(key string, value any) error
}

// Services are the application services the commands drive.
type Services struct {
	Settings domain.Settings
	Sync     driving.SyncOrchestrator
	Index    driving.IndexService
	Config   ConfigEditor

	// Close releases resources held by the services. May be nil.
	Close func() error
}

// Bootstrap builds the services from the configuration file at configPath.
type Bootstrap func(configPath string) (*Services, error)

var (
	configPath string
	verbose    bool

	bootstrap  Bootstrap
	openConfig func(path string) (ConfigEditor, error)
	services   *Services

	// isTerminal reports whether progress can be redrawn in place.
	isTerminal = func(w io.Writer) bool {
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd()))
	}
)

var rootCmd = &cobra.Command{
	Use:   "hsarchive",
	Short: "Archive Help Scout conversations to disk",
	Long: `hsarchive copies every Help Scout conversation, with its full thread
history, into a local archive of JSON files grouped by company and year,
and maintains a flat lookup index over it.

Syncs are resumable: each run continues from the stored checkpoint and stops
after a bounded number of pages, so it can be scheduled repeatedly.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "hsarchive.toml", "configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output")
}

// SetBootstrap sets the function that builds the services.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetConfigOpener sets the function that opens the configuration file for editing.
func SetConfigOpener(open func(path string) (ConfigEditor, error)) {
	openConfig = open
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx, which is cancelled on interrupt.
// Services are released even when the command fails.
func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if cerr := teardown(rootCmd, nil); cerr != nil {
		logger.Warn("closing services: %v", cerr)
	}
	return err
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetOutput(cmd.ErrOrStderr())

	if cmd.Annotations[skipBootstrap] != "" || services != nil {
		return nil
	}
	if bootstrap == nil {
		return errors.New("services not configured")
	}

	s, err := bootstrap(configPath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", configPath, err)
	}
	services = s
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if services == nil || services.Close == nil {
		return nil
	}
	err := services.Close()
	services = nil
	return err
}

// requireServices returns the services or an error naming what is missing.
func requireServices(what string) (*Services, error) {
	if services == nil {
		return nil, fmt.Errorf("%s not configured", what)
	}
	return services, nil
}
