package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/helpscout-archive/internal/adapters/driving/cli"
	"github.com/custodia-labs/helpscout-archive/internal/app"
)

// Set by ldflags at build time.
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(app.New)
	cli.SetConfigOpener(app.OpenConfig)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
