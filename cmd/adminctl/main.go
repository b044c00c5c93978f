// Command adminctl runs the admin sync operations from a terminal against the
// same store and provider configuration the API uses.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/riskibarqy/diskichat-admin/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(config.Load, os.Stdout)
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
