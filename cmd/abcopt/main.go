// abcopt drives the ABC synthesis tool through a constrained parameter
// search over a set of circuit workspaces.
//
// Usage:
//
//	abcopt baseline [--config=<path>]
//	abcopt optimize [--config=<path>]
//	abcopt compare  [--config=<path>]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
