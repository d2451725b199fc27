// Package main provides the taskbundle CLI.
//
// taskbundle checks task/board bundles before they reach local storage:
//   - validates them against the bundle schemas and repairs what it can
//   - checks board references and progress consistency
//   - merges them into an existing dataset with configurable strategies
//   - exports datasets under generated file names
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Version is set at build time.
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
