// Package main provides the entry point for the pedigree simulator.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/brca-pedigree-sim/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.New(os.Stdout, os.Stderr, version).Run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "pedigree-sim: %v\n", err)
		stop()
		os.Exit(1)
	}
}
