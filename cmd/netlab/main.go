package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/netlab/netlabctl/internal/cli"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "netlab: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return cli.NewRootCommand().ExecuteContext(ctx)
}
