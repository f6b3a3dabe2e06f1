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

	app := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := app.command().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "ircwire: %v\n", err)
		os.Exit(1)
	}
}
