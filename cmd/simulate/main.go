package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rxtech-lab/argo-rotation/internal/version"
	"github.com/urfave/cli/v3"
)

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "simulate",
		Usage:   "Simulate rotating investments across patterns of companies",
		Version: version.Version,
		Commands: []*cli.Command{
			newRunCommand(),
			newSchemaCommand(),
			newProvidersCommand(),
		},
	}
}

func main() {
	// .env is optional, real environment variables take precedence
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
