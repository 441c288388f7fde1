// Package main is the entry point for the hts CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hts-group/hts-tasks/internal/app"
	"github.com/hts-group/hts-tasks/internal/cli"
	"github.com/hts-group/hts-tasks/internal/infra/config"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := app.New(ctx, config.DefaultDataDir())
	if err != nil {
		// A broken config file must not lock the user out of help and the template
		if canRunWithoutContainer(os.Args[1:]) {
			return cli.NewRootCommand(app.NewWithDeps(app.Config{}, app.Deps{}), version).ExecuteContext(ctx)
		}
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() {
		if cerr := container.Close(); cerr != nil {
			fmt.Fprintln(os.Stderr, cerr)
		}
	}()

	return cli.NewRootCommand(container, version).ExecuteContext(ctx)
}

func canRunWithoutContainer(args []string) bool {
	if len(args) == 0 {
		return true
	}
	switch args[0] {
	case "help":
		return true
	case "config":
		return len(args) > 1 && args[1] == "template"
	}
	for _, arg := range args {
		if arg == "--version" || arg == "--help" || arg == "-h" || strings.HasPrefix(arg, "--help=") {
			return true
		}
	}
	return false
}
