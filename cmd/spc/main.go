package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/emsqi/spc/cmd/spc/commands"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersion(Version, GitCommit)
	if err := commands.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
