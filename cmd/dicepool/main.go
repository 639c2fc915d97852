// Package main provides a CLI for rolling one weapon action from a snapshot.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	platformcmd "github.com/louisbranch/wodcombat/internal/platform/cmd"
	"github.com/louisbranch/wodcombat/internal/platform/config"

	dicepoolcmd "github.com/louisbranch/wodcombat/internal/cmd/dicepool"
)

func main() {
	cfg, err := dicepoolcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceDicePool, func(ctx context.Context) error {
		return dicepoolcmd.Run(ctx, cfg, os.Stdout, os.Stderr)
	}); err != nil {
		config.Exitf("Error: %v", err)
	}
}
