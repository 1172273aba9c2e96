// Package main starts the editor backend service.
//
// This process owns the editor HTTP API: project management, template
// catalog access and the load/save cycle of project definitions.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	editorcmd "github.com/fotom-studio/fotom/internal/cmd/editor"
	"github.com/fotom-studio/fotom/internal/platform/cmd"
)

func main() {
	cfg, err := editorcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[EDITOR] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.RunWithTelemetry(ctx, cmd.ServiceEditor, func(ctx context.Context) error {
		return editorcmd.Run(ctx, cfg)
	}); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
