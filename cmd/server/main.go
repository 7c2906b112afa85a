package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/adrianliechti/furnish/config"
	"github.com/adrianliechti/furnish/pkg/otel"
	"github.com/adrianliechti/furnish/server"
)

var version = "dev"

func main() {
	var configPath string
	var address string

	flag.StringVar(&configPath, "config", "config.yaml", "configuration file")
	flag.StringVar(&address, "address", "", "listen address (overrides config)")
	flag.Parse()

	ctx := context.Background()

	if err := otel.Setup(ctx, "furnish", version); err != nil {
		slog.Error("failed to setup telemetry", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Parse(configPath)

	if err != nil {
		slog.Error("failed to parse config", "error", err)
		os.Exit(1)
	}

	if address != "" {
		cfg.Address = address
	}

	s, err := server.New(cfg)

	if err != nil {
		slog.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	slog.Info("starting server", "address", cfg.Address, "version", version)

	if err := s.ListenAndServe(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
