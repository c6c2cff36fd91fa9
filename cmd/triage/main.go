package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/felixgeelhaar/triage/adapter/cli"
	"github.com/felixgeelhaar/triage/adapter/cli/mcp"
	"github.com/felixgeelhaar/triage/internal/app"
	"github.com/felixgeelhaar/triage/pkg/config"
	"github.com/felixgeelhaar/triage/pkg/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := observability.LoggerFromEnv()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// LOG_LEVEL from the config applies unless TRIAGE_LOG_LEVEL overrides it.
	if os.Getenv(observability.EnvLogLevel) == "" && cfg.LogLevel != "" {
		logCfg := observability.DefaultLogConfig()
		if cfg.IsProduction() {
			logCfg = observability.ProductionLogConfig()
		}
		logCfg.Level = observability.LogLevel(strings.ToLower(cfg.LogLevel))
		logCfg.ServiceVersion = cli.Version
		logger = observability.NewLogger(logCfg)
	}
	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}

	cli.SetApp(&cli.App{
		Config:   cfg,
		Analyzer: container.Analyzer,
		Health:   container.Health,
		Metrics:  container.Metrics,
	})
	cli.AddCommand(mcp.Cmd)

	err = cli.Execute(ctx)
	container.Close()
	if err != nil {
		os.Exit(1)
	}
}
