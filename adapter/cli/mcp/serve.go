package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/felixgeelhaar/triage/adapter/cli"
	mcplocal "github.com/felixgeelhaar/triage/adapter/mcp"
	mcpinternal "github.com/felixgeelhaar/triage/internal/mcp"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := cli.GetApp()
		if a == nil || a.Config == nil || a.Analyzer == nil {
			return errors.New("triage is not initialized; check the configuration")
		}

		cfg := *a.Config
		if serveAddr != "" {
			cfg.MCPAddr = serveAddr
		}

		logger := newServerLogger(cmd.ErrOrStderr(), cfg.IsDevelopment() || cli.Verbose())
		deps := mcplocal.ToolDependencies{
			Analyzer: a.Analyzer,
			Health:   a.Health,
			Logger:   logger,
		}
		if a.Metrics != nil {
			deps.Metrics = a.Metrics
		}

		err := mcpinternal.Serve(cmd.Context(), &cfg, deps, cli.Version, logger)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func newServerLogger(out io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
	}))
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from MCP_ADDR)")
}
