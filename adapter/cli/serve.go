package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/felixgeelhaar/triage/adapter/api"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}

		cfg := api.DefaultServerConfig()
		if a.Config != nil && a.Config.APIAddr != "" {
			cfg.Addr = a.Config.APIAddr
		}
		if serveAddr != "" {
			cfg.Addr = serveAddr
		}

		srv := api.NewServer(cfg, a.Analyzer, a.Health, a.Metrics, logger)
		return runUntilDone(cmd.Context(), srv)
	},
}

type server interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// runUntilDone serves until ctx is canceled, then drains connections.
func runUntilDone(ctx context.Context, srv server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from API_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
