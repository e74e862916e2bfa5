package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/skinscan/internal/handlers"
	"github.com/lehigh-university-libraries/skinscan/internal/simulated"
	"github.com/lehigh-university-libraries/skinscan/internal/storage"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		port        string
		delay       time.Duration
		catalogPath string
		sessionTTL  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start web server for the skin analysis view",
		Long: `Starts the skin analysis web interface on the specified port.

Each browser visit mounts a session. Upload an image, press Analyze and the
simulated provider answers after the configured delay.

Flags fall back to SKINSCAN_PORT, SKINSCAN_ANALYSIS_DELAY, SKINSCAN_CATALOG and
SKINSCAN_SESSION_TTL when not given.`,
		Example: `  # Start server on default port 8888
  skinscan serve

  # Start server on custom port with a faster simulated analysis
  skinscan serve --port 3000 --delay 500ms`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("port") {
				port = envOr("SKINSCAN_PORT", port)
			}
			if !flags.Changed("delay") {
				delay = envDuration("SKINSCAN_ANALYSIS_DELAY", delay)
			}
			if !flags.Changed("catalog") {
				catalogPath = envOr("SKINSCAN_CATALOG", catalogPath)
			}
			if !flags.Changed("session-ttl") {
				sessionTTL = envDuration("SKINSCAN_SESSION_TTL", sessionTTL)
			}

			cat, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}

			store := storage.New(simulated.New(cat, simulated.WithDelay(delay)))
			handler := handlers.New(store, cat)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go store.Sweep(ctx, sessionTTL, time.Minute)

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Skin analysis interface available", "addr", addr, "url", "http://localhost"+addr, "delay", delay, "diseases", cat.Len())
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				for _, sess := range store.GetAll() {
					store.Delete(sess.ID())
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")
	cmd.Flags().DurationVar(&delay, "delay", simulated.DefaultDelay, "Simulated analysis time")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Catalog file (.yaml, .json or .parquet); defaults to the built-in catalog")
	cmd.Flags().DurationVar(&sessionTTL, "session-ttl", 30*time.Minute, "Discard sessions idle for longer than this")

	return cmd
}
