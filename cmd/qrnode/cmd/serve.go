package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MeKo-Tech/qrnode/internal/server"
	"github.com/spf13/cobra"
)

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP server exposing the nodes",
		Long: `Start an HTTP server that runs the nodes on request.

The server provides the following endpoints:
  GET  /health      - Health check endpoint
  GET  /nodes       - Node descriptors and display names
  POST /nodes/{id}  - Run a node (multipart: image file + input fields)
  GET  /ws          - WebSocket node requests
  GET  /metrics     - Prometheus metrics

Examples:
  qrnode serve
  qrnode serve --host 0.0.0.0 --port 8188`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg.Server

			srv, err := server.NewServer(server.Config{
				Host:        cfg.Host,
				Port:        cfg.Port,
				CORSOrigin:  cfg.CORSOrigin,
				MaxUploadMB: int64(cfg.MaxUploadMB),
				TimeoutSec:  cfg.TimeoutSec,
				Decode:      a.cfg.DecodeOptions(),
				Library:     a.cfg.Decoder.Library,
			})
			if err != nil {
				return fmt.Errorf("failed to initialize server: %w", err)
			}

			httpServer := &http.Server{
				Addr:              srv.Addr(),
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       time.Duration(cfg.TimeoutSec) * time.Second,
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				slog.Info("Starting qrnode server", "addr", srv.Addr())
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server error: %w", err)
				}
				return nil
			case <-ctx.Done():
				slog.Info("Received shutdown signal")
			}

			slog.Info("Starting graceful shutdown", "timeout", fmt.Sprintf("%ds", cfg.ShutdownTimeout))
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeout)*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("HTTP server shutdown error", "error", err)
				return err
			}
			slog.Info("Graceful shutdown completed")
			return nil
		},
	}
	cmd.Flags().StringP("host", "H", "localhost", "server host")
	cmd.Flags().IntP("port", "p", 8188, "server port")
	cmd.Flags().String("cors-origin", "*", "CORS allowed origins")
	cmd.Flags().Int("max-upload-size", 20, "maximum upload size in MB")
	cmd.Flags().Int("timeout", 30, "request timeout in seconds")
	cmd.Flags().Int("shutdown-timeout", 10, "shutdown timeout in seconds")
	cmd.Flags().String("library", "gozxing", "barcode library")
	cmd.Flags().Bool("try-harder", false, "spend more time searching for codes")
	a.bind(cmd,
		flagBinding{"server.host", "host"},
		flagBinding{"server.port", "port"},
		flagBinding{"server.cors_origin", "cors-origin"},
		flagBinding{"server.max_upload_mb", "max-upload-size"},
		flagBinding{"server.timeout_sec", "timeout"},
		flagBinding{"server.shutdown_timeout", "shutdown-timeout"},
		flagBinding{"decoder.library", "library"},
		flagBinding{"decoder.try_harder", "try-harder"},
	)
	return cmd
}
