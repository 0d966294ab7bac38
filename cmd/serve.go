package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/dt-pm-tools/jsm-panel/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the panel handlers over HTTP",
	Long: `Starts the invocation bridge. The panel front end calls
POST /invoke/<handler> with {"payload": ..., "context": {"issueKey": ...}}.
Prometheus metrics are served on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newServices()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			appConfig.Server.Addr = serveAddr
		}

		if appConfig.IsProduction() {
			gin.SetMode(gin.ReleaseMode)
		}

		registry := svc.registry()
		srv := newHTTPServer(appConfig.Server.Addr, server.NewRouter(registry))

		ctx := cmd.Context()
		errCh := make(chan error, 1)
		go func() {
			slog.InfoContext(ctx, "http server starting",
				"addr", srv.Addr,
				"strategy", svc.strategy.Name(),
				"handlers", registry.Names(),
			)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case err := <-errCh:
			if err != nil {
				slog.ErrorContext(ctx, "http server error", "error", err)
				return err
			}
			return nil
		case <-quit:
		}

		slog.InfoContext(ctx, "shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
			return err
		}
		slog.InfoContext(shutdownCtx, "shutdown complete")
		return nil
	},
}

// newHTTPServer leaves WriteTimeout unset: a board load runs several rounds of
// JIRA calls, each bounded by panel.timeout, and its total length grows with
// the number of linked issues and subtasks.
func newHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}
