package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/naka-gawa/contrib-stats/internal/gateway"
	"github.com/naka-gawa/contrib-stats/internal/server"
	"github.com/naka-gawa/contrib-stats/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the contributor statistics dashboard over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		addr, _ := cmd.Flags().GetString("addr")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr != "" {
			cfg.ListenAddr = addr
		}
		logger := newLogger(os.Stderr, cfg.LogLevel, verbose)

		fetcher, err := newFetcher(cfg, logger, nil)
		if err != nil {
			return fmt.Errorf("failed to create gateway: %w", err)
		}
		reg := prometheus.NewRegistry()
		dashboard := usecase.NewDashboard(gateway.Instrument(fetcher, reg), logger)

		gin.SetMode(gin.ReleaseMode)
		srv := &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           server.New(dashboard, reg, cfg.RequestTimeout, logger).Handler(),
			ReadHeaderTimeout: 15 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.WithField("addr", cfg.ListenAddr).WithField("source", cfg.Source).Info("Server starting")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		logger.Info("Server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (env STATS_LISTEN_ADDR)")
}
