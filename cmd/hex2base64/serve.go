package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/kenneth/hex2base64/internal/api"
	"github.com/kenneth/hex2base64/internal/config"
	"github.com/kenneth/hex2base64/internal/debug"
	"github.com/kenneth/hex2base64/internal/metrics"
	"github.com/kenneth/hex2base64/internal/tracing"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP conversion service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cmd, cfg, cfgFile)
		},
	}

	cmd.Flags().StringVarP(&cfgFile, "config", "c", "", "path to YAML config file")
	return cmd
}

func serve(ctx context.Context, cmd *cobra.Command, cfg *config.Config, cfgFile string) error {
	logger, err := config.NewLogger(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	debug.InitFromLogLevel(cfg.Logging.Level)
	metrics.SetVersion(version)

	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.WithError(err).Warn("Failed to flush traces")
		}
	}()

	var m *metrics.Metrics
	metricsPath := ""
	if cfg.Metrics.Enabled {
		m = metrics.NewMetrics()
		metricsPath = cfg.Metrics.Path
	}

	if cfgFile != "" {
		go func() {
			err := config.Watch(ctx, cfgFile, logger, func(next *config.Config) {
				if err := config.ApplyLogging(logger, next.Logging); err != nil {
					logger.WithError(err).Warn("Failed to apply reloaded logging config")
					return
				}
				debug.InitFromLogLevel(next.Logging.Level)
			})
			if err != nil {
				logger.WithError(err).Warn("Config watcher stopped")
			}
		}()
	}

	srv := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           api.NewRouter(logger, m, cfg.Server.MaxInputBytes, metricsPath),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"addr":    cfg.Server.ListenAddr,
			"version": version,
		}).Info("Starting hex2base64 server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
