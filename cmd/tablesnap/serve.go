package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shardbase/tablesnap/internal/config"
	"github.com/shardbase/tablesnap/internal/health"
	"github.com/shardbase/tablesnap/internal/metrics"
	"github.com/shardbase/tablesnap/internal/server"
	"github.com/shardbase/tablesnap/internal/storage"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve Prometheus metrics and health checks over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "listen port")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.Default()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	engine, err := storage.NewEngine(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	metrics.Info.WithLabelValues(version, cfg.StorageProvider).Set(1)

	serverConfig := server.DefaultConfig()
	serverConfig.Port = servePort
	httpServer := server.New(serverConfig, logger)

	httpServer.RegisterHealthCheck("storage", func(ctx context.Context) health.Check {
		check := health.Check{
			Status:    health.StatusHealthy,
			Timestamp: time.Now(),
			Details:   map[string]any{"provider": cfg.StorageProvider},
		}
		if _, err := engine.List(ctx); err != nil {
			check.Status = health.StatusUnhealthy
			check.Details["error"] = err.Error()
		}
		return check
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown failed", "error", err)
		}
	}()

	return httpServer.Start()
}
