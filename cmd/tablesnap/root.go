package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shardbase/tablesnap/internal/backup"
	"github.com/shardbase/tablesnap/internal/config"
	"github.com/shardbase/tablesnap/internal/database"
	"github.com/shardbase/tablesnap/internal/storage"
)

const version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "tablesnap",
	Short: "Point-in-time snapshots of Postgres tables on pluggable storage",
	Long: `tablesnap dumps a subset of Postgres tables to a storage backend
(filesystem, S3 or GCS) together with a metadata record, and can later
list, restore and delete those snapshots.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

// newOrchestrator wires config, storage engine and database engine for
// one command invocation.
func newOrchestrator(ctx context.Context) (*backup.Orchestrator, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	if cfg.TempDir != "" {
		backup.SetTempDir(cfg.TempDir)
	}

	engine, err := storage.NewEngine(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	db := database.NewPostgres(cfg.DatabaseURL)

	return backup.New(engine, db, slog.Default()), cfg, nil
}
