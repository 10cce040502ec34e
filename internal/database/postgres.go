package database

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Postgres implements Engine by shelling out to pg_dump, pg_restore and
// psql.
type Postgres struct {
	connectionURL string
	pgDumpBin     string
	pgRestoreBin  string
	psqlBin       string
	logger        *slog.Logger
}

// NewPostgres creates a PostgreSQL engine for the given connection URL.
// Server version detection picks matching versioned binaries when they
// are installed; otherwise the unversioned defaults are used.
func NewPostgres(connectionURL string) *Postgres {
	logger := slog.Default().With("component", "postgres")

	p := &Postgres{
		connectionURL: connectionURL,
		logger:        logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if version, err := GetServerVersion(ctx, connectionURL); err == nil {
		logger.Info("Detected PostgreSQL version", "version", version.Full, "major", version.Major)

		if bin, err := FindBestBinary("pg_dump", version); err == nil {
			p.pgDumpBin = bin
			logger.Info("Selected pg_dump binary", "binary", bin)
		}
		if bin, err := FindBestBinary("pg_restore", version); err == nil {
			p.pgRestoreBin = bin
			logger.Info("Selected pg_restore binary", "binary", bin)
		}
		if bin, err := FindBestBinary("psql", version); err == nil {
			p.psqlBin = bin
			logger.Info("Selected psql binary", "binary", bin)
		}
	} else {
		logger.Warn("Could not detect PostgreSQL version, using default binaries", "error", err)
	}

	if p.pgDumpBin == "" {
		p.pgDumpBin = "pg_dump"
	}
	if p.pgRestoreBin == "" {
		p.pgRestoreBin = "pg_restore"
	}
	if p.psqlBin == "" {
		p.psqlBin = "psql"
	}

	return p
}

// Dump implements Engine.Dump with pg_dump in custom format. A non-zero
// exit surfaces as *DumpError carrying the tool's stderr; a failure to
// launch the tool surfaces as a plain wrapped error.
func (p *Postgres) Dump(ctx context.Context, tableNames []string, destPath string) error {
	args := []string{
		"--format=custom",
		"--no-password",
		"--file=" + destPath,
	}
	for _, table := range tableNames {
		args = append(args, "--table="+table)
	}
	args = append(args, p.connectionURL)

	cmd := exec.CommandContext(ctx, p.pgDumpBin, args...)
	cmd.Env = append(os.Environ(), "PGPASSWORD=")

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &DumpError{Tables: tableNames, Stderr: stderr.String()}
		}
		return fmt.Errorf("failed to run %s: %w", p.pgDumpBin, err)
	}

	return nil
}

// Restore implements Engine.Restore with pg_restore. The restore runs in
// a single transaction and aborts on the first error.
func (p *Postgres) Restore(ctx context.Context, srcPath string) error {
	cmd := exec.CommandContext(ctx, p.pgRestoreBin,
		"--exit-on-error",
		"--single-transaction",
		"--no-password",
		"--dbname="+p.connectionURL,
		srcPath,
	)
	cmd.Env = append(os.Environ(), "PGPASSWORD=")

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &RestoreError{Stderr: stderr.String()}
		}
		return fmt.Errorf("failed to run %s: %w", p.pgRestoreBin, err)
	}

	return nil
}

// CollectStats implements Engine.CollectStats with one count query per
// table through psql.
func (p *Postgres) CollectStats(ctx context.Context, tableNames []string) (map[string]any, error) {
	stats := make(map[string]any, len(tableNames))

	for _, table := range tableNames {
		cmd := exec.CommandContext(ctx, p.psqlBin,
			"--no-password",
			"--tuples-only",
			"--no-align",
			"--command", fmt.Sprintf("SELECT count(*) FROM %q;", table),
			p.connectionURL,
		)
		cmd.Env = append(os.Environ(), "PGPASSWORD=")

		var stderr bytes.Buffer
		cmd.Stderr = &stderr

		output, err := cmd.Output()
		if err != nil {
			return nil, fmt.Errorf("failed to count rows in %s: %w (stderr: %s)", table, err, strings.TrimSpace(stderr.String()))
		}

		count, err := strconv.ParseInt(strings.TrimSpace(string(output)), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("unexpected count output for %s: %q", table, strings.TrimSpace(string(output)))
		}

		stats[table] = count
	}

	return stats, nil
}
