// Package database defines the dump/restore contract for the underlying
// database and its PostgreSQL implementation.
package database

import (
	"context"
	"fmt"
	"strings"
)

// Engine is the external collaborator capable of dumping and restoring
// tables. The orchestration layer assumes nothing beyond this contract.
type Engine interface {
	// Dump materializes a dump of the given tables at destPath.
	Dump(ctx context.Context, tableNames []string, destPath string) error

	// Restore loads the dump artifact at srcPath into the database.
	Restore(ctx context.Context, srcPath string) error

	// CollectStats gathers per-table stats (row counts) for the metadata
	// record. Failures here are advisory; callers may proceed without.
	CollectStats(ctx context.Context, tableNames []string) (map[string]any, error)
}

// DumpError is returned when the dump tool exits non-zero. A failure to
// launch the tool at all is reported as a plain wrapped error instead.
type DumpError struct {
	Tables []string
	Stderr string
}

func (e *DumpError) Error() string {
	return fmt.Sprintf("could not dump tables %s: %s", quoteTables(e.Tables), strings.TrimSpace(e.Stderr))
}

// RestoreError is returned when the restore tool exits non-zero.
type RestoreError struct {
	Stderr string
}

func (e *RestoreError) Error() string {
	return fmt.Sprintf("could not restore dump: %s", strings.TrimSpace(e.Stderr))
}

func quoteTables(tables []string) string {
	quoted := make([]string, len(tables))
	for i, t := range tables {
		quoted[i] = "'" + t + "'"
	}
	return strings.Join(quoted, ", ")
}
