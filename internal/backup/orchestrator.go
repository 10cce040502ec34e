// Package backup orchestrates snapshot operations across a database
// engine and a storage engine.
package backup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/shardbase/tablesnap/internal/database"
	"github.com/shardbase/tablesnap/internal/metrics"
	"github.com/shardbase/tablesnap/internal/snapshot"
	"github.com/shardbase/tablesnap/internal/storage"
)

// Orchestrator sequences database and storage engine calls for the five
// public snapshot operations. It keeps no state across calls; both
// engines are injected and each operation is an independent pipeline.
type Orchestrator struct {
	storage storage.Engine
	db      database.Engine
	logger  *slog.Logger
}

// New creates an orchestrator over the given engines.
func New(store storage.Engine, db database.Engine, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		storage: store,
		db:      db,
		logger:  logger,
	}
}

// Store dumps the given tables to a scratch file, persists the artifact
// and its metadata record under a fresh identifier, and returns the
// persisted record. The scratch file is removed on every exit path.
//
// If the data object is saved but the metadata write fails, the object
// is left orphaned; callers must re-verify via List or GetMetadata
// before retrying.
func (o *Orchestrator) Store(ctx context.Context, tableNames []string, userMeta map[string]any) (*snapshot.Metadata, error) {
	id, err := snapshot.New(tableNames)
	if err != nil {
		metrics.RecordOperation("store", false)
		return nil, err
	}

	tmpPath := allocTempPath()
	defer o.removeTemp(tmpPath)

	o.logger.Info("Starting snapshot store", "identifier", id.String(), "temp_path", tmpPath)

	dumpStart := time.Now()
	if err := o.db.Dump(ctx, tableNames, tmpPath); err != nil {
		metrics.RecordOperation("store", false)
		return nil, err
	}
	metrics.OperationDuration.WithLabelValues("store", "dump").Observe(time.Since(dumpStart).Seconds())

	stats := o.collectStats(ctx, tableNames, tmpPath)

	uploadStart := time.Now()
	if err := o.storage.SaveSnapshot(ctx, id, tmpPath); err != nil {
		metrics.RecordOperation("store", false)
		return nil, fmt.Errorf("failed to store snapshot data: %w", err)
	}

	m := &snapshot.Metadata{
		Identifier: id,
		Stats:      stats,
		Meta:       userMeta,
	}

	saved, err := o.storage.SaveMetadata(ctx, m)
	if err != nil {
		metrics.RecordOperation("store", false)
		o.logger.Warn("Snapshot data was saved but its metadata was not; the data object is orphaned",
			"identifier", id.String(),
			"error", err,
		)
		return nil, fmt.Errorf("failed to store snapshot metadata: %w", err)
	}
	metrics.OperationDuration.WithLabelValues("store", "upload").Observe(time.Since(uploadStart).Seconds())

	metrics.LastStoreTimestamp.Set(float64(id.CapturedAt().Unix()))
	metrics.RecordOperation("store", true)

	o.logger.Info("Snapshot stored", "identifier", id.String())
	return saved, nil
}

// Restore loads the metadata record for id, materializes the snapshot
// bytes locally, and replays them through the database engine. The
// already-loaded record is returned. The scratch path is removed on
// every exit path; backends that materialize in place never create it,
// and their stored files are left untouched.
func (o *Orchestrator) Restore(ctx context.Context, id snapshot.Identifier) (*snapshot.Metadata, error) {
	m, err := o.storage.LoadMetadata(ctx, id)
	if err != nil {
		metrics.RecordOperation("restore", false)
		return nil, err
	}

	tmpPath := allocTempPath()
	defer o.removeTemp(tmpPath)

	o.logger.Info("Starting snapshot restore", "identifier", id.String(), "temp_path", tmpPath)

	downloadStart := time.Now()
	localPath, err := o.storage.LoadSnapshot(ctx, m.Identifier, tmpPath)
	if err != nil {
		metrics.RecordOperation("restore", false)
		return nil, err
	}
	metrics.OperationDuration.WithLabelValues("restore", "download").Observe(time.Since(downloadStart).Seconds())

	restoreStart := time.Now()
	if err := o.db.Restore(ctx, localPath); err != nil {
		metrics.RecordOperation("restore", false)
		return nil, err
	}
	metrics.OperationDuration.WithLabelValues("restore", "restore").Observe(time.Since(restoreStart).Seconds())

	metrics.RecordOperation("restore", true)
	o.logger.Info("Snapshot restored", "identifier", id.String())
	return m, nil
}

// List enumerates every stored snapshot identifier.
func (o *Orchestrator) List(ctx context.Context) ([]snapshot.Identifier, error) {
	ids, err := o.storage.List(ctx)
	metrics.RecordOperation("list", err == nil)
	return ids, err
}

// Delete removes the metadata record and then the snapshot data for id.
// If the metadata delete succeeds and the data delete fails, the data
// object is orphaned with no record pointing at it; that state is logged
// and reported, not remediated.
func (o *Orchestrator) Delete(ctx context.Context, id snapshot.Identifier) error {
	if err := o.storage.DeleteMetadata(ctx, id); err != nil {
		metrics.RecordOperation("delete", false)
		return err
	}

	if err := o.storage.DeleteSnapshot(ctx, id); err != nil {
		metrics.RecordOperation("delete", false)
		o.logger.Warn("Snapshot metadata was deleted but its data was not; the data object is orphaned",
			"identifier", id.String(),
			"error", err,
		)
		return err
	}

	metrics.RecordOperation("delete", true)
	o.logger.Info("Snapshot deleted", "identifier", id.String())
	return nil
}

// GetMetadata loads the metadata record for id.
func (o *Orchestrator) GetMetadata(ctx context.Context, id snapshot.Identifier) (*snapshot.Metadata, error) {
	m, err := o.storage.LoadMetadata(ctx, id)
	metrics.RecordOperation("get_metadata", err == nil)
	return m, err
}

// collectStats gathers the automatic stats payload. Collection failures
// are advisory and leave the stats map empty.
func (o *Orchestrator) collectStats(ctx context.Context, tableNames []string, dumpPath string) map[string]any {
	stats := map[string]any{}

	collected, err := o.db.CollectStats(ctx, tableNames)
	if err != nil {
		o.logger.Warn("Failed to collect table stats, storing snapshot without them", "error", err)
	} else {
		for k, v := range collected {
			stats[k] = v
		}
	}

	if fi, err := os.Stat(dumpPath); err == nil {
		stats["dump_size_bytes"] = fi.Size()
		metrics.SnapshotSize.Set(float64(fi.Size()))
	}

	return stats
}

// removeTemp deletes a scratch file, best effort. A missing file is the
// normal case for backends that never copied anything there.
func (o *Orchestrator) removeTemp(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		o.logger.Warn("Failed to remove temp file", "path", path, "error", err)
	}
}
