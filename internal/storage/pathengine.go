package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"

	"github.com/shardbase/tablesnap/internal/snapshot"
)

const (
	metadataDir = "metadata"
	snapshotDir = "snapshot"
)

// PathEngine implements the full Engine contract on top of an injected
// FileOps value. Every operation resolves keys via
// root/{metadata|snapshot}/<encoded identifier>.
type PathEngine struct {
	ops FileOps
}

// NewPathEngine wraps ops into a complete storage engine.
func NewPathEngine(ops FileOps) *PathEngine {
	return &PathEngine{ops: ops}
}

// List implements Engine.List. Entries with an empty extension are
// subdirectory markers and skipped; anything else must parse.
func (e *PathEngine) List(ctx context.Context) ([]snapshot.Identifier, error) {
	entries, err := e.ops.ListDir(ctx, path.Join(e.ops.Root(), metadataDir))
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata entries: %w", err)
	}

	ids := make([]snapshot.Identifier, 0, len(entries))
	for _, entry := range entries {
		if entry.Ext == "" {
			continue
		}
		id, err := snapshot.Parse(entry.Name + "." + entry.Ext)
		if err != nil {
			return nil, fmt.Errorf("failed to parse metadata entry: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// LoadMetadata implements Engine.LoadMetadata.
func (e *PathEngine) LoadMetadata(ctx context.Context, id snapshot.Identifier) (*snapshot.Metadata, error) {
	data, err := e.ops.ReadAll(ctx, e.metadataKey(id))
	if err != nil {
		return nil, fmt.Errorf("failed to load metadata for %s: %w", id, err)
	}

	var m snapshot.Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode metadata for %s: %w", id, err)
	}

	return &m, nil
}

// SaveMetadata implements Engine.SaveMetadata. The record is echoed back
// unchanged so calls can be chained.
func (e *PathEngine) SaveMetadata(ctx context.Context, m *snapshot.Metadata) (*snapshot.Metadata, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata for %s: %w", m.Identifier, err)
	}

	if err := e.ops.WriteFile(ctx, e.metadataKey(m.Identifier), bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to save metadata for %s: %w", m.Identifier, err)
	}

	return m, nil
}

// LoadSnapshot implements Engine.LoadSnapshot.
func (e *PathEngine) LoadSnapshot(ctx context.Context, id snapshot.Identifier, destPath string) (string, error) {
	local, err := e.ops.Materialize(ctx, e.snapshotKey(id), destPath)
	if err != nil {
		return "", fmt.Errorf("failed to load snapshot for %s: %w", id, err)
	}
	return local, nil
}

// SaveSnapshot implements Engine.SaveSnapshot. The local artifact is
// streamed through WriteFile rather than buffered.
func (e *PathEngine) SaveSnapshot(ctx context.Context, id snapshot.Identifier, srcPath string) error {
	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open snapshot artifact %s: %w", srcPath, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := e.ops.WriteFile(ctx, e.snapshotKey(id), f); err != nil {
		return fmt.Errorf("failed to save snapshot for %s: %w", id, err)
	}

	return nil
}

// DeleteMetadata implements Engine.DeleteMetadata.
func (e *PathEngine) DeleteMetadata(ctx context.Context, id snapshot.Identifier) error {
	if err := e.ops.Delete(ctx, e.metadataKey(id)); err != nil {
		return fmt.Errorf("failed to delete metadata for %s: %w", id, err)
	}
	return nil
}

// DeleteSnapshot implements Engine.DeleteSnapshot.
func (e *PathEngine) DeleteSnapshot(ctx context.Context, id snapshot.Identifier) error {
	if err := e.ops.Delete(ctx, e.snapshotKey(id)); err != nil {
		return fmt.Errorf("failed to delete snapshot for %s: %w", id, err)
	}
	return nil
}

func (e *PathEngine) metadataKey(id snapshot.Identifier) string {
	return path.Join(e.ops.Root(), metadataDir, id.Encode(snapshot.MetadataExt))
}

func (e *PathEngine) snapshotKey(id snapshot.Identifier) string {
	return path.Join(e.ops.Root(), snapshotDir, id.Encode(snapshot.SnapshotExt))
}
