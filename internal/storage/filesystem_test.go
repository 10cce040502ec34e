package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shardbase/tablesnap/internal/snapshot"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "artifact")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestFilesystemEngine_FullCycle(t *testing.T) {
	root := t.TempDir()
	engine := NewFilesystemEngine(root)
	ctx := context.Background()
	id := testIdentifier(t, "table_a", "table_b")

	// Empty store lists empty.
	ids, err := engine.List(ctx)
	if err != nil {
		t.Fatalf("List() on empty root error = %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("List() on empty root = %v", ids)
	}

	// Save both halves; parent directories are created on demand.
	src := writeTempFile(t, "dump bytes")
	if err := engine.SaveSnapshot(ctx, id, src); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}
	m := &snapshot.Metadata{
		Identifier: id,
		Meta:       map[string]any{"my": "metadata"},
	}
	if _, err := engine.SaveMetadata(ctx, m); err != nil {
		t.Fatalf("SaveMetadata() error = %v", err)
	}

	// Layout on disk matches the canonical namespace.
	metaPath := filepath.Join(root, "metadata", "table_a-->table_b.20160201-000000.metadata")
	if _, err := os.Stat(metaPath); err != nil {
		t.Fatalf("metadata file missing: %v", err)
	}
	snapPath := filepath.Join(root, "snapshot", "table_a-->table_b.20160201-000000.snapshot")
	if _, err := os.Stat(snapPath); err != nil {
		t.Fatalf("snapshot file missing: %v", err)
	}

	ids, err = engine.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(ids) != 1 || !ids[0].Equal(id) {
		t.Fatalf("List() = %v, want [%v]", ids, id)
	}

	loaded, err := engine.LoadMetadata(ctx, id)
	if err != nil {
		t.Fatalf("LoadMetadata() error = %v", err)
	}
	if loaded.Meta["my"] != "metadata" {
		t.Errorf("loaded metadata = %v", loaded.Meta)
	}

	// Local materialization is an alias, not a copy.
	dest := filepath.Join(t.TempDir(), "never-created")
	local, err := engine.LoadSnapshot(ctx, id, dest)
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	if local != snapPath {
		t.Errorf("LoadSnapshot() = %q, want stored path %q", local, snapPath)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Errorf("LoadSnapshot() copied to dest path unexpectedly")
	}

	if err := engine.DeleteMetadata(ctx, id); err != nil {
		t.Fatalf("DeleteMetadata() error = %v", err)
	}
	if err := engine.DeleteSnapshot(ctx, id); err != nil {
		t.Fatalf("DeleteSnapshot() error = %v", err)
	}
	if _, err := engine.LoadMetadata(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadMetadata() after delete error = %v, want ErrNotFound", err)
	}
	if _, err := engine.LoadSnapshot(ctx, id, dest); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadSnapshot() after delete error = %v, want ErrNotFound", err)
	}
}

func TestFilesystemEngine_SaveMetadataOverwrites(t *testing.T) {
	engine := NewFilesystemEngine(t.TempDir())
	ctx := context.Background()
	id := testIdentifier(t, "users")

	if _, err := engine.SaveMetadata(ctx, &snapshot.Metadata{Identifier: id, Meta: map[string]any{"rev": "one"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := engine.SaveMetadata(ctx, &snapshot.Metadata{Identifier: id, Meta: map[string]any{"rev": "two"}}); err != nil {
		t.Fatalf("overwriting SaveMetadata() error = %v", err)
	}

	loaded, err := engine.LoadMetadata(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Meta["rev"] != "two" {
		t.Errorf("metadata after overwrite = %v", loaded.Meta)
	}
}

func TestFilesystemOps_ListDirFiltering(t *testing.T) {
	root := t.TempDir()
	metaDir := filepath.Join(root, "metadata")
	if err := os.MkdirAll(filepath.Join(metaDir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"users.20240101-000000.metadata", "README"} {
		if err := os.WriteFile(filepath.Join(metaDir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	ops := &FilesystemOps{root: root}
	entries, err := ops.ListDir(context.Background(), metaDir)
	if err != nil {
		t.Fatalf("ListDir() error = %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("ListDir() = %v, want exactly the conforming file", entries)
	}
	if entries[0].Name != "users.20240101-000000" || entries[0].Ext != "metadata" {
		t.Errorf("ListDir() entry = %+v", entries[0])
	}
}

func TestFilesystemOps_DeleteMissing(t *testing.T) {
	ops := &FilesystemOps{root: t.TempDir()}

	err := ops.Delete(context.Background(), filepath.Join(ops.root, "absent"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}
