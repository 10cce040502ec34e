// Package storage defines the snapshot storage contract and its backends.
package storage

import (
	"context"
	"errors"
	"io"

	"github.com/shardbase/tablesnap/internal/snapshot"
)

// ErrNotFound indicates a metadata or snapshot entry that does not exist
// in the backend namespace. Backends map their native "no such file" or
// "no such key" failures to this sentinel.
var ErrNotFound = errors.New("not found")

// Engine is the backend-agnostic storage contract. Both halves of a
// snapshot (metadata record and data object) live under a single root,
// in the "metadata" and "snapshot" sub-namespaces respectively.
type Engine interface {
	// List enumerates every identifier in the metadata sub-namespace.
	// Order is unspecified. An unparsable entry is an error, not skipped.
	List(ctx context.Context) ([]snapshot.Identifier, error)

	// LoadMetadata reads the metadata record for id. Returns ErrNotFound
	// if no entry exists.
	LoadMetadata(ctx context.Context, id snapshot.Identifier) (*snapshot.Metadata, error)

	// SaveMetadata persists m, overwriting any existing entry for its
	// identifier, and echoes m back on success.
	SaveMetadata(ctx context.Context, m *snapshot.Metadata) (*snapshot.Metadata, error)

	// LoadSnapshot materializes the snapshot bytes for id at a local
	// path usable by a database engine and returns that path. Backends
	// holding the bytes on local disk already may return the stored path
	// instead of copying to destPath. Returns ErrNotFound if no entry
	// exists.
	LoadSnapshot(ctx context.Context, id snapshot.Identifier, destPath string) (string, error)

	// SaveSnapshot transfers the file at srcPath into the snapshot
	// sub-namespace under id, creating any missing namespace structure.
	SaveSnapshot(ctx context.Context, id snapshot.Identifier, srcPath string) error

	// DeleteMetadata removes the metadata record for id. Deleting an
	// absent entry returns ErrNotFound.
	DeleteMetadata(ctx context.Context, id snapshot.Identifier) error

	// DeleteSnapshot removes the snapshot data for id. Deleting an
	// absent entry returns ErrNotFound.
	DeleteSnapshot(ctx context.Context, id snapshot.Identifier) error
}

// DirEntry is one listable entry: the filename up to the last dot and
// the extension after it.
type DirEntry struct {
	Name string
	Ext  string
}

// FileOps is the primitive set a backend supplies. PathEngine derives
// the full Engine contract from these five operations plus the root, so
// a new backend only implements FileOps.
type FileOps interface {
	// Root is the configured root path or key prefix.
	Root() string

	// ListDir lists the entries directly under dir. Directory-only
	// entries must be excluded, by filtering or by construction.
	ListDir(ctx context.Context, dir string) ([]DirEntry, error)

	// ReadAll reads the full contents at key. Returns ErrNotFound if the
	// key does not exist.
	ReadAll(ctx context.Context, key string) ([]byte, error)

	// Materialize makes the bytes at key available at a local path and
	// returns it. Local backends may return key itself without copying.
	// Returns ErrNotFound if the key does not exist.
	Materialize(ctx context.Context, key, destPath string) (string, error)

	// WriteFile streams r to key, creating missing parent structure.
	WriteFile(ctx context.Context, key string, r io.Reader) error

	// Delete removes key. Returns ErrNotFound if it does not exist.
	Delete(ctx context.Context, key string) error
}
