package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemOps implements FileOps against a local directory tree. Keys
// are plain paths under the configured root.
type FilesystemOps struct {
	root string
}

// NewFilesystemEngine returns a storage engine rooted at dir.
func NewFilesystemEngine(dir string) *PathEngine {
	return NewPathEngine(&FilesystemOps{root: dir})
}

// Root implements FileOps.Root.
func (f *FilesystemOps) Root() string {
	return f.root
}

// ListDir implements FileOps.ListDir. Subdirectories and filenames
// without an extension are excluded, not errors.
func (f *FilesystemOps) ListDir(ctx context.Context, dir string) ([]DirEntry, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var entries []DirEntry
	for _, d := range dirents {
		if d.IsDir() {
			continue
		}
		name, ext, ok := splitExt(d.Name())
		if !ok {
			continue
		}
		entries = append(entries, DirEntry{Name: name, Ext: ext})
	}

	return entries, nil
}

// ReadAll implements FileOps.ReadAll.
func (f *FilesystemOps) ReadAll(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(key)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Materialize implements FileOps.Materialize. The stored path already is
// a local path, so no copy is made and destPath goes unused.
func (f *FilesystemOps) Materialize(ctx context.Context, key, destPath string) (string, error) {
	if _, err := os.Stat(key); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return "", fmt.Errorf("failed to stat %s: %w", key, err)
	}
	return key, nil
}

// WriteFile implements FileOps.WriteFile with a streaming copy. The
// immediate parent directory is created if absent.
func (f *FilesystemOps) WriteFile(ctx context.Context, key string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(key), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", key, err)
	}

	dst, err := os.Create(key)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", key, err)
	}

	if _, err := io.Copy(dst, r); err != nil {
		_ = dst.Close()
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	if err := dst.Close(); err != nil {
		return fmt.Errorf("failed to finalize %s: %w", key, err)
	}

	return nil
}

// Delete implements FileOps.Delete. Removing an absent file is an error.
func (f *FilesystemOps) Delete(ctx context.Context, key string) error {
	if err := os.Remove(key); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// splitExt splits a basename at its last dot.
func splitExt(basename string) (name, ext string, ok bool) {
	i := strings.LastIndex(basename, ".")
	if i < 0 {
		return basename, "", false
	}
	return basename[:i], basename[i+1:], true
}
