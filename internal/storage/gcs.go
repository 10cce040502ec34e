package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCSOps implements FileOps against a Google Cloud Storage bucket.
type GCSOps struct {
	client *gcs.Client
	bucket string
	prefix string
}

// GCSConfig holds GCS-specific configuration.
type GCSConfig struct {
	Bucket             string
	ProjectID          string
	ServiceAccountJSON string
	Prefix             string // Optional root prefix for all keys
}

// NewGCSEngine creates a storage engine backed by GCS.
func NewGCSEngine(ctx context.Context, cfg GCSConfig) (*PathEngine, error) {
	ops, err := NewGCSOps(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewPathEngine(ops), nil
}

// NewGCSOps creates the GCS primitive set.
func NewGCSOps(ctx context.Context, cfg GCSConfig) (*GCSOps, error) {
	var opts []option.ClientOption
	if cfg.ServiceAccountJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.ServiceAccountJSON)))
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSOps{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

// Root implements FileOps.Root.
func (g *GCSOps) Root() string {
	return g.prefix
}

// ListDir implements FileOps.ListDir. The "/" delimiter folds nested
// prefixes into synthetic entries with an empty name, which are skipped.
func (g *GCSOps) ListDir(ctx context.Context, dir string) ([]DirEntry, error) {
	prefix := dir
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	var entries []DirEntry
	it := g.client.Bucket(g.bucket).Objects(ctx, &gcs.Query{
		Prefix:    prefix,
		Delimiter: "/",
	})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list GCS objects under %s: %w", prefix, err)
		}
		if attrs.Prefix != "" {
			// Synthetic common-prefix entry for a sub-namespace.
			continue
		}

		name, ext, ok := splitExt(path.Base(attrs.Name))
		if !ok {
			continue
		}
		entries = append(entries, DirEntry{Name: name, Ext: ext})
	}

	return entries, nil
}

// ReadAll implements FileOps.ReadAll.
func (g *GCSOps) ReadAll(ctx context.Context, key string) ([]byte, error) {
	r, err := g.client.Bucket(g.bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to open GCS object %s: %w", key, err)
	}
	defer func() {
		_ = r.Close()
	}()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read GCS object %s: %w", key, err)
	}
	return data, nil
}

// Materialize implements FileOps.Materialize with a download to
// destPath. A partially written file is removed on failure.
func (g *GCSOps) Materialize(ctx context.Context, key, destPath string) (string, error) {
	r, err := g.client.Bucket(g.bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return "", fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return "", fmt.Errorf("failed to open GCS object %s: %w", key, err)
	}
	defer func() {
		_ = r.Close()
	}()

	f, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", destPath, err)
	}

	_, err = io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(destPath)
		return "", fmt.Errorf("failed to download GCS object %s: %w", key, err)
	}

	return destPath, nil
}

// WriteFile implements FileOps.WriteFile. The object writer streams; the
// upload completes atomically on Close.
func (g *GCSOps) WriteFile(ctx context.Context, key string, r io.Reader) error {
	w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to upload GCS object %s: %w", key, err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize GCS object %s: %w", key, err)
	}

	return nil
}

// Delete implements FileOps.Delete. GCS reports missing objects on
// delete, matching the filesystem backend's semantics directly.
func (g *GCSOps) Delete(ctx context.Context, key string) error {
	if err := g.client.Bucket(g.bucket).Object(key).Delete(ctx); err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return fmt.Errorf("failed to delete GCS object %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying GCS client.
func (g *GCSOps) Close() error {
	return g.client.Close()
}

// ValidateServiceAccountJSON validates the service account JSON string.
func ValidateServiceAccountJSON(jsonStr string) error {
	var sa struct {
		Type string `json:"type"`
	}

	if err := json.Unmarshal([]byte(jsonStr), &sa); err != nil {
		return fmt.Errorf("invalid service account JSON: %w", err)
	}

	if sa.Type != "service_account" {
		return fmt.Errorf("invalid service account type: %s", sa.Type)
	}

	return nil
}
