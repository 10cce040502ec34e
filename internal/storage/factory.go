package storage

import (
	"context"
	"fmt"

	"github.com/shardbase/tablesnap/internal/config"
)

// NewEngine creates a storage engine based on configuration. When
// STORAGE_RETRY_ATTEMPTS is set the engine is wrapped with the retry
// decorator; by default operations are attempted exactly once.
func NewEngine(ctx context.Context, cfg *config.Config) (Engine, error) {
	var engine Engine
	var err error

	switch cfg.StorageProvider {
	case "filesystem":
		engine = NewFilesystemEngine(cfg.StorageRoot)

	case "s3":
		s3Config := S3Config{
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
			Prefix:          cfg.StorageRoot,
			UsePathStyle:    cfg.S3Endpoint != "", // Use path style for custom endpoints
		}
		engine, err = NewS3Engine(ctx, s3Config)

	case "gcs":
		if err := ValidateServiceAccountJSON(cfg.GoogleServiceAccountJSON); err != nil {
			return nil, fmt.Errorf("invalid GCS service account: %w", err)
		}

		gcsConfig := GCSConfig{
			Bucket:             cfg.GCSBucket,
			ProjectID:          cfg.GoogleProjectID,
			ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
			Prefix:             cfg.StorageRoot,
		}
		engine, err = NewGCSEngine(ctx, gcsConfig)

	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.StorageProvider)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create %s storage: %w", cfg.StorageProvider, err)
	}

	if cfg.StorageRetryAttempts > 0 {
		retryCfg := DefaultRetryConfig()
		retryCfg.MaxAttempts = cfg.StorageRetryAttempts
		engine = NewRetryableEngine(engine, retryCfg)
	}

	return engine, nil
}
