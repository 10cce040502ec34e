package config

import (
	"strings"
	"testing"
)

func validFilesystemConfig() *Config {
	return &Config{
		DatabaseURL:     "postgres://localhost/app",
		StorageProvider: "filesystem",
		StorageRoot:     "/var/lib/tablesnap",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid filesystem",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing database url",
			mutate:  func(c *Config) { c.DatabaseURL = "" },
			wantErr: "DATABASE_URL",
		},
		{
			name:    "missing provider",
			mutate:  func(c *Config) { c.StorageProvider = "" },
			wantErr: "STORAGE_PROVIDER",
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.StorageProvider = "tape" },
			wantErr: "invalid STORAGE_PROVIDER",
		},
		{
			name: "filesystem without root",
			mutate: func(c *Config) {
				c.StorageRoot = ""
			},
			wantErr: "STORAGE_ROOT",
		},
		{
			name: "s3 without credentials",
			mutate: func(c *Config) {
				c.StorageProvider = "s3"
				c.S3Bucket = "snapshots"
				c.S3Region = "us-east-1"
			},
			wantErr: "AWS_ACCESS_KEY_ID",
		},
		{
			name: "s3 without region or endpoint",
			mutate: func(c *Config) {
				c.StorageProvider = "s3"
				c.AWSAccessKeyID = "key"
				c.AWSSecretAccessKey = "secret"
				c.S3Bucket = "snapshots"
			},
			wantErr: "S3_REGION",
		},
		{
			name: "s3 with endpoint instead of region",
			mutate: func(c *Config) {
				c.StorageProvider = "s3"
				c.AWSAccessKeyID = "key"
				c.AWSSecretAccessKey = "secret"
				c.S3Bucket = "snapshots"
				c.S3Endpoint = "http://minio:9000"
			},
		},
		{
			name: "gcs without bucket",
			mutate: func(c *Config) {
				c.StorageProvider = "gcs"
				c.GoogleProjectID = "project"
				c.GoogleServiceAccountJSON = "{}"
			},
			wantErr: "GCS_BUCKET",
		},
		{
			name: "valid gcs",
			mutate: func(c *Config) {
				c.StorageProvider = "gcs"
				c.GCSBucket = "snapshots"
				c.GoogleProjectID = "project"
				c.GoogleServiceAccountJSON = `{"type":"service_account"}`
			},
		},
		{
			name:    "negative retry attempts",
			mutate:  func(c *Config) { c.StorageRetryAttempts = -1 },
			wantErr: "STORAGE_RETRY_ATTEMPTS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validFilesystemConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/app")
	t.Setenv("STORAGE_PROVIDER", "filesystem")
	t.Setenv("STORAGE_ROOT", "/var/lib/tablesnap")
	t.Setenv("TEMP_DIR", "/scratch")
	t.Setenv("STORAGE_RETRY_ATTEMPTS", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.StorageProvider != "filesystem" {
		t.Errorf("StorageProvider = %q", cfg.StorageProvider)
	}
	if cfg.TempDir != "/scratch" {
		t.Errorf("TempDir = %q", cfg.TempDir)
	}
	if cfg.StorageRetryAttempts != 5 {
		t.Errorf("StorageRetryAttempts = %d", cfg.StorageRetryAttempts)
	}
}

func TestLoad_InvalidConfigFails(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STORAGE_PROVIDER", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() with empty environment succeeded")
	}
}
