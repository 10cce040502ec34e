package storage

import (
	"context"
	"testing"

	"github.com/shardbase/tablesnap/internal/config"
)

func TestNewEngine_Filesystem(t *testing.T) {
	cfg := &config.Config{
		StorageProvider: "filesystem",
		StorageRoot:     t.TempDir(),
	}

	engine, err := NewEngine(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	if _, ok := engine.(*PathEngine); !ok {
		t.Errorf("NewEngine() = %T, want *PathEngine", engine)
	}
}

func TestNewEngine_FilesystemWithRetry(t *testing.T) {
	cfg := &config.Config{
		StorageProvider:      "filesystem",
		StorageRoot:          t.TempDir(),
		StorageRetryAttempts: 3,
	}

	engine, err := NewEngine(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	if _, ok := engine.(*RetryableEngine); !ok {
		t.Errorf("NewEngine() = %T, want *RetryableEngine", engine)
	}
}

func TestNewEngine_S3(t *testing.T) {
	cfg := &config.Config{
		StorageProvider:    "s3",
		AWSAccessKeyID:     "key",
		AWSSecretAccessKey: "secret",
		S3Region:           "us-east-1",
		S3Bucket:           "snapshots",
		StorageRoot:        "shard-7",
	}

	engine, err := NewEngine(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	if engine == nil {
		t.Fatal("NewEngine() returned nil engine")
	}
}

func TestNewEngine_UnsupportedProvider(t *testing.T) {
	cfg := &config.Config{StorageProvider: "tape"}

	if _, err := NewEngine(context.Background(), cfg); err == nil {
		t.Fatal("NewEngine() with unsupported provider succeeded")
	}
}

func TestNewEngine_InvalidServiceAccount(t *testing.T) {
	cfg := &config.Config{
		StorageProvider:          "gcs",
		GCSBucket:                "snapshots",
		GoogleProjectID:          "project",
		GoogleServiceAccountJSON: "not json",
	}

	if _, err := NewEngine(context.Background(), cfg); err == nil {
		t.Fatal("NewEngine() with invalid service account succeeded")
	}
}

func TestValidateServiceAccountJSON(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr bool
	}{
		{"valid", `{"type":"service_account"}`, false},
		{"wrong type", `{"type":"user"}`, true},
		{"invalid json", `{`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateServiceAccountJSON(tt.json)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateServiceAccountJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
