package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Ops implements FileOps against an S3 bucket. Keys are object keys;
// the configured prefix acts as the root.
type S3Ops struct {
	client     *s3.Client
	uploader   *manager.Uploader
	downloader *manager.Downloader
	bucket     string
	prefix     string
}

// S3Config holds S3-specific configuration.
type S3Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	Endpoint        string // Optional custom endpoint
	Prefix          string // Optional root prefix for all keys
	UsePathStyle    bool   // For S3-compatible services
}

// NewS3Engine creates a storage engine backed by S3.
func NewS3Engine(ctx context.Context, cfg S3Config) (*PathEngine, error) {
	ops, err := NewS3Ops(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewPathEngine(ops), nil
}

// NewS3Ops creates the S3 primitive set.
func NewS3Ops(ctx context.Context, cfg S3Config) (*S3Ops, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	clientOpts := []func(*s3.Options){
		func(o *s3.Options) {
			o.UsePathStyle = cfg.UsePathStyle
		},
	}
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	client := s3.NewFromConfig(awsCfg, clientOpts...)

	return &S3Ops{
		client:     client,
		uploader:   manager.NewUploader(client),
		downloader: manager.NewDownloader(client),
		bucket:     cfg.Bucket,
		prefix:     cfg.Prefix,
	}, nil
}

// Root implements FileOps.Root.
func (s *S3Ops) Root() string {
	return s.prefix
}

// ListDir implements FileOps.ListDir. Listing uses a "/" delimiter so
// nested prefixes surface as CommonPrefixes and never reach the entry
// set; name and extension derive from each object's basename the same
// way the filesystem backend splits filenames.
func (s *S3Ops) ListDir(ctx context.Context, dir string) ([]DirEntry, error) {
	prefix := dir
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	var entries []DirEntry
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list S3 objects under %s: %w", prefix, err)
		}

		for _, obj := range page.Contents {
			name, ext, ok := splitExt(path.Base(*obj.Key))
			if !ok {
				continue
			}
			entries = append(entries, DirEntry{Name: name, Ext: ext})
		}
	}

	return entries, nil
}

// ReadAll implements FileOps.ReadAll.
func (s *S3Ops) ReadAll(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get S3 object %s: %w", key, err)
	}
	defer func() {
		_ = out.Body.Close()
	}()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object %s: %w", key, err)
	}
	return data, nil
}

// Materialize implements FileOps.Materialize with a download to
// destPath. A partially written file is removed on failure.
func (s *S3Ops) Materialize(ctx context.Context, key, destPath string) (string, error) {
	f, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", destPath, err)
	}

	_, err = s.downloader.Download(ctx, f, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(destPath)
		if isS3NotFound(err) {
			return "", fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return "", fmt.Errorf("failed to download S3 object %s: %w", key, err)
	}

	return destPath, nil
}

// WriteFile implements FileOps.WriteFile. The manager uploader streams
// the body, switching to multipart for large artifacts.
func (s *S3Ops) WriteFile(ctx context.Context, key string, r io.Reader) error {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
	})
	if err != nil {
		return fmt.Errorf("failed to upload S3 object %s: %w", key, err)
	}
	return nil
}

// Delete implements FileOps.Delete. S3 deletes are silently idempotent,
// so the object is probed first to keep "delete absent entry" an error,
// matching the filesystem backend.
func (s *S3Ops) Delete(ctx context.Context, key string) error {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return fmt.Errorf("failed to stat S3 object %s: %w", key, err)
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("failed to delete S3 object %s: %w", key, err)
	}

	return nil
}

// isS3NotFound reports whether err is any of the SDK's missing-object
// error shapes.
func isS3NotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	return errors.As(err, &noSuchKey) || errors.As(err, &notFound)
}
