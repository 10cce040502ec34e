package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shardbase/tablesnap/internal/snapshot"
)

// RetryConfig holds retry configuration for storage operations.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
	}
}

// RetryableEngine wraps an Engine with exponential-backoff retries for
// transient backend failures. ErrNotFound and identifier errors are
// terminal and never retried. The orchestration layer itself performs no
// retries; this decorator is applied by the caller wiring the engine.
type RetryableEngine struct {
	engine Engine
	config RetryConfig
}

// NewRetryableEngine creates a new engine wrapper with retry logic.
func NewRetryableEngine(engine Engine, config RetryConfig) *RetryableEngine {
	return &RetryableEngine{
		engine: engine,
		config: config,
	}
}

// List implements Engine.List with retry logic.
func (r *RetryableEngine) List(ctx context.Context) ([]snapshot.Identifier, error) {
	var result []snapshot.Identifier
	err := r.retry(ctx, func() error {
		var err error
		result, err = r.engine.List(ctx)
		return err
	})
	return result, err
}

// LoadMetadata implements Engine.LoadMetadata with retry logic.
func (r *RetryableEngine) LoadMetadata(ctx context.Context, id snapshot.Identifier) (*snapshot.Metadata, error) {
	var result *snapshot.Metadata
	err := r.retry(ctx, func() error {
		var err error
		result, err = r.engine.LoadMetadata(ctx, id)
		return err
	})
	return result, err
}

// SaveMetadata implements Engine.SaveMetadata with retry logic.
func (r *RetryableEngine) SaveMetadata(ctx context.Context, m *snapshot.Metadata) (*snapshot.Metadata, error) {
	var result *snapshot.Metadata
	err := r.retry(ctx, func() error {
		var err error
		result, err = r.engine.SaveMetadata(ctx, m)
		return err
	})
	return result, err
}

// LoadSnapshot implements Engine.LoadSnapshot with retry logic.
func (r *RetryableEngine) LoadSnapshot(ctx context.Context, id snapshot.Identifier, destPath string) (string, error) {
	var result string
	err := r.retry(ctx, func() error {
		var err error
		result, err = r.engine.LoadSnapshot(ctx, id, destPath)
		return err
	})
	return result, err
}

// SaveSnapshot implements Engine.SaveSnapshot with retry logic.
func (r *RetryableEngine) SaveSnapshot(ctx context.Context, id snapshot.Identifier, srcPath string) error {
	return r.retry(ctx, func() error {
		return r.engine.SaveSnapshot(ctx, id, srcPath)
	})
}

// DeleteMetadata implements Engine.DeleteMetadata with retry logic.
func (r *RetryableEngine) DeleteMetadata(ctx context.Context, id snapshot.Identifier) error {
	return r.retry(ctx, func() error {
		return r.engine.DeleteMetadata(ctx, id)
	})
}

// DeleteSnapshot implements Engine.DeleteSnapshot with retry logic.
func (r *RetryableEngine) DeleteSnapshot(ctx context.Context, id snapshot.Identifier) error {
	return r.retry(ctx, func() error {
		return r.engine.DeleteSnapshot(ctx, id)
	})
}

// retry executes fn with exponential backoff.
func (r *RetryableEngine) retry(ctx context.Context, fn func() error) error {
	delay := r.config.InitialDelay

	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		if !isRetryable(err) {
			return err
		}

		if attempt == r.config.MaxAttempts {
			return fmt.Errorf("operation failed after %d attempts: %w", r.config.MaxAttempts, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * r.config.Multiplier)
		if delay > r.config.MaxDelay {
			delay = r.config.MaxDelay
		}
	}
}

// isRetryable reports whether a failure may be transient. Missing
// entries and unparsable identifiers will not heal on retry.
func isRetryable(err error) bool {
	return !errors.Is(err, ErrNotFound) &&
		!errors.Is(err, snapshot.ErrMalformedIdentifier) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}
