// Package storage keeps media objects (profile avatars) in MinIO, Google
// Cloud Storage, S3 or memory.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/khalfanathman/portfolio-api/config"
)

const (
	BackendNone   = "none"
	BackendMinio  = "minio"
	BackendGCS    = "gcs"
	BackendS3     = "s3"
	BackendMemory = "memory"
)

// ErrObjectNotFound is returned by Get when the key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// New returns the backend selected by cfg.Backend, or nil for "none".
func New(ctx context.Context, cfg config.StorageConfig) (ObjectStorage, error) {
	switch cfg.Backend {
	case "", BackendNone:
		return nil, nil
	case BackendMinio:
		return NewMinioClient(cfg.Minio)
	case BackendGCS:
		return NewGCSClient(ctx, cfg.GCS)
	case BackendS3:
		return NewS3Client(ctx, cfg.S3)
	case BackendMemory:
		return NewMemory("media"), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
