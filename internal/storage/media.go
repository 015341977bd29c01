// Package storage wraps the external S3-compatible media store. The core
// only ever deletes objects (on hard-delete resolutions); uploads belong to
// the upload service.
package storage

import (
	"context"
	"log/slog"

	"github.com/brahdyssey/itimeline-backend/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MediaStore deletes media objects best-effort.
type MediaStore interface {
	Remove(ctx context.Context, objectKey string) error
}

type minioStore struct {
	client *minio.Client
	bucket string
}

// NewMediaStore returns a minio-backed MediaStore, or nil when no endpoint
// is configured (media deletion then degrades to a logged no-op).
func NewMediaStore(cfg *config.Config) (MediaStore, error) {
	if cfg.MediaEndpoint == "" {
		return nil, nil
	}
	client, err := minio.New(cfg.MediaEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MediaAccessKey, cfg.MediaSecretKey, ""),
		Secure: cfg.MediaUseSSL,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("media store configured", "endpoint", cfg.MediaEndpoint, "bucket", cfg.MediaBucket)
	return &minioStore{client: client, bucket: cfg.MediaBucket}, nil
}

func (s *minioStore) Remove(ctx context.Context, objectKey string) error {
	return s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{})
}
