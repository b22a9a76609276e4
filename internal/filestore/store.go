// Package filestore is the object storage boundary for snapshot publishing.
// Callers depend on Store; provider packages (see filestore/minio) implement it.
//
//	store, err := minio.New(ctx, filestore.DefaultConfig("localhost:9000", "minioadmin", "minioadmin"))
//	if err != nil { ... }
//	defer store.Close()
//
//	info, err := store.PutObject(ctx, "pgmeta", "snapshots/public/1.json", r, -1, filestore.PutOptions{})
package filestore

import (
	"context"
	"io"
	"time"
)

// Store is implemented by every object storage provider. Snapshots are
// written once and never overwritten, deleted or read back, so the
// interface has no such methods. Errors are *errs.Error values.
type Store interface {
	Ping(ctx context.Context) error
	Close() error

	// EnsureBucket creates bucket unless it already exists.
	EnsureBucket(ctx context.Context, bucket string) error

	// PutObject stores r under bucket/key. size is -1 when unknown.
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts PutOptions) (*ObjectInfo, error)

	ListObjects(ctx context.Context, bucket string, opts ListOptions) ([]ObjectInfo, error)

	// StatObject reads an object's metadata without its content.
	StatObject(ctx context.Context, bucket, key string) (*ObjectInfo, error)

	// PresignGetURL returns a download link that expires after ttl.
	PresignGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}
