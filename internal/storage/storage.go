package storage

import (
	"context"
	"io"
	"time"
)

// PutObjectOptions define optional parameters for uploading archives.
// Size should be the exact number of bytes if known; if unknown, set to -1.
type PutObjectOptions struct {
	Size               int64
	ContentType        string
	ContentDisposition string
	Metadata           map[string]string
}

// ObjectInfo contains basic information about a stored archive.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
}

// ArchiveStore is an S3-compatible bucket that holds exported archives so
// clients can fetch them through a time-limited link instead of the HTTP response.
// Uploaded pastes never go here: their bytes stay under the local storage root.
type ArchiveStore interface {
	// Put uploads an archive under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Delete removes an archive by key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL that can be used to download the archive without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
