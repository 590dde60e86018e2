package port

import (
	"context"
	"io"
	"time"
)

// PutObjectInput describes an object to archive.
type PutObjectInput struct {
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
}

// ObjectStorage archives uploads and review exports.
type ObjectStorage interface {
	// Put stores the object and returns its location.
	Put(ctx context.Context, input PutObjectInput) (string, error)
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
