package storage

import (
	"context"
	"io"
)

// ObjectStore abstracts the blob service holding survey images. One object
// per uploaded image; records reference objects by key and URL.
type ObjectStore interface {
	// Upload stores the object and returns its public URL
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	// Fetch reads the whole object
	Fetch(ctx context.Context, key string) ([]byte, error)
	// Delete removes the object
	Delete(ctx context.Context, key string) error
}
