package repositories

import (
	"context"
	"io"
)

// BlobStore resolves opaque storage keys into byte streams. Implementations
// back onto an object store; every operation fails independently of the
// metadata store.
type BlobStore interface {
	// OpenRead returns a stream for the blob. The caller must close it.
	// Fails with domain.ErrNotFound when the key does not resolve.
	OpenRead(ctx context.Context, key string) (io.ReadCloser, error)

	// Write stores the blob under key, replacing any existing content.
	Write(ctx context.Context, key string, body io.Reader, size int64) error

	// Delete removes the blob. Deleting an absent blob succeeds (idempotent).
	Delete(ctx context.Context, key string) error

	// Exists reports whether the key currently resolves
	Exists(ctx context.Context, key string) (bool, error)
}
