package domain

import (
	"context"
	"time"
)

// BlobObject describes one stored object as seen by a prefix listing.
type BlobObject struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// BlobStore is opaque key/value object storage. It has no transactional
// relationship with the metadata repositories; every multi-step operation
// assumes the two can diverge between steps.
type BlobStore interface {
	Put(ctx context.Context, key string, content []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete is idempotent: deleting an absent key is a no-op, not an error.
	Delete(ctx context.Context, key string) error
	Copy(ctx context.Context, sourceKey, destinationKey string) error
	ListByPrefix(ctx context.Context, prefix string) ([]BlobObject, error)
}
