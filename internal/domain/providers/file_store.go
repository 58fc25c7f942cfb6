package providers

import (
	"context"
	"io"
)

// FileStore abstracts document binary storage. Paths returned by Save are
// opaque to callers and stored on the document record.
type FileStore interface {
	// Save writes the content and returns its storage path
	Save(ctx context.Context, userID, fileName string, content io.Reader) (string, int64, error)

	// Open opens stored content for reading
	Open(ctx context.Context, storagePath string) (io.ReadCloser, error)

	// Remove deletes stored content; removing a missing path is not an
	// error
	Remove(ctx context.Context, storagePath string) error
}
