package storage

import (
	"context"
	"io"
)

// BlobStore keeps document content outside the database. A locator is
// an opaque handle; Delete on a missing locator is not an error.
type BlobStore interface {
	Save(ctx context.Context, reader io.Reader, hint string) (string, error)
	Open(ctx context.Context, locator string) (io.ReadCloser, error)
	Delete(ctx context.Context, locator string) error
}
