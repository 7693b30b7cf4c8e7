package documentservice

import (
	"context"
	"docvault/internal/models"
	"io"
)

type DocumentRepository interface {
	CreateDocument(ctx context.Context, doc *models.Document) error
	DocumentByID(ctx context.Context, id string) (*models.Document, error)
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]*models.Document, error)
	Delete(ctx context.Context, id string) (string, error)
}

type BlobStore interface {
	Save(ctx context.Context, reader io.Reader, hint string) (string, error)
	Open(ctx context.Context, locator string) (io.ReadCloser, error)
	Delete(ctx context.Context, locator string) error
}

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}) error
	Del(ctx context.Context, keys ...string) error
}
