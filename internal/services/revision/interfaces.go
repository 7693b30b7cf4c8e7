package revisionservice

import (
	"context"
	"docvault/internal/models"
	"io"
)

type DocumentRepository interface {
	DocumentByID(ctx context.Context, id string) (*models.Document, error)
	ApplyUpdate(ctx context.Context, doc *models.Document, expectedVersion int, snapshot *models.Revision) error
}

type RevisionRepository interface {
	ListByDocument(ctx context.Context, documentID string) ([]*models.Revision, error)
	ByVersion(ctx context.Context, documentID string, version int) (*models.Revision, error)
}

type BlobStore interface {
	Save(ctx context.Context, reader io.Reader, hint string) (string, error)
	Delete(ctx context.Context, locator string) error
}

type Cache interface {
	Del(ctx context.Context, keys ...string) error
}
