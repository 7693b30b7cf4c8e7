package docs

import (
	"context"
	"docvault/internal/models"
	"io"
)

const pkg = "docsHandler/"

type DocumentUploader interface {
	UploadDocument(ctx context.Context, requester *models.User, title, content, description, filename string, file io.Reader) (*models.Document, error)
}

type DocumentProvider interface {
	DocumentByID(ctx context.Context, docID string, requester *models.User) (*models.Document, io.ReadCloser, error)
	ListDocuments(ctx context.Context, requester *models.User, limit int) ([]*models.Document, error)
}

type DocumentDeleter interface {
	DeleteDocument(ctx context.Context, docID string, requester *models.User) error
}

type DocumentUpdater interface {
	ApplyUpdate(ctx context.Context, docID string, requesterID string, patch models.DocumentPatch, filename string, file io.Reader) (*models.Document, error)
}

type RevisionLister interface {
	ListRevisions(ctx context.Context, docID string, requesterID string) ([]*models.Revision, error)
}

type RevisionProvider interface {
	RevisionByVersion(ctx context.Context, docID string, requesterID string, version int) (*models.Revision, error)
}
