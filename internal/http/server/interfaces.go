package server

import (
	"context"
	"docvault/internal/models"
	"io"
)

type AuthService interface {
	Register(ctx context.Context, login string, password string, token string) (string, error)
	Login(ctx context.Context, login string, password string) (string, error)
	UserByToken(ctx context.Context, token string) (*models.User, error)
	Logout(ctx context.Context, token string) error
}

type DocumentService interface {
	UploadDocument(ctx context.Context, requester *models.User, title, content, description, filename string, file io.Reader) (*models.Document, error)
	DocumentByID(ctx context.Context, docID string, requester *models.User) (*models.Document, io.ReadCloser, error)
	ListDocuments(ctx context.Context, requester *models.User, limit int) ([]*models.Document, error)
	DeleteDocument(ctx context.Context, docID string, requester *models.User) error
}

type RevisionService interface {
	ApplyUpdate(ctx context.Context, docID string, requesterID string, patch models.DocumentPatch, filename string, file io.Reader) (*models.Document, error)
	ListRevisions(ctx context.Context, docID string, requesterID string) ([]*models.Revision, error)
	RevisionByVersion(ctx context.Context, docID string, requesterID string, version int) (*models.Revision, error)
}

type ShareService interface {
	IssuePublic(ctx context.Context, docID string, requesterID string) (*models.AccessGrant, string, error)
	IssuePrivate(ctx context.Context, docID string, requesterID string, recipientUserID string) (*models.AccessGrant, string, error)
	IssueEmailed(ctx context.Context, docID string, requesterID string, recipientEmail string) (*models.AccessGrant, string, error)
}

type AccessService interface {
	Validate(ctx context.Context, docID string, tok string, kind models.GrantKind, requester *models.User) (*models.Document, io.ReadCloser, error)
}

type SessionStorer interface {
	UserByToken(ctx context.Context, token string) (*models.User, error)
}
