package accessservice

import (
	"context"
	"docvault/internal/models"
	"docvault/internal/token"
	"io"
)

type DocumentProvider interface {
	DocumentByID(ctx context.Context, id string) (*models.Document, error)
}

type GrantStore interface {
	GrantByToken(ctx context.Context, documentID string, token string) (*models.AccessGrant, error)
	MarkConsumed(ctx context.Context, id string) error
}

type TokenVerifier interface {
	VerifyShare(tok string) (*token.ShareClaims, error)
}

type BlobStore interface {
	Open(ctx context.Context, locator string) (io.ReadCloser, error)
}
