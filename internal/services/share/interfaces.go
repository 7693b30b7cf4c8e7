package shareservice

import (
	"context"
	"docvault/internal/models"
	"time"
)

type DocumentProvider interface {
	DocumentByID(ctx context.Context, id string) (*models.Document, error)
}

type GrantStore interface {
	Create(ctx context.Context, grant *models.AccessGrant) error
	Delete(ctx context.Context, id string) error
}

type TokenCodec interface {
	NewOpaque() string
	SignShare(documentID string, userID string) (string, error)
	TTL() time.Duration
}

type EmailSender interface {
	Send(ctx context.Context, to string, url string, expiresAt time.Time) error
}
