package access

import (
	"context"
	"docvault/internal/models"
	"io"
)

const pkg = "accessHandler/"

type GrantValidator interface {
	Validate(ctx context.Context, docID string, tok string, kind models.GrantKind, requester *models.User) (*models.Document, io.ReadCloser, error)
}
