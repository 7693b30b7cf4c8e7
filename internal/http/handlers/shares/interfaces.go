package shares

import (
	"context"
	"docvault/internal/models"
)

const pkg = "sharesHandler/"

type ShareIssuer interface {
	IssuePublic(ctx context.Context, docID string, requesterID string) (*models.AccessGrant, string, error)
	IssuePrivate(ctx context.Context, docID string, requesterID string, recipientUserID string) (*models.AccessGrant, string, error)
	IssueEmailed(ctx context.Context, docID string, requesterID string, recipientEmail string) (*models.AccessGrant, string, error)
}
