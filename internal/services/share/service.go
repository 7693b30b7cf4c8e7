package shareservice

import (
	"context"
	"docvault/internal/models"
	"docvault/internal/validator"
	"errors"
	"fmt"
	"log/slog"
	"time"

	uuid "github.com/satori/go.uuid"
)

const pkg = "shareService/"

// ShareService issues access grants of the three kinds. All issuance is
// ownership-checked against the target document.
type ShareService struct {
	log     *slog.Logger
	docs    DocumentProvider
	grants  GrantStore
	codec   TokenCodec
	email   EmailSender
	baseURL string
}

func New(
	log *slog.Logger,
	docs DocumentProvider,
	grants GrantStore,
	codec TokenCodec,
	email EmailSender,
	baseURL string,
) *ShareService {
	return &ShareService{
		log:     log,
		docs:    docs,
		grants:  grants,
		codec:   codec,
		email:   email,
		baseURL: baseURL,
	}
}

// IssuePublic creates a short-lived grant usable by anyone holding the
// link.
func (ss *ShareService) IssuePublic(ctx context.Context, docID string, requesterID string) (*models.AccessGrant, string, error) {
	op := pkg + "IssuePublic"

	log := ss.log.With(slog.String("op", op))

	log.Debug("attempting to issue public grant", slog.String("doc_id", docID), slog.String("user_id", requesterID))

	if err := ss.checkOwner(ctx, log, docID, requesterID); err != nil {
		return nil, "", err
	}

	now := time.Now()
	expiresAt := now.Add(ss.codec.TTL())

	grant := &models.AccessGrant{
		ID:         uuid.NewV4().String(),
		DocumentID: docID,
		Token:      ss.codec.NewOpaque(),
		Kind:       models.GrantPublic,
		IssuedAt:   now,
		ExpiresAt:  &expiresAt,
	}

	if err := ss.grants.Create(ctx, grant); err != nil {
		log.Error("failed to persist grant", slog.String("error", err.Error()))
		return nil, "", fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	url := fmt.Sprintf("%s/api/documents/%s/public?token=%s", ss.baseURL, docID, grant.Token)

	log.Debug("public grant issued", slog.String("doc_id", docID), slog.String("grant_id", grant.ID))

	return grant, url, nil
}

// IssuePrivate creates a grant bound to the recipient user. Private
// grants carry no expiry (inherited behavior, see AccessGrant docs).
func (ss *ShareService) IssuePrivate(ctx context.Context, docID string, requesterID string, recipientUserID string) (*models.AccessGrant, string, error) {
	op := pkg + "IssuePrivate"

	log := ss.log.With(slog.String("op", op))

	log.Debug("attempting to issue private grant", slog.String("doc_id", docID), slog.String("user_id", requesterID))

	if recipientUserID == "" {
		log.Warn("missing recipient user id")
		return nil, "", models.ErrInvalidParams
	}

	if err := ss.checkOwner(ctx, log, docID, requesterID); err != nil {
		return nil, "", err
	}

	grant := &models.AccessGrant{
		ID:          uuid.NewV4().String(),
		DocumentID:  docID,
		Token:       ss.codec.NewOpaque(),
		Kind:        models.GrantPrivate,
		BoundUserID: &recipientUserID,
		IssuedAt:    time.Now(),
	}

	if err := ss.grants.Create(ctx, grant); err != nil {
		log.Error("failed to persist grant", slog.String("error", err.Error()))
		return nil, "", fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	url := fmt.Sprintf("%s/api/documents/%s/private?token=%s", ss.baseURL, docID, grant.Token)

	log.Debug("private grant issued", slog.String("doc_id", docID), slog.String("grant_id", grant.ID))

	return grant, url, nil
}

// IssueEmailed creates a short-lived grant whose token is additionally
// signed, then mails the link. The grant is rolled back when sending
// fails; delivery is not best-effort.
func (ss *ShareService) IssueEmailed(ctx context.Context, docID string, requesterID string, recipientEmail string) (*models.AccessGrant, string, error) {
	op := pkg + "IssueEmailed"

	log := ss.log.With(slog.String("op", op))

	log.Debug("attempting to issue emailed grant", slog.String("doc_id", docID), slog.String("user_id", requesterID))

	if !validator.IsValidEmail(recipientEmail) {
		log.Warn("invalid recipient email")
		return nil, "", models.ErrInvalidParams
	}

	if err := ss.checkOwner(ctx, log, docID, requesterID); err != nil {
		return nil, "", err
	}

	signed, err := ss.codec.SignShare(docID, requesterID)
	if err != nil {
		log.Error("failed to sign share token", slog.String("error", err.Error()))
		return nil, "", fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	now := time.Now()
	expiresAt := now.Add(ss.codec.TTL())

	grant := &models.AccessGrant{
		ID:          uuid.NewV4().String(),
		DocumentID:  docID,
		Token:       signed,
		Kind:        models.GrantEmailed,
		BoundUserID: &requesterID,
		IssuedAt:    now,
		ExpiresAt:   &expiresAt,
	}

	if err := ss.grants.Create(ctx, grant); err != nil {
		log.Error("failed to persist grant", slog.String("error", err.Error()))
		return nil, "", fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	url := fmt.Sprintf("%s/api/documents/%s/access?token=%s", ss.baseURL, docID, grant.Token)

	if err := ss.email.Send(ctx, recipientEmail, url, expiresAt); err != nil {
		log.Error("failed to send share email, rolling grant back", slog.String("error", err.Error()))

		if delErr := ss.grants.Delete(ctx, grant.ID); delErr != nil {
			// the grant still dies with its expiry; the sweeper
			// collects the row
			log.Error("failed to roll back grant", slog.String("grant_id", grant.ID), slog.String("error", delErr.Error()))
		}

		return nil, "", fmt.Errorf("%s: %w", op, models.ErrUpstream)
	}

	log.Debug("emailed grant issued", slog.String("doc_id", docID), slog.String("grant_id", grant.ID))

	return grant, url, nil
}

func (ss *ShareService) checkOwner(ctx context.Context, log *slog.Logger, docID string, requesterID string) error {
	doc, err := ss.docs.DocumentByID(ctx, docID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document not found", slog.String("doc_id", docID))
			return models.ErrDocumentNotFound
		}
		log.Error("failed to get document by id", slog.String("error", err.Error()))
		return models.ErrInternal
	}

	if doc.OwnerID != requesterID {
		log.Warn("user is not the document owner", slog.String("doc_id", docID), slog.String("user_id", requesterID))
		return models.ErrForbidden
	}

	return nil
}
