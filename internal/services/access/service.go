package accessservice

import (
	"context"
	"docvault/internal/models"
	"errors"
	"io"
	"log/slog"
	"time"
)

const pkg = "accessService/"

// AccessService decides whether a presented token grants access to a
// document. Denial reasons are kept internal; callers surface one
// opaque refusal so tokens cannot be probed for why they failed.
type AccessService struct {
	log       *slog.Logger
	docs      DocumentProvider
	grants    GrantStore
	verifier  TokenVerifier
	blobStore BlobStore
}

func New(
	log *slog.Logger,
	docs DocumentProvider,
	grants GrantStore,
	verifier TokenVerifier,
	blobStore BlobStore,
) *AccessService {
	return &AccessService{
		log:       log,
		docs:      docs,
		grants:    grants,
		verifier:  verifier,
		blobStore: blobStore,
	}
}

// Validate checks the token of the given kind against the document and,
// on success, returns the document and an open reader for its blob when
// one is attached. requester may be nil for anonymous visitors.
func (as *AccessService) Validate(ctx context.Context, docID string, tok string, kind models.GrantKind, requester *models.User) (*models.Document, io.ReadCloser, error) {
	op := pkg + "Validate"

	log := as.log.With(slog.String("op", op), slog.String("doc_id", docID), slog.String("kind", string(kind)))

	log.Debug("attempting to validate access grant")

	if tok == "" || !kind.IsValid() {
		log.Warn("missing token or unknown grant kind")
		return nil, nil, models.ErrInvalidParams
	}

	grant, err := as.grants.GrantByToken(ctx, docID, tok)
	if err != nil {
		if errors.Is(err, models.ErrGrantNotFound) {
			log.Warn("no grant for token")
			return nil, nil, models.ErrGrantNotFound
		}
		log.Error("failed to look up grant", slog.String("error", err.Error()))
		return nil, nil, models.ErrInternal
	}

	// a token presented against the wrong mechanism is treated like an
	// unknown token
	if grant.Kind != kind {
		log.Warn("grant kind mismatch", slog.String("stored_kind", string(grant.Kind)))
		return nil, nil, models.ErrGrantNotFound
	}

	now := time.Now()

	switch kind {
	case models.GrantPublic:
		if grant.Expired(now) {
			log.Warn("public grant expired")
			return nil, nil, models.ErrGrantExpired
		}

	case models.GrantPrivate:
		if requester != nil && (grant.BoundUserID == nil || requester.ID != *grant.BoundUserID) {
			log.Warn("private grant bound to a different user", slog.String("user_id", requester.ID))
			return nil, nil, models.ErrForbidden
		}

	case models.GrantEmailed:
		if grant.Expired(now) {
			log.Warn("emailed grant expired")
			return nil, nil, models.ErrGrantExpired
		}

		// the stored row alone is not enough: the signature and its
		// claims must independently hold
		claims, err := as.verifier.VerifyShare(tok)
		if err != nil {
			log.Warn("share token signature rejected", slog.String("error", err.Error()))
			return nil, nil, models.ErrForbidden
		}

		if claims.DocumentID != docID {
			log.Warn("share token names a different document")
			return nil, nil, models.ErrForbidden
		}
	}

	doc, err := as.docs.DocumentByID(ctx, grant.DocumentID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document gone")
			return nil, nil, models.ErrDocumentNotFound
		}
		log.Error("failed to get document by id", slog.String("error", err.Error()))
		return nil, nil, models.ErrInternal
	}

	if kind == models.GrantPublic || kind == models.GrantEmailed {
		if err := as.grants.MarkConsumed(ctx, grant.ID); err != nil {
			log.Error("failed to mark grant consumed", slog.String("error", err.Error()))
		}
	}

	var file io.ReadCloser

	if doc.BlobLocator != "" {
		file, err = as.blobStore.Open(ctx, doc.BlobLocator)
		if err != nil {
			log.Error("failed to open blob", slog.String("error", err.Error()))
			return nil, nil, models.ErrUpstream
		}
	}

	log.Debug("access grant validated successfully", slog.String("grant_id", grant.ID))

	return doc, file, nil
}
