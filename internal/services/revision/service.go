package revisionservice

import (
	"context"
	"docvault/internal/models"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	uuid "github.com/satori/go.uuid"
)

const pkg = "revisionService/"

const blobDeleteTimeout = 30 * time.Second

// RevisionService owns the document update path: it decides when a
// mutation snapshots the prior state into the revision chain and
// commits snapshot and update as one unit.
type RevisionService struct {
	log       *slog.Logger
	docRepo   DocumentRepository
	revRepo   RevisionRepository
	cache     Cache
	blobStore BlobStore
}

func New(
	log *slog.Logger,
	docRepo DocumentRepository,
	revRepo RevisionRepository,
	cache Cache,
	blobStore BlobStore,
) *RevisionService {
	return &RevisionService{
		log:       log,
		docRepo:   docRepo,
		revRepo:   revRepo,
		cache:     cache,
		blobStore: blobStore,
	}
}

// ApplyUpdate applies the patch to the document. A revision of the
// prior state is created iff the patch carries a description that
// differs byte-for-byte from the stored one; title or content changes
// alone do not version the document. Concurrent updates serialize via
// an optimistic version check; losers get ErrVersionConflict and should
// retry with fresh state.
func (rs *RevisionService) ApplyUpdate(ctx context.Context, docID string, requesterID string, patch models.DocumentPatch, filename string, file io.Reader) (*models.Document, error) {
	op := pkg + "ApplyUpdate"

	log := rs.log.With(slog.String("op", op))

	log.Debug("attempting to update document", slog.String("doc_id", docID), slog.String("user_id", requesterID))

	doc, err := rs.docRepo.DocumentByID(ctx, docID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document not found", slog.String("doc_id", docID))
			return nil, models.ErrDocumentNotFound
		}
		log.Error("failed to get document by id", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if doc.OwnerID != requesterID {
		log.Warn("user is not the document owner", slog.String("doc_id", docID), slog.String("user_id", requesterID))
		return nil, models.ErrForbidden
	}

	if file != nil {
		locator, err := rs.blobStore.Save(ctx, file, filename)
		if err != nil {
			log.Error("failed to save new blob", slog.String("error", err.Error()))
			return nil, fmt.Errorf("%s: %w", op, models.ErrUpstream)
		}
		patch.BlobLocator = &locator
	}

	updated := applyPatch(doc, patch)

	var snapshot *models.Revision

	if patch.Description != nil && *patch.Description != doc.Description {
		snapshot = &models.Revision{
			ID:          uuid.NewV4().String(),
			DocumentID:  doc.ID,
			Version:     doc.CurrentVersion + 1,
			Title:       doc.Title,
			Content:     doc.Content,
			Description: doc.Description,
			BlobLocator: doc.BlobLocator,
			CreatedAt:   time.Now(),
		}
		updated.CurrentVersion = snapshot.Version
	}

	err = rs.docRepo.ApplyUpdate(ctx, updated, doc.CurrentVersion, snapshot)
	if err != nil {
		if patch.BlobLocator != nil && file != nil {
			_ = rs.blobStore.Delete(ctx, *patch.BlobLocator)
		}
		if errors.Is(err, models.ErrVersionConflict) {
			log.Warn("concurrent update lost the version race", slog.String("doc_id", docID))
			return nil, models.ErrVersionConflict
		}
		log.Error("failed to apply update", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if err := rs.cache.Del(ctx, doc.ID, "docs:"+doc.OwnerID); err != nil {
		log.Error("failed to invalidate doc cache", slog.String("error", err.Error()))
	}

	// the superseded blob is released only after the transaction
	// committed; a failed commit must not lose a still-referenced blob
	if patch.BlobLocator != nil && doc.BlobLocator != "" && doc.BlobLocator != *patch.BlobLocator {
		oldLocator := doc.BlobLocator
		go func() {
			bgCtx, cancel := context.WithTimeout(context.Background(), blobDeleteTimeout)
			defer cancel()

			if err := rs.blobStore.Delete(bgCtx, oldLocator); err != nil {
				rs.log.Error("failed to delete superseded blob", slog.String("locator", oldLocator), slog.String("error", err.Error()))
			}
		}()
	}

	log.Debug("document updated successfully",
		slog.String("doc_id", docID),
		slog.Int("version", updated.CurrentVersion),
		slog.Bool("snapshotted", snapshot != nil))

	return updated, nil
}

// ListRevisions returns the document's revision chain, newest first.
// Owner only.
func (rs *RevisionService) ListRevisions(ctx context.Context, docID string, requesterID string) ([]*models.Revision, error) {
	op := pkg + "ListRevisions"

	log := rs.log.With(slog.String("op", op))

	doc, err := rs.docRepo.DocumentByID(ctx, docID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document not found", slog.String("doc_id", docID))
			return nil, models.ErrDocumentNotFound
		}
		log.Error("failed to get document by id", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if doc.OwnerID != requesterID {
		log.Warn("user is not the document owner", slog.String("doc_id", docID), slog.String("user_id", requesterID))
		return nil, models.ErrForbidden
	}

	revs, err := rs.revRepo.ListByDocument(ctx, docID)
	if err != nil {
		log.Error("failed to list revisions", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return revs, nil
}

// RevisionByVersion returns one snapshot from the document's chain.
// Owner only.
func (rs *RevisionService) RevisionByVersion(ctx context.Context, docID string, requesterID string, version int) (*models.Revision, error) {
	op := pkg + "RevisionByVersion"

	log := rs.log.With(slog.String("op", op))

	doc, err := rs.docRepo.DocumentByID(ctx, docID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document not found", slog.String("doc_id", docID))
			return nil, models.ErrDocumentNotFound
		}
		log.Error("failed to get document by id", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if doc.OwnerID != requesterID {
		log.Warn("user is not the document owner", slog.String("doc_id", docID), slog.String("user_id", requesterID))
		return nil, models.ErrForbidden
	}

	rev, err := rs.revRepo.ByVersion(ctx, docID, version)
	if err != nil {
		if errors.Is(err, models.ErrNoRows) {
			log.Warn("revision not found", slog.String("doc_id", docID), slog.Int("version", version))
			return nil, models.ErrRevisionNotFound
		}
		log.Error("failed to get revision", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return rev, nil
}

func applyPatch(doc *models.Document, patch models.DocumentPatch) *models.Document {
	updated := *doc

	if patch.Title != nil {
		updated.Title = *patch.Title
	}
	if patch.Content != nil {
		updated.Content = *patch.Content
	}
	if patch.Description != nil {
		updated.Description = *patch.Description
	}
	if patch.BlobLocator != nil {
		updated.BlobLocator = *patch.BlobLocator
	}

	updated.UpdatedAt = time.Now()

	return &updated
}
