package documentservice

import (
	"context"
	"docvault/internal/models"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	uuid "github.com/satori/go.uuid"
)

const pkg = "documentService/"

type DocumentService struct {
	log       *slog.Logger
	docRepo   DocumentRepository
	cache     Cache
	blobStore BlobStore
}

func New(
	log *slog.Logger,
	docRepo DocumentRepository,
	cache Cache,
	blobStore BlobStore,
) *DocumentService {
	return &DocumentService{
		log:       log,
		docRepo:   docRepo,
		cache:     cache,
		blobStore: blobStore,
	}
}

func (ds *DocumentService) UploadDocument(ctx context.Context, requester *models.User, title, content, description, filename string, file io.Reader) (*models.Document, error) {
	op := pkg + "UploadDocument"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to upload document", slog.String("title", title), slog.String("owner_id", requester.ID))

	now := time.Now()

	doc := &models.Document{
		ID:             uuid.NewV4().String(),
		OwnerID:        requester.ID,
		Title:          title,
		Content:        content,
		Description:    description,
		CurrentVersion: 0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if file != nil {
		locator, err := ds.blobStore.Save(ctx, file, filename)
		if err != nil {
			log.Error("failed to save blob", slog.String("error", err.Error()))
			return nil, fmt.Errorf("%s: %w", op, models.ErrUpstream)
		}
		doc.BlobLocator = locator
	}

	err := ds.docRepo.CreateDocument(ctx, doc)
	if err != nil {
		log.Error("failed to save document metadata", slog.String("error", err.Error()))
		if doc.BlobLocator != "" {
			_ = ds.blobStore.Delete(ctx, doc.BlobLocator)
		}

		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if err := ds.cache.Del(ctx, listKey(requester.ID)); err != nil {
		log.Error("failed to invalidate owner cache", slog.String("error", err.Error()))
	}

	log.Debug("document uploaded successfully", slog.String("doc_id", doc.ID))

	return doc, nil
}

// DocumentByID returns the document and, when it carries a blob, an
// open reader for it. Owner only.
func (ds *DocumentService) DocumentByID(ctx context.Context, docID string, requester *models.User) (*models.Document, io.ReadCloser, error) {
	op := pkg + "DocumentByID"

	log := ds.log.With(slog.String("op", op))

	doc, err := ds.documentMetaByID(ctx, docID)
	if err != nil {
		return nil, nil, err
	}

	if doc.OwnerID != requester.ID {
		log.Warn("user is not the document owner", slog.String("doc_id", docID), slog.String("user_id", requester.ID))
		return nil, nil, models.ErrForbidden
	}

	var file io.ReadCloser

	if doc.BlobLocator != "" {
		file, err = ds.blobStore.Open(ctx, doc.BlobLocator)
		if err != nil {
			log.Error("failed to open blob", slog.String("error", err.Error()))
			return nil, nil, models.ErrUpstream
		}
	}

	log.Debug("document found successfully", slog.String("doc_id", docID))

	return doc, file, nil
}

func (ds *DocumentService) ListDocuments(ctx context.Context, requester *models.User, limit int) ([]*models.Document, error) {
	op := pkg + "ListDocuments"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to list documents", slog.String("owner_id", requester.ID), slog.Int("limit", limit))

	// only the unbounded list is cached; invalidation happens on the
	// owner key from upload/update/delete
	if limit == 0 {
		docsJSON, err := ds.cache.Get(ctx, listKey(requester.ID))
		if err == nil && docsJSON != "" {
			docs, err := jsonToDocs(docsJSON)
			if err == nil {
				return docs, nil
			}
			log.Error("failed to parse cached docs", slog.String("error", err.Error()))
		}
	}

	docs, err := ds.docRepo.ListByOwner(ctx, requester.ID, limit)
	if err != nil {
		log.Error("failed to list documents", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if limit == 0 {
		docsJSON, err := docsToJSON(docs)
		if err != nil {
			log.Error("failed to convert docs to json", slog.String("error", err.Error()))
		} else if err := ds.cache.Set(ctx, listKey(requester.ID), docsJSON); err != nil {
			log.Error("failed to set docs in cache", slog.String("error", err.Error()))
		}
	}

	return docs, nil
}

func (ds *DocumentService) DeleteDocument(ctx context.Context, docID string, requester *models.User) error {
	op := pkg + "DeleteDocument"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to delete document", slog.String("doc_id", docID), slog.String("user_id", requester.ID))

	doc, err := ds.documentMetaByID(ctx, docID)
	if err != nil {
		log.Warn("failed to get document by id", slog.String("error", err.Error()))
		return err
	}

	if doc.OwnerID != requester.ID {
		log.Warn("user is not the document owner", slog.String("doc_id", docID), slog.String("user_id", requester.ID))
		return models.ErrForbidden
	}

	blobLocator, err := ds.docRepo.Delete(ctx, docID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document already gone", slog.String("doc_id", docID))
			return models.ErrDocumentNotFound
		}
		log.Error("failed to delete document meta", slog.String("error", err.Error()))
		return models.ErrInternal
	}

	if err := ds.cache.Del(ctx, doc.ID, listKey(requester.ID)); err != nil {
		log.Error("failed to delete doc from cache", slog.String("error", err.Error()))
	}

	if blobLocator != "" {
		if err := ds.blobStore.Delete(ctx, blobLocator); err != nil {
			log.Error("failed to delete blob", slog.String("error", err.Error()))
		}
	}

	log.Debug("document deleted successfully", slog.String("doc_id", docID))

	return nil
}

func (ds *DocumentService) documentMetaByID(ctx context.Context, docID string) (*models.Document, error) {
	op := pkg + "documentMetaByID"

	log := ds.log.With(slog.String("op", op))

	docJSON, err := ds.cache.Get(ctx, docID)
	if err == nil && docJSON != "" {
		var doc models.Document
		if err := json.Unmarshal([]byte(docJSON), &doc); err == nil {
			return &doc, nil
		}
		log.Error("failed to parse cached doc", slog.String("doc_id", docID))
	}

	doc, err := ds.docRepo.DocumentByID(ctx, docID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document not found", slog.String("doc_id", docID))
			return nil, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		log.Error("failed to get document by id", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if raw, err := docToJSON(doc); err == nil {
		if err := ds.cache.Set(ctx, docID, raw); err != nil {
			log.Error("failed to cache doc", slog.String("error", err.Error()))
		}
	}

	return doc, nil
}

func listKey(ownerID string) string {
	return "docs:" + ownerID
}

func docToJSON(doc *models.Document) (string, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func docsToJSON(docs []*models.Document) (string, error) {
	b, err := json.Marshal(docs)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func jsonToDocs(docsJSON string) ([]*models.Document, error) {
	var docs []*models.Document
	if err := json.Unmarshal([]byte(docsJSON), &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
