package revisionrepo

import (
	"context"
	"database/sql"
	"docvault/internal/entities"
	"docvault/internal/models"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const pkg = "revisionRepo/"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) ListByDocument(ctx context.Context, documentID string) ([]*models.Revision, error) {
	op := pkg + "ListByDocument"

	rawRevs := make([]entities.Revision, 0)

	err := r.db.SelectContext(ctx, &rawRevs,
		`SELECT
			r.id AS id,
			r.document_id AS document_id,
			r.version AS version,
			r.title AS title,
			r.content AS content,
			r.description AS description,
			r.blob_locator AS blob_locator,
			r.created_at AS created_at
		FROM revisions r
		WHERE r.document_id = $1
		ORDER BY r.version DESC`,
		documentID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	revs := make([]*models.Revision, 0, len(rawRevs))

	for i := range rawRevs {
		revs = append(revs, toModel(&rawRevs[i]))
	}

	return revs, nil
}

func (r *repository) ByVersion(ctx context.Context, documentID string, version int) (*models.Revision, error) {
	op := pkg + "ByVersion"

	rawRev := entities.Revision{}

	err := r.db.GetContext(ctx, &rawRev,
		`SELECT
			r.id AS id,
			r.document_id AS document_id,
			r.version AS version,
			r.title AS title,
			r.content AS content,
			r.description AS description,
			r.blob_locator AS blob_locator,
			r.created_at AS created_at
		FROM revisions r
		WHERE r.document_id = $1 AND r.version = $2`,
		documentID, version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNoRows)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toModel(&rawRev), nil
}

func toModel(rawRev *entities.Revision) *models.Revision {
	return &models.Revision{
		ID:          rawRev.ID,
		DocumentID:  rawRev.DocumentID,
		Version:     rawRev.Version,
		Title:       rawRev.Title,
		Content:     rawRev.Content,
		Description: rawRev.Description,
		BlobLocator: rawRev.BlobLocator,
		CreatedAt:   rawRev.CreatedAt,
	}
}
