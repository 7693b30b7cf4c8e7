package documentrepo

import (
	"context"
	"database/sql"
	"docvault/internal/entities"
	"docvault/internal/models"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const pkg = "documentRepo/"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) CreateDocument(ctx context.Context, doc *models.Document) error {
	op := pkg + "CreateDocument"

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (id, owner_id, title, content, description, blob_locator, current_version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		doc.ID, doc.OwnerID, doc.Title, doc.Content, doc.Description, doc.BlobLocator, doc.CurrentVersion, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) DocumentByID(ctx context.Context, id string) (*models.Document, error) {
	op := pkg + "DocumentByID"

	rawDoc := entities.Document{}

	err := r.db.GetContext(ctx, &rawDoc,
		`SELECT
			d.id AS id,
			d.owner_id AS owner_id,
			d.title AS title,
			d.content AS content,
			d.description AS description,
			d.blob_locator AS blob_locator,
			d.current_version AS current_version,
			d.created_at AS created_at,
			d.updated_at AS updated_at
		FROM documents d
		WHERE d.id = $1`,
		id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toModel(&rawDoc), nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerID string, limit int) ([]*models.Document, error) {
	op := pkg + "ListByOwner"

	rawDocs := make([]entities.Document, 0)

	baseQuery := `SELECT
			d.id AS id,
			d.owner_id AS owner_id,
			d.title AS title,
			d.content AS content,
			d.description AS description,
			d.blob_locator AS blob_locator,
			d.current_version AS current_version,
			d.created_at AS created_at,
			d.updated_at AS updated_at
		FROM documents d
		WHERE d.owner_id = $1
		ORDER BY d.updated_at DESC`

	args := []any{ownerID}

	if limit > 0 {
		args = append(args, limit)

		baseQuery += ` LIMIT $2`
	}

	err := r.db.SelectContext(ctx, &rawDocs, baseQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	docs := make([]*models.Document, 0, len(rawDocs))

	for i := range rawDocs {
		docs = append(docs, toModel(&rawDocs[i]))
	}

	return docs, nil
}

// ApplyUpdate commits the new document state and, when snapshot is not
// nil, the prior-state revision in one transaction. The UPDATE is
// guarded by current_version = expectedVersion and runs first: its row
// lock serializes concurrent writers, so a loser sees zero affected
// rows and rolls back with ErrVersionConflict before touching the
// revisions table. A unique violation on (document_id, version) maps
// to the same conflict as a backstop.
func (r *repository) ApplyUpdate(ctx context.Context, doc *models.Document, expectedVersion int, snapshot *models.Revision) error {
	op := pkg + "ApplyUpdate"

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE documents
		SET title = $1, content = $2, description = $3, blob_locator = $4, current_version = $5, updated_at = $6
		WHERE id = $7 AND current_version = $8`,
		doc.Title, doc.Content, doc.Description, doc.BlobLocator, doc.CurrentVersion, doc.UpdatedAt, doc.ID, expectedVersion)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if affected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrVersionConflict)
	}

	if snapshot != nil {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO revisions (id, document_id, version, title, content, description, blob_locator, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			snapshot.ID, snapshot.DocumentID, snapshot.Version, snapshot.Title, snapshot.Content, snapshot.Description, snapshot.BlobLocator, snapshot.CreatedAt)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23505" {
				return fmt.Errorf("%s: %w", op, models.ErrVersionConflict)
			}
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Delete removes the document row and returns the blob locator that was
// attached to it. Revisions and grants go with the row via FK cascade.
func (r *repository) Delete(ctx context.Context, id string) (string, error) {
	op := pkg + "Delete"

	var blobLocator string

	err := r.db.GetContext(ctx, &blobLocator,
		`DELETE FROM documents WHERE id = $1 RETURNING blob_locator`,
		id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return blobLocator, nil
}

func toModel(rawDoc *entities.Document) *models.Document {
	return &models.Document{
		ID:             rawDoc.ID,
		OwnerID:        rawDoc.OwnerID,
		Title:          rawDoc.Title,
		Content:        rawDoc.Content,
		Description:    rawDoc.Description,
		BlobLocator:    rawDoc.BlobLocator,
		CurrentVersion: rawDoc.CurrentVersion,
		CreatedAt:      rawDoc.CreatedAt,
		UpdatedAt:      rawDoc.UpdatedAt,
	}
}
