package grantrepo

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

const pkg = "grantRepo/"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, grant *models.AccessGrant) error {
	op := pkg + "Create"

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO access_grants (id, document_id, token, kind, bound_user_id, issued_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		grant.ID, grant.DocumentID, grant.Token, grant.Kind, grant.BoundUserID, grant.IssuedAt, grant.ExpiresAt)
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok {
			if pgErr.Code == "23505" {
				return &models.UniqueConstraintError{
					Constraint: pgErr.Constraint,
					Err:        models.ErrUNIQUEConstraintFailed,
				}
			}
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) GrantByToken(ctx context.Context, documentID string, token string) (*models.AccessGrant, error) {
	op := pkg + "GrantByToken"

	rawGrant := entities.AccessGrant{}

	err := r.db.GetContext(ctx, &rawGrant,
		`SELECT
			g.id AS id,
			g.document_id AS document_id,
			g.token AS token,
			g.kind AS kind,
			g.bound_user_id AS bound_user_id,
			g.issued_at AS issued_at,
			g.expires_at AS expires_at,
			g.consumed_at AS consumed_at
		FROM access_grants g
		WHERE g.document_id = $1 AND g.token = $2`,
		documentID, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrGrantNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.AccessGrant{
		ID:          rawGrant.ID,
		DocumentID:  rawGrant.DocumentID,
		Token:       rawGrant.Token,
		Kind:        models.GrantKind(rawGrant.Kind),
		BoundUserID: rawGrant.BoundUserID,
		IssuedAt:    rawGrant.IssuedAt,
		ExpiresAt:   rawGrant.ExpiresAt,
		ConsumedAt:  rawGrant.ConsumedAt,
	}, nil
}

// MarkConsumed stamps the first successful validation. Later
// validations leave the original timestamp in place.
func (r *repository) MarkConsumed(ctx context.Context, id string) error {
	op := pkg + "MarkConsumed"

	_, err := r.db.ExecContext(ctx,
		`UPDATE access_grants SET consumed_at = NOW() WHERE id = $1 AND consumed_at IS NULL`,
		id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	op := pkg + "Delete"

	_, err := r.db.ExecContext(ctx,
		`DELETE FROM access_grants WHERE id = $1`,
		id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) DeleteExpired(ctx context.Context) (int64, error) {
	op := pkg + "DeleteExpired"

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM access_grants WHERE expires_at IS NOT NULL AND expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return deleted, nil
}
