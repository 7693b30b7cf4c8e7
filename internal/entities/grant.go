package entities

import "time"

type AccessGrant struct {
	ID          string     `db:"id"`
	DocumentID  string     `db:"document_id"`
	Token       string     `db:"token"`
	Kind        string     `db:"kind"`
	BoundUserID *string    `db:"bound_user_id"`
	IssuedAt    time.Time  `db:"issued_at"`
	ExpiresAt   *time.Time `db:"expires_at"`
	ConsumedAt  *time.Time `db:"consumed_at"`
}
