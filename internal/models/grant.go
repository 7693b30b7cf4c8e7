package models

import "time"

type GrantKind string

const (
	GrantPublic  GrantKind = "public"
	GrantPrivate GrantKind = "private"
	GrantEmailed GrantKind = "email"
)

func (k GrantKind) IsValid() bool {
	switch k {
	case GrantPublic, GrantPrivate, GrantEmailed:
		return true
	}
	return false
}

// AccessGrant authorizes access to one document under the conditions of
// its kind. ExpiresAt is nil only for private grants (inherited
// behavior: private links never expire, public and emailed ones live
// 60 seconds). ConsumedAt records the first successful validation of a
// public or emailed grant and does not invalidate it.
type AccessGrant struct {
	ID          string     `json:"id"`
	DocumentID  string     `json:"document_id"`
	Token       string     `json:"-"`
	Kind        GrantKind  `json:"kind"`
	BoundUserID *string    `json:"bound_user_id,omitempty"`
	IssuedAt    time.Time  `json:"issued_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	ConsumedAt  *time.Time `json:"consumed_at,omitempty"`
}

// Expired reports whether the grant is past its expiry at the given time.
func (g *AccessGrant) Expired(now time.Time) bool {
	return g.ExpiresAt != nil && !g.ExpiresAt.After(now)
}
