package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	uuid "github.com/satori/go.uuid"
)

const pkg = "tokenCodec/"

var ErrInvalidToken = errors.New("invalid token")

// ShareClaims are embedded in signed emailed-share tokens. The document
// id must match the grant the token is presented against.
type ShareClaims struct {
	DocumentID string `json:"doc_id"`
	UserID     string `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

// Codec issues and validates share tokens. Opaque tokens are UUIDv4
// (crypto/rand backed, 122 bits of entropy). Signed tokens are HS256
// JWTs with the share TTL as exp.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (c *Codec) TTL() time.Duration {
	return c.ttl
}

func (c *Codec) NewOpaque() string {
	return uuid.NewV4().String()
}

func (c *Codec) SignShare(documentID string, userID string) (string, error) {
	op := pkg + "SignShare"

	now := time.Now()

	claims := ShareClaims{
		DocumentID: documentID,
		UserID:     userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

func (c *Codec) VerifyShare(tok string) (*ShareClaims, error) {
	op := pkg + "VerifyShare"

	claims := &ShareClaims{}

	parsed, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if !parsed.Valid || claims.DocumentID == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return claims, nil
}
