// Package session resolves the authenticated subject for an inbound call.
//
// The identity provider lives outside this service: it authenticates the user
// and issues a signed session token whose payload is the opaque subject id.
// This package only mints tokens (for the provider-facing glue and for tests)
// and verifies them. It never stores credentials or user records.
package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
)

var (
	// ErrInvalidToken is returned when a token cannot be decoded or verified.
	ErrInvalidToken = errors.New("invalid session token")

	// ErrExpiredToken is returned when a token is well-formed but expired.
	ErrExpiredToken = errors.New("session token expired")

	// ErrWeakSecret is returned when the signing secret is too short.
	ErrWeakSecret = errors.New("session secret must be at least 32 bytes")
)

// tokenName namespaces the securecookie payload; a token signed for another
// purpose with the same key will not verify.
const tokenName = "backdrop_session"

type claims struct {
	Subject   uuid.UUID `json:"sub"`
	IssuedAt  int64     `json:"iat"`
	ExpiresAt int64     `json:"exp"`
}

// Verifier issues and verifies signed, encrypted session tokens.
type Verifier struct {
	codec *securecookie.SecureCookie
	ttl   time.Duration
}

// NewVerifier creates a Verifier from the shared signing secret. The secret
// must be at least 32 bytes; the first 32 bytes also serve as the encryption
// key so token payloads are opaque on the wire.
func NewVerifier(secret []byte, ttl time.Duration) (*Verifier, error) {
	if len(secret) < 32 {
		return nil, ErrWeakSecret
	}

	codec := securecookie.New(secret, secret[:32])
	codec.SetSerializer(securecookie.JSONEncoder{})

	return &Verifier{codec: codec, ttl: ttl}, nil
}

// Issue mints a token for the given subject id, valid for the configured TTL.
func (v *Verifier) Issue(subject uuid.UUID) (string, error) {
	if subject == uuid.Nil {
		return "", ErrInvalidToken
	}

	now := time.Now()
	return v.codec.Encode(tokenName, claims{
		Subject:   subject,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(v.ttl).Unix(),
	})
}

// Verify decodes and validates a token, returning the subject id it carries.
func (v *Verifier) Verify(token string) (uuid.UUID, error) {
	var c claims
	if err := v.codec.Decode(tokenName, token, &c); err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	if c.Subject == uuid.Nil {
		return uuid.Nil, ErrInvalidToken
	}
	if time.Now().Unix() >= c.ExpiresAt {
		return uuid.Nil, ErrExpiredToken
	}
	return c.Subject, nil
}
