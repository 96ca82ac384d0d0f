package identity

import (
	"context"

	"github.com/google/uuid"
)

// Identity is the stable, verified user identity issued by the external
// identity provider. Immutable once established for a session; its lifecycle
// is owned entirely by the provider.
type Identity struct {
	// UserID is derived deterministically from the provider subject, so the
	// same external account always maps to the same local identifier.
	UserID uuid.UUID

	// Subject is the provider's opaque user identifier.
	Subject string

	Email string
}

// Provider is the external identity provider surface.
type Provider interface {
	// AuthCodeURL returns the provider's authorization URL carrying the given
	// CSRF state.
	AuthCodeURL(state string) string

	// ExchangeCode redeems a single-use authorization code for a verified
	// identity. Codes are consumed on first use: implementations and callers
	// must never retry an exchange, and a second exchange of the same code
	// yields ErrInvalidCode.
	ExchangeCode(ctx context.Context, code string) (Identity, error)
}

// userIDNamespace anchors the subject-to-UUID derivation. Changing it would
// remap every user, so it is fixed forever.
var userIDNamespace = uuid.MustParse("9b1eafa4-2b5e-4a4e-9c1f-6d1a5a40f3a2")

// DeriveUserID maps a provider subject to its stable local user ID.
func DeriveUserID(subject string) uuid.UUID {
	return uuid.NewSHA1(userIDNamespace, []byte(subject))
}
