package session

import "context"

// Store defines the interface for session persistence, keyed by opaque token.
type Store interface {
	// Create stores a new session.
	Create(ctx context.Context, session *Session) error

	// Get retrieves a session by token. Returns ErrSessionNotFound when the
	// token is unknown and ErrSessionExpired when the lifetime elapsed.
	Get(ctx context.Context, token string) (*Session, error)

	// Update replaces an existing session.
	Update(ctx context.Context, session *Session) error

	// Delete removes a session by token. Unknown tokens are a no-op.
	Delete(ctx context.Context, token string) error
}
