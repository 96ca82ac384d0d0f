package session

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// Manager handles session lifecycle over a Store and a Transport.
type Manager struct {
	store     Store
	transport Transport
	config    Config
}

// Option configures a Manager during construction.
type Option func(*Manager)

// WithStore sets the session store.
func WithStore(store Store) Option {
	return func(m *Manager) { m.store = store }
}

// WithTransport sets the token transport.
func WithTransport(t Transport) Option {
	return func(m *Manager) { m.transport = t }
}

// WithConfig sets the session configuration.
func WithConfig(cfg Config) Option {
	return func(m *Manager) { m.config = cfg }
}

// New creates a session manager. Falls back to an in-memory store when none
// is given; panics without a transport since tokens would have no way to
// reach the client.
func New(opts ...Option) *Manager {
	m := &Manager{config: DefaultConfig()}
	for _, opt := range opts {
		opt(m)
	}

	if m.store == nil {
		m.store = NewMemoryStore(m.config.CleanupInterval)
	}
	if m.transport == nil {
		panic("session: transport is required")
	}

	return m
}

// Ensure returns the request's session, creating an anonymous one when the
// request carries no valid token.
func (m *Manager) Ensure(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	session, err := m.Get(ctx, r)
	if err == nil {
		return session, nil
	}
	_ = m.transport.ClearToken(w)

	return m.create(ctx, w, nil)
}

// Get retrieves the existing session for the request, if any.
func (m *Manager) Get(ctx context.Context, r *http.Request) (*Session, error) {
	token, err := m.transport.GetToken(r)
	if err != nil {
		return nil, err
	}
	return m.store.Get(ctx, token)
}

// Authenticate binds the request's session to a user. The token is rotated to
// prevent session fixation: the pre-auth token becomes invalid.
func (m *Manager) Authenticate(ctx context.Context, w http.ResponseWriter, r *http.Request, userID uuid.UUID) (*Session, error) {
	if old, err := m.Get(ctx, r); err == nil {
		_ = m.store.Delete(ctx, old.Token)
	}
	return m.create(ctx, w, &userID)
}

// Destroy deletes the session and clears the client token.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if token, err := m.transport.GetToken(r); err == nil && token != "" {
		_ = m.store.Delete(ctx, token)
	}
	return m.transport.ClearToken(w)
}

// SetValue stores a key/value pair in the request's session, creating an
// anonymous session first when needed.
func (m *Manager) SetValue(ctx context.Context, w http.ResponseWriter, r *http.Request, key, value string) error {
	session, err := m.Ensure(ctx, w, r)
	if err != nil {
		return err
	}
	session.Set(key, value)
	session.Touch()
	return m.store.Update(ctx, session)
}

// ConsumeValue reads a key from the session and removes it in the same call.
// Used for single-use values such as OAuth state tokens.
func (m *Manager) ConsumeValue(ctx context.Context, r *http.Request, key string) (string, error) {
	session, err := m.Get(ctx, r)
	if err != nil {
		return "", err
	}

	value, ok := session.Get(key)
	if !ok {
		return "", ErrSessionNotFound
	}

	session.Delete(key)
	session.Touch()
	if err := m.store.Update(ctx, session); err != nil {
		return "", err
	}
	return value, nil
}

func (m *Manager) create(ctx context.Context, w http.ResponseWriter, userID *uuid.UUID) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	ttl := m.config.Lifetime(userID != nil)
	session := NewSession(token, userID, ttl)

	if err := m.store.Create(ctx, session); err != nil {
		return nil, err
	}
	if err := m.transport.SetToken(w, token, ttl); err != nil {
		_ = m.store.Delete(ctx, token)
		return nil, err
	}

	return session, nil
}
