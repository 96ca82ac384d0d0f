package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/platefuel/entitlements/pkg/session"
)

// stateKey is where the single-use OAuth state lives in the session data.
const stateKey = "oauth_state"

// Resolver produces a verified identity from either a one-time authorization
// code or an existing session. It is the only component that talks to the
// identity provider; everything downstream consumes the Identity it yields.
type Resolver struct {
	provider Provider
	sessions *session.Manager
	log      *slog.Logger
}

// ResolverOption configures a Resolver during construction.
type ResolverOption func(*Resolver)

// WithLogger configures the logger for the resolver.
func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// NewResolver creates a Resolver over the provider and session manager.
// Panics on nil dependencies to fail fast during initialization.
func NewResolver(provider Provider, sessions *session.Manager, opts ...ResolverOption) *Resolver {
	if provider == nil {
		panic("identity: Provider is required")
	}
	if sessions == nil {
		panic("identity: session manager is required")
	}

	r := &Resolver{
		provider: provider,
		sessions: sessions,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoginURL issues a fresh CSRF state bound to the request's session and
// returns the provider's authorization URL carrying it.
func (r *Resolver) LoginURL(ctx context.Context, w http.ResponseWriter, req *http.Request) (string, error) {
	state, err := generateState()
	if err != nil {
		return "", errors.Join(ErrProvider, err)
	}
	if err := r.sessions.SetValue(ctx, w, req, stateKey, state); err != nil {
		return "", errors.Join(ErrProvider, err)
	}
	return r.provider.AuthCodeURL(state), nil
}

// Exchange completes the callback leg: it consumes the session-bound state
// (single use, so a replayed callback fails), redeems the code exactly once,
// and upgrades the session to the resolved user. The exchange is never
// retried; a partial failure surfaces rather than silently reusing a
// consumed code.
func (r *Resolver) Exchange(ctx context.Context, w http.ResponseWriter, req *http.Request, code, state string) (Identity, error) {
	storedState, err := r.sessions.ConsumeValue(ctx, req, stateKey)
	if err != nil || storedState == "" || storedState != state {
		return Identity{}, ErrInvalidState
	}

	id, err := r.provider.ExchangeCode(ctx, code)
	if err != nil {
		r.log.WarnContext(ctx, "authorization code exchange failed", slog.Any("error", err))
		if errors.Is(err, ErrInvalidCode) {
			return Identity{}, err
		}
		return Identity{}, errors.Join(ErrProvider, err)
	}

	if _, err := r.sessions.Authenticate(ctx, w, req, id.UserID); err != nil {
		return Identity{}, errors.Join(ErrProvider, err)
	}

	r.log.InfoContext(ctx, "user authenticated", slog.String("user_id", id.UserID.String()))
	return id, nil
}

// Current returns the identity bound to the request's session, or
// ErrNoSession when the request carries no authenticated session.
func (r *Resolver) Current(ctx context.Context, req *http.Request) (Identity, error) {
	sess, err := r.sessions.Get(ctx, req)
	if err != nil {
		if errors.Is(err, session.ErrStoreUnavailable) {
			return Identity{}, errors.Join(ErrProvider, err)
		}
		return Identity{}, ErrNoSession
	}
	if !sess.IsAuthenticated() {
		return Identity{}, ErrNoSession
	}

	return Identity{UserID: *sess.UserID}, nil
}

// SignOut clears the session. Safe to call without a session.
func (r *Resolver) SignOut(ctx context.Context, w http.ResponseWriter, req *http.Request) error {
	return r.sessions.Destroy(ctx, w, req)
}

// generateState returns a 128-bit random state token.
func generateState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
