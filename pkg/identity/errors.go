package identity

import "errors"

var (
	// ErrInvalidCode indicates the authorization code was rejected by the
	// provider: malformed, expired, or already consumed.
	ErrInvalidCode = errors.New("identity: invalid authorization code")

	// ErrProvider indicates the identity provider failed in a way that is not
	// the caller's fault. Distinct from a missing session.
	ErrProvider = errors.New("identity: provider error")

	// ErrNoSession indicates no authenticated session exists for the request.
	ErrNoSession = errors.New("identity: no session")

	// ErrInvalidState indicates the OAuth state did not match the one issued
	// for this session.
	ErrInvalidState = errors.New("identity: invalid oauth state")

	// ErrIncompleteProfile indicates the provider returned a profile without
	// a subject identifier.
	ErrIncompleteProfile = errors.New("identity: provider profile missing subject")
)
