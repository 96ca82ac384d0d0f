// Package session provides cookie-based sessions with opaque 256-bit tokens.
//
// Tokens travel in an HMAC-signed cookie and resolve against a Store (Redis
// in production, memory in tests). Authentication rotates the token, so a
// pre-auth token can never be replayed into an authenticated session.
package session
