package cookie

import "errors"

var (
	ErrNoSecret         = errors.New("cookie: at least one secret is required")
	ErrSecretTooShort   = errors.New("cookie: secret is too short")
	ErrCookieNotFound   = errors.New("cookie: not found")
	ErrInvalidSignature = errors.New("cookie: invalid signature")
)
