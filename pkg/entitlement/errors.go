package entitlement

import "errors"

var (
	// ErrRecordNotFound indicates no subscription row exists for the user.
	// Evaluate treats this as the implicit free tier, not as a failure;
	// callers that need record existence (post-auth routing) match on it.
	ErrRecordNotFound = errors.New("subscription record not found")

	// ErrInvalidFeature indicates a feature key outside the known set.
	ErrInvalidFeature = errors.New("invalid feature key")

	// ErrUnauthorized indicates the caller supplied no authenticated identity.
	ErrUnauthorized = errors.New("unauthorized")

	ErrFailedToFetchRecord = errors.New("failed to fetch subscription record")
	ErrFailedToSaveRecord  = errors.New("failed to save subscription record")
	ErrFailedToMarkFeature = errors.New("failed to mark feature as used")
	ErrInvalidRecord       = errors.New("invalid subscription record")
)
