package session

import "time"

// Config holds session configuration.
type Config struct {
	// CookieName is the name of the session cookie.
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"sid"`

	AnonLifetime time.Duration `env:"SESSION_ANON_LIFETIME" envDefault:"24h"`
	AuthLifetime time.Duration `env:"SESSION_AUTH_LIFETIME" envDefault:"720h"`

	// CleanupInterval for expired sessions in the memory store (0 disables).
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"5m"`

	// SecureCookies enables the Secure flag on session cookies.
	SecureCookies bool `env:"SESSION_SECURE_COOKIES" envDefault:"false"`
}

// DefaultConfig returns default session configuration.
func DefaultConfig() Config {
	return Config{
		CookieName:      "sid",
		AnonLifetime:    24 * time.Hour,
		AuthLifetime:    30 * 24 * time.Hour,
		CleanupInterval: 5 * time.Minute,
		SecureCookies:   false,
	}
}

// Lifetime returns the session lifetime based on authentication state.
func (c Config) Lifetime(isAuthenticated bool) time.Duration {
	if isAuthenticated {
		return c.AuthLifetime
	}
	return c.AnonLifetime
}
