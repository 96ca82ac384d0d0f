package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefuel/entitlements/pkg/cookie"
	"github.com/platefuel/entitlements/pkg/session"
)

func newTestManager(t *testing.T) *session.Manager {
	t.Helper()

	cookies, err := cookie.New([]string{strings.Repeat("0123456789abcdef", 2)})
	require.NoError(t, err)

	return session.New(
		session.WithStore(session.NewMemoryStore(0)),
		session.WithTransport(session.NewCookieTransport(cookies, "sid", false)),
	)
}

// requestWith carries the cookies written to rec into a new request.
func requestWith(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 && c.Value != "" {
			req.AddCookie(c)
		}
	}
	return req
}

func TestManagerEnsure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := newTestManager(t)

	rec := httptest.NewRecorder()
	sess, err := m.Ensure(ctx, rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.False(t, sess.IsAuthenticated())
	assert.NotEmpty(t, sess.Token)

	// The same client gets the same session back.
	again, err := m.Get(ctx, requestWith(rec))
	require.NoError(t, err)
	assert.Equal(t, sess.ID, again.ID)
}

func TestManagerGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := newTestManager(t)

	t.Run("without cookie", func(t *testing.T) {
		t.Parallel()

		_, err := m.Get(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("with forged token", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "sid", Value: "forged"})

		_, err := m.Get(ctx, req)
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})
}

func TestManagerAuthenticate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := newTestManager(t)
	userID := uuid.New()

	// Start anonymous.
	rec := httptest.NewRecorder()
	anon, err := m.Ensure(ctx, rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	// Upgrade to authenticated.
	rec2 := httptest.NewRecorder()
	authed, err := m.Authenticate(ctx, rec2, requestWith(rec), userID)
	require.NoError(t, err)
	require.True(t, authed.IsAuthenticated())
	assert.Equal(t, userID, *authed.UserID)

	// Token rotated: the anonymous token no longer resolves.
	assert.NotEqual(t, anon.Token, authed.Token)
	_, err = m.Get(ctx, requestWith(rec))
	assert.Error(t, err)

	// The new token does.
	current, err := m.Get(ctx, requestWith(rec2))
	require.NoError(t, err)
	assert.Equal(t, userID, *current.UserID)
}

func TestManagerDestroy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := newTestManager(t)

	rec := httptest.NewRecorder()
	_, err := m.Authenticate(ctx, rec, httptest.NewRequest(http.MethodGet, "/", nil), uuid.New())
	require.NoError(t, err)

	rec2 := httptest.NewRecorder()
	require.NoError(t, m.Destroy(ctx, rec2, requestWith(rec)))

	_, err = m.Get(ctx, requestWith(rec))
	assert.Error(t, err)
}

func TestManagerConsumeValue(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := newTestManager(t)

	rec := httptest.NewRecorder()
	require.NoError(t, m.SetValue(ctx, rec, httptest.NewRequest(http.MethodGet, "/", nil), "oauth_state", "abc123"))

	// First read succeeds and removes the value.
	value, err := m.ConsumeValue(ctx, requestWith(rec), "oauth_state")
	require.NoError(t, err)
	assert.Equal(t, "abc123", value)

	// Second read fails: the value is single use.
	_, err = m.ConsumeValue(ctx, requestWith(rec), "oauth_state")
	assert.Error(t, err)
}
