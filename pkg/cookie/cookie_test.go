package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefuel/entitlements/pkg/cookie"
)

func testSecret() string {
	return strings.Repeat("0123456789abcdef", 2)
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires a secret", func(t *testing.T) {
		t.Parallel()

		_, err := cookie.New(nil)
		assert.ErrorIs(t, err, cookie.ErrNoSecret)

		_, err = cookie.New([]string{""})
		assert.ErrorIs(t, err, cookie.ErrNoSecret)
	})

	t.Run("rejects short secrets", func(t *testing.T) {
		t.Parallel()

		_, err := cookie.New([]string{"too-short"})
		assert.ErrorIs(t, err, cookie.ErrSecretTooShort)
	})
}

func TestSignedRoundtrip(t *testing.T) {
	t.Parallel()

	mgr, err := cookie.New([]string{testSecret()})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	mgr.SetSigned(rec, "sid", "token-value")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	value, err := mgr.GetSigned(req, "sid")
	require.NoError(t, err)
	assert.Equal(t, "token-value", value)
}

func TestSignedTamperDetection(t *testing.T) {
	t.Parallel()

	mgr, err := cookie.New([]string{testSecret()})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	mgr.SetSigned(rec, "sid", "token-value")

	tampered := rec.Result().Cookies()[0]
	tampered.Value = strings.Replace(tampered.Value, "token-value", "other-value", 1)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(tampered)

	_, err = mgr.GetSigned(req, "sid")
	assert.ErrorIs(t, err, cookie.ErrInvalidSignature)
}

func TestSignedRejectsPlainValue(t *testing.T) {
	t.Parallel()

	mgr, err := cookie.New([]string{testSecret()})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "unsigned"})

	_, err = mgr.GetSigned(req, "sid")
	assert.ErrorIs(t, err, cookie.ErrInvalidSignature)
}

func TestSecretRotation(t *testing.T) {
	t.Parallel()

	oldSecret := testSecret()
	newSecret := strings.Repeat("fedcba9876543210", 2)

	oldMgr, err := cookie.New([]string{oldSecret})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	oldMgr.SetSigned(rec, "sid", "token-value")

	// New deployment signs with the new secret but still verifies old ones.
	rotated, err := cookie.New([]string{newSecret, oldSecret})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	value, err := rotated.GetSigned(req, "sid")
	require.NoError(t, err)
	assert.Equal(t, "token-value", value)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	mgr, err := cookie.New([]string{testSecret()})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	mgr.Delete(rec, "sid")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.Empty(t, cookies[0].Value)
}
