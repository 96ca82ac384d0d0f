package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefuel/entitlements/pkg/session"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("create then get", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)
		sess := session.NewSession("tok", nil, time.Hour)
		require.NoError(t, store.Create(ctx, sess))

		got, err := store.Get(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, sess.ID, got.ID)
	})

	t.Run("get returns a copy", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)
		sess := session.NewSession("tok2", nil, time.Hour)
		sess.Set("key", "value")
		require.NoError(t, store.Create(ctx, sess))

		got, err := store.Get(ctx, "tok2")
		require.NoError(t, err)
		got.Set("key", "mutated")

		again, err := store.Get(ctx, "tok2")
		require.NoError(t, err)
		v, _ := again.Get("key")
		assert.Equal(t, "value", v)
	})

	t.Run("expired session is evicted on read", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)
		sess := session.NewSession("tok3", nil, -time.Minute)
		require.NoError(t, store.Create(ctx, sess))

		_, err := store.Get(ctx, "tok3")
		assert.ErrorIs(t, err, session.ErrSessionExpired)

		_, err = store.Get(ctx, "tok3")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("update unknown token fails", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)
		userID := uuid.New()
		err := store.Update(ctx, session.NewSession("nope", &userID, time.Hour))
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("delete is a no-op for unknown token", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)
		assert.NoError(t, store.Delete(ctx, "unknown"))
	})
}
