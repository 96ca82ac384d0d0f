package entitlement_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefuel/entitlements/pkg/entitlement"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("get returns not found for unknown user", func(t *testing.T) {
		t.Parallel()

		store := entitlement.NewMemoryStore()
		_, err := store.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, entitlement.ErrRecordNotFound)
	})

	t.Run("save then get returns a copy", func(t *testing.T) {
		t.Parallel()

		store := entitlement.NewMemoryStore()
		userID := uuid.New()
		require.NoError(t, store.Save(ctx, &entitlement.Record{UserID: userID, PlanName: "Pro"}))

		rec, err := store.Get(ctx, userID)
		require.NoError(t, err)
		rec.PlanName = "mutated"

		again, err := store.Get(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "Pro", again.PlanName)
	})

	t.Run("save rejects nil and empty user", func(t *testing.T) {
		t.Parallel()

		store := entitlement.NewMemoryStore()
		assert.ErrorIs(t, store.Save(ctx, nil), entitlement.ErrInvalidRecord)
		assert.ErrorIs(t, store.Save(ctx, &entitlement.Record{}), entitlement.ErrInvalidRecord)
	})

	t.Run("concurrent marks converge to one state", func(t *testing.T) {
		t.Parallel()

		store := entitlement.NewMemoryStore()
		userID := uuid.New()

		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = store.MarkFeatureUsed(ctx, userID, entitlement.FeatureAnalyzeFood)
			}()
		}
		wg.Wait()

		rec, err := store.Get(ctx, userID)
		require.NoError(t, err)
		assert.True(t, rec.UsedAnalyzeFood)
		assert.False(t, rec.UsedMealPlanner)
		assert.False(t, rec.UsedGetRecipe)
	})
}
