package entitlement_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefuel/entitlements/pkg/entitlement"
)

// failingStore simulates storage outages.
type failingStore struct {
	err error
}

func (f *failingStore) Get(ctx context.Context, userID uuid.UUID) (*entitlement.Record, error) {
	return nil, f.err
}

func (f *failingStore) Save(ctx context.Context, rec *entitlement.Record) error {
	return f.err
}

func (f *failingStore) MarkFeatureUsed(ctx context.Context, userID uuid.UUID, feature entitlement.Feature) error {
	return f.err
}

func TestServiceEvaluate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("unknown user gets implicit free tier", func(t *testing.T) {
		t.Parallel()

		svc := entitlement.NewService(entitlement.NewMemoryStore())

		snap, err := svc.Evaluate(ctx, uuid.New())
		require.NoError(t, err)

		assert.Equal(t, entitlement.PlanFree, snap.EffectivePlan)
		assert.False(t, snap.IsActive)
		assert.Equal(t, 1, snap.RemainingUses)
	})

	t.Run("expired pro record evaluates to free", func(t *testing.T) {
		t.Parallel()

		store := entitlement.NewMemoryStore()
		svc := entitlement.NewService(store)

		userID := uuid.New()
		validTill := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, store.Save(ctx, &entitlement.Record{
			UserID:    userID,
			PlanName:  "Pro",
			IsActive:  true,
			ValidTill: &validTill,
		}))

		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		snap, err := svc.EvaluateAt(ctx, userID, now)
		require.NoError(t, err)

		assert.Equal(t, entitlement.PlanFree, snap.EffectivePlan)
		assert.False(t, snap.IsActive)
	})

	t.Run("is read only", func(t *testing.T) {
		t.Parallel()

		store := entitlement.NewMemoryStore()
		svc := entitlement.NewService(store)

		userID := uuid.New()
		require.NoError(t, store.Save(ctx, &entitlement.Record{
			UserID:   userID,
			PlanName: "Pro",
			IsActive: true,
		}))

		before, err := store.Get(ctx, userID)
		require.NoError(t, err)

		for range 5 {
			_, err := svc.Evaluate(ctx, userID)
			require.NoError(t, err)
		}

		after, err := store.Get(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		t.Parallel()

		storeErr := errors.New("connection refused")
		svc := entitlement.NewService(&failingStore{err: storeErr})

		_, err := svc.Evaluate(ctx, uuid.New())
		require.Error(t, err)
		assert.ErrorIs(t, err, entitlement.ErrFailedToFetchRecord)
		assert.ErrorIs(t, err, storeErr)
	})

	t.Run("uses injected clock", func(t *testing.T) {
		t.Parallel()

		store := entitlement.NewMemoryStore()
		frozen := time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)
		svc := entitlement.NewService(store, entitlement.WithClock(func() time.Time { return frozen }))

		userID := uuid.New()
		validTill := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, store.Save(ctx, &entitlement.Record{
			UserID:    userID,
			PlanName:  "Pro",
			IsActive:  true,
			ValidTill: &validTill,
		}))

		// At the frozen clock the record has not expired yet.
		snap, err := svc.Evaluate(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "Pro", snap.EffectivePlan)
	})
}

func TestServiceMarkFeatureUsed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("sets flag and creates implicit record", func(t *testing.T) {
		t.Parallel()

		store := entitlement.NewMemoryStore()
		svc := entitlement.NewService(store)
		userID := uuid.New()

		require.NoError(t, svc.MarkFeatureUsed(ctx, userID, entitlement.FeatureMealPlanner))

		rec, err := store.Get(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, entitlement.PlanFree, rec.PlanName)
		assert.True(t, rec.UsedMealPlanner)
		assert.False(t, rec.UsedAnalyzeFood)
		assert.False(t, rec.UsedGetRecipe)
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		store := entitlement.NewMemoryStore()
		svc := entitlement.NewService(store)
		userID := uuid.New()

		require.NoError(t, svc.MarkFeatureUsed(ctx, userID, entitlement.FeatureGetRecipe))
		first, err := store.Get(ctx, userID)
		require.NoError(t, err)

		require.NoError(t, svc.MarkFeatureUsed(ctx, userID, entitlement.FeatureGetRecipe))
		second, err := store.Get(ctx, userID)
		require.NoError(t, err)

		assert.True(t, second.UsedGetRecipe)
		assert.Equal(t, first.UsedMealPlanner, second.UsedMealPlanner)
		assert.Equal(t, first.UsedAnalyzeFood, second.UsedAnalyzeFood)
	})

	t.Run("does not alter plan or billing fields", func(t *testing.T) {
		t.Parallel()

		store := entitlement.NewMemoryStore()
		svc := entitlement.NewService(store)
		userID := uuid.New()

		validTill := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
		uses := 2
		require.NoError(t, store.Save(ctx, &entitlement.Record{
			UserID:        userID,
			PlanName:      "Pro",
			IsActive:      true,
			ValidTill:     &validTill,
			RemainingUses: &uses,
		}))

		require.NoError(t, svc.MarkFeatureUsed(ctx, userID, entitlement.FeatureAnalyzeFood))

		rec, err := store.Get(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "Pro", rec.PlanName)
		assert.True(t, rec.IsActive)
		require.NotNil(t, rec.ValidTill)
		assert.True(t, validTill.Equal(*rec.ValidTill))
		require.NotNil(t, rec.RemainingUses)
		assert.Equal(t, 2, *rec.RemainingUses)
		assert.True(t, rec.UsedAnalyzeFood)
	})

	t.Run("rejects unknown feature without writing", func(t *testing.T) {
		t.Parallel()

		store := entitlement.NewMemoryStore()
		svc := entitlement.NewService(store)
		userID := uuid.New()

		err := svc.MarkFeatureUsed(ctx, userID, entitlement.Feature("time_travel"))
		assert.ErrorIs(t, err, entitlement.ErrInvalidFeature)

		_, err = store.Get(ctx, userID)
		assert.ErrorIs(t, err, entitlement.ErrRecordNotFound)
	})

	t.Run("rejects missing identity", func(t *testing.T) {
		t.Parallel()

		svc := entitlement.NewService(entitlement.NewMemoryStore())

		err := svc.MarkFeatureUsed(ctx, uuid.Nil, entitlement.FeatureMealPlanner)
		assert.ErrorIs(t, err, entitlement.ErrUnauthorized)
	})

	t.Run("store failure is reported, not swallowed", func(t *testing.T) {
		t.Parallel()

		storeErr := errors.New("connection refused")
		svc := entitlement.NewService(&failingStore{err: storeErr})

		err := svc.MarkFeatureUsed(ctx, uuid.New(), entitlement.FeatureMealPlanner)
		require.Error(t, err)
		assert.ErrorIs(t, err, entitlement.ErrFailedToMarkFeature)
		assert.ErrorIs(t, err, storeErr)
	})
}

func TestServiceRecord(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("returns the raw stored row", func(t *testing.T) {
		t.Parallel()

		store := entitlement.NewMemoryStore()
		svc := entitlement.NewService(store)

		userID := uuid.New()
		past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, store.Save(ctx, &entitlement.Record{
			UserID:    userID,
			PlanName:  "Pro",
			IsActive:  true,
			ValidTill: &past,
		}))

		rec, err := svc.Record(ctx, userID)
		require.NoError(t, err)

		// Raw billing state, not the validity-adjusted view.
		assert.Equal(t, "Pro", rec.PlanName)
		assert.True(t, rec.IsActive)
	})

	t.Run("missing row surfaces as not found", func(t *testing.T) {
		t.Parallel()

		svc := entitlement.NewService(entitlement.NewMemoryStore())

		_, err := svc.Record(ctx, uuid.New())
		assert.ErrorIs(t, err, entitlement.ErrRecordNotFound)
	})
}
