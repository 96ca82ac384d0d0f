package entitlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// featureColumns maps feature keys to their table columns. Column names go
// through this map only, never through caller input, so they are safe to
// interpolate into SQL.
var featureColumns = map[Feature]string{
	FeatureMealPlanner: "used_meal_planner",
	FeatureAnalyzeFood: "used_analyze_food",
	FeatureGetRecipe:   "used_get_recipe",
}

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed subscription store.
// Panics if pool is nil to fail fast during initialization.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("entitlement: pgx pool is required")
	}
	return &PostgresStore{pool: pool}
}

// Get retrieves a record by user ID.
func (s *PostgresStore) Get(ctx context.Context, userID uuid.UUID) (*Record, error) {
	const query = `
		SELECT user_id, plan_name, is_active, valid_till, remaining_uses,
		       used_meal_planner, used_analyze_food, used_get_recipe,
		       created_at, updated_at
		FROM subscriptions
		WHERE user_id = $1`

	var rec Record
	err := s.pool.QueryRow(ctx, query, userID).Scan(
		&rec.UserID, &rec.PlanName, &rec.IsActive, &rec.ValidTill, &rec.RemainingUses,
		&rec.UsedMealPlanner, &rec.UsedAnalyzeFood, &rec.UsedGetRecipe,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, errors.Join(ErrFailedToFetchRecord, err)
	}

	return &rec, nil
}

// Save creates or updates a record, keyed by user_id.
func (s *PostgresStore) Save(ctx context.Context, rec *Record) error {
	if rec == nil || rec.UserID == uuid.Nil {
		return ErrInvalidRecord
	}

	const query = `
		INSERT INTO subscriptions (
			user_id, plan_name, is_active, valid_till, remaining_uses,
			used_meal_planner, used_analyze_food, used_get_recipe
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			plan_name = EXCLUDED.plan_name,
			is_active = EXCLUDED.is_active,
			valid_till = EXCLUDED.valid_till,
			remaining_uses = EXCLUDED.remaining_uses,
			used_meal_planner = EXCLUDED.used_meal_planner,
			used_analyze_food = EXCLUDED.used_analyze_food,
			used_get_recipe = EXCLUDED.used_get_recipe,
			updated_at = now()`

	_, err := s.pool.Exec(ctx, query,
		rec.UserID, rec.PlanName, rec.IsActive, rec.ValidTill, rec.RemainingUses,
		rec.UsedMealPlanner, rec.UsedAnalyzeFood, rec.UsedGetRecipe,
	)
	if err != nil {
		return errors.Join(ErrFailedToSaveRecord, err)
	}

	return nil
}

// MarkFeatureUsed sets one usage flag as a single idempotent statement: the
// insert synthesizes the implicit free-tier row when none exists, the update
// flips only the flag column. No other field is touched either way.
func (s *PostgresStore) MarkFeatureUsed(ctx context.Context, userID uuid.UUID, feature Feature) error {
	column, ok := featureColumns[feature]
	if !ok {
		return ErrInvalidFeature
	}

	query := fmt.Sprintf(`
		INSERT INTO subscriptions (user_id, plan_name, %s)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (user_id) DO UPDATE SET
			%s = TRUE,
			updated_at = now()`, column, column)

	if _, err := s.pool.Exec(ctx, query, userID, PlanFree); err != nil {
		return errors.Join(ErrFailedToMarkFeature, err)
	}

	return nil
}
