package entitlement

import (
	"time"

	"github.com/google/uuid"
)

// PlanFree is the fallback plan that governs access whenever a user has no
// valid subscription: no stored record, an inactive record, or an expired one.
const PlanFree = "Free"

// Feature identifies a gated capability that free-tier users may consume once.
type Feature string

const (
	FeatureMealPlanner Feature = "meal_planner"
	FeatureAnalyzeFood Feature = "analyze_food"
	FeatureGetRecipe   Feature = "get_recipe"
)

// Features lists all gated feature keys.
var Features = []Feature{FeatureMealPlanner, FeatureAnalyzeFood, FeatureGetRecipe}

// Valid reports whether f is one of the known feature keys.
func (f Feature) Valid() bool {
	switch f {
	case FeatureMealPlanner, FeatureAnalyzeFood, FeatureGetRecipe:
		return true
	}
	return false
}

// Record is the persisted subscription row. Each user has at most one record;
// UserID serves as the primary key. Plan and billing fields are written by an
// external provisioning process - this service only ever sets the usage flags.
type Record struct {
	UserID   uuid.UUID
	PlanName string
	IsActive bool

	// ValidTill is the expiry timestamp. Nil means the record never expires
	// while IsActive holds.
	ValidTill *time.Time

	// RemainingUses is the advisory free-use counter. Nil falls back to the
	// free-tier default on read. Nothing in this service decrements it.
	RemainingUses *int

	UsedMealPlanner bool
	UsedAnalyzeFood bool
	UsedGetRecipe   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsValidAt reports whether the record grants its stored plan at the given
// time. A past ValidTill invalidates the record regardless of IsActive.
func (r *Record) IsValidAt(now time.Time) bool {
	if r == nil || !r.IsActive {
		return false
	}
	return r.ValidTill == nil || r.ValidTill.After(now)
}

// FeatureUsed returns the stored consumption flag for the given feature.
// Unknown features report false.
func (r *Record) FeatureUsed(f Feature) bool {
	if r == nil {
		return false
	}
	switch f {
	case FeatureMealPlanner:
		return r.UsedMealPlanner
	case FeatureAnalyzeFood:
		return r.UsedAnalyzeFood
	case FeatureGetRecipe:
		return r.UsedGetRecipe
	}
	return false
}
