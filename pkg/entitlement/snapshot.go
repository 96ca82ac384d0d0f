package entitlement

import "time"

const (
	// Unlimited indicates no free-use bound for paid plans (-1 chosen for SQL
	// and JSON compatibility).
	Unlimited = -1

	// freeTierDefaultUses is assumed when a free-tier record carries no
	// stored counter. Read-path only; the per-feature flags are the
	// authoritative gate.
	freeTierDefaultUses = 1
)

// Snapshot is the validity-adjusted view of a subscription at a point in
// time. It is derived, never persisted, and recomputed on every read.
type Snapshot struct {
	// EffectivePlan is the plan that governs access right now. It equals the
	// stored plan only while the record is valid; otherwise it falls back to
	// PlanFree.
	EffectivePlan string `json:"plan"`

	// IsActive is the validity-adjusted flag, distinct from the stored raw
	// is_active: an expired record reports false here.
	IsActive bool `json:"is_active"`

	// RemainingUses is advisory. Unlimited for valid paid plans without a
	// stored counter.
	RemainingUses int `json:"remaining_uses"`

	UsedMealPlanner bool `json:"used_meal_planner"`
	UsedAnalyzeFood bool `json:"used_analyze_food"`
	UsedGetRecipe   bool `json:"used_get_recipe"`
}

// Resolve maps a stored record (nil when the user has no row) to its snapshot
// at the given time. The mapping is total: absence yields the implicit
// free-tier snapshot, so callers never deal with a missing-record case.
func Resolve(rec *Record, now time.Time) Snapshot {
	if rec == nil {
		return Snapshot{
			EffectivePlan: PlanFree,
			RemainingUses: freeTierDefaultUses,
		}
	}

	valid := rec.IsValidAt(now)

	snap := Snapshot{
		EffectivePlan:   PlanFree,
		IsActive:        valid,
		UsedMealPlanner: rec.UsedMealPlanner,
		UsedAnalyzeFood: rec.UsedAnalyzeFood,
		UsedGetRecipe:   rec.UsedGetRecipe,
	}
	if valid {
		snap.EffectivePlan = rec.PlanName
	}

	switch {
	case rec.RemainingUses != nil:
		snap.RemainingUses = *rec.RemainingUses
	case snap.EffectivePlan == PlanFree:
		snap.RemainingUses = freeTierDefaultUses
	default:
		snap.RemainingUses = Unlimited
	}

	return snap
}

// FeatureUsed returns the consumption flag for the given feature.
func (s Snapshot) FeatureUsed(f Feature) bool {
	switch f {
	case FeatureMealPlanner:
		return s.UsedMealPlanner
	case FeatureAnalyzeFood:
		return s.UsedAnalyzeFood
	case FeatureGetRecipe:
		return s.UsedGetRecipe
	}
	return false
}
