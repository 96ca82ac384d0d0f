// Package entitlement resolves subscription records into access decisions for
// the gated PlateFuel features (meal planner, food analysis, recipe lookup).
//
// The package separates a pure mapping from its plumbing: Resolve turns a
// stored Record (or its absence) plus a timestamp into a Snapshot, and Service
// wraps that mapping with storage access and the single mutating operation,
// MarkFeatureUsed.
//
// # Model
//
// A user has at most one subscription row. A row is valid while is_active
// holds and valid_till (when present) lies in the future; an invalid row
// degrades to the free tier exactly like a missing row. Free-tier consumption
// is tracked as one boolean flag per feature rather than a counter, so
// concurrent writes converge without coordination.
//
// # Usage
//
//	store := entitlement.NewPostgresStore(pool)
//	svc := entitlement.NewService(store, entitlement.WithLogger(log))
//
//	snap, err := svc.Evaluate(ctx, userID)
//	if err != nil {
//	    // storage failure; a missing record is NOT an error
//	}
//
//	// after the gated action succeeded:
//	err = svc.MarkFeatureUsed(ctx, userID, entitlement.FeatureAnalyzeFood)
package entitlement
