package entitlement

import (
	"context"

	"github.com/google/uuid"
)

// Store defines subscription persistence. Each user has at most one record,
// so UserID serves as the primary key for every operation.
type Store interface {
	// Get retrieves the subscription record for a user.
	// Returns ErrRecordNotFound if no record exists.
	Get(ctx context.Context, userID uuid.UUID) (*Record, error)

	// Save creates or updates a record. Used by the provisioning process and
	// by tests to seed state; the entitlement core itself never calls it.
	Save(ctx context.Context, rec *Record) error

	// MarkFeatureUsed sets the usage flag for one feature, creating an
	// implicit free-tier record first when none exists. The write must be
	// idempotent and must not touch any other field: a plain boolean set
	// converges under concurrent last-writer-wins updates, unlike a counter.
	MarkFeatureUsed(ctx context.Context, userID uuid.UUID, feature Feature) error
}
