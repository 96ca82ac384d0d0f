package entitlement

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Service resolves entitlement snapshots and records feature consumption.
// Evaluate is read-only and safe to call on every protected page load;
// MarkFeatureUsed is the only mutating operation in the core.
type Service struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
}

// ServiceOption configures a Service during construction.
type ServiceOption func(*Service)

// WithLogger configures the logger for the service.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the time source. Used by tests that need fixed time.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a Service backed by the given store.
// Panics if store is nil to fail fast during initialization.
func NewService(store Store, opts ...ServiceOption) *Service {
	if store == nil {
		panic("entitlement: Store is required")
	}

	s := &Service{
		store: store,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Evaluate computes the entitlement snapshot for a user at the current time.
func (s *Service) Evaluate(ctx context.Context, userID uuid.UUID) (Snapshot, error) {
	return s.EvaluateAt(ctx, userID, s.now())
}

// EvaluateAt computes the snapshot at an explicit time. A missing record is a
// valid input (implicit free tier), never a failure; only store errors
// propagate. The call performs no writes.
func (s *Service) EvaluateAt(ctx context.Context, userID uuid.UUID, now time.Time) (Snapshot, error) {
	rec, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return Resolve(nil, now), nil
		}
		return Snapshot{}, errors.Join(ErrFailedToFetchRecord, err)
	}
	return Resolve(rec, now), nil
}

// Record returns the stored subscription row for a user, or ErrRecordNotFound.
// Unlike Evaluate it exposes raw billing state; provisioning and support
// tooling read it, access decisions never should.
func (s *Service) Record(ctx context.Context, userID uuid.UUID) (*Record, error) {
	return s.store.Get(ctx, userID)
}

// MarkFeatureUsed sets the consumption flag for one gated feature. Marking an
// already-used feature is a no-op success. Store failures are reported to the
// caller and never retried here: the set is idempotent, so retry is safe at
// the caller's discretion.
func (s *Service) MarkFeatureUsed(ctx context.Context, userID uuid.UUID, feature Feature) error {
	if userID == uuid.Nil {
		return ErrUnauthorized
	}
	if !feature.Valid() {
		return ErrInvalidFeature
	}

	if err := s.store.MarkFeatureUsed(ctx, userID, feature); err != nil {
		s.log.ErrorContext(ctx, "failed to mark feature as used",
			slog.String("user_id", userID.String()),
			slog.String("feature", string(feature)),
			slog.Any("error", err),
		)
		return errors.Join(ErrFailedToMarkFeature, err)
	}

	s.log.InfoContext(ctx, "feature consumed",
		slog.String("user_id", userID.String()),
		slog.String("feature", string(feature)),
	)
	return nil
}
