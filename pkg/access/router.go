package access

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/platefuel/entitlements/pkg/entitlement"
)

// Destination is where a user lands after an access decision.
type Destination string

const (
	// DestinationWorkspace is the signed-in user's primary workspace.
	DestinationWorkspace Destination = "/dashboard"
	// DestinationPricing is plan selection for users without a valid subscription.
	DestinationPricing Destination = "/pricing"
	// DestinationSignin is the sign-in page.
	DestinationSignin Destination = "/signin"
	// DestinationSigninError is sign-in with an opaque error indicator. No
	// internal failure detail crosses this boundary.
	DestinationSigninError Destination = "/signin?error=1"
)

// DenyReason explains a negative gate decision.
type DenyReason string

const (
	ReasonQuotaExhausted DenyReason = "quota_exhausted"
	ReasonInvalidFeature DenyReason = "invalid_feature"
)

// Decision is the outcome of a feature-gate check.
type Decision struct {
	Allowed bool       `json:"allowed"`
	Reason  DenyReason `json:"reason,omitempty"`
}

// Router turns authentication outcomes and entitlement snapshots into
// navigation and gating decisions. It never writes subscription state;
// consuming a free use stays with the caller via Service.MarkFeatureUsed so a
// failed downstream action does not burn the allotment.
type Router struct {
	entitlements *entitlement.Service
	log          *slog.Logger
}

// RouterOption configures a Router during construction.
type RouterOption func(*Router)

// WithLogger configures the logger for the router.
func WithLogger(l *slog.Logger) RouterOption {
	return func(r *Router) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRouter creates a Router over the entitlement service.
// Panics if svc is nil to fail fast during initialization.
func NewRouter(svc *entitlement.Service, opts ...RouterOption) *Router {
	if svc == nil {
		panic("access: entitlement service is required")
	}

	r := &Router{
		entitlements: svc,
		log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RouteAfterAuth decides the post-authentication redirect. Any authentication
// failure degrades to sign-in with an opaque error marker. Authenticated users
// land in the workspace only while their subscription is valid; everyone else,
// including lapsed subscribers, goes to plan selection. Routing and gating
// thus agree on what a valid subscription means.
func (r *Router) RouteAfterAuth(ctx context.Context, userID uuid.UUID, authErr error) Destination {
	if authErr != nil || userID == uuid.Nil {
		return DestinationSigninError
	}

	snap, err := r.entitlements.Evaluate(ctx, userID)
	if err != nil {
		// Routing is navigation, not authorization, so a storage hiccup sends
		// the user to their workspace rather than bouncing them to sign-in.
		r.log.ErrorContext(ctx, "post-auth routing fell back to workspace",
			slog.String("user_id", userID.String()),
			slog.Any("error", err),
		)
		return DestinationWorkspace
	}

	if snap.IsActive {
		return DestinationWorkspace
	}
	return DestinationPricing
}

// AuthorizeFeature decides whether a gated feature may be invoked under the
// given snapshot. The check is advisory-pure: it performs no writes, and the
// caller marks the feature consumed only after the action succeeds.
func AuthorizeFeature(snap entitlement.Snapshot, feature entitlement.Feature) Decision {
	if !feature.Valid() {
		return Decision{Reason: ReasonInvalidFeature}
	}

	// A valid paid plan is unconditionally allowed.
	if snap.IsActive && snap.EffectivePlan != entitlement.PlanFree {
		return Decision{Allowed: true}
	}

	// Free tier: the boolean flag is authoritative; the counter is advisory
	// but still gates when it reads zero.
	if !snap.FeatureUsed(feature) && snap.RemainingUses > 0 {
		return Decision{Allowed: true}
	}

	return Decision{Reason: ReasonQuotaExhausted}
}
