package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/platefuel/entitlements/pkg/access"
	"github.com/platefuel/entitlements/pkg/entitlement"
)

// getEntitlement returns the session user's snapshot. The user is always
// taken from the session, never from the request, so one user can never read
// another's snapshot.
func (h *Handler) getEntitlement(w http.ResponseWriter, r *http.Request) {
	id, ok := h.currentIdentity(w, r)
	if !ok {
		return
	}

	snap, err := h.entitlements.Evaluate(r.Context(), id.UserID)
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to evaluate entitlement", slog.Any("error", err))
		respondError(w, http.StatusInternalServerError, "store_error")
		return
	}

	respondJSON(w, http.StatusOK, snap)
}

// featureAccess returns the advisory gate decision for one feature. It never
// consumes the allotment; callers invoke the use endpoint after the gated
// action succeeded.
func (h *Handler) featureAccess(w http.ResponseWriter, r *http.Request) {
	id, ok := h.currentIdentity(w, r)
	if !ok {
		return
	}

	feature := entitlement.Feature(chi.URLParam(r, "feature"))
	if !feature.Valid() {
		respondError(w, http.StatusBadRequest, "invalid_feature")
		return
	}

	snap, err := h.entitlements.Evaluate(r.Context(), id.UserID)
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to evaluate entitlement", slog.Any("error", err))
		respondError(w, http.StatusInternalServerError, "store_error")
		return
	}

	respondJSON(w, http.StatusOK, access.AuthorizeFeature(snap, feature))
}

type useFeatureResponse struct {
	Success bool `json:"success"`
}

// useFeature marks a feature consumed for the session user. Idempotent:
// repeated calls answer success without further writes.
func (h *Handler) useFeature(w http.ResponseWriter, r *http.Request) {
	id, ok := h.currentIdentity(w, r)
	if !ok {
		return
	}

	feature := entitlement.Feature(chi.URLParam(r, "feature"))

	err := h.entitlements.MarkFeatureUsed(r.Context(), id.UserID, feature)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, useFeatureResponse{Success: true})
	case errors.Is(err, entitlement.ErrInvalidFeature):
		respondError(w, http.StatusBadRequest, "invalid_feature")
	case errors.Is(err, entitlement.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "unauthorized")
	default:
		// Reported, never retried here; the write is idempotent so the
		// caller may retry at its own discretion.
		respondError(w, http.StatusInternalServerError, "store_error")
	}
}
