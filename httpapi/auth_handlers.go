package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/platefuel/entitlements/pkg/access"
	"github.com/platefuel/entitlements/pkg/identity"
)

// login starts the provider flow: issue session-bound state, send the user
// to the provider's authorization page.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	url, err := h.resolver.LoginURL(r.Context(), w, r)
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to start login flow", slog.Any("error", err))
		http.Redirect(w, r, string(access.DestinationSigninError), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// callback completes the code exchange and answers with the access router's
// redirect decision. Every failure, including a replayed or consumed code,
// degrades to sign-in with an opaque error marker.
func (h *Handler) callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")

	var userID uuid.UUID
	id, err := h.resolver.Exchange(r.Context(), w, r, code, state)
	if err == nil {
		userID = id.UserID
	} else {
		h.log.WarnContext(r.Context(), "authentication failed", slog.Any("error", err))
	}

	dest := h.router.RouteAfterAuth(r.Context(), userID, err)
	http.Redirect(w, r, string(dest), http.StatusSeeOther)
}

// signout destroys the session and returns to sign-in.
func (h *Handler) signout(w http.ResponseWriter, r *http.Request) {
	if err := h.resolver.SignOut(r.Context(), w, r); err != nil {
		h.log.ErrorContext(r.Context(), "failed to sign out", slog.Any("error", err))
	}
	http.Redirect(w, r, string(access.DestinationSignin), http.StatusSeeOther)
}

// currentIdentity resolves the session user or writes a 401.
func (h *Handler) currentIdentity(w http.ResponseWriter, r *http.Request) (identity.Identity, bool) {
	id, err := h.resolver.Current(r.Context(), r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return identity.Identity{}, false
	}
	return id, true
}
