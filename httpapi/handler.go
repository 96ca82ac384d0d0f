package httpapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/platefuel/entitlements/pkg/access"
	"github.com/platefuel/entitlements/pkg/entitlement"
	"github.com/platefuel/entitlements/pkg/identity"
)

// HealthCheck reports readiness of one dependency.
type HealthCheck func(context.Context) error

// Handler exposes the entitlement core over HTTP. It holds no state of its
// own: every decision is delegated to the resolver, the entitlement service,
// or the access router.
type Handler struct {
	log          *slog.Logger
	resolver     *identity.Resolver
	entitlements *entitlement.Service
	router       *access.Router
	checks       map[string]HealthCheck
}

// HandlerOption configures a Handler during construction.
type HandlerOption func(*Handler)

// WithLogger configures the logger for the HTTP layer.
func WithLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// WithHealthCheck registers a named dependency check for GET /health.
func WithHealthCheck(name string, check HealthCheck) HandlerOption {
	return func(h *Handler) {
		if name != "" && check != nil {
			h.checks[name] = check
		}
	}
}

// NewHandler wires the HTTP surface over the three core components.
// Panics on nil dependencies to fail fast during initialization.
func NewHandler(resolver *identity.Resolver, svc *entitlement.Service, router *access.Router, opts ...HandlerOption) *Handler {
	if resolver == nil {
		panic("httpapi: identity resolver is required")
	}
	if svc == nil {
		panic("httpapi: entitlement service is required")
	}
	if router == nil {
		panic("httpapi: access router is required")
	}

	h := &Handler{
		log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		resolver:     resolver,
		entitlements: svc,
		router:       router,
		checks:       make(map[string]HealthCheck),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes builds the chi router for the service.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.log))
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", h.login)
		r.Get("/callback", h.callback)
		r.Post("/signout", h.signout)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/entitlement", h.getEntitlement)
		r.Get("/features/{feature}/access", h.featureAccess)
		r.Post("/features/{feature}/use", h.useFeature)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	result := make(map[string]string, len(h.checks))

	for name, check := range h.checks {
		if err := check(r.Context()); err != nil {
			h.log.ErrorContext(r.Context(), "healthcheck failed",
				slog.String("dependency", name), slog.Any("error", err))
			result[name] = "down"
			status = http.StatusServiceUnavailable
		} else {
			result[name] = "ok"
		}
	}

	respondJSON(w, status, result)
}
