// Package server exposes the admin and read HTTP surface: reconciliation
// trigger, the unified onboarding view, health, and metrics.
package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"provider-onboarding/backend/internal/onboarding/view"
)

// Server wires the HTTP routes to the engine.
type Server struct {
	reconciler       Reconciler
	view             view.View
	log              *zap.SugaredLogger
	adminToken       string
	gatherer         prometheus.Gatherer
	reconcileTimeout time.Duration
}

// New builds a Server. adminToken may be empty, which leaves /admin open
// (local development only). gatherer backs GET /metrics. reconcileTimeout
// bounds one whole reconciliation run, fetch plus transaction; zero or
// negative disables the bound.
func New(reconciler Reconciler, v view.View, log *zap.SugaredLogger, adminToken string, gatherer prometheus.Gatherer, reconcileTimeout time.Duration) *Server {
	return &Server{
		reconciler:       reconciler,
		view:             v,
		log:              log,
		adminToken:       adminToken,
		gatherer:         gatherer,
		reconcileTimeout: reconcileTimeout,
	}
}

// Handler builds the HTTP handler with routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	r.Get("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}).ServeHTTP)

	r.Get("/onboardings", s.listOnboardings)
	r.Get("/groups/onboardings", s.listGroupOnboardings)
	r.Get("/clients/{clientID}/onboardings", s.listClientOnboardings)

	r.Route("/admin", func(ar chi.Router) {
		ar.Use(s.adminAuth)
		ar.Post("/reconcile", s.reconcile)
	})

	return otelhttp.NewHandler(r, "http.server")
}

// adminAuth requires the configured Bearer token on /admin routes. An empty
// configured token disables the check.
func (s *Server) adminAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.adminToken == "" {
			next.ServeHTTP(w, r)
			return
		}
		got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.adminToken)) != 1 {
			writeError(w, http.StatusUnauthorized, "invalid or missing admin token")
			return
		}
		next.ServeHTTP(w, r)
	})
}
