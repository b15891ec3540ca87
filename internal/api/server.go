// Package api wires the subscription core to its HTTP surface: the billing
// provider webhook, the access-gate entitlement query, and the dashboard's
// read-only views.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/cardstamp/loyalty/internal/api/handler"
	mw "github.com/cardstamp/loyalty/internal/api/middleware"
	"github.com/cardstamp/loyalty/internal/config"
	"github.com/cardstamp/loyalty/internal/core"
)

type Server struct {
	router   chi.Router
	logger   zerolog.Logger
	services *core.Services
	pool     *pgxpool.Pool
	cfg      *config.Config
}

func NewServer(logger zerolog.Logger, pool *pgxpool.Pool, cfg *config.Config) *Server {
	services := core.NewServices(pool, logger)

	s := &Server{
		router:   chi.NewRouter(),
		logger:   logger,
		services: services,
		pool:     pool,
		cfg:      cfg,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
}

func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint
	s.router.Handle("/metrics", promhttp.Handler())

	// Health check endpoints
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Billing provider events (signature-verified upstream)
		webhook := handler.NewWebhook(s.services.Reconciler)
		r.Post("/billing/events", webhook.Apply)

		// Subscriptions
		sub := handler.NewSubscription(s.services.Subscription, s.services.Reconciler)
		r.Get("/subscriptions", sub.List)
		r.Post("/subscriptions/expire-lapsed", sub.ExpireLapsed)
		r.Get("/subscriptions/{subscriberID}", sub.Get)
		r.Post("/subscriptions/{subscriberID}/cancel", sub.Cancel)
		r.Post("/subscriptions/{subscriberID}/reactivate", sub.Reactivate)

		// Entitlements (consumed by the access-gate middleware)
		entitlement := handler.NewEntitlement(s.services.Entitlement)
		r.Get("/subscriptions/{subscriberID}/entitlement", entitlement.Resolve)

		// Dashboard
		stats := handler.NewStats(s.services.Stats)
		r.Get("/dashboard/stats", stats.Get)

		// Plan catalog
		plan := handler.NewPlan()
		r.Get("/plans", plan.List)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if err := s.pool.Ping(ctx); err != nil {
		checks["db"] = err.Error()
		healthy = false
	} else {
		checks["db"] = "ok"
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(checks)
}
