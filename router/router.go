// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/feetinfra/feetinfra-api/auth"
	"github.com/feetinfra/feetinfra-api/cliparse"
	"github.com/feetinfra/feetinfra-api/handlers"
	"github.com/feetinfra/feetinfra-api/metrics"
	"github.com/feetinfra/feetinfra-api/middleware"
	"github.com/feetinfra/feetinfra-api/ratelimit"
	"github.com/feetinfra/feetinfra-api/store"
)

// Rate limit scopes and their rejection messages
const (
	ScopeContact = "contact"
	ScopeLogin   = "login"

	contactLimitMessage = "Too many contact requests, please try again later."
	loginLimitMessage   = "Too many login attempts, please try again later."
)

// NewRouter wires the API. A nil limiter falls back to an in-memory one sized
// from cfg. A nil m disables request metrics and the /metrics endpoint.
func NewRouter(db *sqlx.DB, cfg cliparse.Config, limiter ratelimit.Limiter, m *metrics.Metrics) http.Handler {
	if limiter == nil {
		limiter = ratelimit.NewInMemory(cfg.RateLimit, cfg.RateWindow)
	}

	st := store.New(db, cfg.DBTimeout)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	// Initialize handlers
	contactHandler := handlers.NewContactHandler(st, m)
	authHandler := handlers.NewAuthHandler(st, tokens, m)
	adminHandler := handlers.NewAdminHandler(st, m)

	clientIP := middleware.RemoteIP
	if cfg.TrustProxy {
		clientIP = middleware.GetClientIP
	}
	rl := middleware.RateLimiter{Limiter: limiter, ClientIP: clientIP, Metrics: m}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recover)
	r.Use(middleware.WithLogging)
	if m != nil {
		r.Use(middleware.WithMetrics(m))
	}
	r.Use(middleware.CORS(cfg.CORSOrigin))

	r.NotFound(middleware.NotFound)
	r.MethodNotAllowed(middleware.MethodNotAllowed)

	if m != nil && cfg.MetricsEnabled {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", handlers.Health)

		// Lead intake (public)
		r.With(rl.Limit(ScopeContact, contactLimitMessage)).Post("/contact", contactHandler.Submit)

		r.Route("/admin", func(r chi.Router) {
			r.With(rl.Limit(ScopeLogin, loginLimitMessage)).Post("/login", authHandler.Login)

			// Admin creation only exists when a setup token is configured
			if cfg.SetupToken != "" {
				r.With(middleware.RequireSetupToken(cfg.SetupToken)).Post("/create-user", authHandler.CreateUser)
			}

			// Lead triage (bearer token)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(tokens))

				r.Get("/requests", adminHandler.ListRequests)
				r.Get("/requests/{id}", adminHandler.GetRequest)
				r.Patch("/requests/{id}/status", adminHandler.UpdateStatus)
				r.Delete("/requests/{id}", adminHandler.DeleteRequest)
				r.Get("/stats", adminHandler.Stats)
			})
		})
	})

	return r
}
