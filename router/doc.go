// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Feet Infra API.

# Route Registration

NewRouter builds a chi router with all endpoints:

	mux := router.NewRouter(db, cfg, limiter, m)

# Endpoints

Health:

	GET /api/health

Lead intake (public, rate limited per client IP):

	POST /api/contact

Admin authentication (login rate limited per client IP):

	POST /api/admin/login
	POST /api/admin/create-user  - only when a setup token is configured,
	                               requires X-Setup-Token

Lead triage (requires Authorization: Bearer <token>):

	GET    /api/admin/requests            - Paginated, filterable list
	GET    /api/admin/requests/{id}       - Single lead
	PATCH  /api/admin/requests/{id}/status - Change status
	DELETE /api/admin/requests/{id}       - Delete lead
	GET    /api/admin/stats               - Dashboard counts

Operations:

	GET /metrics - Prometheus exposition, when enabled

# Middleware

Every request passes through RequestID, Recover, WithLogging, WithMetrics
and CORS, in that order. Unknown routes answer 404 and wrong methods 405,
both with a JSON error body.
*/
package router
