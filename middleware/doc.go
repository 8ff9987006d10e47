// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Pipeline

The router installs the global middleware in this order:

	r.Use(middleware.RequestID)
	r.Use(middleware.Recover)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithMetrics(m))
	r.Use(middleware.CORS(cfg.CORSOrigin))

RequestID reuses an inbound X-Request-ID or generates a uuid, echoes it in the
response and stores it in the context for log lines (GetRequestID).

Recover converts handler panics into the generic 500 response and logs the
stack with the request id.

WithLogging logs request start (method, path, remote) and completion
(status, duration_ms). WithMetrics records counts and latency by chi route
pattern.

# CORS Middleware

	middleware.CORS("https://feetinfra.com")

An empty origin reflects the request's Origin header. Allows GET, POST, PATCH,
DELETE and OPTIONS with Content-Type, Authorization and X-Setup-Token.

# Rate Limiting

	rl := middleware.RateLimiter{Limiter: limiter, ClientIP: middleware.RemoteIP}
	r.With(rl.Limit("login", "Too many login attempts, please try again later.")).Post(...)

Each scope has its own budget per client address. Responses carry
RateLimit-Limit, RateLimit-Remaining and RateLimit-Reset; rejections add
Retry-After. When the limiter backend fails the request is let through.

# Authorization

RequireAdmin checks the bearer token:

  - no token: 401 "Access token is required"
  - invalid or expired token: 403 "Token is invalid or has expired"

Handlers read the verified claims with AdminFromContext.

RequireSetupToken compares X-Setup-Token with the configured secret in
constant time.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.ValidationError(w, "Validation failed", fields)
	middleware.InternalError(w, r, "failed to list leads", err)

InternalError logs the cause and answers with a fixed message, so store errors
never reach clients.

Parse JSON request bodies:

	var req models.LoginRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

Bodies are limited to 1 MiB, unknown fields are rejected, and a body must hold
exactly one JSON value.

# Client IP Extraction

	ip := middleware.GetClientIP(r) // X-Forwarded-For, X-Real-IP, then peer
	ip := middleware.RemoteIP(r)    // peer only

GetClientIP trusts proxy headers and is only used when the server runs behind
a proxy (TRUST_PROXY). Otherwise rate limit keys use RemoteIP.
*/
package middleware
