// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/feetinfra/feetinfra-api/metrics"
	"github.com/feetinfra/feetinfra-api/ratelimit"
)

// RateLimiter applies a ratelimit.Limiter to routes, one budget per scope and
// client address.
type RateLimiter struct {
	Limiter  ratelimit.Limiter
	ClientIP func(*http.Request) string
	Metrics  *metrics.Metrics
	Now      func() time.Time
}

// Limit rejects requests over budget with 429 and message. Every request,
// allowed or not, consumes budget. A limiter error lets the request through.
func (rl RateLimiter) Limit(scope, message string) func(http.Handler) http.Handler {
	clientIP := rl.ClientIP
	if clientIP == nil {
		clientIP = RemoteIP
	}
	now := rl.Now
	if now == nil {
		now = time.Now
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := scope + ":" + clientIP(r)

			d, err := rl.Limiter.Allow(r.Context(), key)
			if err != nil {
				slog.Warn("rate limiter unavailable, allowing request",
					"scope", scope,
					"error", err,
					"request_id", GetRequestID(r.Context()),
				)
				next.ServeHTTP(w, r)
				return
			}

			reset := int(math.Ceil(d.ResetAt.Sub(now()).Seconds()))
			if reset < 0 {
				reset = 0
			}
			w.Header().Set("RateLimit-Limit", strconv.Itoa(d.Limit))
			w.Header().Set("RateLimit-Remaining", strconv.Itoa(d.Remaining))
			w.Header().Set("RateLimit-Reset", strconv.Itoa(reset))

			if !d.Allowed {
				rl.Metrics.RateLimited(scope)
				slog.Warn("rate limit exceeded",
					"scope", scope,
					"key", key,
					"request_id", GetRequestID(r.Context()),
				)
				w.Header().Set("Retry-After", strconv.Itoa(reset))
				ErrorResponse(w, http.StatusTooManyRequests, message)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
