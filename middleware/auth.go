// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/feetinfra/feetinfra-api/auth"
)

// RequireAdmin rejects requests without a valid bearer token. Verified
// claims are available to handlers through AdminFromContext.
func RequireAdmin(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.BearerToken(r.Header.Get("Authorization"))
			if token == "" {
				ErrorResponse(w, http.StatusUnauthorized, "Access token is required")
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				slog.Debug("token rejected", "error", err, "request_id", GetRequestID(r.Context()))
				ErrorResponse(w, http.StatusForbidden, "Token is invalid or has expired")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
		})
	}
}

// AdminFromContext returns the claims stored by RequireAdmin.
func AdminFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

// RequireSetupToken guards admin creation with a shared secret sent in
// X-Setup-Token. An empty expected token rejects every request.
func RequireSetupToken(expected string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			supplied := r.Header.Get("X-Setup-Token")
			if expected == "" || subtle.ConstantTimeCompare([]byte(supplied), []byte(expected)) != 1 {
				slog.Warn("admin creation rejected", "remote", r.RemoteAddr, "request_id", GetRequestID(r.Context()))
				ErrorResponse(w, http.StatusForbidden, "A valid setup token is required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
