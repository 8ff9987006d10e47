// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/feetinfra/feetinfra-api/auth"
	"github.com/feetinfra/feetinfra-api/metrics"
	"github.com/feetinfra/feetinfra-api/middleware"
	"github.com/feetinfra/feetinfra-api/models"
	"github.com/feetinfra/feetinfra-api/store"
	"github.com/feetinfra/feetinfra-api/validate"
)

// MinPasswordLen applies to admins created through the API.
const MinPasswordLen = 8

type AuthHandler struct {
	store   *store.Store
	tokens  *auth.TokenManager
	metrics *metrics.Metrics
}

func NewAuthHandler(st *store.Store, tokens *auth.TokenManager, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{store: st, tokens: tokens, metrics: m}
}

// Login handles POST /api/admin/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	admin, err := h.store.GetAdminByUsername(r.Context(), req.Username)
	if errors.Is(err, store.ErrNotFound) {
		// Spend the same bcrypt work as a real comparison
		auth.CompareDummy(req.Password)
		h.rejectLogin(w, r, req.Username)
		return
	}
	if err != nil {
		middleware.InternalError(w, r, "failed to look up admin", err)
		return
	}

	ok, legacy := auth.CheckPassword(admin.PasswordHash, req.Password)
	if !ok {
		h.rejectLogin(w, r, req.Username)
		return
	}

	if legacy {
		h.upgradeLegacyPassword(r, admin, req.Password)
	}

	token, expiresAt, err := h.tokens.Issue(admin.ID, admin.Username, admin.Role)
	if err != nil {
		middleware.InternalError(w, r, "failed to issue token", err)
		return
	}

	h.metrics.Login("success")
	slog.Info("admin logged in",
		"admin_id", admin.ID,
		"username", admin.Username,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Success:   true,
		Token:     token,
		ExpiresAt: expiresAt,
		Admin:     admin.Profile(),
	})
}

func (h *AuthHandler) rejectLogin(w http.ResponseWriter, r *http.Request, username string) {
	h.metrics.Login("failure")
	slog.Warn("admin login failed",
		"username", username,
		"request_id", middleware.GetRequestID(r.Context()),
	)
	middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
}

// upgradeLegacyPassword replaces a plain-text credential with its bcrypt hash.
// Failure is logged and does not fail the login.
func (h *AuthHandler) upgradeLegacyPassword(r *http.Request, admin models.AdminUser, password string) {
	h.metrics.Login("legacy")
	slog.Warn("admin authenticated with plain-text password, upgrading to bcrypt",
		"admin_id", admin.ID,
		"username", admin.Username,
	)

	hash, err := auth.HashPassword(password)
	if err == nil {
		err = h.store.UpdateAdminPasswordHash(r.Context(), admin.ID, hash)
	}
	if err != nil {
		slog.Error("failed to upgrade legacy password",
			"admin_id", admin.ID,
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
	}
}

// CreateUser handles POST /api/admin/create-user.
// The route exists only when a setup token is configured.
func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAdminRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Username and password are required")
		return
	}
	if len(req.Username) > validate.MaxFieldLen {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Username is too long")
		return
	}
	if len(req.Password) < MinPasswordLen {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}
	// bcrypt ignores input past 72 bytes
	if len(req.Password) > 72 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Password must be at most 72 bytes")
		return
	}

	var email *string
	if req.Email != "" {
		if !validate.Email(req.Email) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid email format")
			return
		}
		email = &req.Email
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		middleware.InternalError(w, r, "failed to hash password", err)
		return
	}

	admin, err := h.store.CreateAdmin(r.Context(), req.Username, hash, email)
	if errors.Is(err, store.ErrDuplicateUsername) {
		middleware.ErrorResponse(w, http.StatusConflict, "Username already exists")
		return
	}
	if err != nil {
		middleware.InternalError(w, r, "failed to create admin", err)
		return
	}

	slog.Info("admin created",
		"admin_id", admin.ID,
		"username", admin.Username,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateAdminResponse{
		Success: true,
		Message: "Admin user created successfully",
		User:    admin.Profile(),
	})
}
