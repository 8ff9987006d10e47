// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/feetinfra/feetinfra-api/metrics"
	"github.com/feetinfra/feetinfra-api/middleware"
	"github.com/feetinfra/feetinfra-api/models"
	"github.com/feetinfra/feetinfra-api/store"
	"github.com/feetinfra/feetinfra-api/validate"
)

// Pagination bounds for the lead list
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type AdminHandler struct {
	store   *store.Store
	metrics *metrics.Metrics
}

func NewAdminHandler(st *store.Store, m *metrics.Metrics) *AdminHandler {
	return &AdminHandler{store: st, metrics: m}
}

// ListRequests handles GET /api/admin/requests
func (h *AdminHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page := positiveInt(q.Get("page"), 1)
	limit := positiveInt(q.Get("limit"), DefaultPageSize)
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	page = min(page, store.MaxPage(limit))

	status := strings.TrimSpace(q.Get("status"))
	if status == "all" {
		status = ""
	}
	if status != "" && !validate.Status(status) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid status filter")
		return
	}

	leads, total, err := h.store.ListLeads(r.Context(), store.LeadFilter{
		Status: status,
		Search: strings.TrimSpace(q.Get("search")),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		middleware.InternalError(w, r, "failed to list leads", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.LeadListResponse{
		Requests: leads,
		Pagination: models.Pagination{
			CurrentPage:   page,
			TotalPages:    (total + limit - 1) / limit,
			TotalRequests: total,
			Limit:         limit,
		},
	})
}

// GetRequest handles GET /api/admin/requests/{id}
func (h *AdminHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}

	lead, err := h.store.GetLead(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Request not found")
		return
	}
	if err != nil {
		middleware.InternalError(w, r, "failed to get lead", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, lead)
}

// UpdateStatus handles PATCH /api/admin/requests/{id}/status
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}

	var req models.UpdateStatusRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if !validate.Status(req.Status) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid status provided")
		return
	}

	lead, err := h.store.UpdateLeadStatus(r.Context(), id, req.Status)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Request not found")
		return
	}
	if err != nil {
		middleware.InternalError(w, r, "failed to update lead status", err)
		return
	}

	h.metrics.StatusChanged(req.Status)
	slog.Info("lead status updated",
		"lead_id", id,
		"status", req.Status,
		"admin", adminName(r),
		"request_id", middleware.GetRequestID(r.Context()),
	)

	middleware.JSONResponse(w, http.StatusOK, models.UpdateStatusResponse{
		Success: true,
		Message: "Status updated successfully",
		Request: lead,
	})
}

// DeleteRequest handles DELETE /api/admin/requests/{id}
func (h *AdminHandler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}

	err := h.store.DeleteLead(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Request not found")
		return
	}
	if err != nil {
		middleware.InternalError(w, r, "failed to delete lead", err)
		return
	}

	h.metrics.LeadDeleted()
	slog.Info("lead deleted",
		"lead_id", id,
		"admin", adminName(r),
		"request_id", middleware.GetRequestID(r.Context()),
	)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Success: true,
		Message: "Request deleted successfully",
	})
}

// Stats handles GET /api/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		middleware.InternalError(w, r, "failed to compute stats", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, stats)
}

// leadID parses the {id} route parameter, writing a 400 when it is not a
// positive integer.
func leadID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request id")
		return 0, false
	}
	return id, true
}

// positiveInt parses s, falling back to def for anything but a positive integer.
func positiveInt(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	return n
}

func adminName(r *http.Request) string {
	if claims, ok := middleware.AdminFromContext(r.Context()); ok {
		return claims.Username
	}
	return ""
}
