// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/feetinfra/feetinfra-api/metrics"
	"github.com/feetinfra/feetinfra-api/middleware"
	"github.com/feetinfra/feetinfra-api/models"
	"github.com/feetinfra/feetinfra-api/store"
	"github.com/feetinfra/feetinfra-api/validate"
)

type ContactHandler struct {
	store   *store.Store
	metrics *metrics.Metrics
}

func NewContactHandler(st *store.Store, m *metrics.Metrics) *ContactHandler {
	return &ContactHandler{store: st, metrics: m}
}

// Submit handles POST /api/contact
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.ContactRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	req.Normalize()
	if errs := validate.Lead(req); len(errs) > 0 {
		middleware.ValidationError(w, errs.Summary(), errs)
		return
	}

	id, createdAt, err := h.store.CreateLead(r.Context(), req)
	if err != nil {
		middleware.InternalError(w, r, "failed to create lead", err)
		return
	}

	h.metrics.LeadCreated()
	slog.Info("lead created",
		"lead_id", id,
		"service", req.Service,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	middleware.JSONResponse(w, http.StatusCreated, models.ContactResponse{
		Success:     true,
		Message:     "Contact request submitted successfully",
		RequestID:   id,
		SubmittedAt: createdAt,
	})
}
