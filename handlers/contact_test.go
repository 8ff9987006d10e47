// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/feetinfra/feetinfra-api/models"
	"github.com/feetinfra/feetinfra-api/store"
	"github.com/feetinfra/feetinfra-api/testutil"
	"github.com/feetinfra/feetinfra-api/validate"
)

func newTestStore(t *testing.T) (*sqlx.DB, *store.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return db, store.New(db, 2*time.Second)
}

func validContact() models.ContactRequest {
	return models.ContactRequest{
		Name:     "Ada Builder",
		Email:    "ada@example.com",
		Phone:    "555-0100",
		Service:  models.ServiceRenovation,
		Timeline: "Spring",
		Message:  "Kitchen remodel",
	}
}

func countLeads(t *testing.T, db *sqlx.DB) int {
	t.Helper()
	var n int
	if err := db.Get(&n, "SELECT COUNT(*) FROM contact_requests"); err != nil {
		t.Fatalf("Failed to count leads: %v", err)
	}
	return n
}

func TestSubmitContact(t *testing.T) {
	db, st := newTestStore(t)
	handler := NewContactHandler(st, nil)

	before := time.Now().Add(-time.Second)
	req := testutil.MakeRequest("POST", "/api/contact", validContact(), nil)
	w := httptest.NewRecorder()

	handler.Submit(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.ContactResponse
	testutil.AssertJSON(t, w, &resp)

	if !resp.Success {
		t.Error("Expected success to be true")
	}
	if resp.RequestID <= 0 {
		t.Errorf("Expected a positive requestId, got %d", resp.RequestID)
	}
	if resp.SubmittedAt.Before(before) {
		t.Errorf("submittedAt %v is too early", resp.SubmittedAt)
	}

	lead, err := st.GetLead(req.Context(), resp.RequestID)
	if err != nil {
		t.Fatalf("Lead was not stored: %v", err)
	}
	if lead.Status != models.StatusNew {
		t.Errorf("Expected status new, got %q", lead.Status)
	}
	if lead.Timeline == nil || *lead.Timeline != "Spring" {
		t.Errorf("Expected timeline Spring, got %v", lead.Timeline)
	}
	if lead.Company != nil {
		t.Errorf("Expected NULL company, got %q", *lead.Company)
	}
	if countLeads(t, db) != 1 {
		t.Error("Expected exactly one stored lead")
	}
}

func TestSubmitContact_TrimsFields(t *testing.T) {
	_, st := newTestStore(t)
	handler := NewContactHandler(st, nil)

	body := validContact()
	body.Name = "  Ada Builder  "
	body.Company = "   "

	w := httptest.NewRecorder()
	req := testutil.MakeRequest("POST", "/api/contact", body, nil)
	handler.Submit(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.ContactResponse
	testutil.AssertJSON(t, w, &resp)

	lead, _ := st.GetLead(req.Context(), resp.RequestID)
	if lead.Name != "Ada Builder" {
		t.Errorf("Expected trimmed name, got %q", lead.Name)
	}
	if lead.Company != nil {
		t.Errorf("Whitespace-only company should be NULL, got %q", *lead.Company)
	}
}

func TestSubmitContact_Validation(t *testing.T) {
	db, st := newTestStore(t)
	handler := NewContactHandler(st, nil)

	tests := []struct {
		name      string
		mutate    func(*models.ContactRequest)
		wantError string
		wantField string
	}{
		{
			name:      "missing phone",
			mutate:    func(r *models.ContactRequest) { r.Phone = "" },
			wantError: validate.RequiredFieldsMessage,
			wantField: "phone",
		},
		{
			name:      "blank message",
			mutate:    func(r *models.ContactRequest) { r.Message = "   " },
			wantError: validate.RequiredFieldsMessage,
			wantField: "message",
		},
		{
			name:      "invalid email",
			mutate:    func(r *models.ContactRequest) { r.Email = "not-an-email" },
			wantError: "Invalid email format",
			wantField: "email",
		},
		{
			name:      "unknown service",
			mutate:    func(r *models.ContactRequest) { r.Service = "demolition" },
			wantError: "Validation failed",
			wantField: "service",
		},
		{
			name:      "message too long",
			mutate:    func(r *models.ContactRequest) { r.Message = strings.Repeat("x", validate.MaxMessageLen+1) },
			wantError: "Validation failed",
			wantField: "message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validContact()
			tt.mutate(&body)

			w := httptest.NewRecorder()
			handler.Submit(w, testutil.MakeRequest("POST", "/api/contact", body, nil))

			testutil.AssertStatus(t, w, http.StatusBadRequest)

			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Error != tt.wantError {
				t.Errorf("Expected error %q, got %q", tt.wantError, resp.Error)
			}
			if _, ok := resp.Fields[tt.wantField]; !ok {
				t.Errorf("Expected field %q in %v", tt.wantField, resp.Fields)
			}
		})
	}

	if n := countLeads(t, db); n != 0 {
		t.Errorf("Invalid submissions must not be stored, found %d", n)
	}
}

func TestSubmitContact_BadJSON(t *testing.T) {
	_, st := newTestStore(t)
	handler := NewContactHandler(st, nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"name":`},
		{"unknown field", `{"name":"A","email":"a@b.co","phone":"1","service":"other","message":"m","extra":true}`},
		{"array", `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.Submit(w, testutil.MakeRequest("POST", "/api/contact", tt.body, nil))
			testutil.AssertStatus(t, w, http.StatusBadRequest)
		})
	}
}

func TestSubmitContact_NoDeduplication(t *testing.T) {
	db, st := newTestStore(t)
	handler := NewContactHandler(st, nil)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.Submit(w, testutil.MakeRequest("POST", "/api/contact", validContact(), nil))
		testutil.AssertStatus(t, w, http.StatusCreated)
	}

	if n := countLeads(t, db); n != 2 {
		t.Errorf("Expected 2 leads, got %d", n)
	}
}

func TestSubmitContact_StoreFailure(t *testing.T) {
	db, st := newTestStore(t)
	handler := NewContactHandler(st, nil)
	db.Close()

	w := httptest.NewRecorder()
	handler.Submit(w, testutil.MakeRequest("POST", "/api/contact", validContact(), nil))

	testutil.AssertStatus(t, w, http.StatusInternalServerError)

	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Error != "An unexpected internal server error occurred." {
		t.Errorf("Expected generic error, got %q", resp.Error)
	}
}
