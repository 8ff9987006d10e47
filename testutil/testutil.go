// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/feetinfra/feetinfra-api/auth"
	"github.com/feetinfra/feetinfra-api/cliparse"
	"github.com/feetinfra/feetinfra-api/db"
	"github.com/feetinfra/feetinfra-api/models"
)

// TestJWTSecret signs tokens in tests
const TestJWTSecret = "test-jwt-secret"

// SetupTestDB creates a fresh SQLite database in a temp dir with the full schema.
// The database is closed when the test ends.
func SetupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	conn, err := db.Open(db.TypeSQLite, "file:"+path+"?_time_format=sqlite")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           5000,
		DatabaseType:   db.TypeSQLite,
		DatabaseURL:    "file::memory:",
		DBTimeout:      5 * time.Second,
		JWTSecret:      TestJWTSecret,
		TokenTTL:       time.Hour,
		AdminUsername:  "admin",
		AdminEmail:     "admin@feetinfra.com",
		RateLimit:      5,
		RateWindow:     15 * time.Minute,
		LogLevel:       "info",
		LogFormat:      "text",
		MetricsEnabled: true,
	}
}

// CreateTestLead inserts a lead directly and returns its ID.
// status should be one of models.Statuses.
func CreateTestLead(t *testing.T, conn *sqlx.DB, name, email, status string, createdAt time.Time) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRowx(conn.Rebind(`
		INSERT INTO contact_requests (name, email, phone, service, message, status, created_at)
		VALUES (?, ?, '555-0100', ?, 'Test message', ?, ?)
		RETURNING id
	`), name, email, models.ServiceResidential, status, createdAt.UTC()).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test lead: %v", err)
	}

	return id
}

// CreateTestAdmin inserts an admin with a bcrypt hashed password and returns its ID
func CreateTestAdmin(t *testing.T, conn *sqlx.DB, username, password string) int64 {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	return insertAdmin(t, conn, username, hash)
}

// CreateLegacyAdmin inserts an admin whose password is stored unhashed
func CreateLegacyAdmin(t *testing.T, conn *sqlx.DB, username, password string) int64 {
	t.Helper()
	return insertAdmin(t, conn, username, password)
}

func insertAdmin(t *testing.T, conn *sqlx.DB, username, stored string) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRowx(conn.Rebind(`
		INSERT INTO admin_users (username, password_hash, email, role, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`), username, stored, username+"@feetinfra.com", models.RoleAdmin, time.Now().UTC()).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test admin: %v", err)
	}

	return id
}

// AdminToken issues a valid bearer token for the given admin
func AdminToken(t *testing.T, cfg cliparse.Config, adminID int64, username string) string {
	t.Helper()

	token, _, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL).Issue(adminID, username, models.RoleAdmin)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return token
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		var reader *bytes.Reader
		if raw, ok := body.(string); ok {
			reader = bytes.NewReader([]byte(raw))
		} else {
			jsonBody, _ := json.Marshal(body)
			reader = bytes.NewReader(jsonBody)
		}
		req = httptest.NewRequest(method, path, reader)
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// WithURLParams attaches chi route parameters to a request so handlers can be
// called without going through the router.
func WithURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
