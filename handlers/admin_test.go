// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/feetinfra/feetinfra-api/models"
	"github.com/feetinfra/feetinfra-api/testutil"
)

func idParam(id int64) map[string]string {
	return map[string]string{"id": strconv.FormatInt(id, 10)}
}

func TestListRequests(t *testing.T) {
	db, st := newTestStore(t)
	handler := NewAdminHandler(st, nil)

	base := time.Now().Add(-24 * time.Hour)
	for i := 0; i < 25; i++ {
		status := models.StatusNew
		if i%5 == 0 {
			status = models.StatusContacted
		}
		testutil.CreateTestLead(t, db, fmt.Sprintf("Lead %02d", i), fmt.Sprintf("lead%02d@example.com", i), status, base.Add(time.Duration(i)*time.Minute))
	}
	testutil.CreateTestLead(t, db, "Zed Smith", "zed@smith.co", models.StatusCompleted, base.Add(time.Hour))

	tests := []struct {
		name           string
		query          string
		wantCount      int
		wantTotal      int
		wantTotalPages int
		wantPage       int
		wantLimit      int
		wantFirst      string
	}{
		{"defaults", "", 10, 26, 3, 1, 10, "Zed Smith"},
		{"second page", "?page=2&limit=10", 10, 26, 3, 2, 10, "Lead 15"},
		{"last partial page", "?page=3&limit=10", 6, 26, 3, 3, 10, "Lead 05"},
		{"page past end", "?page=10", 0, 26, 3, 10, 10, ""},
		{"page beyond int range", "?page=1844674407370955162&limit=10", 0, 26, 3, math.MaxInt / 10, 10, ""},
		{"limit capped", "?limit=500", 26, 26, 1, 1, 100, "Zed Smith"},
		{"invalid numbers fall back", "?page=abc&limit=-3", 10, 26, 3, 1, 10, "Zed Smith"},
		{"status filter", "?status=contacted", 5, 5, 1, 1, 10, "Lead 20"},
		{"status all", "?status=all", 10, 26, 3, 1, 10, "Zed Smith"},
		{"search", "?search=SMITH", 1, 1, 1, 1, 10, "Zed Smith"},
		{"search and status", "?search=lead2&status=new", 4, 4, 1, 1, 10, "Lead 24"},
		{"no match", "?search=nobody", 0, 0, 0, 1, 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.ListRequests(w, testutil.MakeRequest("GET", "/api/admin/requests"+tt.query, nil, nil))

			testutil.AssertStatus(t, w, http.StatusOK)

			var resp models.LeadListResponse
			testutil.AssertJSON(t, w, &resp)

			if len(resp.Requests) != tt.wantCount {
				t.Errorf("Expected %d requests, got %d", tt.wantCount, len(resp.Requests))
			}
			p := resp.Pagination
			if p.TotalRequests != tt.wantTotal || p.TotalPages != tt.wantTotalPages || p.CurrentPage != tt.wantPage || p.Limit != tt.wantLimit {
				t.Errorf("Unexpected pagination %+v", p)
			}
			if tt.wantFirst != "" && len(resp.Requests) > 0 && resp.Requests[0].Name != tt.wantFirst {
				t.Errorf("Expected first lead %q, got %q", tt.wantFirst, resp.Requests[0].Name)
			}
			if resp.Requests == nil {
				t.Error("requests must encode as an array, not null")
			}
		})
	}
}

func TestListRequests_InvalidStatus(t *testing.T) {
	_, st := newTestStore(t)
	handler := NewAdminHandler(st, nil)

	w := httptest.NewRecorder()
	handler.ListRequests(w, testutil.MakeRequest("GET", "/api/admin/requests?status=archived", nil, nil))

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestGetRequest(t *testing.T) {
	db, st := newTestStore(t)
	handler := NewAdminHandler(st, nil)
	id := testutil.CreateTestLead(t, db, "Alice", "alice@example.com", models.StatusNew, time.Now())

	t.Run("found", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.GetRequest(w, testutil.WithURLParams(testutil.MakeRequest("GET", "/", nil, nil), idParam(id)))

		testutil.AssertStatus(t, w, http.StatusOK)

		var lead models.Lead
		testutil.AssertJSON(t, w, &lead)
		if lead.ID != id || lead.Name != "Alice" || lead.Status != models.StatusNew {
			t.Errorf("Unexpected lead %+v", lead)
		}
	})

	t.Run("not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.GetRequest(w, testutil.WithURLParams(testutil.MakeRequest("GET", "/", nil, nil), idParam(id+100)))
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})

	t.Run("invalid id", func(t *testing.T) {
		for _, raw := range []string{"abc", "0", "-1", "1.5"} {
			w := httptest.NewRecorder()
			handler.GetRequest(w, testutil.WithURLParams(testutil.MakeRequest("GET", "/", nil, nil), map[string]string{"id": raw}))
			testutil.AssertStatus(t, w, http.StatusBadRequest)
		}
	})
}

func TestUpdateStatus(t *testing.T) {
	db, st := newTestStore(t)
	handler := NewAdminHandler(st, nil)
	id := testutil.CreateTestLead(t, db, "Alice", "alice@example.com", models.StatusNew, time.Now())

	update := func(leadID int64, body interface{}) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := testutil.MakeRequest("PATCH", "/", body, nil)
		handler.UpdateStatus(w, testutil.WithURLParams(req, idParam(leadID)))
		return w
	}

	t.Run("valid transition", func(t *testing.T) {
		w := update(id, models.UpdateStatusRequest{Status: models.StatusInProgress})
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.UpdateStatusResponse
		testutil.AssertJSON(t, w, &resp)
		if !resp.Success || resp.Request.Status != models.StatusInProgress {
			t.Errorf("Unexpected response %+v", resp)
		}
		if resp.Request.UpdatedAt == nil {
			t.Error("Expected updated_at to be set")
		}
	})

	t.Run("any status may follow any other", func(t *testing.T) {
		for _, s := range []string{models.StatusCancelled, models.StatusNew, models.StatusCompleted} {
			testutil.AssertStatus(t, update(id, models.UpdateStatusRequest{Status: s}), http.StatusOK)
		}
	})

	t.Run("invalid status leaves row unchanged", func(t *testing.T) {
		w := update(id, models.UpdateStatusRequest{Status: "archived"})
		testutil.AssertStatus(t, w, http.StatusBadRequest)

		lead, err := st.GetLead(context.Background(), id)
		if err != nil {
			t.Fatal(err)
		}
		if lead.Status != models.StatusCompleted {
			t.Errorf("Expected status to remain completed, got %q", lead.Status)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		testutil.AssertStatus(t, update(id+100, models.UpdateStatusRequest{Status: models.StatusNew}), http.StatusNotFound)
	})

	t.Run("bad body", func(t *testing.T) {
		testutil.AssertStatus(t, update(id, `{"status":`), http.StatusBadRequest)
	})
}

func TestDeleteRequest(t *testing.T) {
	db, st := newTestStore(t)
	handler := NewAdminHandler(st, nil)
	id := testutil.CreateTestLead(t, db, "Alice", "alice@example.com", models.StatusNew, time.Now())

	del := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		handler.DeleteRequest(w, testutil.WithURLParams(testutil.MakeRequest("DELETE", "/", nil, nil), idParam(id)))
		return w
	}

	w := del()
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.MessageResponse
	testutil.AssertJSON(t, w, &resp)
	if !resp.Success {
		t.Error("Expected success")
	}

	// Second delete finds nothing
	testutil.AssertStatus(t, del(), http.StatusNotFound)

	w = httptest.NewRecorder()
	handler.GetRequest(w, testutil.WithURLParams(testutil.MakeRequest("GET", "/", nil, nil), idParam(id)))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestStats(t *testing.T) {
	db, st := newTestStore(t)
	handler := NewAdminHandler(st, nil)

	base := time.Now().Add(-time.Hour)
	statuses := []string{
		models.StatusNew, models.StatusNew, models.StatusInProgress, models.StatusCompleted,
		models.StatusContacted, models.StatusCancelled, models.StatusNew,
	}
	for i, s := range statuses {
		testutil.CreateTestLead(t, db, fmt.Sprintf("Lead %d", i), fmt.Sprintf("l%d@example.com", i), s, base.Add(time.Duration(i)*time.Minute))
	}

	w := httptest.NewRecorder()
	handler.Stats(w, testutil.MakeRequest("GET", "/api/admin/stats", nil, nil))

	testutil.AssertStatus(t, w, http.StatusOK)

	var stats models.StatsResponse
	testutil.AssertJSON(t, w, &stats)

	if stats.TotalRequests != 7 || stats.NewRequests != 3 || stats.InProgressRequests != 1 || stats.CompletedRequests != 1 {
		t.Errorf("Unexpected counts %+v", stats)
	}
	if len(stats.RecentRequests) != 5 {
		t.Fatalf("Expected 5 recent requests, got %d", len(stats.RecentRequests))
	}
	for i := 1; i < len(stats.RecentRequests); i++ {
		if stats.RecentRequests[i].CreatedAt.After(stats.RecentRequests[i-1].CreatedAt) {
			t.Error("Recent requests must be newest first")
		}
	}
}

func TestPositiveInt(t *testing.T) {
	tests := []struct {
		in   string
		def  int
		want int
	}{
		{"", 10, 10},
		{"3", 10, 3},
		{"0", 10, 10},
		{"-5", 1, 1},
		{"x", 1, 1},
		{" 7 ", 1, 7},
	}
	for _, tt := range tests {
		if got := positiveInt(tt.in, tt.def); got != tt.want {
			t.Errorf("positiveInt(%q, %d) = %d, want %d", tt.in, tt.def, got, tt.want)
		}
	}
}
