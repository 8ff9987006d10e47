// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/feetinfra/feetinfra-api/models"
)

const leadColumns = `id, name, email, phone, company, service, budget, timeline, message, status, created_at, updated_at`

// RecentLeadsLimit is how many leads the stats summary includes.
const RecentLeadsLimit = 5

// LeadFilter selects a page of leads. Status and Search are optional and
// combine with AND.
type LeadFilter struct {
	Status string
	Search string
	Page   int
	Limit  int
}

// MaxPage is the largest page number whose offset still fits in an int.
func MaxPage(limit int) int {
	if limit < 1 {
		return math.MaxInt
	}
	return math.MaxInt / limit
}

func (f LeadFilter) offset() int {
	page := min(f.Page, MaxPage(f.Limit))
	if page < 1 {
		return 0
	}
	return (page - 1) * f.Limit
}

// CreateLead inserts a lead with status new and returns its id and creation time.
func (s *Store) CreateLead(ctx context.Context, req models.ContactRequest) (int64, time.Time, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	createdAt := s.now()
	var id int64
	err := s.db.QueryRowxContext(ctx, s.rebind(`
		INSERT INTO contact_requests (name, email, phone, company, service, budget, timeline, message, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`), req.Name, req.Email, req.Phone, nullable(req.Company), req.Service,
		nullable(req.Budget), nullable(req.Timeline), req.Message, models.StatusNew, createdAt).Scan(&id)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to insert lead: %w", err)
	}

	return id, createdAt, nil
}

// GetLead fetches one lead by id.
func (s *Store) GetLead(ctx context.Context, id int64) (models.Lead, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var lead models.Lead
	err := s.db.GetContext(ctx, &lead, s.rebind(`SELECT `+leadColumns+` FROM contact_requests WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Lead{}, ErrNotFound
	}
	if err != nil {
		return models.Lead{}, fmt.Errorf("failed to query lead: %w", err)
	}
	return lead, nil
}

// ListLeads returns one page of leads, newest first, and the total number of
// leads matching the filter.
//
// The page and the count are two statements run concurrently. Under concurrent
// writes they can disagree; callers accept that.
func (s *Store) ListLeads(ctx context.Context, f LeadFilter) ([]models.Lead, int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	where, args := leadWhere(f)

	pageArgs := make([]interface{}, 0, len(args)+2)
	pageArgs = append(pageArgs, args...)
	pageArgs = append(pageArgs, f.Limit, f.offset())

	pageQuery := s.rebind(`SELECT ` + leadColumns + ` FROM contact_requests` + where +
		` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`)
	countQuery := s.rebind(`SELECT COUNT(*) FROM contact_requests` + where)

	leads := []models.Lead{}
	var total int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.SelectContext(gctx, &leads, pageQuery, pageArgs...)
	})
	g.Go(func() error {
		return s.db.GetContext(gctx, &total, countQuery, args...)
	})
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("failed to list leads: %w", err)
	}

	return leads, total, nil
}

// leadWhere builds the shared WHERE clause for ListLeads.
func leadWhere(f LeadFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, f.Status)
	}

	if f.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(f.Search)) + "%"
		conds = append(conds, `(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// UpdateLeadStatus sets the status and updated_at of a lead and returns the
// updated row. Concurrent updates are last write wins.
func (s *Store) UpdateLeadStatus(ctx context.Context, id int64, status string) (models.Lead, error) {
	tctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(tctx, s.rebind(`
		UPDATE contact_requests
		SET status = ?, updated_at = ?
		WHERE id = ?
	`), status, s.now(), id)
	if err != nil {
		return models.Lead{}, fmt.Errorf("failed to update lead status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return models.Lead{}, fmt.Errorf("failed to update lead status: %w", err)
	}
	if n == 0 {
		return models.Lead{}, ErrNotFound
	}

	return s.GetLead(ctx, id)
}

// DeleteLead removes a lead permanently.
func (s *Store) DeleteLead(ctx context.Context, id int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM contact_requests WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type leadCounts struct {
	Total      int `db:"total"`
	New        int `db:"new_count"`
	InProgress int `db:"in_progress_count"`
	Completed  int `db:"completed_count"`
}

// Stats returns the dashboard aggregates.
func (s *Store) Stats(ctx context.Context) (models.StatsResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var counts leadCounts
	recent := []models.LeadSummary{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.GetContext(gctx, &counts, s.rebind(`
			SELECT
				COUNT(*) AS total,
				COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS new_count,
				COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS in_progress_count,
				COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed_count
			FROM contact_requests
		`), models.StatusNew, models.StatusInProgress, models.StatusCompleted)
	})
	g.Go(func() error {
		return s.db.SelectContext(gctx, &recent, s.rebind(`
			SELECT id, name, service, status, created_at
			FROM contact_requests
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		`), RecentLeadsLimit)
	})
	if err := g.Wait(); err != nil {
		return models.StatsResponse{}, fmt.Errorf("failed to compute stats: %w", err)
	}

	return models.StatsResponse{
		TotalRequests:      counts.Total,
		NewRequests:        counts.New,
		InProgressRequests: counts.InProgress,
		CompletedRequests:  counts.Completed,
		RecentRequests:     recent,
	}, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
