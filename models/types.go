package models

import (
	"strings"
	"time"
)

// Lead status constants
const (
	StatusNew        = "new"
	StatusInProgress = "in_progress"
	StatusContacted  = "contacted"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Statuses lists every status a lead may hold, in workflow order.
var Statuses = []string{
	StatusNew,
	StatusInProgress,
	StatusContacted,
	StatusCompleted,
	StatusCancelled,
}

// Service categories offered on the contact form
const (
	ServiceResidential  = "residential"
	ServiceCommercial   = "commercial"
	ServiceIndustrial   = "industrial"
	ServiceRenovation   = "renovation"
	ServiceConsultation = "consultation"
	ServiceOther        = "other"
)

var Services = []string{
	ServiceResidential,
	ServiceCommercial,
	ServiceIndustrial,
	ServiceRenovation,
	ServiceConsultation,
	ServiceOther,
}

// RoleAdmin is the only role an admin account can hold.
const RoleAdmin = "admin"

// Request types

type ContactRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Company  string `json:"company"`
	Service  string `json:"service"`
	Budget   string `json:"budget"`
	Timeline string `json:"timeline"`
	Message  string `json:"message"`
}

// Normalize trims surrounding whitespace from every field.
func (r *ContactRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Company = strings.TrimSpace(r.Company)
	r.Service = strings.TrimSpace(r.Service)
	r.Budget = strings.TrimSpace(r.Budget)
	r.Timeline = strings.TrimSpace(r.Timeline)
	r.Message = strings.TrimSpace(r.Message)
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Response types

type ContactResponse struct {
	Success     bool      `json:"success"`
	Message     string    `json:"message"`
	RequestID   int64     `json:"requestId"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type LoginResponse struct {
	Success   bool         `json:"success"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	Admin     AdminProfile `json:"admin"`
}

type CreateAdminResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    AdminProfile `json:"user"`
}

type UpdateStatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Request Lead   `json:"request"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Pagination struct {
	CurrentPage   int `json:"currentPage"`
	TotalPages    int `json:"totalPages"`
	TotalRequests int `json:"totalRequests"`
	Limit         int `json:"limit"`
}

type LeadListResponse struct {
	Requests   []Lead     `json:"requests"`
	Pagination Pagination `json:"pagination"`
}

type StatsResponse struct {
	TotalRequests      int           `json:"totalRequests"`
	NewRequests        int           `json:"newRequests"`
	InProgressRequests int           `json:"inProgressRequests"`
	CompletedRequests  int           `json:"completedRequests"`
	RecentRequests     []LeadSummary `json:"recentRequests"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Domain types

// Lead is a row of contact_requests.
type Lead struct {
	ID        int64      `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Email     string     `json:"email" db:"email"`
	Phone     string     `json:"phone" db:"phone"`
	Company   *string    `json:"company" db:"company"`
	Service   string     `json:"service" db:"service"`
	Budget    *string    `json:"budget" db:"budget"`
	Timeline  *string    `json:"timeline" db:"timeline"`
	Message   string     `json:"message" db:"message"`
	Status    string     `json:"status" db:"status"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`
}

// LeadSummary is the trimmed lead shape used by the dashboard stats.
type LeadSummary struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Service   string    `json:"service" db:"service"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// AdminUser is a row of admin_users.
type AdminUser struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never expose in JSON
	Email        *string   `json:"email" db:"email"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// AdminProfile is the sanitized admin shape returned to clients.
type AdminProfile struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Email    *string `json:"email"`
	Role     string  `json:"role"`
}

func (a AdminUser) Profile() AdminProfile {
	return AdminProfile{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
		Role:     a.Role,
	}
}

// Error response

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}
