// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - ContactRequest: name, email, phone, company, service, budget, timeline, message
  - LoginRequest: username, password
  - CreateAdminRequest: username, password, email
  - UpdateStatusRequest: status

# Response Types

Types for JSON responses:

  - ContactResponse: success, message, requestId, submittedAt
  - LoginResponse: success, token, expiresAt, admin
  - CreateAdminResponse: success, message, user
  - UpdateStatusResponse: success, message, request
  - MessageResponse: success, message
  - LeadListResponse: requests, pagination
  - StatsResponse: totals per status and the five newest leads
  - HealthResponse: status, timestamp
  - ErrorResponse: error, fields

# Domain Types

  - Lead: a contact_requests row
  - LeadSummary: id, name, service, status, created_at of a lead
  - AdminUser: an admin_users row (password hash never serialized)
  - AdminProfile: the sanitized admin returned to clients

# Constants

Lead status values:

	StatusNew        = "new"
	StatusInProgress = "in_progress"
	StatusContacted  = "contacted"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"

Service categories:

	ServiceResidential, ServiceCommercial, ServiceIndustrial,
	ServiceRenovation, ServiceConsultation, ServiceOther

Roles:

	RoleAdmin = "admin"
*/
package models
