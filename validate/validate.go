// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package validate

import (
	"regexp"
	"slices"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/feetinfra/feetinfra-api/models"
)

const (
	MaxFieldLen   = 255
	MaxMessageLen = 5000
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Errors maps a field name to a human-readable reason.
type Errors map[string]string

// Error joins the field messages in field order.
func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, e[f])
	}
	return strings.Join(msgs, "; ")
}

// RequiredFieldsMessage is the summary used when any required lead field is blank.
const RequiredFieldsMessage = "Missing required fields: name, email, phone, service, message"

// Summary picks the top-level message for a failed lead submission.
func (e Errors) Summary() string {
	for _, f := range []string{"name", "email", "phone", "service", "message"} {
		if e[f] == f+" is required" {
			return RequiredFieldsMessage
		}
	}
	if len(e) == 1 && e["email"] != "" {
		return e["email"]
	}
	return "Validation failed"
}

// Lead checks a contact form submission. An empty result means valid.
func Lead(req models.ContactRequest) Errors {
	errs := Errors{}

	required(errs, "name", req.Name)
	required(errs, "email", req.Email)
	required(errs, "phone", req.Phone)
	required(errs, "service", req.Service)
	required(errs, "message", req.Message)

	if _, missing := errs["email"]; !missing && !Email(req.Email) {
		errs["email"] = "Invalid email format"
	}
	if _, missing := errs["service"]; !missing && !Service(req.Service) {
		errs["service"] = "service must be one of: " + strings.Join(models.Services, ", ")
	}

	maxLen(errs, "name", req.Name, MaxFieldLen)
	maxLen(errs, "email", req.Email, MaxFieldLen)
	maxLen(errs, "phone", req.Phone, MaxFieldLen)
	maxLen(errs, "company", req.Company, MaxFieldLen)
	maxLen(errs, "budget", req.Budget, MaxFieldLen)
	maxLen(errs, "timeline", req.Timeline, MaxFieldLen)
	maxLen(errs, "message", req.Message, MaxMessageLen)

	return errs
}

// Email reports whether s has a basic local@domain.tld shape.
func Email(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// Service reports whether s is a known service category.
func Service(s string) bool {
	return slices.Contains(models.Services, strings.TrimSpace(s))
}

// Status reports whether s is a valid lead status.
func Status(s string) bool {
	return slices.Contains(models.Statuses, s)
}

func required(errs Errors, field, value string) {
	if strings.TrimSpace(value) == "" {
		errs[field] = field + " is required"
	}
}

func maxLen(errs Errors, field, value string, limit int) {
	if _, exists := errs[field]; exists {
		return
	}
	if utf8.RuneCountInString(strings.TrimSpace(value)) > limit {
		errs[field] = field + " is too long"
	}
}
