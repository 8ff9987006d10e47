// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Feet Infra API.

# Handler Types

Each handler is a struct holding a *store.Store and optional metrics:

  - ContactHandler: public lead intake
  - AuthHandler: admin login and admin account creation
  - AdminHandler: lead listing, detail, status changes, deletion and stats

Handlers are created via constructor functions:

	contactHandler := handlers.NewContactHandler(st, m)
	authHandler := handlers.NewAuthHandler(st, tokens, m)

A nil *metrics.Metrics is allowed everywhere.

# Lead Intake

	POST /api/contact → Submit

Fields are trimmed, then validated. Failures return 400 with a summary in
"error" and per-field messages in "fields". Every valid submission is stored
with status "new"; duplicates are not detected.

# Lead Workflow

A lead moves freely between new, in_progress, contacted, completed and
cancelled. Any status may follow any other:

	PATCH /api/admin/requests/{id}/status → UpdateStatus

# Login

Login answers 401 "Invalid credentials" for both unknown users and wrong
passwords. Accounts still holding a plaintext password are accepted once and
upgraded to bcrypt in place.

# Errors

Unexpected failures are logged with the request id and answered with a
generic 500 body; driver errors never reach the client.
*/
package handlers
