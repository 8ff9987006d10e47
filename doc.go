// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Feet Infra API server.

The API takes contact-form leads from the public website and lets admins
triage them: list, search, inspect, move through the status workflow, delete
and summarize.

# Starting the Server

The server reads CLI flags, then environment variables, then a .env file:

	DATABASE_URL=postgres://... JWT_SECRET=... go run .

Or with flags:

	go run . -p 5000 -d "postgres://..." -jwt-secret "..."

For local development SQLite works without a server:

	go run . -t sqlite -d "file:feetinfra.db?_time_format=sqlite" -jwt-secret dev

# Configuration

Required settings:

  - DATABASE_URL (-d): connection string, or DB_HOST/DB_PORT/DB_USER/
    DB_PASSWORD/DB_NAME for PostgreSQL
  - JWT_SECRET (-jwt-secret): HS256 signing key for admin tokens

Optional settings:

  - PORT (-p): server port (default: 5000)
  - ADMIN_DEFAULT_USERNAME / ADMIN_DEFAULT_PASSWORD: account created on
    first start; a random password is generated and logged when unset
  - ADMIN_SETUP_TOKEN: enables POST /api/admin/create-user
  - REDIS_URL: share rate limits across instances
  - TRUST_PROXY: take the client IP from X-Forwarded-For
  - LOG_LEVEL, LOG_FORMAT: slog level and text/json output
  - METRICS_ENABLED: expose Prometheus metrics on /metrics

# Architecture

  - handlers: HTTP request handlers (contact, auth, admin, health)
  - router: chi route tree and middleware chain
  - middleware: request ids, logging, CORS, rate limits, bearer auth
  - store: sqlx queries for leads and admins
  - ratelimit: fixed-window limiters (in-memory and Redis)
  - bootstrap: default admin creation
  - metrics: Prometheus collectors
  - validate: contact form rules
  - auth: password hashing and JWTs
  - db: connection and schema
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
