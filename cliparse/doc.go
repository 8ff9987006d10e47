// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A .env file in the working directory is loaded first when present. Values
already in the environment are never replaced by it.

# Precedence

CLI flags take precedence over environment variables, which take precedence
over defaults:

	-p             PORT                    5000
	-t             DATABASE_TYPE           postgres
	-d             DATABASE_URL            built from DB_HOST, DB_PORT, DB_USER,
	                                       DB_PASSWORD, DB_NAME, DB_SSLMODE
	-db-timeout    DB_TIMEOUT              5s
	-jwt-secret    JWT_SECRET              (required)
	-token-ttl     TOKEN_TTL               24h
	-admin-user    ADMIN_DEFAULT_USERNAME  admin
	-admin-password ADMIN_DEFAULT_PASSWORD (generated at bootstrap)
	-admin-email   ADMIN_DEFAULT_EMAIL     admin@feetinfra.com
	-setup-token   ADMIN_SETUP_TOKEN       (admin creation disabled)
	-redis         REDIS_URL               (in-memory rate limits)
	-rate-limit    RATE_LIMIT_MAX          5
	-rate-window   RATE_LIMIT_WINDOW       15m
	-trust-proxy   TRUST_PROXY             false
	-cors-origin   CORS_ORIGIN             (reflect request origin)
	-log-level     LOG_LEVEL               info
	-log-format    LOG_FORMAT              text
	-metrics       METRICS_ENABLED         true

# Validation

ParseFlags returns an error for a missing JWT secret or database URL, an
unparseable number or duration, and an unknown database type or log format.
*/
package cliparse
