// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Backends

PostgreSQL (lib/pq) is the production backend. SQLite (modernc.org/sqlite) is
used for local development and tests:

	conn, err := db.Open(db.TypePostgres, "postgres://...")
	conn, err := db.Open(db.TypeSQLite, "file:feetinfra.db?_time_format=sqlite")

SQLite connections are limited to one open connection.

# Schema Creation

CreateSchema creates the tables with IF NOT EXISTS, so it is safe to call on
every startup. The dialect is chosen from the connection's driver name.

Tables:

  - contact_requests: leads submitted through the contact form
  - admin_users: admin credentials (unique username, bcrypt password hash)

# Status Constraint

contact_requests.status carries a CHECK constraint limiting it to
new, in_progress, contacted, completed and cancelled.
*/
package db
