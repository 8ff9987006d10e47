// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store holds the SQL for leads and admin accounts.

Queries are written with ? placeholders and rebound for the connection's
driver, so the same code runs against PostgreSQL and SQLite. Every call runs
under its own timeout, detached from the request's cancellation so a client
disconnect cannot abort a write halfway.

Missing rows surface as ErrNotFound and duplicate usernames as
ErrDuplicateUsername; other driver errors are wrapped and returned.

List and stats queries run their page and count halves concurrently with
errgroup, which means a concurrent write can land between them.
*/
package store
