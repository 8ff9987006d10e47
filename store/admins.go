// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/feetinfra/feetinfra-api/models"
)

const adminColumns = `id, username, password_hash, email, role, created_at`

// GetAdminByUsername looks up an admin by exact username.
func (s *Store) GetAdminByUsername(ctx context.Context, username string) (models.AdminUser, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var admin models.AdminUser
	err := s.db.GetContext(ctx, &admin, s.rebind(`SELECT `+adminColumns+` FROM admin_users WHERE username = ?`), username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.AdminUser{}, ErrNotFound
	}
	if err != nil {
		return models.AdminUser{}, fmt.Errorf("failed to query admin: %w", err)
	}
	return admin, nil
}

// CreateAdmin inserts an admin with role admin. passwordHash must already be
// hashed. A taken username returns ErrDuplicateUsername.
func (s *Store) CreateAdmin(ctx context.Context, username, passwordHash string, email *string) (models.AdminUser, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	admin := models.AdminUser{
		Username:     username,
		PasswordHash: passwordHash,
		Email:        email,
		Role:         models.RoleAdmin,
		CreatedAt:    s.now(),
	}

	err := s.db.QueryRowxContext(ctx, s.rebind(`
		INSERT INTO admin_users (username, password_hash, email, role, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`), admin.Username, admin.PasswordHash, admin.Email, admin.Role, admin.CreatedAt).Scan(&admin.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.AdminUser{}, ErrDuplicateUsername
		}
		return models.AdminUser{}, fmt.Errorf("failed to insert admin: %w", err)
	}

	return admin, nil
}

// EnsureAdmin inserts the admin unless the username already exists. It
// reports whether a row was created. Concurrent callers create at most one row.
func (s *Store) EnsureAdmin(ctx context.Context, username, passwordHash string, email *string) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO admin_users (username, password_hash, email, role, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (username) DO NOTHING
	`), username, passwordHash, email, models.RoleAdmin, s.now())
	if err != nil {
		return false, fmt.Errorf("failed to ensure admin: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to ensure admin: %w", err)
	}
	return n > 0, nil
}

// AdminExists reports whether an admin with username exists.
func (s *Store) AdminExists(ctx context.Context, username string) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var n int
	err := s.db.GetContext(ctx, &n, s.rebind(`SELECT COUNT(*) FROM admin_users WHERE username = ?`), username)
	if err != nil {
		return false, fmt.Errorf("failed to check admin: %w", err)
	}
	return n > 0, nil
}

// UpdateAdminPasswordHash replaces the stored credential of an admin.
func (s *Store) UpdateAdminPasswordHash(ctx context.Context, id int64, passwordHash string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, s.rebind(`UPDATE admin_users SET password_hash = ? WHERE id = ?`), passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update admin password: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update admin password: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
