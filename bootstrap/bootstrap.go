// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package bootstrap creates the default admin account on startup.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// AdminStore is the part of the store bootstrap needs.
type AdminStore interface {
	AdminExists(ctx context.Context, username string) (bool, error)
	EnsureAdmin(ctx context.Context, username, passwordHash string, email *string) (bool, error)
}

// DefaultAdmin describes the account to create. An empty Password means one is
// generated and logged once.
type DefaultAdmin struct {
	Username string
	Password string
	Email    string
}

// Hasher turns a password into its stored form.
type Hasher func(password string) (string, error)

// Generator returns a fresh random password.
type Generator func() (string, error)

// Bootstrapper ensures the default admin exists. A generated password is
// printed once to Out (stderr when nil) and never passed to the logger.
type Bootstrapper struct {
	Store    AdminStore
	Hash     Hasher
	Generate Generator
	Out      io.Writer
}

// EnsureDefaultAdmin creates the default admin unless an account with that
// username already exists, and reports whether it created one. Running it
// any number of times, concurrently or not, leaves exactly one such account.
func (b Bootstrapper) EnsureDefaultAdmin(ctx context.Context, def DefaultAdmin) (bool, error) {
	if def.Username == "" {
		return false, errors.New("default admin username is empty")
	}

	// Skip hashing when there is nothing to do
	exists, err := b.Store.AdminExists(ctx, def.Username)
	if err != nil {
		return false, err
	}
	if exists {
		slog.Debug("default admin already exists", "username", def.Username)
		return false, nil
	}

	password := def.Password
	generated := false
	if password == "" {
		password, err = b.Generate()
		if err != nil {
			return false, fmt.Errorf("failed to generate admin password: %w", err)
		}
		generated = true
	}

	hash, err := b.Hash(password)
	if err != nil {
		return false, fmt.Errorf("failed to hash admin password: %w", err)
	}

	var email *string
	if def.Email != "" {
		email = &def.Email
	}

	created, err := b.Store.EnsureAdmin(ctx, def.Username, hash, email)
	if err != nil {
		return false, err
	}
	if !created {
		// Lost a race with another instance
		return false, nil
	}

	if generated {
		out := b.Out
		if out == nil {
			out = os.Stderr
		}
		fmt.Fprintf(out, "Default admin %q created with generated password: %s\n", def.Username, password)
		slog.Warn("created default admin with a generated password, change it after first login",
			"username", def.Username,
		)
	} else {
		slog.Info("created default admin", "username", def.Username)
	}
	return true, nil
}
