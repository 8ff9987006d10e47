// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing and admin session tokens.

# Passwords

Admin passwords are stored as bcrypt hashes with cost 10:

	hash, err := auth.HashPassword(password)
	ok, legacy := auth.CheckPassword(admin.PasswordHash, supplied)

Rows written before hashing was introduced hold the raw password. CheckPassword
still accepts them, comparing in constant time, and reports legacy=true so the
login handler can replace the row with a bcrypt hash. New accounts are never
stored unhashed.

CompareDummy spends one bcrypt comparison for logins with an unknown username.

# Session Tokens

Tokens are HS256 JWTs carrying the admin id, username and role:

	tokens := auth.NewTokenManager(secret, 24*time.Hour)
	token, expiresAt, err := tokens.Issue(admin.ID, admin.Username, admin.Role)
	claims, err := tokens.Verify(token)

Verify distinguishes a missing credential (ErrTokenMissing) from a rejected one
(ErrTokenInvalid: bad signature, wrong algorithm, malformed, expired). There is
no revocation list; a token is valid until it expires.

BearerToken pulls the credential out of an Authorization header.

# Generated Secrets

URL-safe secrets, used for generated admin passwords:

	secret, err := auth.GenerateSecret() // 24 characters
*/
package auth
