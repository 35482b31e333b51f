// Copyright (c) 2026 Doh. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements identity for the Doh platform: accounts, login,
and refresh-token sessions.

# Architecture

The entity types in this file are the source of truth for the identity
domain. They carry no dependencies on storage or HTTP concerns, which keeps
the login and registration rules directly testable.
*/
package auth

import (
	"time"

	"github.com/taibuivan/doh/internal/platform/sec"
)

// User represents a registered baker.
//
// # Rules
//   - Username is unique and URL-safe.
//   - Email is unique and validated.
//   - PasswordHash is generated via Bcrypt exclusively by the auth [Service].
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	DisplayName  string       `json:"display_name"`
	Role         sec.UserRole `json:"role"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Session represents an active refresh-token session.
//
// # Security Concept
//
// Access tokens (JWT) are stateless and cannot be revoked before they expire.
// Doh pairs short-lived JWTs with long-lived sessions tracked in the database:
// when the JWT expires, the client trades the session's refresh token for a
// new one. Revoking a session logs that device out for good.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"-"` // Hashed value of the refresh token. Omitted for security.
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	ExpiresAt time.Time `json:"expires_at"`
	IsRevoked bool      `json:"is_revoked"`
	CreatedAt time.Time `json:"created_at"`
}
