// Copyright (c) 2026 Kakeibo. All rights reserved.
// Author: nhat.vu.dev@gmail.com

/*
Package auth implements the user identity and session lifecycle layer.

It defines the core domain entities (User, Session) and the logic for
password-based authentication, brute-force lockout, dual-token session
issuance, and revocation.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no
transport dependencies and encapsulate all business rules related to user
identity.
*/
package auth

import (
	"time"

	"github.com/nhatvu/kakeibo/internal/platform/sec"
)

// # Account Status

// UserStatus represents the administrative state of an account.
type UserStatus string

const (
	// StatusEnabled allows the account to authenticate.
	StatusEnabled UserStatus = "enabled"

	// StatusDisabled blocks authentication regardless of lockout state.
	StatusDisabled UserStatus = "disabled"
)

// # Domain Entities

// User represents a registered member of the Kakeibo platform.
type User struct {
	ID           int64        `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	Role         sec.UserRole `json:"role"`
	Status       UserStatus   `json:"status"`

	// FailedLoginCount tracks consecutive failed attempts since the last
	// successful login. Any success resets it to zero.
	FailedLoginCount int `json:"-"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"-"`
}

// IsLocked reports whether the account has reached the lockout threshold.
func (u *User) IsLocked() bool {
	return u.FailedLoginCount >= MaxFailedLogins
}

// Session represents one row of the refresh token ledger.
//
// The raw refresh token exists only transiently between generation and
// delivery to the client; only its hash is persisted here. A row is usable
// iff it is not revoked and not past its expiry, both checked lazily at
// lookup time — no background reaper exists.
type Session struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	TokenHash  string    `json:"-"` // SHA-256 digest of the refresh token. Omitted for security.
	RememberMe bool      `json:"remember_me"`
	UserAgent  string    `json:"user_agent"`
	IPAddress  string    `json:"ip_address"`
	ExpiresAt  time.Time `json:"expires_at"`
	IsRevoked  bool      `json:"is_revoked"`
	CreatedAt  time.Time `json:"created_at"`
}

// # Session Classes

// SessionClass selects the refresh token lifetime at login time.
//
// Modeling "remember me" as an enumerated class keeps the TTL selection in
// one place instead of boolean conditionals scattered across call sites.
type SessionClass string

const (
	// ClassStandard is the default session lifetime.
	ClassStandard SessionClass = "standard"

	// ClassExtended is the long-lived "remember me" session lifetime.
	ClassExtended SessionClass = "extended"
)

// ClassForRememberMe maps the login form's remember-me flag to a session class.
func ClassForRememberMe(rememberMe bool) SessionClass {
	if rememberMe {
		return ClassExtended
	}
	return ClassStandard
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldRememberMe      = "remember_me"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldStatus          = "status"
	FieldUser            = "user"
	FieldMessage         = "message"
	FieldExpiresIn       = "expires_in"
)
