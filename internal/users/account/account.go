// Copyright (c) 2026 Kakeibo. All rights reserved.
// Author: nhat.vu.dev@gmail.com

/*
Package account handles user profile management, password changes, and
administrative user operations.

It provides functionalities for members to view and update their private
identity data and for administrators to enumerate, disable, and unlock
accounts.

# Architecture

  - Entities: SessionInfo (DTO); the User entity is owned by the auth package.
  - Security: Password changes trigger session cleanup on all other devices.
  - Administration: Status and lockout management gated behind the admin role.
*/
package account

import (
	"context"
	"time"

	"github.com/nhatvu/kakeibo/internal/users/auth"
	"github.com/nhatvu/kakeibo/pkg/pagination"
)

// # Domain Entities

// SessionInfo provides a safety-mapped view of an active user session.
// It omits the token hash for transport.
type SessionInfo struct {
	ID         int64     `json:"id"`
	UserAgent  string    `json:"user_agent"`
	IPAddress  string    `json:"ip_address"`
	RememberMe bool      `json:"remember_me"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	IsCurrent  bool      `json:"is_current"` // True if this session belongs to the current request
}

// # Repository Contracts

// AccountRepository defines the persistence contract for user accounts.
type AccountRepository interface {
	/*
		FindByID retrieves a non-deleted user record by their unique ID.

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id int64) (*auth.User, error)

	/*
		Update modifies the mutable fields of an existing user (email,
		password hash).

		Returns:
		  - error: Storage or constraint failures
	*/
	Update(context context.Context, user *auth.User) error

	/*
		SoftDelete flags an account as logically deleted.

		Returns:
		  - error: Execution failures
	*/
	SoftDelete(context context.Context, id int64) error

	/*
		List returns a page of non-deleted users ordered by creation time,
		with the total count for pagination metadata.

		Returns:
		  - []auth.User: Page of accounts
		  - int: Total matching accounts
		  - error: Retrieval failures
	*/
	List(context context.Context, params pagination.Params) ([]auth.User, int, error)

	/*
		SetStatus flips an account between enabled and disabled.

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	SetStatus(context context.Context, id int64, status auth.UserStatus) error

	/*
		ResetFailedLogins zeroes the failed-login counter, releasing a
		brute-force lockout.

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	ResetFailedLogins(context context.Context, id int64) error
}

// SessionRepository defines the visibility and revocation contract for user sessions.
type SessionRepository interface {
	/*
		FindActiveByUserID lists all valid, non-expired sessions for a user.

		Returns:
		  - []SessionInfo: List of active devices
		  - error: Retrieval errors
	*/
	FindActiveByUserID(context context.Context, userID int64) ([]SessionInfo, error)

	/*
		FindIDByTokenHash resolves a ledger row ID from a refresh token hash.

		Returns:
		  - int64: Session ID
		  - error: apperr.NotFound or retrieval failures
	*/
	FindIDByTokenHash(context context.Context, tokenHash string) (int64, error)

	/*
		RevokeOthers revokes all active sessions except for a target session.

		Returns:
		  - error: Revocation failures
	*/
	RevokeOthers(context context.Context, userID, keepSessionID int64) error

	/*
		RevokeAll terminates every session for a user.

		Returns:
		  - error: Revocation failures
	*/
	RevokeAll(context context.Context, userID int64) error
}
