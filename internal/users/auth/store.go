// Copyright (c) 2026 Kakeibo. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package auth

import (
	"context"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// All lookups exclude soft-deleted rows; a deleted user is indistinguishable
// from an absent one at this layer.
type UserRepository interface {

	/*
		FindByID returns the non-deleted account with the given ID.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id int64) (*User, error)

	/*
		FindByUsername returns the non-deleted account with the given username.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByEmail returns the non-deleted account with the given email.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new user account and assigns its ID.

		Returns:
		  - error: apperr.Conflict on duplicate username/email, or persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		IncrementFailedLogins atomically bumps the failed-login counter by one
		and returns the new value. The increment happens inside a single UPDATE
		statement so concurrent failed attempts never under-count.

		Returns:
		  - int: The counter value after the increment
		  - error: Persistence failures
	*/
	IncrementFailedLogins(context context.Context, userID int64) (int, error)

	/*
		RecordLogin marks a successful authentication: it resets the
		failed-login counter to zero and stamps the last-login time.

		Returns:
		  - error: Persistence failures
	*/
	RecordLogin(context context.Context, userID int64) error
}

// # Session Data Access

// SessionRepository defines the data access contract for the refresh token ledger.
type SessionRepository interface {

	/*
		Create persists a new ledger row for an authenticated login.

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, session *Session) error

	/*
		FindByTokenHash returns the ledger row matching the given token hash.

		The row is returned regardless of revocation or expiry state; the
		caller decides which failure to surface. This is what lets refresh
		distinguish a revoked token from an expired one.

		Returns:
		  - *Session: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByTokenHash(context context.Context, tokenHash string) (*Session, error)

	/*
		Revoke marks a specific ledger row as permanently invalidated.

		Returns:
		  - error: Persistence failures
	*/
	Revoke(context context.Context, sessionID int64) error

	/*
		RevokeAll revokes every active session belonging to the user.

		Returns:
		  - error: Persistence failures
	*/
	RevokeAll(context context.Context, userID int64) error

	/*
		RevokeOthers revokes every active session of a user except one.

		Used when a password change should sign out all other devices while
		keeping the session that performed the change alive.

		Returns:
		  - error: Persistence failures
	*/
	RevokeOthers(context context.Context, userID, keepSessionID int64) error
}
