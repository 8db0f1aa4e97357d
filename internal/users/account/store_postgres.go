// Copyright (c) 2026 Kakeibo. All rights reserved.
// Author: nhat.vu.dev@gmail.com

// PostgreSQL implementations of the account repositories.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows or SQLSTATE 23505) are mapped to
// domain-friendly [apperr.AppError] types to avoid leaking storage
// implementation details.

package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nhatvu/kakeibo/internal/platform/apperr"
	"github.com/nhatvu/kakeibo/internal/platform/dberr"
	"github.com/nhatvu/kakeibo/internal/users/auth"
	"github.com/nhatvu/kakeibo/pkg/pagination"
)

// # Account Repository

// PostgresAccountRepository implements the AccountRepository interface using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL implementation of the AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

const accountColumns = `id, username, email, passwordhash, role, status, failedlogincount, lastloginat, createdat, updatedat`

/*
FindByID retrieves a non-deleted user by primary key.

Returns:
  - *auth.User: Hydrated entity
  - error: apperr.NotFound or retrieval failures
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id int64) (*auth.User, error) {
	query := `SELECT ` + accountColumns + ` FROM users.account WHERE id = $1 AND deletedat IS NULL`

	user := &auth.User{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Status,
		&user.FailedLoginCount,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_failed: %w", err)
	}

	return user, nil
}

/*
Update persists the mutable account fields (email, password hash).

Returns:
  - error: apperr.Conflict (duplicate email) or storage failures
*/
func (repository *PostgresAccountRepository) Update(context context.Context, user *auth.User) error {
	const query = `
		UPDATE users.account
		SET email = $2, passwordhash = $3, updatedat = $4
		WHERE id = $1 AND deletedat IS NULL`

	user.UpdatedAt = time.Now()
	tag, err := repository.pool.Exec(context, query, user.ID, user.Email, user.PasswordHash, user.UpdatedAt)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Email is already registered")
		}
		return fmt.Errorf("postgres_account_repo_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

/*
SoftDelete flags an account as logically deleted.

Returns:
  - error: apperr.NotFound or execution failures
*/
func (repository *PostgresAccountRepository) SoftDelete(context context.Context, id int64) error {
	const query = `
		UPDATE users.account
		SET deletedat = $2, updatedat = $2
		WHERE id = $1 AND deletedat IS NULL`

	tag, err := repository.pool.Exec(context, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_account_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

/*
List returns one page of non-deleted accounts plus the total count.

Description: Newest accounts first. The count query runs separately; the
listing is administrative so a minor race between the two is acceptable.

Returns:
  - []auth.User: Page of accounts
  - int: Total matching accounts
  - error: Retrieval failures
*/
func (repository *PostgresAccountRepository) List(context context.Context, params pagination.Params) ([]auth.User, int, error) {
	var total int
	if err := repository.pool.QueryRow(context,
		`SELECT COUNT(*) FROM users.account WHERE deletedat IS NULL`,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_count_failed: %w", err)
	}

	query := `SELECT ` + accountColumns + `
		FROM users.account
		WHERE deletedat IS NULL
		ORDER BY createdat DESC, id DESC
		LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(context, query, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_list_failed: %w", err)
	}
	defer rows.Close()

	users := make([]auth.User, 0, params.Limit)
	for rows.Next() {
		var user auth.User
		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.PasswordHash,
			&user.Role,
			&user.Status,
			&user.FailedLoginCount,
			&user.LastLoginAt,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_account_repo_scan_failed: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_rows_failed: %w", err)
	}

	return users, total, nil
}

/*
SetStatus enables or disables an account.

Returns:
  - error: apperr.NotFound or storage failures
*/
func (repository *PostgresAccountRepository) SetStatus(context context.Context, id int64, status auth.UserStatus) error {
	const query = `
		UPDATE users.account
		SET status = $2, updatedat = $3
		WHERE id = $1 AND deletedat IS NULL`

	tag, err := repository.pool.Exec(context, query, id, status, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_account_repo_set_status_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

/*
ResetFailedLogins zeroes the failed-login counter for a locked account.

Returns:
  - error: apperr.NotFound or storage failures
*/
func (repository *PostgresAccountRepository) ResetFailedLogins(context context.Context, id int64) error {
	const query = `
		UPDATE users.account
		SET failedlogincount = 0, updatedat = $2
		WHERE id = $1 AND deletedat IS NULL`

	tag, err := repository.pool.Exec(context, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_account_repo_reset_lockout_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

// # Session Repository

// PostgresSessionRepository implements the account-facing SessionRepository.
type PostgresSessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new PostgreSQL session repository for
// account-level session visibility and cleanup.
func NewSessionRepository(pool *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

/*
FindActiveByUserID lists all current (non-revoked, non-expired) sessions.

Returns:
  - []SessionInfo: Active device sessions, newest first
  - error: Retrieval failures
*/
func (repository *PostgresSessionRepository) FindActiveByUserID(context context.Context, userID int64) ([]SessionInfo, error) {
	const query = `
		SELECT id, useragent, ipaddress, rememberme, createdat, expiresat
		FROM users.session
		WHERE userid = $1 AND isrevoked = FALSE AND expiresat > NOW()
		ORDER BY createdat DESC`

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_session_repo_list_failed: %w", err)
	}
	defer rows.Close()

	sessions := []SessionInfo{}
	for rows.Next() {
		var info SessionInfo
		err := rows.Scan(
			&info.ID,
			&info.UserAgent,
			&info.IPAddress,
			&info.RememberMe,
			&info.CreatedAt,
			&info.ExpiresAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_session_repo_scan_failed: %w", err)
		}
		sessions = append(sessions, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_session_repo_rows_failed: %w", err)
	}

	return sessions, nil
}

/*
FindIDByTokenHash resolves a session's primary key from its token hash.

Returns:
  - int64: Session ID
  - error: apperr.NotFound or retrieval failures
*/
func (repository *PostgresSessionRepository) FindIDByTokenHash(context context.Context, tokenHash string) (int64, error) {
	const query = `SELECT id FROM users.session WHERE tokenhash = $1`

	var id int64
	if err := repository.pool.QueryRow(context, query, tokenHash).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperr.NotFound("Session")
		}
		return 0, fmt.Errorf("postgres_session_repo_find_id_failed: %w", err)
	}
	return id, nil
}

/*
RevokeOthers revokes every active session of a user except one.

Returns:
  - error: Batch revocation failures
*/
func (repository *PostgresSessionRepository) RevokeOthers(context context.Context, userID, keepSessionID int64) error {
	const query = "UPDATE users.session SET isrevoked = TRUE WHERE userid = $1 AND id <> $2 AND isrevoked = FALSE"
	if _, err := repository.pool.Exec(context, query, userID, keepSessionID); err != nil {
		return fmt.Errorf("postgres_session_repo_revoke_others_failed: %w", err)
	}
	return nil
}

/*
RevokeAll revokes every active session belonging to the user.

Returns:
  - error: Batch revocation failures
*/
func (repository *PostgresSessionRepository) RevokeAll(context context.Context, userID int64) error {
	const query = "UPDATE users.session SET isrevoked = TRUE WHERE userid = $1 AND isrevoked = FALSE"
	if _, err := repository.pool.Exec(context, query, userID); err != nil {
		return fmt.Errorf("postgres_session_repo_revoke_all_failed: %w", err)
	}
	return nil
}
