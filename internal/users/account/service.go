// Copyright (c) 2026 Kakeibo. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nhatvu/kakeibo/internal/platform/apperr"
	"github.com/nhatvu/kakeibo/internal/platform/sec"
	"github.com/nhatvu/kakeibo/internal/users/auth"
	"github.com/nhatvu/kakeibo/pkg/pagination"
)

// # Service Layer

// Service orchestrates business logic for user accounts.
//
// It ensures that profile updates, password rotation, and administrative
// status changes follow established business constraints, and that any
// credential change triggers the required session cleanup.
type Service struct {
	accountRepository AccountRepository
	sessionRepository SessionRepository
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependencies.
func NewService(
	accountRepo AccountRepository,
	sessionRepo SessionRepository,
	logger *slog.Logger,
) *Service {
	return &Service{
		accountRepository: accountRepo,
		sessionRepository: sessionRepo,
		logger:            logger,
	}
}

// # Profile Management

/*
GetProfile retrieves the full private identity of a user.

Returns:
  - *auth.User: The hydrated user profile
  - error: apperr.NotFound (account deleted mid-session) or storage failures
*/
func (service *Service) GetProfile(context context.Context, userID int64) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfileInput defines the mutable subset of user profile fields.
type UpdateProfileInput struct {
	Email *string
}

/*
UpdateProfile applies a partial set of changes to a user's account metadata.

Description: Fetches the existing user state, overrides provided fields, and
synchronizes the change to persistent storage.

Returns:
  - *auth.User: The updated user profile
  - error: Conflict (duplicate email), NotFound, or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID int64, input UpdateProfileInput) (*auth.User, error) {

	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	// Apply delta updates
	if input.Email != nil {
		user.Email = *input.Email
	}

	// Persist changes
	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_profile_updated", slog.Int64("user_id", userID))

	return user, nil
}

/*
ChangePassword verifies and rotates the user's password.

Description: The current password must match before the new one is hashed
and stored. Every other active session is revoked afterwards; the session
behind currentRefreshToken (if resolvable) stays alive so the requesting
device is not signed out of its own password change.

Returns:
  - error: Unauthorized (current password mismatch), NotFound, or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID int64, currentPassword, newPassword, currentRefreshToken string) error {

	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("account_service_hash_failed: %w", err)
	}

	user.PasswordHash = hashedPassword
	if err := service.accountRepository.Update(context, user); err != nil {
		return err
	}

	// Sign out every other device. The requesting session survives when its
	// refresh token can be resolved; otherwise all sessions go.
	keepSessionID, err := service.sessionRepository.FindIDByTokenHash(context, sec.HashToken(currentRefreshToken))
	if currentRefreshToken == "" || err != nil {
		_ = service.sessionRepository.RevokeAll(context, userID)
	} else {
		_ = service.sessionRepository.RevokeOthers(context, userID, keepSessionID)
	}

	service.logger.Info("user_password_changed", slog.Int64("user_id", userID))

	return nil
}

/*
DeleteAccount performs an idempotent soft-deletion of a user account.

Description: Flags the account as deleted and immediately terminates all
active security sessions to force a global sign-out.

Returns:
  - error: Execution failures
*/
func (service *Service) DeleteAccount(context context.Context, userID int64) error {

	if err := service.accountRepository.SoftDelete(context, userID); err != nil {
		return err
	}

	// Force global revocation of sessions for the deleted account
	_ = service.sessionRepository.RevokeAll(context, userID)

	service.logger.Warn("user_account_deleted", slog.Int64("user_id", userID))

	return nil
}

// # Session Security

/*
ListSessions provides a list of all active device sessions for the user.

Description: The session matching currentTokenHash (if any) is flagged
IsCurrent so clients can mark the requesting device.

Returns:
  - []SessionInfo: List of active devices
  - error: Retrieval failures
*/
func (service *Service) ListSessions(context context.Context, userID int64, currentTokenHash string) ([]SessionInfo, error) {

	sessions, err := service.sessionRepository.FindActiveByUserID(context, userID)
	if err != nil {
		return nil, err
	}

	if currentTokenHash != "" {
		if currentID, err := service.sessionRepository.FindIDByTokenHash(context, currentTokenHash); err == nil {
			for index := range sessions {
				if sessions[index].ID == currentID {
					sessions[index].IsCurrent = true
				}
			}
		}
	}

	return sessions, nil
}

// # Administration

/*
ListUsers returns a paginated administrative view of all accounts.

Returns:
  - []auth.User: Page of accounts
  - int: Total accounts for pagination metadata
  - error: Retrieval failures
*/
func (service *Service) ListUsers(context context.Context, params pagination.Params) ([]auth.User, int, error) {
	users, total, err := service.accountRepository.List(context, params)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

/*
SetUserStatus enables or disables a target account.

Description: Disabling an account also revokes all of its sessions so the
ban takes effect immediately rather than at access token expiry.

Returns:
  - error: NotFound or storage failures
*/
func (service *Service) SetUserStatus(context context.Context, userID int64, status auth.UserStatus) error {

	if err := service.accountRepository.SetStatus(context, userID, status); err != nil {
		return err
	}

	if status == auth.StatusDisabled {
		_ = service.sessionRepository.RevokeAll(context, userID)
	}

	service.logger.Warn("user_status_changed",
		slog.Int64("user_id", userID),
		slog.String("status", string(status)),
	)

	return nil
}

/*
UnlockUser releases a brute-force lockout by zeroing the failed-login counter.

Description: This is the only path out of a lockout; the counter never decays
on its own.

Returns:
  - error: NotFound or storage failures
*/
func (service *Service) UnlockUser(context context.Context, userID int64) error {

	if err := service.accountRepository.ResetFailedLogins(context, userID); err != nil {
		return err
	}

	service.logger.Info("user_lockout_reset", slog.Int64("user_id", userID))

	return nil
}
