// Copyright (c) 2026 Kakeibo. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nhatvu/kakeibo/internal/platform/apperr"
	"github.com/nhatvu/kakeibo/internal/platform/sec"
)

// # Failure Taxonomy

// Authentication failures surfaced to the transport layer. Unknown-user and
// wrong-password deliberately share one error so responses cannot be used to
// enumerate accounts.
var (
	// ErrInvalidCredentials covers both an unknown username and a wrong password.
	ErrInvalidCredentials = apperr.Unauthorized("Invalid username or password")

	// ErrAccountDisabled is returned for administratively disabled accounts.
	ErrAccountDisabled = apperr.Forbidden("Account is disabled")

	// ErrAccountLocked is returned once the failed-login threshold is reached.
	ErrAccountLocked = apperr.Forbidden("Account is locked after too many failed login attempts")

	// ErrInvalidRefreshToken covers unknown and revoked refresh tokens.
	ErrInvalidRefreshToken = apperr.Unauthorized("Invalid refresh token")

	// ErrExpiredRefreshToken is returned for a known but expired refresh token.
	ErrExpiredRefreshToken = apperr.Unauthorized("Refresh token expired")
)

// # Contracts & Types

// TokenProvider defines the contract for minting signed access tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string embedding the user's
	// identity and role, valid for timeToLive.
	GenerateAccessToken(userID int64, username string, role sec.UserRole, timeToLive time.Duration) (string, error)
}

// SessionTTL holds the configured lifetime for each token class. It is built
// once from configuration at startup and injected; business logic never reads
// the environment.
type SessionTTL struct {
	// Access is the signed access token lifetime.
	Access time.Duration

	// RefreshStandard is the default refresh token lifetime.
	RefreshStandard time.Duration

	// RefreshExtended is the "remember me" refresh token lifetime.
	RefreshExtended time.Duration
}

// ForClass resolves the refresh token lifetime for a session class.
func (ttl SessionTTL) ForClass(class SessionClass) time.Duration {
	if class == ClassExtended {
		return ttl.RefreshExtended
	}
	return ttl.RefreshStandard
}

// Service implements the authentication and session lifecycle use cases.
//
// # Ownership
//
// This service is the only component permitted to mint tokens or flip
// revocation flags. The repositories own their rows; nothing else writes them.
type Service struct {
	userRepository    UserRepository
	sessionRepository SessionRepository
	tokenProvider     TokenProvider
	ttl               SessionTTL
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	userRepo UserRepository,
	sessionRepo SessionRepository,
	tokenProv TokenProvider,
	ttl SessionTTL,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository:    userRepo,
		sessionRepository: sessionRepo,
		tokenProvider:     tokenProv,
		ttl:               ttl,
		logger:            logger,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: New accounts always start with the standard user role, enabled
status, and a zero failed-login counter. The uniqueness pre-checks exist for
friendly error messages; the database unique constraints are the authority
when two registrations race.

Returns:
  - *User: Created entity
  - error: Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Verify username uniqueness. Return a client-safe Conflict err.
	_, err := service.userRepository.FindByUsername(context, input.Username)
	if err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err = service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		Username:         input.Username,
		Email:            input.Email,
		PasswordHash:     hashedPassword,
		Role:             sec.RoleUser,
		Status:           StatusEnabled,
		FailedLoginCount: 0,
	}

	// Persist the user to the database. A duplicate-key race surfaces as the
	// same Conflict the pre-checks produce.
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_registered", slog.Int64("user_id", user.ID))

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials and device metadata for an authentication attempt.
type LoginInput struct {
	Username   string
	Password   string
	RememberMe bool
	UserAgent  string
	IPAddress  string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	User                  *User
}

/*
Login validates user credentials and issues the dual-token session.

Description: The checks run in a strict order — existence, administrative
status, lockout, then password. Lockout is evaluated BEFORE the password so a
locked account rejects even correct credentials. A wrong password increments
the failed-login counter atomically; a match resets it and stamps the
last-login time before any token is minted.

Returns:
  - *LoginSession: Transport-ready session credentials
  - error: ErrInvalidCredentials, ErrAccountDisabled, ErrAccountLocked, or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {

	// 1. Existence. Absence yields the same error as a wrong password.
	user, err := service.userRepository.FindByUsername(context, input.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// 2. Administrative status blocks authentication outright.
	if user.Status == StatusDisabled {
		return nil, ErrAccountDisabled
	}

	// 3. Lockout precedes password comparison: a locked account must not
	// reveal whether the supplied password was correct.
	if user.IsLocked() {
		return nil, ErrAccountLocked
	}

	// 4. Constant-time password comparison (bcrypt).
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		newCount, incErr := service.userRepository.IncrementFailedLogins(context, user.ID)
		if incErr != nil {
			service.logger.Error("failed_login_counter_update_failed",
				slog.Int64("user_id", user.ID),
				slog.Any("error", incErr),
			)
		} else if newCount >= MaxFailedLogins {
			service.logger.Warn("account_locked",
				slog.Int64("user_id", user.ID),
				slog.Int("failed_attempts", newCount),
			)
		}
		return nil, ErrInvalidCredentials
	}

	// 5. Success: reset the counter and stamp last-login before issuing tokens.
	if err := service.userRepository.RecordLogin(context, user.ID); err != nil {
		return nil, fmt.Errorf("auth_service_record_login_failed: %w", err)
	}
	user.FailedLoginCount = 0
	now := time.Now()
	user.LastLoginAt = &now

	// Mint the short-lived access token carrying id, username, and role.
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, user.Role, service.ttl.Access)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	// Generate the long-lived opaque refresh token.
	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	// Create and persist the ledger row. Only the hash is stored.
	class := ClassForRememberMe(input.RememberMe)
	expiresAt := now.Add(service.ttl.ForClass(class))
	session := &Session{
		UserID:     user.ID,
		TokenHash:  sec.HashToken(refreshToken),
		RememberMe: input.RememberMe,
		UserAgent:  input.UserAgent,
		IPAddress:  input.IPAddress,
		ExpiresAt:  expiresAt,
		IsRevoked:  false,
	}

	if err := service.sessionRepository.Create(context, session); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	service.logger.Info("user_logged_in",
		slog.Int64("user_id", user.ID),
		slog.String("session_class", string(class)),
	)

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  now.Add(service.ttl.Access),
		RefreshTokenExpiresAt: expiresAt,
		User:                  user,
	}, nil
}

// # Session Management

// RefreshedSession carries the freshly minted access token after a refresh.
type RefreshedSession struct {
	AccessToken          string
	AccessTokenExpiresAt time.Time
	User                 *User
}

/*
Refresh exchanges a valid refresh token for a new access token.

Description: The presented raw token is hashed and resolved against the
ledger. Revoked or unknown tokens and expired tokens fail with distinct
errors so the transport can clear client-held session state. The refresh
token itself is NOT rotated: the ledger row stays untouched and remains
valid until its original expiry or explicit revocation.

Returns:
  - *RefreshedSession: New access token credentials
  - error: ErrInvalidRefreshToken, ErrExpiredRefreshToken, ErrAccountDisabled, or internal failures
*/
func (service *Service) Refresh(context context.Context, rawRefreshToken string) (*RefreshedSession, error) {

	session, err := service.sessionRepository.FindByTokenHash(context, sec.HashToken(rawRefreshToken))
	if err != nil || session.IsRevoked {
		return nil, ErrInvalidRefreshToken
	}

	if !session.ExpiresAt.After(time.Now()) {
		return nil, ErrExpiredRefreshToken
	}

	// Resolve the owning user; a vanished user invalidates the session.
	user, err := service.userRepository.FindByID(context, session.UserID)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	// A disabled account cannot mint new access tokens even with a live session.
	if user.Status == StatusDisabled {
		return nil, ErrAccountDisabled
	}

	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, user.Role, service.ttl.Access)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_access_token_failed: %w", err)
	}

	return &RefreshedSession{
		AccessToken:          accessToken,
		AccessTokenExpiresAt: time.Now().Add(service.ttl.Access),
		User:                 user,
	}, nil
}

/*
Logout revokes the session behind the presented refresh token.

Description: Idempotent by contract — an empty token, an unknown token, or an
already-revoked session all report success. Internal failures are swallowed
and logged so the response never leaks token validity.

Returns:
  - Nothing. Logout cannot fail from the caller's perspective.
*/
func (service *Service) Logout(context context.Context, rawRefreshToken string) {
	if rawRefreshToken == "" {
		return
	}

	session, err := service.sessionRepository.FindByTokenHash(context, sec.HashToken(rawRefreshToken))
	if err != nil {
		return
	}

	if err := service.sessionRepository.Revoke(context, session.ID); err != nil {
		service.logger.Error("logout_revocation_failed",
			slog.Int64("session_id", session.ID),
			slog.Any("error", err),
		)
		return
	}

	service.logger.Info("user_logged_out", slog.Int64("user_id", session.UserID))
}

/*
RevokeAllForUser invalidates every session belonging to a user.

Description: Used for session-wide security cleanup (password change, account
disable, account deletion).

Returns:
  - error: Batch revocation failures
*/
func (service *Service) RevokeAllForUser(context context.Context, userID int64) error {
	if err := service.sessionRepository.RevokeAll(context, userID); err != nil {
		return fmt.Errorf("auth_service_revoke_all_failed: %w", err)
	}
	return nil
}
