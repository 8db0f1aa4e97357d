// Copyright (c) 2026 Kakeibo. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package account_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhatvu/kakeibo/internal/platform/apperr"
	"github.com/nhatvu/kakeibo/internal/platform/sec"
	"github.com/nhatvu/kakeibo/internal/users/account"
	"github.com/nhatvu/kakeibo/internal/users/auth"
	"github.com/nhatvu/kakeibo/pkg/pagination"
	"github.com/nhatvu/kakeibo/pkg/pointer"
)

// # In-Memory Fakes

// fakeAccountRepository implements [account.AccountRepository] over a map.
type fakeAccountRepository struct {
	users  map[int64]*auth.User
	nextID int64
}

func newFakeAccountRepository() *fakeAccountRepository {
	return &fakeAccountRepository{users: map[int64]*auth.User{}, nextID: 1}
}

func (repo *fakeAccountRepository) add(user *auth.User) *auth.User {
	user.ID = repo.nextID
	repo.nextID++
	repo.users[user.ID] = user
	return user
}

func (repo *fakeAccountRepository) FindByID(_ context.Context, id int64) (*auth.User, error) {
	user, ok := repo.users[id]
	if !ok || user.DeletedAt != nil {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

func (repo *fakeAccountRepository) Update(_ context.Context, user *auth.User) error {
	if _, ok := repo.users[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	repo.users[user.ID] = user
	return nil
}

func (repo *fakeAccountRepository) SoftDelete(_ context.Context, id int64) error {
	user, ok := repo.users[id]
	if !ok {
		return apperr.NotFound("User")
	}
	now := time.Now()
	user.DeletedAt = &now
	return nil
}

func (repo *fakeAccountRepository) List(_ context.Context, params pagination.Params) ([]auth.User, int, error) {
	var all []auth.User
	for _, user := range repo.users {
		if user.DeletedAt == nil {
			all = append(all, *user)
		}
	}

	total := len(all)
	offset := params.Offset()
	if offset >= total {
		return []auth.User{}, total, nil
	}

	end := offset + params.Limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (repo *fakeAccountRepository) SetStatus(_ context.Context, id int64, status auth.UserStatus) error {
	user, ok := repo.users[id]
	if !ok {
		return apperr.NotFound("User")
	}
	user.Status = status
	return nil
}

func (repo *fakeAccountRepository) ResetFailedLogins(_ context.Context, id int64) error {
	user, ok := repo.users[id]
	if !ok {
		return apperr.NotFound("User")
	}
	user.FailedLoginCount = 0
	return nil
}

// sessionRow pairs the transport view with the hash used for lookups.
type sessionRow struct {
	info      account.SessionInfo
	userID    int64
	tokenHash string
	revoked   bool
}

// fakeSessionRepository implements [account.SessionRepository] over a slice.
type fakeSessionRepository struct {
	rows   []*sessionRow
	nextID int64
}

func newFakeSessionRepository() *fakeSessionRepository {
	return &fakeSessionRepository{nextID: 1}
}

func (repo *fakeSessionRepository) add(userID int64, tokenHash string) *sessionRow {
	row := &sessionRow{
		info: account.SessionInfo{
			ID:        repo.nextID,
			ExpiresAt: time.Now().Add(time.Hour),
		},
		userID:    userID,
		tokenHash: tokenHash,
	}
	repo.nextID++
	repo.rows = append(repo.rows, row)
	return row
}

func (repo *fakeSessionRepository) FindActiveByUserID(_ context.Context, userID int64) ([]account.SessionInfo, error) {
	var sessions []account.SessionInfo
	for _, row := range repo.rows {
		if row.userID == userID && !row.revoked {
			sessions = append(sessions, row.info)
		}
	}
	return sessions, nil
}

func (repo *fakeSessionRepository) FindIDByTokenHash(_ context.Context, tokenHash string) (int64, error) {
	for _, row := range repo.rows {
		if row.tokenHash == tokenHash {
			return row.info.ID, nil
		}
	}
	return 0, apperr.NotFound("Session")
}

func (repo *fakeSessionRepository) RevokeOthers(_ context.Context, userID, keepSessionID int64) error {
	for _, row := range repo.rows {
		if row.userID == userID && row.info.ID != keepSessionID {
			row.revoked = true
		}
	}
	return nil
}

func (repo *fakeSessionRepository) RevokeAll(_ context.Context, userID int64) error {
	for _, row := range repo.rows {
		if row.userID == userID {
			row.revoked = true
		}
	}
	return nil
}

// # Test Harness

type accountFixture struct {
	service  *account.Service
	accounts *fakeAccountRepository
	sessions *fakeSessionRepository
}

func newAccountFixture(t *testing.T) *accountFixture {
	t.Helper()

	fixture := &accountFixture{
		accounts: newFakeAccountRepository(),
		sessions: newFakeSessionRepository(),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fixture.service = account.NewService(fixture.accounts, fixture.sessions, logger)
	return fixture
}

func (fixture *accountFixture) seedUser(t *testing.T, password string) *auth.User {
	t.Helper()

	hash, err := sec.HashPassword(password)
	require.NoError(t, err)

	return fixture.accounts.add(&auth.User{
		Username:     "hana",
		Email:        "hana@example.com",
		PasswordHash: hash,
		Role:         sec.RoleUser,
		Status:       auth.StatusEnabled,
	})
}

// # Profile

/*
TestService_UpdateProfile verifies partial profile updates.
*/
func TestService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	fixture := newAccountFixture(t)
	user := fixture.seedUser(t, "secret-pass")

	updated, err := fixture.service.UpdateProfile(ctx, user.ID, account.UpdateProfileInput{Email: pointer.To("new@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)

	// Nil fields leave the current value alone.
	unchanged, err := fixture.service.UpdateProfile(ctx, user.ID, account.UpdateProfileInput{})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", unchanged.Email)
}

// # Password Rotation

/*
TestService_ChangePassword covers verification of the current password and
the session cleanup that follows a rotation.
*/
func TestService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("wrong_current_password", func(t *testing.T) {
		fixture := newAccountFixture(t)
		user := fixture.seedUser(t, "secret-pass")

		err := fixture.service.ChangePassword(ctx, user.ID, "not-it", "new-pass-123", "")
		require.Error(t, err)
		assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

		// The credential is untouched.
		assert.True(t, sec.CheckPasswordHash("secret-pass", user.PasswordHash))
	})

	t.Run("keeps_requesting_session", func(t *testing.T) {
		fixture := newAccountFixture(t)
		user := fixture.seedUser(t, "secret-pass")

		current := fixture.sessions.add(user.ID, sec.HashToken("current-token"))
		other := fixture.sessions.add(user.ID, sec.HashToken("other-token"))

		err := fixture.service.ChangePassword(ctx, user.ID, "secret-pass", "new-pass-123", "current-token")
		require.NoError(t, err)

		// 1. The new password is live.
		assert.True(t, sec.CheckPasswordHash("new-pass-123", user.PasswordHash))

		// 2. Every device except the requester is signed out.
		assert.False(t, current.revoked)
		assert.True(t, other.revoked)
	})

	t.Run("unresolvable_session_revokes_all", func(t *testing.T) {
		fixture := newAccountFixture(t)
		user := fixture.seedUser(t, "secret-pass")

		first := fixture.sessions.add(user.ID, sec.HashToken("first-token"))
		second := fixture.sessions.add(user.ID, sec.HashToken("second-token"))

		err := fixture.service.ChangePassword(ctx, user.ID, "secret-pass", "new-pass-123", "unknown-token")
		require.NoError(t, err)

		assert.True(t, first.revoked)
		assert.True(t, second.revoked)
	})
}

// # Account Deletion

/*
TestService_DeleteAccount verifies the soft delete and the global sign-out.
*/
func TestService_DeleteAccount(t *testing.T) {
	ctx := context.Background()
	fixture := newAccountFixture(t)
	user := fixture.seedUser(t, "secret-pass")
	session := fixture.sessions.add(user.ID, sec.HashToken("token"))

	require.NoError(t, fixture.service.DeleteAccount(ctx, user.ID))

	// 1. The account is flagged, not erased.
	assert.NotNil(t, user.DeletedAt)

	// 2. Every session is revoked.
	assert.True(t, session.revoked)

	// 3. The profile is now invisible.
	_, err := fixture.service.GetProfile(ctx, user.ID)
	assert.True(t, apperr.IsNotFound(err))
}

// # Session Visibility

/*
TestService_ListSessions verifies the current-device flag.
*/
func TestService_ListSessions(t *testing.T) {
	ctx := context.Background()
	fixture := newAccountFixture(t)
	user := fixture.seedUser(t, "secret-pass")

	current := fixture.sessions.add(user.ID, sec.HashToken("current-token"))
	fixture.sessions.add(user.ID, sec.HashToken("other-token"))

	sessions, err := fixture.service.ListSessions(ctx, user.ID, sec.HashToken("current-token"))
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	for _, session := range sessions {
		assert.Equal(t, session.ID == current.info.ID, session.IsCurrent)
	}
}

// # Administration

/*
TestService_SetUserStatus verifies that disabling an account revokes its
sessions while enabling does not.
*/
func TestService_SetUserStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("disable_revokes_sessions", func(t *testing.T) {
		fixture := newAccountFixture(t)
		user := fixture.seedUser(t, "secret-pass")
		session := fixture.sessions.add(user.ID, sec.HashToken("token"))

		require.NoError(t, fixture.service.SetUserStatus(ctx, user.ID, auth.StatusDisabled))

		assert.Equal(t, auth.StatusDisabled, user.Status)
		assert.True(t, session.revoked)
	})

	t.Run("enable_keeps_sessions", func(t *testing.T) {
		fixture := newAccountFixture(t)
		user := fixture.seedUser(t, "secret-pass")
		user.Status = auth.StatusDisabled
		session := fixture.sessions.add(user.ID, sec.HashToken("token"))

		require.NoError(t, fixture.service.SetUserStatus(ctx, user.ID, auth.StatusEnabled))

		assert.Equal(t, auth.StatusEnabled, user.Status)
		assert.False(t, session.revoked)
	})

	t.Run("unknown_user", func(t *testing.T) {
		fixture := newAccountFixture(t)
		err := fixture.service.SetUserStatus(ctx, 999, auth.StatusDisabled)
		assert.True(t, apperr.IsNotFound(err))
	})
}

/*
TestService_UnlockUser verifies the administrative lockout release.
*/
func TestService_UnlockUser(t *testing.T) {
	ctx := context.Background()
	fixture := newAccountFixture(t)
	user := fixture.seedUser(t, "secret-pass")
	user.FailedLoginCount = auth.MaxFailedLogins
	require.True(t, user.IsLocked())

	require.NoError(t, fixture.service.UnlockUser(ctx, user.ID))

	assert.Zero(t, user.FailedLoginCount)
	assert.False(t, user.IsLocked())
}

/*
TestService_ListUsers verifies the paginated administrative listing.
*/
func TestService_ListUsers(t *testing.T) {
	ctx := context.Background()
	fixture := newAccountFixture(t)
	for i := 0; i < 3; i++ {
		fixture.seedUser(t, "secret-pass")
	}

	users, total, err := fixture.service.ListUsers(ctx, pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)

	assert.Equal(t, 3, total)
	assert.Len(t, users, 2)
}
