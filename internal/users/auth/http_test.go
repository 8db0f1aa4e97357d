// Copyright (c) 2026 Kakeibo. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package auth_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhatvu/kakeibo/internal/platform/constants"
	"github.com/nhatvu/kakeibo/internal/users/auth"
)

// # Test Harness

// newHandlerFixture wires a real [auth.Service] over the in-memory fakes
// behind a routed [auth.Handler].
func newHandlerFixture(t *testing.T) (*serviceFixture, http.Handler) {
	t.Helper()

	fixture := &serviceFixture{
		users:    newFakeUserRepository(),
		sessions: newFakeSessionRepository(),
		tokens:   &fakeTokenProvider{},
		ttl: auth.SessionTTL{
			Access:          15 * time.Minute,
			RefreshStandard: 24 * time.Hour,
			RefreshExtended: 30 * 24 * time.Hour,
		},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fixture.service = auth.NewService(fixture.users, fixture.sessions, fixture.tokens, fixture.ttl, logger)

	router := chi.NewRouter()
	auth.NewHandler(fixture.service, false).RegisterRoutes(router)
	return fixture, router
}

// postJSON performs a JSON POST against the routed handler.
func postJSON(handler http.Handler, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

// cookieByName extracts a named Set-Cookie from the recorded response.
func cookieByName(t *testing.T, recorder *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()

	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

// # Registration Endpoint

/*
TestHandler_Register verifies input validation and the created response.
*/
func TestHandler_Register(t *testing.T) {

	t.Run("created", func(t *testing.T) {
		_, router := newHandlerFixture(t)

		recorder := postJSON(router, "/register",
			`{"username":"hana","email":"hana@example.com","password":"secret-pass"}`)

		assert.Equal(t, http.StatusCreated, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"username":"hana"`)

		// The password hash never leaves the server.
		assert.NotContains(t, recorder.Body.String(), "password")
	})

	t.Run("validation_failure", func(t *testing.T) {
		tests := []struct {
			name string
			body string
		}{
			{"malformed_json", `{"username":`},
			{"missing_password", `{"username":"hana","email":"hana@example.com"}`},
			{"short_password", `{"username":"hana","email":"hana@example.com","password":"abc"}`},
			{"bad_email", `{"username":"hana","email":"not-an-email","password":"secret-pass"}`},
			{"bad_username", `{"username":"ha na!","email":"hana@example.com","password":"secret-pass"}`},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, router := newHandlerFixture(t)

				recorder := postJSON(router, "/register", tt.body)
				assert.Equal(t, http.StatusBadRequest, recorder.Code)
			})
		}
	})

	t.Run("conflict", func(t *testing.T) {
		fixture, router := newHandlerFixture(t)
		fixture.seedUser(t, "hana", "secret-pass", auth.StatusEnabled, 0)

		recorder := postJSON(router, "/register",
			`{"username":"hana","email":"new@example.com","password":"secret-pass"}`)

		assert.Equal(t, http.StatusConflict, recorder.Code)
	})
}

// # Login Endpoint

/*
TestHandler_Login verifies the dual-cookie issuance on success and the
transport mapping of authentication failures.
*/
func TestHandler_Login(t *testing.T) {

	t.Run("sets_session_cookie_pair", func(t *testing.T) {
		fixture, router := newHandlerFixture(t)
		fixture.seedUser(t, "hana", "secret-pass", auth.StatusEnabled, 0)

		recorder := postJSON(router, "/login", `{"username":"hana","password":"secret-pass"}`)
		require.Equal(t, http.StatusOK, recorder.Code)

		for _, name := range []string{constants.AccessTokenCookieName, constants.RefreshTokenCookieName} {
			cookie := cookieByName(t, recorder, name)
			require.NotNil(t, cookie, "missing cookie %s", name)

			assert.NotEmpty(t, cookie.Value)
			assert.True(t, cookie.HttpOnly)
			assert.Equal(t, constants.SessionCookiePath, cookie.Path)
			assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
		}

		// Tokens travel only as cookies; the body carries profile and expiry.
		assert.Contains(t, recorder.Body.String(), `"expires_in"`)
		assert.Contains(t, recorder.Body.String(), `"username":"hana"`)
	})

	t.Run("invalid_credentials", func(t *testing.T) {
		fixture, router := newHandlerFixture(t)
		fixture.seedUser(t, "hana", "secret-pass", auth.StatusEnabled, 0)

		recorder := postJSON(router, "/login", `{"username":"hana","password":"wrong"}`)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)

		// No session material on a failed login.
		assert.Empty(t, recorder.Result().Cookies())
	})

	t.Run("locked_account", func(t *testing.T) {
		fixture, router := newHandlerFixture(t)
		fixture.seedUser(t, "hana", "secret-pass", auth.StatusEnabled, auth.MaxFailedLogins)

		recorder := postJSON(router, "/login", `{"username":"hana","password":"secret-pass"}`)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("missing_fields", func(t *testing.T) {
		_, router := newHandlerFixture(t)

		recorder := postJSON(router, "/login", `{"username":"hana"}`)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

// # Refresh Endpoint

/*
TestHandler_Refresh verifies the access cookie replacement and the clean
logged-out fallback on any refresh failure.
*/
func TestHandler_Refresh(t *testing.T) {

	t.Run("replaces_access_cookie_only", func(t *testing.T) {
		fixture, router := newHandlerFixture(t)
		fixture.seedUser(t, "hana", "secret-pass", auth.StatusEnabled, 0)

		login := postJSON(router, "/login", `{"username":"hana","password":"secret-pass"}`)
		require.Equal(t, http.StatusOK, login.Code)
		refreshCookie := cookieByName(t, login, constants.RefreshTokenCookieName)
		require.NotNil(t, refreshCookie)

		recorder := postJSON(router, "/refresh-token", "", refreshCookie)
		require.Equal(t, http.StatusOK, recorder.Code)

		// 1. A fresh access cookie is set.
		accessCookie := cookieByName(t, recorder, constants.AccessTokenCookieName)
		require.NotNil(t, accessCookie)
		assert.NotEmpty(t, accessCookie.Value)

		// 2. The refresh cookie is not rotated: no replacement is sent.
		assert.Nil(t, cookieByName(t, recorder, constants.RefreshTokenCookieName))

		// 3. The same refresh cookie keeps working.
		again := postJSON(router, "/refresh-token", "", refreshCookie)
		assert.Equal(t, http.StatusOK, again.Code)
	})

	t.Run("missing_cookie", func(t *testing.T) {
		_, router := newHandlerFixture(t)

		recorder := postJSON(router, "/refresh-token", "")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)

		// Both cookies are expired on the client.
		for _, name := range []string{constants.AccessTokenCookieName, constants.RefreshTokenCookieName} {
			cookie := cookieByName(t, recorder, name)
			require.NotNil(t, cookie)
			assert.Empty(t, cookie.Value)
			assert.Negative(t, cookie.MaxAge)
		}
	})

	t.Run("revoked_session", func(t *testing.T) {
		fixture, router := newHandlerFixture(t)
		fixture.seedUser(t, "hana", "secret-pass", auth.StatusEnabled, 0)

		login := postJSON(router, "/login", `{"username":"hana","password":"secret-pass"}`)
		refreshCookie := cookieByName(t, login, constants.RefreshTokenCookieName)
		require.NotNil(t, refreshCookie)

		fixture.sessions.sessions[0].IsRevoked = true

		recorder := postJSON(router, "/refresh-token", "", refreshCookie)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

// # Logout Endpoint

/*
TestHandler_Logout verifies cookie teardown and the idempotent 200 contract.
*/
func TestHandler_Logout(t *testing.T) {

	t.Run("revokes_and_clears", func(t *testing.T) {
		fixture, router := newHandlerFixture(t)
		fixture.seedUser(t, "hana", "secret-pass", auth.StatusEnabled, 0)

		login := postJSON(router, "/login", `{"username":"hana","password":"secret-pass"}`)
		refreshCookie := cookieByName(t, login, constants.RefreshTokenCookieName)
		require.NotNil(t, refreshCookie)

		recorder := postJSON(router, "/logout", "", refreshCookie)
		assert.Equal(t, http.StatusOK, recorder.Code)

		assert.True(t, fixture.sessions.sessions[0].IsRevoked)

		for _, name := range []string{constants.AccessTokenCookieName, constants.RefreshTokenCookieName} {
			cookie := cookieByName(t, recorder, name)
			require.NotNil(t, cookie)
			assert.Negative(t, cookie.MaxAge)
		}
	})

	t.Run("no_session_still_succeeds", func(t *testing.T) {
		_, router := newHandlerFixture(t)

		recorder := postJSON(router, "/logout", "")
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Logged out")
	})
}
