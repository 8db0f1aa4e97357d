// Copyright (c) 2026 Kakeibo. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhatvu/kakeibo/internal/platform/constants"
	"github.com/nhatvu/kakeibo/internal/platform/ctxutil"
	"github.com/nhatvu/kakeibo/internal/platform/middleware"
	"github.com/nhatvu/kakeibo/internal/platform/sec"
)

// fakeVerifier implements [middleware.TokenVerifier] with a canned response.
type fakeVerifier struct {
	claims *sec.AuthClaims
	err    error
}

func (verifier *fakeVerifier) VerifyToken(_ string) (*sec.AuthClaims, error) {
	return verifier.claims, verifier.err
}

// echoPrincipal terminates the chain and reports the authenticated user.
func echoPrincipal() (http.Handler, *[]*sec.AuthClaims) {
	var seen []*sec.AuthClaims
	handler := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = append(seen, middleware.GetUser(request.Context()))
		writer.WriteHeader(http.StatusOK)
	})
	return handler, &seen
}

/*
TestAuthenticate verifies token extraction, verification outcomes, and the
anonymous pass-through.
*/
func TestAuthenticate(t *testing.T) {
	claims := &sec.AuthClaims{UserID: 42, Username: "hana", Role: string(sec.RoleUser)}

	t.Run("cookie_token", func(t *testing.T) {
		next, seen := echoPrincipal()
		handler := middleware.Authenticate(&fakeVerifier{claims: claims})(next)

		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.AddCookie(&http.Cookie{Name: constants.AccessTokenCookieName, Value: "signed"})

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		require.Len(t, *seen, 1)
		assert.Equal(t, claims, (*seen)[0])
	})

	t.Run("bearer_header", func(t *testing.T) {
		next, seen := echoPrincipal()
		handler := middleware.Authenticate(&fakeVerifier{claims: claims})(next)

		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Bearer signed")

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		require.Len(t, *seen, 1)
		assert.Equal(t, claims, (*seen)[0])
	})

	t.Run("anonymous_passes_through", func(t *testing.T) {
		next, seen := echoPrincipal()
		handler := middleware.Authenticate(&fakeVerifier{})(next)

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

		// No token: the request proceeds without a principal.
		assert.Equal(t, http.StatusOK, recorder.Code)
		require.Len(t, *seen, 1)
		assert.Nil(t, (*seen)[0])
	})

	t.Run("expired_token", func(t *testing.T) {
		next, seen := echoPrincipal()
		handler := middleware.Authenticate(&fakeVerifier{err: sec.ErrTokenExpired})(next)

		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Bearer stale")

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Access token expired")
		assert.Empty(t, *seen)
	})

	t.Run("invalid_token", func(t *testing.T) {
		next, seen := echoPrincipal()
		handler := middleware.Authenticate(&fakeVerifier{err: sec.ErrTokenInvalid})(next)

		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Bearer forged")

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Empty(t, *seen)
	})

	t.Run("malformed_authorization_header", func(t *testing.T) {
		next, _ := echoPrincipal()
		handler := middleware.Authenticate(&fakeVerifier{claims: claims})(next)

		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Token abc")

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

/*
TestRequireAuth verifies the authenticated-only gate.
*/
func TestRequireAuth(t *testing.T) {
	next, _ := echoPrincipal()
	handler := middleware.RequireAuth(next)

	t.Run("anonymous_rejected", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("authenticated_passes", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: 42, Role: string(sec.RoleUser)})

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request.WithContext(ctx))

		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}

/*
TestRequireRole verifies the role hierarchy gate.
*/
func TestRequireRole(t *testing.T) {
	next, _ := echoPrincipal()
	handler := middleware.RequireRole(sec.RoleAdmin)(next)

	tests := []struct {
		name     string
		claims   *sec.AuthClaims
		wantCode int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"user_role", &sec.AuthClaims{UserID: 1, Role: string(sec.RoleUser)}, http.StatusForbidden},
		{"admin_role", &sec.AuthClaims{UserID: 1, Role: string(sec.RoleAdmin)}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.claims != nil {
				request = request.WithContext(ctxutil.WithAuthUser(request.Context(), tt.claims))
			}

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantCode, recorder.Code)
		})
	}
}
