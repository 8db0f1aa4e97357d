// Copyright (c) 2026 Kakeibo. All rights reserved.
// Author: nhat.vu.dev@gmail.com

/*
Package auth provides the HTTP delivery layer for user identity management.

It implements the gateway for the authentication lifecycle—from account
creation to dual-token session establishment and teardown.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Issues the access and refresh token cookie pair.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/
package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nhatvu/kakeibo/internal/platform/constants"
	requestutil "github.com/nhatvu/kakeibo/internal/platform/request"
	"github.com/nhatvu/kakeibo/internal/platform/respond"
	"github.com/nhatvu/kakeibo/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the session lifecycle entry points (Registration,
// Login, Refresh, Logout). Both tokens travel as HttpOnly cookies; response
// bodies only ever carry the user profile and expiry metadata.
type Handler struct {
	authService *Service

	// secureCookies marks the session cookies Secure. Disabled in local
	// development where the frontend talks plain HTTP.
	secureCookies bool
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service, secureCookies bool) *Handler {
	return &Handler{authService: service, secureCookies: secureCookies}
}

// RegisterRoutes attaches the authentication endpoints to the given router.
//
// # Endpoints
//   - POST /register      : Creates a new account.
//   - POST /login         : Authenticates and sets the session cookie pair.
//   - POST /refresh-token : Mints a new access token from the refresh cookie.
//   - POST /logout        : Revokes the session and clears cookies.
func (handler *Handler) RegisterRoutes(router chi.Router) {

	// All endpoints are public: logout must work for clients whose access
	// token already expired.
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh-token", handler.refresh)
	router.Post("/logout", handler.logout)
}

// # Request Payloads

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

/*
Register handles the creation of a new user account.

POST /register

Description: Validates input, checks for identity conflicts, and persists
a new user profile to the database. Registration does not log the user in;
the client follows up with a login call.

Request:
  - Body: registerRequest (Username, Email, Password)

Response:
  - 201: User: Created user profile
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Username or Email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Username(FieldUsername, input.Username).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Login authenticates a user and establishes the dual-token session.

POST /login

Description: Verifies credentials and injects both session cookies — the
short-lived signed access token and the long-lived opaque refresh token.
The remember_me flag stretches the refresh cookie lifetime.

Request:
  - Body: loginRequest (Username, Password, RememberMe)

Response:
  - 200: Session: User profile and access token expiry
  - 401: ErrUnauthorized: Invalid credentials
  - 403: ErrForbidden: Account disabled or locked
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Username:   input.Username,
		Password:   input.Password,
		RememberMe: input.RememberMe,
		UserAgent:  request.UserAgent(),
		IPAddress:  getClientIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookies(writer, session)

	respond.OK(writer, map[string]any{
		FieldUser:      session.User,
		FieldExpiresIn: int64(session.AccessTokenExpiresAt.Sub(time.Now()) / time.Second),
	})
}

/*
Refresh issues a new access token using a valid refresh token.

POST /refresh-token

Description: Reads the refresh cookie, validates it against the session
ledger, and replaces the access token cookie. The refresh token is NOT
rotated; its cookie is left untouched. On any validation failure both
cookies are cleared so the client falls back to a clean logged-out state.

Response:
  - 200: Success: New access token expiry metadata
  - 401: ErrUnauthorized: Missing, invalid, or expired refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		handler.clearSessionCookies(writer)
		respond.Error(writer, request, ErrInvalidRefreshToken)
		return
	}

	refreshed, err := handler.authService.Refresh(request.Context(), cookie.Value)
	if err != nil {
		handler.clearSessionCookies(writer)
		respond.Error(writer, request, err)
		return
	}

	handler.setCookie(writer, constants.AccessTokenCookieName, refreshed.AccessToken, refreshed.AccessTokenExpiresAt)

	respond.OK(writer, map[string]any{
		FieldUser:      refreshed.User,
		FieldExpiresIn: int64(refreshed.AccessTokenExpiresAt.Sub(time.Now()) / time.Second),
	})
}

/*
Logout terminates the current user session.

POST /logout

Description: Revokes the refresh token's ledger row (if one exists) and
clears both session cookies. Idempotent: succeeds with 200 regardless of
whether a valid session was presented.

Response:
  - 200: Success: Session terminated
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err == nil && cookie.Value != "" {
		handler.authService.Logout(request.Context(), cookie.Value)
	}

	handler.clearSessionCookies(writer)

	respond.OK(writer, map[string]string{
		FieldMessage: "Logged out",
	})
}

// # Cookie Plumbing

// setSessionCookies writes the full access + refresh cookie pair.
func (handler *Handler) setSessionCookies(writer http.ResponseWriter, session *LoginSession) {
	handler.setCookie(writer, constants.AccessTokenCookieName, session.AccessToken, session.AccessTokenExpiresAt)
	handler.setCookie(writer, constants.RefreshTokenCookieName, session.RefreshToken, session.RefreshTokenExpiresAt)
}

func (handler *Handler) setCookie(writer http.ResponseWriter, name, value string, expiresAt time.Time) {
	http.SetCookie(writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     constants.SessionCookiePath,
		Expires:  expiresAt,
		Secure:   handler.secureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookies expires both cookies on the client.
func (handler *Handler) clearSessionCookies(writer http.ResponseWriter) {
	for _, name := range []string{constants.AccessTokenCookieName, constants.RefreshTokenCookieName} {
		http.SetCookie(writer, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     constants.SessionCookiePath,
			MaxAge:   -1,
			Secure:   handler.secureCookies,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// getClientIP tries to extract the real IP address of a user over proxy environments.
func getClientIP(request *http.Request) string {

	ip := request.Header.Get(constants.HeaderXRealIP)
	if ip == "" {
		ip = request.Header.Get(constants.HeaderXForwardedFor)
	}

	if ip == "" {
		ip = request.RemoteAddr
	}
	return ip
}
