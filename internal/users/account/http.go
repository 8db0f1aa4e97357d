// Copyright (c) 2026 Kakeibo. All rights reserved.
// Author: nhat.vu.dev@gmail.com

/*
Package account provides the HTTP delivery layer for profile and user
administration.

It implements the RESTful interface for members to interact with their
account data and active sessions, and for administrators to manage the
member roster.

# Security

All endpoints in this package require an active authentication session. The
administrative subtree additionally requires the admin role.
*/
package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nhatvu/kakeibo/internal/platform/constants"
	"github.com/nhatvu/kakeibo/internal/platform/middleware"
	requestutil "github.com/nhatvu/kakeibo/internal/platform/request"
	"github.com/nhatvu/kakeibo/internal/platform/respond"
	"github.com/nhatvu/kakeibo/internal/platform/sec"
	"github.com/nhatvu/kakeibo/internal/platform/validate"
	"github.com/nhatvu/kakeibo/internal/users/auth"
	"github.com/nhatvu/kakeibo/pkg/pagination"
)

// Handler implements the HTTP layer for user account management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// RegisterRoutes attaches the account endpoints to the given router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		// Account Management
		r.Get("/profile", handler.getProfile)
		r.Patch("/profile", handler.updateProfile)
		r.Delete("/profile", handler.deleteProfile)
		r.Post("/change-password", handler.changePassword)

		// Session Security
		r.Get("/sessions", handler.listSessions)

		// Administration
		r.Route("/admin/users", func(admin chi.Router) {
			admin.Use(middleware.RequireRole(sec.RoleAdmin))
			admin.Get("/", handler.listUsers)
			admin.Patch("/{id}/status", handler.setUserStatus)
			admin.Post("/{id}/unlock", handler.unlockUser)
		})
	})
}

// # Profile Endpoints

/*
GET /api/v1/profile.

Description: Retrieves the full private profile of the authenticated user.

Response:
  - 200: User: Fully hydrated user profile
  - 401: ErrUnauthorized: Authentication required
  - 404: ErrNotFound: Account deleted while the token was still valid
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// updateProfileRequest defines the expected JSON payload for profile updates.
type updateProfileRequest struct {
	Email *string `json:"email"`
}

/*
PATCH /api/v1/profile.

Description: Applies partial updates to the authenticated user's profile.

Request:
  - body: updateProfileRequest (Partial JSON)

Response:
  - 200: User: The updated profile
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Authentication required
  - 409: ErrConflict: Email already registered
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	if input.Email != nil {
		v.Required(auth.FieldEmail, *input.Email).Email(auth.FieldEmail, *input.Email)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		Email: input.Email,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
DELETE /api/v1/profile.

Description: Performs a soft-deletion of the authenticated user's account
and revokes every session.

Response:
  - 204: No Content: Account deleted successfully
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) deleteProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.DeleteAccount(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// changePasswordRequest defines the payload for password rotation.
type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

/*
POST /api/v1/change-password.

Description: Verifies the current password before applying a new one. All
other device sessions are revoked; the requesting session stays alive.

Request:
  - body: changePasswordRequest (CurrentPassword, NewPassword)

Response:
  - 200: Success: Password changed
  - 400: ErrInvalidJSON: Weak password or validation failure
  - 401: ErrUnauthorized: Current password mismatch or session invalid
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(auth.FieldCurrentPassword, input.CurrentPassword).
		Required(auth.FieldNewPassword, input.NewPassword).
		MinLen(auth.FieldNewPassword, input.NewPassword, auth.MinPasswordLength)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// The refresh cookie identifies the requesting session so it can be
	// spared from the post-change revocation sweep.
	currentRefreshToken := ""
	if cookie, err := request.Cookie(constants.RefreshTokenCookieName); err == nil {
		currentRefreshToken = cookie.Value
	}

	err = handler.accountService.ChangePassword(
		request.Context(),
		userID,
		input.CurrentPassword,
		input.NewPassword,
		currentRefreshToken,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		auth.FieldMessage: "Password changed successfully",
	})
}

// # Session Security Endpoints

/*
GET /api/v1/sessions.

Description: Enumerates all devices currently authenticated into the user's
account. The requesting device is flagged is_current.

Response:
  - 200: []SessionInfo: List of active device sessions
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) listSessions(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	currentTokenHash := ""
	if cookie, err := request.Cookie(constants.RefreshTokenCookieName); err == nil && cookie.Value != "" {
		currentTokenHash = sec.HashToken(cookie.Value)
	}

	sessions, err := handler.accountService.ListSessions(request.Context(), userID, currentTokenHash)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, sessions)
}

// # Administration Endpoints

/*
GET /api/v1/admin/users.

Description: Paginated roster of all accounts, including lockout counters.

Request:
  - query: page, limit

Response:
  - 200: []User: Page of accounts with pagination metadata
  - 403: ErrForbidden: Admin role required
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	users, total, err := handler.accountService.ListUsers(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}

// setUserStatusRequest defines the payload for administrative status changes.
type setUserStatusRequest struct {
	Status string `json:"status"`
}

/*
PATCH /api/v1/admin/users/{id}/status.

Description: Enables or disables a target account. Disabling revokes all of
the target's sessions immediately.

Request:
  - id: int64 (URL)
  - body: setUserStatusRequest (Status: "enabled" | "disabled")

Response:
  - 200: Success: Status applied
  - 400: ErrValidation: Unknown status value
  - 403: ErrForbidden: Admin role required
  - 404: ErrNotFound: Unknown user
*/
func (handler *Handler) setUserStatus(writer http.ResponseWriter, request *http.Request) {
	targetID, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input setUserStatusRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.OneOf(auth.FieldStatus, input.Status, string(auth.StatusEnabled), string(auth.StatusDisabled))
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.SetUserStatus(request.Context(), targetID, auth.UserStatus(input.Status)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		auth.FieldMessage: "User status updated",
	})
}

/*
POST /api/v1/admin/users/{id}/unlock.

Description: Clears a brute-force lockout by resetting the target's
failed-login counter to zero.

Request:
  - id: int64 (URL)

Response:
  - 200: Success: Lockout cleared
  - 403: ErrForbidden: Admin role required
  - 404: ErrNotFound: Unknown user
*/
func (handler *Handler) unlockUser(writer http.ResponseWriter, request *http.Request) {
	targetID, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.UnlockUser(request.Context(), targetID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		auth.FieldMessage: "User lockout cleared",
	})
}
