// Copyright (c) 2026 AccountHub. All rights reserved.

/*
HTTP delivery layer for account identity management.

It implements the gateway for the account lifecycle, from registration to
password recovery and self-service profile management.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Maps the access-control chain onto route groups.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes,
headers, JSON).
*/

package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/joaofst/accounthub/internal/platform/request"
	"github.com/joaofst/accounthub/internal/platform/respond"
	"github.com/joaofst/accounthub/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the account-related HTTP endpoints.
//
// # Scope
//
// This handler manages the user lifecycle entry points (registration, login,
// recovery) and the authenticated self-service surface under /users/me.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// AuthRoutes returns a [chi.Router] with the public authentication routes.
//
// # Endpoints
//   - POST /register          : Creates a new account.
//   - POST /login             : Authenticates and returns a bearer token.
//   - POST /verify-email      : Consumes an email verification token.
//   - POST /password-recovery : Requests a password-reset token.
//   - POST /reset-password    : Redeems a password-reset token.
func (handler *Handler) AuthRoutes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/verify-email", handler.verifyEmail)
	router.Post("/password-recovery", handler.passwordRecovery)
	router.Post("/reset-password", handler.resetPassword)

	return router
}

// UserRoutes returns a [chi.Router] with the authenticated account surface.
//
// # Endpoints (self-service, requires an active account)
//   - GET    /me           : Returns the caller's profile.
//   - PATCH  /me           : Partially updates the caller's profile.
//   - DELETE /me           : Removes the caller's account.
//   - PUT    /me/password  : Rotates the caller's password.
//
// GET /me/superuser runs the full guard stack and admits only active
// superusers; the privileged management endpoints share this router as well.
// See the admin handlers for their contract.
func (handler *Handler) UserRoutes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(RequireActive)
		r.Get("/me", handler.me)
		r.Patch("/me", handler.updateMe)
		r.Delete("/me", handler.deleteMe)
		r.Put("/me/password", handler.changePassword)
	})

	router.Group(func(r chi.Router) {
		r.Use(RequireSuperuser)
		r.Get("/me/superuser", handler.meSuperuser)
	})

	handler.registerAdminRoutes(router)

	return router
}

// # Request Payloads

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

type passwordRecoveryRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token              string `json:"token"`
	NewPassword        string `json:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm"`
}

type changePasswordRequest struct {
	CurrentPassword    string `json:"current_password"`
	NewPassword        string `json:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm"`
}

// # Public Handlers

/*
register handles the creation of a new account.

POST /api/v1/auth/register

Request:
  - Body: registerRequest (Email, Password, FullName)

Response:
  - 201: User: Created account profile
  - 400: VALIDATION_ERROR: Bad input or validation failure
  - 409: CONFLICT: Email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		MaxLen(FieldEmail, input.Email, MaxEmailLength).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		MaxLen(FieldPassword, input.Password, MaxPasswordLength).
		MaxLen(FieldFullName, input.FullName, MaxFullNameLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Register(request.Context(), RegisterInput{
		Email:    input.Email,
		Password: input.Password,
		FullName: input.FullName,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
login authenticates an account and mints a bearer session.

POST /api/v1/auth/login

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: Session: Access token, token type, and profile
  - 401: UNAUTHORIZED: Invalid credentials
  - 403: FORBIDDEN_INACTIVE: Valid credentials, deactivated account
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.Login(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

/*
verifyEmail consumes a verification token and flags the account verified.

POST /api/v1/auth/verify-email

Request:
  - Body: verifyEmailRequest (Token)

Response:
  - 200: message: Confirmation text
  - 400: VALIDATION_ERROR: Unknown or expired token
*/
func (handler *Handler) verifyEmail(writer http.ResponseWriter, request *http.Request) {
	var input verifyEmailRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldToken, input.Token)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.VerifyEmail(request.Context(), input.Token); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{FieldMessage: "Email verified successfully"})
}

/*
passwordRecovery requests a password-reset token for an email address.

POST /api/v1/auth/password-recovery

Description: Always returns the same acknowledgment, whether or not the
email maps to an account. The token itself travels out-of-band.

Request:
  - Body: passwordRecoveryRequest (Email)

Response:
  - 200: message: Uniform acknowledgment
  - 400: VALIDATION_ERROR: Missing or malformed email
*/
func (handler *Handler) passwordRecovery(writer http.ResponseWriter, request *http.Request) {
	var input passwordRecoveryRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if _, err := handler.service.RequestPasswordReset(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{FieldMessage: "Password recovery email sent"})
}

/*
resetPassword redeems a recovery token and overwrites the password.

POST /api/v1/auth/reset-password

Request:
  - Body: resetPasswordRequest (Token, NewPassword, NewPasswordConfirm)

Response:
  - 204: No content on success
  - 400: VALIDATION_ERROR: Bad token or mismatched confirmation
  - 403: FORBIDDEN_INACTIVE: Subject account is deactivated
  - 404: NOT_FOUND: Subject account no longer exists
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// The confirmation check runs at validation time, before the token is
	// even inspected.
	validator := &validate.Validator{}
	validator.Required(FieldToken, input.Token).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, MinPasswordLength).
		MaxLen(FieldNewPassword, input.NewPassword, MaxPasswordLength).
		Equals(FieldNewPasswordConfirm, input.NewPasswordConfirm, input.NewPassword, "Passwords do not match")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ResetPassword(request.Context(), input.Token, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Self-Service Handlers

/*
me returns the caller's own profile.

GET /api/v1/users/me

Response:
  - 200: User: The authenticated account
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, FromContext(request.Context()))
}

/*
meSuperuser returns the caller's profile after the full guard stack.

GET /api/v1/users/me/superuser

Description: Every guard stage runs here, so an active non-superuser is
rejected even though the rest of the /me surface admits them.

Response:
  - 200: User: The authenticated superuser
  - 403: FORBIDDEN_PRIVILEGE: Caller lacks the superuser flag
  - 403: FORBIDDEN_INACTIVE: Caller is deactivated
*/
func (handler *Handler) meSuperuser(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, FromContext(request.Context()))
}

/*
updateMe applies a partial update to the caller's profile.

PATCH /api/v1/users/me

Description: Absent fields stay untouched; present fields overwrite.

Request:
  - Body: ProfilePatch (Email?, FullName?, Password?)

Response:
  - 200: User: The updated account
  - 400: VALIDATION_ERROR: Malformed field values
  - 409: CONFLICT: New email already in use
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	var patch ProfilePatch

	if err := requestutil.DecodeJSON(request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if patch.Email != nil {
		validator.Required(FieldEmail, *patch.Email).
			Email(FieldEmail, *patch.Email).
			MaxLen(FieldEmail, *patch.Email, MaxEmailLength)
	}
	if patch.Password != nil {
		validator.MinLen(FieldPassword, *patch.Password, MinPasswordLength).
			MaxLen(FieldPassword, *patch.Password, MaxPasswordLength)
	}
	if patch.FullName != nil {
		validator.MaxLen(FieldFullName, *patch.FullName, MaxFullNameLength)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.UpdateProfile(request.Context(), FromContext(request.Context()), patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
changePassword rotates the caller's password.

PUT /api/v1/users/me/password

Request:
  - Body: changePasswordRequest (CurrentPassword, NewPassword, NewPasswordConfirm)

Response:
  - 204: No content on success
  - 400: VALIDATION_ERROR: Wrong current password, identical new password,
    or mismatched confirmation
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	var input changePasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldCurrentPassword, input.CurrentPassword).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, MinPasswordLength).
		MaxLen(FieldNewPassword, input.NewPassword, MaxPasswordLength).
		Equals(FieldNewPasswordConfirm, input.NewPasswordConfirm, input.NewPassword, "Passwords do not match")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err := handler.service.ChangePassword(
		request.Context(),
		FromContext(request.Context()),
		input.CurrentPassword,
		input.NewPassword,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
deleteMe permanently removes the caller's own account.

DELETE /api/v1/users/me

Response:
  - 204: No content on success
*/
func (handler *Handler) deleteMe(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteAccount(request.Context(), FromContext(request.Context())); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
