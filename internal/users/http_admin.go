// Copyright (c) 2026 AccountHub. All rights reserved.

package users

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/joaofst/accounthub/internal/platform/apperr"
	requestutil "github.com/joaofst/accounthub/internal/platform/request"
	"github.com/joaofst/accounthub/internal/platform/respond"
	"github.com/joaofst/accounthub/internal/platform/validate"
	"github.com/joaofst/accounthub/pkg/pagination"
)

// registerAdminRoutes adds the privileged management surface to the shared
// users router.
//
// # Endpoints
//   - GET    /          : Lists accounts with pagination.
//   - POST   /          : Provisions an account with explicit flags.
//   - GET    /{userID}  : Returns any account by ID.
//   - PUT    /{userID}  : Applies a privileged partial update.
//   - DELETE /{userID}  : Removes any account except the caller's own.
//
// Every route requires an authenticated, active superuser.
func (handler *Handler) registerAdminRoutes(router chi.Router) {
	router.Group(func(r chi.Router) {
		r.Use(RequireSuperuser)
		r.Get("/", handler.adminList)
		r.Post("/", handler.adminCreate)
		r.Get("/{userID}", handler.adminGet)
		r.Put("/{userID}", handler.adminUpdate)
		r.Delete("/{userID}", handler.adminDelete)
	})
}

// # Request Payloads

type adminCreateRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	IsActive    *bool  `json:"is_active"`
	IsSuperuser *bool  `json:"is_superuser"`
}

// # Admin Handlers

/*
adminList returns a page of accounts.

GET /api/v1/users?skip=0&limit=100

Response:
  - 200: []User with pagination metadata
*/
func (handler *Handler) adminList(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	accounts, total, err := handler.service.List(request.Context(), params.Skip, params.Limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	meta := pagination.NewMeta(params, total)
	respond.Paginated(writer, accounts, meta)
}

/*
adminCreate provisions a new account with explicit flags.

POST /api/v1/users

Request:
  - Body: adminCreateRequest (Email, Password, FullName, IsActive?, IsSuperuser?)

Response:
  - 201: User: Created account
  - 400: VALIDATION_ERROR: Bad input
  - 409: CONFLICT: Email already exists
*/
func (handler *Handler) adminCreate(writer http.ResponseWriter, request *http.Request) {
	var input adminCreateRequest

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

	// Omitted flags fall back to self-registration defaults.
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	isSuperuser := false
	if input.IsSuperuser != nil {
		isSuperuser = *input.IsSuperuser
	}

	user, err := handler.service.AdminCreate(request.Context(), AdminCreateInput{
		Email:       input.Email,
		Password:    input.Password,
		FullName:    input.FullName,
		IsActive:    isActive,
		IsSuperuser: isSuperuser,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
adminGet returns any account by its numeric ID.

GET /api/v1/users/{userID}

Response:
  - 200: User: The requested account
  - 404: NOT_FOUND: No such account
*/
func (handler *Handler) adminGet(writer http.ResponseWriter, request *http.Request) {
	id, err := userIDParam(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.GetByID(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
adminUpdate applies a privileged partial update to any account.

PUT /api/v1/users/{userID}

Request:
  - Body: AdminPatch (Email?, FullName?, Password?, IsActive?, IsSuperuser?)

Response:
  - 200: User: The updated account
  - 400: VALIDATION_ERROR: Malformed field values
  - 404: NOT_FOUND: No such account
  - 409: CONFLICT: New email already in use
*/
func (handler *Handler) adminUpdate(writer http.ResponseWriter, request *http.Request) {
	id, err := userIDParam(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var patch AdminPatch
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

	user, err := handler.service.AdminUpdate(request.Context(), id, patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
adminDelete permanently removes any account except the caller's own.

DELETE /api/v1/users/{userID}

Response:
  - 204: No content on success
  - 403: SELF_OPERATION_FORBIDDEN: Caller targeted their own account
  - 404: NOT_FOUND: No such account (including repeated deletes)
*/
func (handler *Handler) adminDelete(writer http.ResponseWriter, request *http.Request) {
	id, err := userIDParam(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	actor := FromContext(request.Context())
	if err := handler.service.AdminDelete(request.Context(), id, actor); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// userIDParam parses the {userID} route parameter.
// A non-numeric value is indistinguishable from a missing account.
func userIDParam(request *http.Request) (int64, error) {
	raw := requestutil.Param(request, FieldUserID)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.NotFound("User")
	}

	return id, nil
}
