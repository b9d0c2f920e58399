// Copyright (c) 2026 AccountHub. All rights reserved.

// Access-control chain for the HTTP surface.
//
// # Architecture
//
// Authentication resolves a bearer token all the way to a stored account
// before any handler runs. The guards below it (RequireUser, RequireActive,
// RequireSuperuser) then veto on account state. Keeping the chain in the
// users package lets it share the repository without an import cycle.

package users

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/joaofst/accounthub/internal/platform/apperr"
	"github.com/joaofst/accounthub/internal/platform/ctxkey"
	"github.com/joaofst/accounthub/internal/platform/respond"
	"github.com/joaofst/accounthub/internal/platform/sec"
)

// credentialsMessage is the single client-visible reason for every
// authentication failure. A missing header, a malformed header, a bad
// signature, an expired token, and an unknown subject are all
// indistinguishable to the caller.
const credentialsMessage = "Could not validate credentials"

// TokenDecoder defines the contract needed to verify bearer tokens.
//
// # Why an interface?
//
// Defining TokenDecoder here decouples the chain from the concrete codec,
// allowing mocks to be injected during unit testing.
type TokenDecoder interface {
	// Decode verifies an access token and returns its claims, failing closed.
	Decode(token string) (jwt.MapClaims, bool)
}

// Authenticate extracts and verifies the bearer token from the Authorization
// header, then resolves the subject to a stored account.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, the request proceeds as anonymous.
//  3. If present, decode the token and read its subject email.
//  4. Load the account by email and inject [*User] into the context.
//
// Any failure in steps 3-4 aborts with the uniform 401. Downstream guards
// decide whether anonymous requests are acceptable.
//
// # Parameters
//   - decoder: The TokenDecoder instance.
//   - repository: The account repository for subject resolution.
//
// # Returns
//   - An [http.Handler] middleware.
func Authenticate(decoder TokenDecoder, repository Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				respond.Error(writer, request, apperr.Unauthorized(credentialsMessage))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, ok := decoder.Decode(parts[1])
			if !ok {
				respond.Error(writer, request, apperr.Unauthorized(credentialsMessage))
				return
			}

			email, ok := sec.Subject(claims)
			if !ok {
				respond.Error(writer, request, apperr.Unauthorized(credentialsMessage))
				return
			}

			// ── 4. Subject Resolution ─────────────────────────────────────────
			user, err := repository.FindByEmail(request.Context(), email)
			if err != nil {
				// A deleted account with a still-valid token lands here.
				respond.Error(writer, request, apperr.Unauthorized(credentialsMessage))
				return
			}

			ctx := context.WithValue(request.Context(), ctxkey.KeyUser, user)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireUser blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if FromContext(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized(credentialsMessage))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireActive blocks requests from deactivated accounts.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It implies
// [RequireUser], so mounting both is unnecessary.
func RequireActive(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		user := FromContext(request.Context())

		if user == nil {
			respond.Error(writer, request, apperr.Unauthorized(credentialsMessage))
			return
		}

		if !user.IsActive {
			respond.Error(writer, request, apperr.Inactive())
			return
		}

		next.ServeHTTP(writer, request)
	})
}

// RequireSuperuser blocks requests from accounts without the superuser flag.
//
// # Ordering
//
// The active check runs before the privilege check: a deactivated superuser
// is reported as inactive, never as underprivileged.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It implies both
// [RequireUser] and [RequireActive].
func RequireSuperuser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		user := FromContext(request.Context())

		// ── 1. Authentication Check ───────────────────────────────────────
		if user == nil {
			respond.Error(writer, request, apperr.Unauthorized(credentialsMessage))
			return
		}

		// ── 2. Activation Check ───────────────────────────────────────────
		if !user.IsActive {
			respond.Error(writer, request, apperr.Inactive())
			return
		}

		// ── 3. Privilege Check ────────────────────────────────────────────
		if !user.IsSuperuser {
			respond.Error(writer, request, apperr.PrivilegeRequired())
			return
		}

		next.ServeHTTP(writer, request)
	})
}

// FromContext retrieves the authenticated [*User] from the [context.Context].
//
// # Returns
//   - The resolved account if the request is authenticated.
//   - nil if the request is anonymous.
func FromContext(ctx context.Context) *User {
	user, ok := ctx.Value(ctxkey.KeyUser).(*User)
	if !ok {
		return nil
	}
	return user
}
