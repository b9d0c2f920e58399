// Copyright (c) 2026 AccountHub. All rights reserved.

package users_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaofst/accounthub/internal/users"
)

// protectedProbe builds a handler chain ending in a 200 probe that records
// the resolved account.
func protectedProbe(f *fixture, guards ...func(http.Handler) http.Handler) (http.Handler, *users.User) {
	var seen users.User

	var handler http.Handler = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if user := users.FromContext(request.Context()); user != nil {
			seen = *user
		}
		writer.WriteHeader(http.StatusOK)
	})

	for i := len(guards) - 1; i >= 0; i-- {
		handler = guards[i](handler)
	}

	return users.Authenticate(f.codec, f.repo)(handler), &seen
}

func get(t *testing.T, handler http.Handler, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	request := httptest.NewRequest("GET", "/probe", nil)
	if bearer != "" {
		request.Header.Set("Authorization", bearer)
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestAuthenticate_ResolvesSubject verifies the happy path: token decodes,
subject resolves, and the account lands in the context.
*/
func TestAuthenticate_ResolvesSubject(t *testing.T) {
	f := newFixture(t)
	f.mustRegister(t, "chain@example.com", "pw123secret")

	token, err := f.codec.IssueAccess("chain@example.com")
	require.NoError(t, err)

	handler, seen := protectedProbe(f, users.RequireUser)
	recorder := get(t, handler, "Bearer "+token)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "chain@example.com", seen.Email)
}

/*
TestAuthenticate_UniformUnauthorized verifies that every authentication
failure mode collapses into the same 401 body.
*/
func TestAuthenticate_UniformUnauthorized(t *testing.T) {
	f := newFixture(t)
	f.mustRegister(t, "chain@example.com", "pw123secret")

	// Token whose subject no longer resolves to an account.
	orphanToken, err := f.codec.IssueAccess("deleted@example.com")
	require.NoError(t, err)

	// Reset-class token presented as an access token.
	resetToken, err := f.codec.IssuePasswordReset("chain@example.com")
	require.NoError(t, err)

	tests := []struct {
		name   string
		bearer string
	}{
		{"missing_header", ""},
		{"malformed_header", "NotBearer xyz"},
		{"garbage_token", "Bearer not.a.token"},
		{"unknown_subject", "Bearer " + orphanToken},
		{"wrong_token_class", "Bearer " + resetToken},
	}

	handler, _ := protectedProbe(f, users.RequireUser)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := get(t, handler, tt.bearer)

			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
			assert.Contains(t, recorder.Body.String(), "Could not validate credentials")
		})
	}
}

/*
TestGuards_Layering verifies the veto order across the guard stack: an
anonymous request fails authentication, an inactive account is forbidden
before its role is even considered, and only an active superuser passes
the privileged guard.
*/
func TestGuards_Layering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.mustRegister(t, "member@example.com", "pw123secret")

	frozenAdmin := f.mustSuperuser(t, "frozen-admin@example.com", "pw123secret")
	frozenAdmin.IsActive = false
	require.NoError(t, f.repo.Update(ctx, frozenAdmin))

	f.mustSuperuser(t, "admin@example.com", "pw123secret")

	memberToken, err := f.codec.IssueAccess("member@example.com")
	require.NoError(t, err)
	frozenToken, err := f.codec.IssueAccess("frozen-admin@example.com")
	require.NoError(t, err)
	adminToken, err := f.codec.IssueAccess("admin@example.com")
	require.NoError(t, err)

	adminOnly, _ := protectedProbe(f, users.RequireSuperuser)

	t.Run("anonymous_is_unauthenticated", func(t *testing.T) {
		recorder := get(t, adminOnly, "")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("active_member_lacks_privilege", func(t *testing.T) {
		recorder := get(t, adminOnly, "Bearer "+memberToken)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "FORBIDDEN_PRIVILEGE")
	})

	t.Run("inactive_superuser_fails_as_inactive", func(t *testing.T) {
		// Deactivation is a stronger veto than role.
		recorder := get(t, adminOnly, "Bearer "+frozenToken)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "FORBIDDEN_INACTIVE")
	})

	t.Run("active_superuser_passes", func(t *testing.T) {
		recorder := get(t, adminOnly, "Bearer "+adminToken)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}

/*
TestRequireActive verifies the activity guard on its own.
*/
func TestRequireActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	frozen := f.mustRegister(t, "frozen@example.com", "pw123secret")
	frozen.IsActive = false
	require.NoError(t, f.repo.Update(ctx, frozen))

	token, err := f.codec.IssueAccess("frozen@example.com")
	require.NoError(t, err)

	handler, _ := protectedProbe(f, users.RequireActive)
	recorder := get(t, handler, "Bearer "+token)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Inactive user")
}

/*
TestFromContext verifies nil-safety for anonymous contexts.
*/
func TestFromContext(t *testing.T) {
	assert.Nil(t, users.FromContext(context.Background()))
}
