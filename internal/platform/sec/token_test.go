// Copyright (c) 2026 AccountHub. All rights reserved.

package sec_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaofst/accounthub/internal/platform/sec"
)

// newTestCodec builds a codec with independent access/reset keys and sane lifetimes.
func newTestCodec(t *testing.T) *sec.TokenCodec {
	t.Helper()

	codec, err := sec.NewTokenCodec(sec.TokenConfig{
		AccessKey:  "access-signing-key-for-tests",
		ResetKey:   "reset-signing-key-for-tests",
		Algorithm:  "HS256",
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
		ResetTTL:   1 * time.Hour,
	})
	require.NoError(t, err)

	return codec
}

/*
TestNewTokenCodec_RejectsBadConfig verifies fail-fast construction.
*/
func TestNewTokenCodec_RejectsBadConfig(t *testing.T) {
	tests := []struct {
		name      string
		algorithm string
		accessKey string
		resetKey  string
	}{
		{"unknown_algorithm", "HS-bogus", "a", "r"},
		{"non_hmac_algorithm", "RS256", "a", "r"},
		{"empty_access_key", "HS256", "", "r"},
		{"empty_reset_key", "HS256", "a", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sec.NewTokenCodec(sec.TokenConfig{
				AccessKey: tt.accessKey,
				ResetKey:  tt.resetKey,
				Algorithm: tt.algorithm,
			})
			assert.Error(t, err)
		})
	}
}

/*
TestTokenCodec_IssueAndDecode verifies the round trip: custom claims survive,
and a computed absolute expiration is always present.
*/
func TestTokenCodec_IssueAndDecode(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Issue(map[string]any{
		sec.ClaimSubject: "testuser@example.com",
		"custom_claim":   "custom_value",
	}, 30*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, ok := codec.Decode(token)
	require.True(t, ok)

	subject, ok := sec.Subject(claims)
	require.True(t, ok)
	assert.Equal(t, "testuser@example.com", subject)
	assert.Equal(t, "custom_value", claims["custom_claim"])
	assert.Contains(t, claims, sec.ClaimExpires)
}

/*
TestTokenCodec_DecodeFailsClosed verifies that every invalid shape yields
"no value" rather than a fault.
*/
func TestTokenCodec_DecodeFailsClosed(t *testing.T) {
	codec := newTestCodec(t)

	otherCodec, err := sec.NewTokenCodec(sec.TokenConfig{
		AccessKey: "a-completely-different-key",
		ResetKey:  "another-reset-key",
		Algorithm: "HS256",
		AccessTTL: 30 * time.Minute,
	})
	require.NoError(t, err)

	foreignToken, err := otherCodec.IssueAccess("user@example.com")
	require.NoError(t, err)

	expiredCodec, err := sec.NewTokenCodec(sec.TokenConfig{
		AccessKey: "access-signing-key-for-tests",
		ResetKey:  "reset-signing-key-for-tests",
		Algorithm: "HS256",
		AccessTTL: -1 * time.Minute,
	})
	require.NoError(t, err)

	expiredToken, err := expiredCodec.IssueAccess("user@example.com")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty_string", ""},
		{"random_string", "this.is.not.a.valid.jwt"},
		{"wrong_key", foreignToken},
		{"expired", expiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, ok := codec.Decode(tt.token)
			assert.False(t, ok)
			assert.Nil(t, claims)
		})
	}
}

/*
TestTokenCodec_RejectsWrongAlgorithm verifies the algorithm pin: a token
signed with the right key but a different HMAC variant is rejected.
*/
func TestTokenCodec_RejectsWrongAlgorithm(t *testing.T) {
	codec := newTestCodec(t)

	// Sign with the correct key but HS512 instead of the configured HS256.
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		sec.ClaimSubject: "user@example.com",
		sec.ClaimExpires: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte("access-signing-key-for-tests"))
	require.NoError(t, err)

	_, ok := codec.Decode(signed)
	assert.False(t, ok)
}

/*
TestTokenCodec_RefreshToken verifies that refresh tokens share the encoding
and decode with the same access-class primitives.
*/
func TestTokenCodec_RefreshToken(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.IssueRefresh("refresh_user@example.com")
	require.NoError(t, err)

	claims, ok := codec.Decode(token)
	require.True(t, ok)

	subject, ok := sec.Subject(claims)
	require.True(t, ok)
	assert.Equal(t, "refresh_user@example.com", subject)
}

/*
TestTokenCodec_PasswordResetRoundTrip verifies the dedicated recovery flow.
*/
func TestTokenCodec_PasswordResetRoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.IssuePasswordReset("recover@example.com")
	require.NoError(t, err)

	email, ok := codec.VerifyPasswordReset(token)
	require.True(t, ok)
	assert.Equal(t, "recover@example.com", email)
}

/*
TestTokenCodec_ResetAndAccessNotInterchangeable verifies the key separation:
an access token never validates as a reset token, and a reset token never
decodes as an access token.
*/
func TestTokenCodec_ResetAndAccessNotInterchangeable(t *testing.T) {
	codec := newTestCodec(t)

	accessToken, err := codec.IssueAccess("user@example.com")
	require.NoError(t, err)

	resetToken, err := codec.IssuePasswordReset("user@example.com")
	require.NoError(t, err)

	// Access-shaped token against the reset verifier: wrong key, rejected.
	_, ok := codec.VerifyPasswordReset(accessToken)
	assert.False(t, ok)

	// Reset token against the access verifier: wrong key, rejected.
	_, ok = codec.Decode(resetToken)
	assert.False(t, ok)
}

/*
TestTokenCodec_VerifyPasswordReset_WrongShape verifies semantic validation
beyond the signature: type discriminator and subject kind both matter.
*/
func TestTokenCodec_VerifyPasswordReset_WrongShape(t *testing.T) {
	codec := newTestCodec(t)
	resetKey := []byte("reset-signing-key-for-tests")
	expires := jwt.NewNumericDate(time.Now().Add(time.Hour))

	signWithResetKey := func(t *testing.T, claims jwt.MapClaims) string {
		t.Helper()
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(resetKey)
		require.NoError(t, err)
		return signed
	}

	tests := []struct {
		name   string
		claims jwt.MapClaims
	}{
		{"missing_type", jwt.MapClaims{sec.ClaimSubject: "u@example.com", sec.ClaimExpires: expires}},
		{"altered_type", jwt.MapClaims{sec.ClaimSubject: "u@example.com", sec.ClaimType: "session", sec.ClaimExpires: expires}},
		{"missing_subject", jwt.MapClaims{sec.ClaimType: sec.TokenTypePasswordReset, sec.ClaimExpires: expires}},
		{"numeric_subject", jwt.MapClaims{sec.ClaimSubject: 42, sec.ClaimType: sec.TokenTypePasswordReset, sec.ClaimExpires: expires}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, ok := codec.VerifyPasswordReset(signWithResetKey(t, tt.claims))
			assert.False(t, ok)
			assert.Empty(t, email)
		})
	}
}

/*
TestTokenCodec_TamperedSignature verifies that flipping signature bytes
invalidates both token classes.
*/
func TestTokenCodec_TamperedSignature(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.IssuePasswordReset("victim@example.com")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + "AAAA" + parts[2][4:]

	_, ok := codec.VerifyPasswordReset(tampered)
	assert.False(t, ok)
}

/*
TestSubject verifies strict subject extraction.
*/
func TestSubject(t *testing.T) {
	tests := []struct {
		name   string
		claims jwt.MapClaims
		want   string
		ok     bool
	}{
		{"string_subject", jwt.MapClaims{"sub": "a@b.c"}, "a@b.c", true},
		{"missing_subject", jwt.MapClaims{"other": "x"}, "", false},
		{"empty_subject", jwt.MapClaims{"sub": ""}, "", false},
		{"non_string_subject", jwt.MapClaims{"sub": 7}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := sec.Subject(tt.claims)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
