// Copyright (c) 2026 AccountHub. All rights reserved.

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/joaofst/accounthub/internal/platform/sec"
)

/*
TestPasswordHasher_RoundTrip verifies that a hashed password verifies against
its own plaintext and against nothing else.
*/
func TestPasswordHasher_RoundTrip(t *testing.T) {
	hasher := sec.NewPasswordHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("a_plain_password")
	require.NoError(t, err)
	assert.NotEqual(t, "a_plain_password", hash)

	assert.True(t, hasher.Verify("a_plain_password", hash))
	assert.False(t, hasher.Verify("wrong_password", hash))
}

/*
TestPasswordHasher_MalformedHash verifies that verification against a
corrupted stored hash resolves to false instead of failing.
*/
func TestPasswordHasher_MalformedHash(t *testing.T) {
	hasher := sec.NewPasswordHasher(bcrypt.MinCost)

	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"garbage", "not-a-bcrypt-hash"},
		{"truncated", "$2a$10$abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, hasher.Verify("whatever", tt.hash))
		})
	}
}

/*
TestPasswordHasher_OldCostStillVerifies verifies the parameter-upgrade
behavior: hashes produced at a lower cost keep verifying under a hasher
configured with a higher cost.
*/
func TestPasswordHasher_OldCostStillVerifies(t *testing.T) {
	oldHasher := sec.NewPasswordHasher(bcrypt.MinCost)
	newHasher := sec.NewPasswordHasher(bcrypt.MinCost + 2)

	oldHash, err := oldHasher.Hash("migrating-password")
	require.NoError(t, err)

	assert.True(t, newHasher.Verify("migrating-password", oldHash))
}

/*
TestPasswordHasher_CostClamping verifies that out-of-range costs fall back
to the bcrypt default instead of breaking hashing.
*/
func TestPasswordHasher_CostClamping(t *testing.T) {
	hasher := sec.NewPasswordHasher(999)

	hash, err := hasher.Hash("pw")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

/*
TestGenerateSecureToken verifies token randomness and URL safety.
*/
func TestGenerateSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	second, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
	assert.NotContains(t, first, "+")
	assert.NotContains(t, first, "/")
}
