// Copyright (c) 2026 Triply. All rights reserved.

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triply-app/triply/internal/platform/sec"
)

/*
TestHashPassword_RoundTrip verifies that any hashed password verifies against
its original plaintext and rejects every other candidate.
*/
func TestHashPassword_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple", "secret1"},
		{"unicode", "제주도-2026!"},
		{"long", "a-very-long-password-with-some-entropy-0123456789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := sec.HashPassword(tt.password)
			require.NoError(t, err)
			require.NotEmpty(t, hash)

			// The hash must never be the plaintext itself.
			assert.NotEqual(t, tt.password, hash)

			assert.True(t, sec.CheckPasswordHash(tt.password, hash))
			assert.False(t, sec.CheckPasswordHash(tt.password+"x", hash))
		})
	}
}

/*
TestHashPassword_SaltedPerCall verifies that hashing the same password twice
yields different hash strings (random salt) while both still verify.
*/
func TestHashPassword_SaltedPerCall(t *testing.T) {
	first, err := sec.HashPassword("secret1")
	require.NoError(t, err)

	second, err := sec.HashPassword("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, sec.CheckPasswordHash("secret1", first))
	assert.True(t, sec.CheckPasswordHash("secret1", second))
}

/*
TestCheckPasswordHash_GarbageHash verifies that a malformed stored hash is a
mismatch, not a panic or error.
*/
func TestCheckPasswordHash_GarbageHash(t *testing.T) {
	assert.False(t, sec.CheckPasswordHash("secret1", "not-a-bcrypt-hash"))
	assert.False(t, sec.CheckPasswordHash("secret1", ""))
}
