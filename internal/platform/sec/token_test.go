// Copyright (c) 2026 Triply. All rights reserved.

package sec_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triply-app/triply/internal/platform/sec"
)

func newTestTokenService(t *testing.T, accessTTL, refreshTTL time.Duration) *sec.TokenService {
	t.Helper()

	service, err := sec.NewTokenService(sec.TokenConfig{
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
		Issuer:        "triply.test",
	})
	require.NoError(t, err)
	return service
}

/*
TestTokenService_IssueAndVerify covers the happy path for both token kinds:
issued tokens decode back to the original subject.
*/
func TestTokenService_IssueAndVerify(t *testing.T) {
	service := newTestTokenService(t, 15*time.Minute, 14*24*time.Hour)

	for _, kind := range []sec.TokenKind{sec.TokenKindAccess, sec.TokenKindRefresh} {
		t.Run(string(kind), func(t *testing.T) {
			token, err := service.Issue("alice", "wanderer", "member", kind)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			claims, err := service.Verify(token, kind)
			require.NoError(t, err)
			assert.Equal(t, "alice", claims.Subject)
			assert.Equal(t, "alice", claims.UserID)
			assert.Equal(t, "wanderer", claims.Nickname)
		})
	}
}

/*
TestTokenService_KindIsolation verifies that an access token can never be
verified as a refresh token or vice versa, because each kind has its own
signing secret.
*/
func TestTokenService_KindIsolation(t *testing.T) {
	service := newTestTokenService(t, 15*time.Minute, 14*24*time.Hour)

	accessToken, err := service.Issue("alice", "wanderer", "member", sec.TokenKindAccess)
	require.NoError(t, err)

	_, err = service.Verify(accessToken, sec.TokenKindRefresh)
	assert.ErrorIs(t, err, sec.ErrTokenInvalid)

	refreshToken, err := service.Issue("alice", "wanderer", "member", sec.TokenKindRefresh)
	require.NoError(t, err)

	_, err = service.Verify(refreshToken, sec.TokenKindAccess)
	assert.ErrorIs(t, err, sec.ErrTokenInvalid)
}

/*
TestTokenService_Expired verifies that a correctly signed token whose expiry
has passed fails with ErrTokenExpired, not ErrTokenInvalid.

The service refuses to be configured with a non-positive TTL, so the expired
token is signed by hand with the same secret and claim shape Issue uses.
*/
func TestTokenService_Expired(t *testing.T) {
	service := newTestTokenService(t, 15*time.Minute, 14*24*time.Hour)

	issuedAt := time.Now().Add(-2 * time.Hour)
	claims := sec.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "11111111-1111-1111-1111-111111111111",
			Subject:   "alice",
			Issuer:    "triply.test",
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		},
		UserID:   "alice",
		Nickname: "wanderer",
		Role:     "member",
	}

	expiredToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte("test-access-secret"))
	require.NoError(t, err)

	_, err = service.Verify(expiredToken, sec.TokenKindAccess)
	assert.ErrorIs(t, err, sec.ErrTokenExpired)
}

/*
TestTokenService_Tampered verifies that a modified token body is rejected and
never yields a subject.
*/
func TestTokenService_Tampered(t *testing.T) {
	service := newTestTokenService(t, 15*time.Minute, 14*24*time.Hour)

	token, err := service.Issue("alice", "wanderer", "member", sec.TokenKindAccess)
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	claims, err := service.Verify(tampered, sec.TokenKindAccess)
	assert.ErrorIs(t, err, sec.ErrTokenInvalid)
	assert.Nil(t, claims)

	_, err = service.Verify("not-a-jwt", sec.TokenKindAccess)
	assert.ErrorIs(t, err, sec.ErrTokenInvalid)
}

/*
TestNewTokenService_Validation rejects incomplete configuration at startup.
*/
func TestNewTokenService_Validation(t *testing.T) {
	_, err := sec.NewTokenService(sec.TokenConfig{
		AccessSecret: []byte("only-one-secret"),
		AccessTTL:    time.Minute,
		RefreshTTL:   time.Hour,
	})
	assert.Error(t, err)

	_, err = sec.NewTokenService(sec.TokenConfig{
		AccessSecret:  []byte("a"),
		RefreshSecret: []byte("r"),
	})
	assert.Error(t, err)
}
