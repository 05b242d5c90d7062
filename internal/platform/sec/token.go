// Copyright (c) 2026 Triply. All rights reserved.

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via small interfaces ([middleware.TokenVerifier],
// auth.TokenIssuer).
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind distinguishes the two halves of a session token pair.
//
// Each kind is signed with its own secret, so an access token can never be
// replayed as a refresh token (and vice versa).
type TokenKind string

const (
	// TokenKindAccess is the short-lived credential attached to API calls.
	TokenKindAccess TokenKind = "access"

	// TokenKindRefresh is the long-lived credential exchanged for new tokens.
	TokenKindRefresh TokenKind = "refresh"
)

// # Failure Taxonomy

var (
	// ErrTokenExpired is returned when a token's signature is valid but its
	// expiry has passed.
	ErrTokenExpired = errors.New("sec: token expired")

	// ErrTokenInvalid is returned for any malformed, tampered, or wrongly
	// signed token. Verification never yields a subject for such a token.
	ErrTokenInvalid = errors.New("sec: token invalid")
)

// AuthClaims represents the payload embedded inside a Triply JWT.
//
// # Why custom claims?
//
// By embedding the UserID directly inside the JWT, [middleware.Authenticate]
// can reconstruct the active user context WITHOUT querying the database on
// every single API request.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID   string `json:"uid"`
	Nickname string `json:"nck"`
	Role     string `json:"rol"`
}

// TokenConfig carries the signing material and expiries for both token kinds.
//
// It is constructed once at process start from environment configuration and
// passed explicitly into [NewTokenService]. No ambient/global lookup.
type TokenConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// TokenService issues and verifies signed, time-limited JWTs using HS256.
//
// State machine per logical token: NoToken -> Issued -> (Valid | Expired | Invalid).
// Tokens are stateless; only the latest refresh token is recognised for
// rotation, enforced by the auth service against the credential store.
type TokenService struct {
	config TokenConfig
}

// NewTokenService creates a TokenService from an immutable [TokenConfig].
func NewTokenService(config TokenConfig) (*TokenService, error) {
	if len(config.AccessSecret) == 0 || len(config.RefreshSecret) == 0 {
		return nil, errors.New("sec: both access and refresh signing secrets are required")
	}
	if config.AccessTTL <= 0 || config.RefreshTTL <= 0 {
		return nil, errors.New("sec: token TTLs must be positive")
	}
	return &TokenService{config: config}, nil
}

// AccessTTL exposes the configured access token lifetime (for expires_in responses).
func (service *TokenService) AccessTTL() time.Duration { return service.config.AccessTTL }

// RefreshTTL exposes the configured refresh token lifetime (for cookie expiry).
func (service *TokenService) RefreshTTL() time.Duration { return service.config.RefreshTTL }

/*
Issue produces a signed token of the given kind bound to a user.

Description: Encodes {subject, issuedAt, expiry} plus application claims and
signs with the kind-specific secret. Access tokens use the short expiry,
refresh tokens the long one.

Parameters:
  - subjectID: The login identifier of the account.
  - nickname: The public nickname of the account.
  - role: The role of the account.
  - kind: TokenKind (access or refresh)

Returns:
  - A signed JWT string, or an error if signing fails.
*/
func (service *TokenService) Issue(subjectID, nickname, role string, kind TokenKind) (string, error) {
	secret, timeToLive, err := service.material(kind)
	if err != nil {
		return "", err
	}

	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			// A unique jti guarantees two tokens minted in the same second
			// are still distinguishable, which refresh rotation relies on.
			ID:        uuid.NewString(),
			Subject:   subjectID,
			Issuer:    service.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID:   subjectID,
		Nickname: nickname,
		Role:     role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign %s token: %w", kind, err)
	}

	return signedToken, nil
}

/*
Verify checks signature and expiry of a token of the given kind.

Description: Cryptographically verifies the token against the kind-specific
secret. An expired token fails with [ErrTokenExpired]; any signature or format
problem fails with [ErrTokenInvalid]. A subject is never returned for an
invalid token.

Parameters:
  - tokenString: The raw JWT.
  - kind: TokenKind the token must have been issued as.

Returns:
  - *AuthClaims: Decoded claims including the subject ID.
  - error: ErrTokenExpired, ErrTokenInvalid, or nil.
*/
func (service *TokenService) Verify(tokenString string, kind TokenKind) (*AuthClaims, error) {
	secret, _, err := service.material(kind)
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// VerifyToken checks an access token. It satisfies [middleware.TokenVerifier].
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	return service.Verify(tokenString, TokenKindAccess)
}

// material resolves the secret and TTL for a token kind.
func (service *TokenService) material(kind TokenKind) ([]byte, time.Duration, error) {
	switch kind {
	case TokenKindAccess:
		return service.config.AccessSecret, service.config.AccessTTL, nil
	case TokenKindRefresh:
		return service.config.RefreshSecret, service.config.RefreshTTL, nil
	default:
		return nil, 0, fmt.Errorf("sec: unknown token kind %q", kind)
	}
}
