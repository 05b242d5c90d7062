// Copyright (c) 2026 Triply. All rights reserved.

// Package auth defines the traveller account entity and its authentication
// lifecycle: registration, credential sign-in, token refresh, profile
// maintenance and account removal.
//
// # Architecture
//
// Entities in this package represent the "Truth" of the system.
// They have no dependencies on outer layers (like databases, APIs, or libraries).
// This makes the core logic highly testable and resilient to technology changes.
package auth

import (
	"time"

	"github.com/triply-app/triply/internal/platform/sec"
)

// User represents a registered traveller of the Triply platform.
//
// # Rules
//   - LoginID is unique and chosen by the user at sign-up.
//   - Nickname is unique across the platform.
//   - PasswordHash is generated via Bcrypt exclusively by the Service.
//   - RefreshToken mirrors the latest refresh token issued to this account;
//     a presented refresh token that differs from it is rejected.
type User struct {
	Idx          int64        `json:"-"` // Internal surrogate key. Never exposed.
	LoginID      string       `json:"id"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	Nickname     string       `json:"nickname"`
	ProfileImage string       `json:"profile_image,omitempty"`
	Role         sec.UserRole `json:"role"`
	RefreshToken string       `json:"-"` // Latest issued refresh token. Omitted for security.
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Profile is the client-facing projection of a [User].
//
// # Security Concept
//
// Credential material (password hash, refresh token) and internal identifiers
// never leave the service layer. Handlers only ever see a Profile, so a new
// field added to [User] is private by default until it is deliberately
// projected here.
type Profile struct {
	LoginID      string    `json:"id"`
	Nickname     string    `json:"nickname"`
	ProfileImage string    `json:"profile_image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile strips credential material and internal identifiers from the user.
func (u *User) Profile() Profile {
	return Profile{
		LoginID:      u.LoginID,
		Nickname:     u.Nickname,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// TokenPair bundles the two JWTs issued on successful authentication.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthSession is the full result of a sign-in or refresh operation.
type AuthSession struct {
	Tokens TokenPair
	User   Profile
}
