// Copyright (c) 2026 Triply. All rights reserved.

package auth

import (
	"context"
)

// UserRepository defines the data access contract for traveller accounts.
//
// # Review Process
//
// This interface is placed in a separate file from user.go so entity changes
// and storage-contract changes can be reviewed independently by the team.
//
// # Implementations
//
// The canonical implementation for Triply is PostgreSQL ([PostgresUserRepository]).
type UserRepository interface {
	// FindByLoginID returns the account with the given login ID.
	//
	// Returns [apperr.NotFound] if the account does not exist.
	FindByLoginID(ctx context.Context, loginID string) (*User, error)

	// FindByNickname returns the account with the given nickname.
	//
	// Returns [apperr.NotFound] if the nickname is available.
	FindByNickname(ctx context.Context, nickname string) (*User, error)

	// Create persists a brand-new traveller account to the storage.
	//
	// Returns a wrapped error if a unique constraint (login ID / nickname) fails.
	Create(ctx context.Context, user *User) error

	// Update persists changes to the mutable fields of an account
	// (nickname, profile image, password hash).
	Update(ctx context.Context, user *User) error

	// UpdateRefreshToken replaces only the stored refresh token.
	// This is separate from [Update] so token rotation never races with
	// unrelated profile edits. An empty token clears the stored value.
	UpdateRefreshToken(ctx context.Context, loginID, refreshToken string) error

	// Delete permanently removes the account row.
	//
	// Returns [apperr.NotFound] if the account does not exist.
	Delete(ctx context.Context, loginID string) error
}
