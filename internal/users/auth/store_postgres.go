// Copyright (c) 2026 Triply. All rights reserved.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/triply-app/triply/internal/platform/apperr"
	"github.com/triply-app/triply/internal/platform/dberr"
)

// PostgresUserRepository implements [UserRepository] on top of pgx.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows or SQLSTATE 23505) are mapped
// to domain-friendly [apperr.AppError] types via [dberr.Wrap] so storage
// details never leak to the client.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates the PostgreSQL implementation of [UserRepository].
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

const userColumns = `idx, login_id, password_hash, nickname, profile_image, role, refresh_token, created_at, updated_at`

// scanUser maps a single account row onto a [User] entity.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	var profileImage, refreshToken *string

	err := row.Scan(
		&user.Idx,
		&user.LoginID,
		&user.PasswordHash,
		&user.Nickname,
		&profileImage,
		&user.Role,
		&refreshToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if profileImage != nil {
		user.ProfileImage = *profileImage
	}
	if refreshToken != nil {
		user.RefreshToken = *refreshToken
	}

	return user, nil
}

// Create persists a new account record into the users.account table.
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			login_id, password_hash, nickname, profile_image, role, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING idx`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	err := repository.pool.QueryRow(ctx, query,
		user.LoginID,
		user.PasswordHash,
		user.Nickname,
		nullIfEmpty(user.ProfileImage),
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.Idx)

	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_user_repo_create_failed: %w", err), "create user")
	}

	return nil
}

// FindByLoginID retrieves an account record by its unique login ID.
func (repository *PostgresUserRepository) FindByLoginID(ctx context.Context, loginID string) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users.account
		WHERE login_id = $1`

	user, err := scanUser(repository.pool.QueryRow(ctx, query, loginID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_login_id_failed: %w", err)
	}

	return user, nil
}

// FindByNickname retrieves an account record by its unique nickname.
func (repository *PostgresUserRepository) FindByNickname(ctx context.Context, nickname string) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users.account
		WHERE nickname = $1`

	user, err := scanUser(repository.pool.QueryRow(ctx, query, nickname))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_nickname_failed: %w", err)
	}

	return user, nil
}

// Update persists changes to the mutable account fields.
func (repository *PostgresUserRepository) Update(ctx context.Context, user *User) error {
	const query = `
		UPDATE users.account
		SET password_hash = $2,
		    nickname = $3,
		    profile_image = $4,
		    updated_at = $5
		WHERE login_id = $1`

	user.UpdatedAt = time.Now()

	tag, err := repository.pool.Exec(ctx, query,
		user.LoginID,
		user.PasswordHash,
		user.Nickname,
		nullIfEmpty(user.ProfileImage),
		user.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_user_repo_update_failed: %w", err), "update user")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// UpdateRefreshToken replaces only the stored refresh token.
// An empty token is persisted as NULL, clearing the active session.
func (repository *PostgresUserRepository) UpdateRefreshToken(ctx context.Context, loginID, refreshToken string) error {
	const query = `
		UPDATE users.account
		SET refresh_token = $2,
		    updated_at = $3
		WHERE login_id = $1`

	tag, err := repository.pool.Exec(ctx, query, loginID, nullIfEmpty(refreshToken), time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_refresh_token_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// Delete permanently removes an account row.
//
// Dependent rows (schedules, comments, likes) are removed by ON DELETE CASCADE
// constraints defined in the schema migrations.
func (repository *PostgresUserRepository) Delete(ctx context.Context, loginID string) error {
	const query = `DELETE FROM users.account WHERE login_id = $1`

	tag, err := repository.pool.Exec(ctx, query, loginID)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_user_repo_delete_failed: %w", err), "delete user")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// nullIfEmpty converts zero-value strings into SQL NULLs.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
