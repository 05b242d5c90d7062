// Copyright (c) 2026 Triply. All rights reserved.

package dberr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triply-app/triply/internal/platform/apperr"
	"github.com/triply-app/triply/internal/platform/dberr"
)

/*
TestWrap_UniqueViolation verifies that a duplicate-key insert surfaces as a
client-facing Conflict. Concurrent sign-ups racing past the service's
uniqueness pre-checks rely on this mapping: the losing insert must come back
as CONFLICT, never as an internal error.
*/
func TestWrap_UniqueViolation(t *testing.T) {
	driverErr := &pgconn.PgError{
		Code:           pgerrcode.UniqueViolation,
		ConstraintName: "account_login_id_key",
	}

	wrapped := dberr.Wrap(fmt.Errorf("postgres_user_repo_create_failed: %w", driverErr), "create account")

	appError := apperr.As(wrapped)
	require.NotNil(t, appError)
	assert.Equal(t, "CONFLICT", appError.Code)
	assert.Equal(t, http.StatusConflict, appError.HTTPStatus)
}

func TestWrap_ForeignKeyViolation(t *testing.T) {
	driverErr := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}

	wrapped := dberr.Wrap(driverErr, "insert schedule detail")

	appError := apperr.As(wrapped)
	require.NotNil(t, appError)
	assert.Equal(t, "CONFLICT", appError.Code)
}

func TestWrap_NoRows(t *testing.T) {
	wrapped := dberr.Wrap(fmt.Errorf("postgres_user_repo_find_failed: %w", pgx.ErrNoRows), "find account")

	appError := apperr.As(wrapped)
	require.NotNil(t, appError)
	assert.Equal(t, "NOT_FOUND", appError.Code)
	assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
}

// TestWrap_UnknownError keeps driver details out of the client-facing error.
func TestWrap_UnknownError(t *testing.T) {
	wrapped := dberr.Wrap(errors.New("connection reset by peer"), "find account")

	appError := apperr.As(wrapped)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusInternalServerError, appError.HTTPStatus)
	assert.NotContains(t, appError.Message, "connection reset")
}

func TestWrap_NilPassesThrough(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "noop"))
}

func TestIsUniqueViolation(t *testing.T) {
	duplicate := fmt.Errorf("postgres_like_upsert_failed: %w",
		&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	assert.True(t, dberr.IsUniqueViolation(duplicate))
	assert.False(t, dberr.IsUniqueViolation(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}))
	assert.False(t, dberr.IsUniqueViolation(errors.New("plain error")))
	assert.False(t, dberr.IsUniqueViolation(nil))
}
