// Copyright (c) 2026 Triply. All rights reserved.

package auth

import (
	"context"
	"fmt"

	"github.com/triply-app/triply/internal/platform/apperr"
	"github.com/triply-app/triply/internal/platform/sec"
	"github.com/triply-app/triply/pkg/pointer"
)

// TokenIssuer defines the contract for minting and verifying security tokens.
//
// Both methods are keyed by [sec.TokenKind]: access and refresh tokens are
// signed with independent secrets, so a token of one kind can never be
// verified as the other.
type TokenIssuer interface {
	// Issue creates a signed JWT string for the given account and kind.
	Issue(subjectID, nickname, role string, kind sec.TokenKind) (string, error)

	// Verify parses and validates a token of the given kind.
	//
	// Returns [sec.ErrTokenExpired] or [sec.ErrTokenInvalid] on failure.
	Verify(tokenString string, kind sec.TokenKind) (*sec.AuthClaims, error)
}

// Service implements the traveller account authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, sign-in,
// or token rotation logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	tokenIssuer    TokenIssuer
}

// NewService constructs a new [Service] with its dependencies.
func NewService(userRepo UserRepository, issuer TokenIssuer) *Service {
	return &Service{
		userRepository: userRepo,
		tokenIssuer:    issuer,
	}
}

// SignUpInput holds the data required to enroll a new traveller.
type SignUpInput struct {
	LoginID      string
	Password     string
	Nickname     string
	ProfileImage string
}

// SignUp validates, hashes, and persists a brand new traveller account.
//
// # Parameters
//   - context: Context for the database operation.
//   - input: The user-provided registration details.
//
// # Returns
//   - The [Profile] of the newly created account.
//   - Returns [apperr.Conflict] if the login ID or nickname is already taken.
//
// # Business Rules
//   - Login IDs must be unique.
//   - Nicknames must be unique.
//   - Default role is always 'member'.
func (service *Service) SignUp(context context.Context, input SignUpInput) (*Profile, error) {
	// ── 1. Uniqueness Checks ──────────────────────────────────────────────

	// Verify login ID uniqueness. Return a client-safe Conflict error.
	// Only a clean NOT_FOUND means the ID is free; a failing store must
	// surface as-is rather than let the insert race the constraint.
	taken, err := service.CheckDuplicateID(context, input.LoginID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("This ID is already registered")
	}

	// Verify nickname uniqueness. Return a client-safe Conflict error.
	taken, err = service.CheckDuplicateNickname(context, input.Nickname)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("This nickname is already taken")
	}

	// ── 2. Security ───────────────────────────────────────────────────────

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// ── 3. Entity Construction ────────────────────────────────────────────

	user := &User{
		LoginID:      input.LoginID,
		PasswordHash: hashedPassword,
		Nickname:     input.Nickname,
		ProfileImage: input.ProfileImage,
		Role:         sec.RoleMember, // Rule: Default role is always Member
	}

	// ── 4. Persistence ────────────────────────────────────────────────────

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_sign_up_failed: %w", err)
	}

	profile := user.Profile()
	return &profile, nil
}

// SignInInput defines credentials for an authentication attempt.
type SignInInput struct {
	LoginID  string
	Password string
}

// SignIn validates user credentials and issues a fresh token pair.
//
// # Parameters
//   - context: Context for the database operation.
//   - input: Contains LoginID and plain-text Password.
//
// # Returns
//   - An [AuthSession] containing the token pair and the account profile.
//   - Returns [apperr.Unauthorized] if credentials do not match.
//
// # Flow
//  1. Lookup account by login ID.
//  2. Verify password hash using Bcrypt.
//  3. Issue access and refresh tokens with independent secrets.
//  4. Persist the refresh token on the account row, displacing any prior one.
func (service *Service) SignIn(context context.Context, input SignInInput) (*AuthSession, error) {
	// ── 1. Fetch Account ──────────────────────────────────────────────────

	// Return a generic unauthorized error to prevent ID enumeration attacks.
	user, err := service.userRepository.FindByLoginID(context, input.LoginID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// ── 2. Security Verification ──────────────────────────────────────────

	// Bcrypt comparison is constant-time, mitigating timing attacks.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// ── 3. Token Issuance & Rotation ──────────────────────────────────────

	return service.issueSession(context, user)
}

// Refresh implements the Refresh Token Rotation mechanism.
//
// The presented token must both carry a valid refresh signature AND match the
// token most recently stored for the account. A stale token (already rotated
// away by a later sign-in or refresh) is rejected even when its signature and
// expiry are still valid, which shuts down replay of leaked tokens.
//
// # Returns
//   - A fresh [AuthSession]; the new refresh token displaces the old one.
//   - Returns [apperr.Unauthorized] for any invalid, expired, or stale token.
func (service *Service) Refresh(context context.Context, refreshToken string) (*AuthSession, error) {
	// ── 1. Cryptographic Verification ─────────────────────────────────────

	claims, err := service.tokenIssuer.Verify(refreshToken, sec.TokenKindRefresh)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// ── 2. Stored-Token Comparison ────────────────────────────────────────

	user, err := service.userRepository.FindByLoginID(context, claims.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// Strict rotation: only the latest issued token is ever honoured.
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// ── 3. Rotation ───────────────────────────────────────────────────────

	return service.issueSession(context, user)
}

// SignOut clears the stored refresh token so it can never be redeemed again.
// Signing out an account with no active session is a no-op.
func (service *Service) SignOut(context context.Context, loginID string) error {
	if err := service.userRepository.UpdateRefreshToken(context, loginID, ""); err != nil {
		return fmt.Errorf("auth_service_sign_out_failed: %w", err)
	}
	return nil
}

// GetMyInformation returns the sanitized profile of the authenticated account.
//
// Returns [apperr.Unauthorized] if the account behind the token no longer
// exists, so deleted accounts cannot keep using previously issued tokens.
func (service *Service) GetMyInformation(context context.Context, loginID string) (*Profile, error) {
	user, err := service.userRepository.FindByLoginID(context, loginID)
	if err != nil {
		return nil, apperr.Unauthorized("Account not found")
	}

	profile := user.Profile()
	return &profile, nil
}

// VerifyPassword re-checks the caller's password against the stored hash.
//
// Used as a confirmation step before destructive operations such as profile
// changes or account deletion.
//
// # Returns
//   - nil when the password matches.
//   - [apperr.Unauthorized] when the account is missing or the password is wrong.
func (service *Service) VerifyPassword(context context.Context, loginID, password string) error {
	user, err := service.userRepository.FindByLoginID(context, loginID)
	if err != nil {
		return apperr.Unauthorized("Invalid login credentials")
	}

	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return apperr.Unauthorized("Invalid login credentials")
	}

	return nil
}

// UpdateInput carries the mutable account fields for [Service.UpdateUser].
//
// Nil pointers leave the corresponding field untouched. A nil OR empty
// Password keeps the current hash; the account keeps signing in with the
// old password.
type UpdateInput struct {
	Password     *string
	Nickname     *string
	ProfileImage *string
}

// UpdateUser applies a partial update to the authenticated account.
//
// # Business Rules
//   - An empty password never overwrites the stored hash.
//   - A changed nickname must remain unique across the platform.
//
// # Returns
//   - The updated [Profile].
//   - [apperr.Unauthorized] if the account does not exist.
//   - [apperr.Conflict] if the new nickname is already taken.
func (service *Service) UpdateUser(context context.Context, loginID string, input UpdateInput) (*Profile, error) {
	// ── 1. Fetch Current State ────────────────────────────────────────────

	user, err := service.userRepository.FindByLoginID(context, loginID)
	if err != nil {
		return nil, apperr.Unauthorized("Account not found")
	}

	// ── 2. Field Merging ──────────────────────────────────────────────────

	if nickname := pointer.Val(input.Nickname); nickname != "" && nickname != user.Nickname {
		// Nickname change must preserve global uniqueness.
		if _, err := service.userRepository.FindByNickname(context, nickname); err == nil {
			return nil, apperr.Conflict("This nickname is already taken")
		}
		user.Nickname = nickname
	}

	if input.ProfileImage != nil {
		user.ProfileImage = *input.ProfileImage
	}

	// Empty password means "keep my current password", not "clear it".
	if password := pointer.Val(input.Password); password != "" {
		hashedPassword, err := sec.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
		}
		user.PasswordHash = hashedPassword
	}

	// ── 3. Persistence ────────────────────────────────────────────────────

	if err := service.userRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_update_failed: %w", err)
	}

	profile := user.Profile()
	return &profile, nil
}

// DeleteAccount permanently removes the authenticated traveller's account.
//
// The caller must re-present their password as a confirmation step.
//
// # Returns
//   - [apperr.Unauthorized] if the account is missing or the password is wrong.
func (service *Service) DeleteAccount(context context.Context, loginID, password string) error {
	// Re-authenticate before the destructive operation.
	if err := service.VerifyPassword(context, loginID, password); err != nil {
		return err
	}

	if err := service.userRepository.Delete(context, loginID); err != nil {
		return fmt.Errorf("auth_service_delete_failed: %w", err)
	}

	return nil
}

// CheckDuplicateID reports whether a login ID is already registered.
// Exposed so sign-up forms can validate availability before submission.
func (service *Service) CheckDuplicateID(context context.Context, loginID string) (bool, error) {
	_, err := service.userRepository.FindByLoginID(context, loginID)
	if err == nil {
		return true, nil
	}
	if appError := apperr.As(err); appError != nil && appError.Code == "NOT_FOUND" {
		return false, nil
	}
	return false, fmt.Errorf("auth_service_check_id_failed: %w", err)
}

// CheckDuplicateNickname reports whether a nickname is already taken.
func (service *Service) CheckDuplicateNickname(context context.Context, nickname string) (bool, error) {
	_, err := service.userRepository.FindByNickname(context, nickname)
	if err == nil {
		return true, nil
	}
	if appError := apperr.As(err); appError != nil && appError.Code == "NOT_FOUND" {
		return false, nil
	}
	return false, fmt.Errorf("auth_service_check_nickname_failed: %w", err)
}

// issueSession mints a fresh token pair and persists the refresh token on the
// account row. Shared by [Service.SignIn] and [Service.Refresh] so rotation
// semantics cannot drift between the two entry points.
func (service *Service) issueSession(context context.Context, user *User) (*AuthSession, error) {
	accessToken, err := service.tokenIssuer.Issue(user.LoginID, user.Nickname, string(user.Role), sec.TokenKindAccess)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, err := service.tokenIssuer.Issue(user.LoginID, user.Nickname, string(user.Role), sec.TokenKindRefresh)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	// Persisting the new token implicitly invalidates the previous one.
	if err := service.userRepository.UpdateRefreshToken(context, user.LoginID, refreshToken); err != nil {
		return nil, fmt.Errorf("auth_service_token_rotation_failed: %w", err)
	}

	return &AuthSession{
		Tokens: TokenPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		},
		User: user.Profile(),
	}, nil
}
