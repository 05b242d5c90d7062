// Copyright (c) 2026 Triply. All rights reserved.

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/triply-app/triply/internal/platform/apperr"
	"github.com/triply-app/triply/internal/platform/constants"
	"github.com/triply-app/triply/internal/platform/middleware"
	requestutil "github.com/triply-app/triply/internal/platform/request"
	"github.com/triply-app/triply/internal/platform/respond"
	"github.com/triply-app/triply/internal/platform/validate"
)

// Handler implements the account lifecycle HTTP endpoints.
//
// # Architecture
//
// Handlers act as the "gatekeepers" to the system. They are responsible for:
//   - JSON Request parsing and strict input validation.
//   - Mapping HTTP contexts to service layer method calls.
//   - Standardizing JSON response formats via the [respond] package.
//
// They contain NO business logic or database queries.
type Handler struct {
	authService *Service
	refreshTTL  time.Duration
}

// NewHandler constructs a new [Handler].
//
// refreshTTL controls the Max-Age of the refresh token cookie and must match
// the TTL the token service signs refresh tokens with.
func NewHandler(service *Service, refreshTTL time.Duration) *Handler {
	return &Handler{authService: service, refreshTTL: refreshTTL}
}

// Routes returns a [chi.Router] with the account lifecycle endpoints.
//
// # Endpoints
//   - POST   /sign-up            : Creates a new traveller account.
//   - POST   /sign-in            : Authenticates and returns a token pair.
//   - POST   /refresh            : Rotates the refresh token.
//   - GET    /check/id           : Login ID availability probe.
//   - GET    /check/nickname     : Nickname availability probe.
//   - POST   /sign-out           : Revokes the active refresh token.
//   - GET    /me                 : Returns the caller's sanitized profile.
//   - PATCH  /me                 : Partial profile update.
//   - DELETE /me                 : Permanent account removal.
//   - POST   /verify-password    : Re-authentication for sensitive actions.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/sign-up", handler.signUp)
	router.Post("/sign-in", handler.signIn)
	router.Post("/refresh", handler.refresh)
	router.Get("/check/id", handler.checkDuplicateID)
	router.Get("/check/nickname", handler.checkDuplicateNickname)

	// Endpoints below require a verified identity.
	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth())
		protected.Post("/sign-out", handler.signOut)
		protected.Get("/me", handler.myInformation)
		protected.Patch("/me", handler.updateUser)
		protected.Delete("/me", handler.deleteAccount)
		protected.Post("/verify-password", handler.verifyPassword)
	})

	return router
}

// signUpRequest represents the JSON payload expected for account creation.
type signUpRequest struct {
	LoginID      string `json:"id"`
	Password     string `json:"password"`
	Nickname     string `json:"nickname"`
	ProfileImage string `json:"profile_image"`
}

// signUp handles POST /api/v1/auth/sign-up requests.
//
// # Returns
//   - Writes HTTP 201 Created on success with the sanitized profile.
//   - Writes HTTP 400 Bad Request if validation rules fail.
//   - Writes HTTP 409 Conflict if the ID or nickname is taken.
func (handler *Handler) signUp(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input signUpRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	validator := &validate.Validator{}
	validator.
		Required("id", input.LoginID).
		LoginID("id", input.LoginID).
		MaxLen("id", input.LoginID, 30).
		Required("password", input.Password).
		MinLen("password", input.Password, 8).
		Required("nickname", input.Nickname).
		MaxLen("nickname", input.Nickname, 20)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	profile, err := handler.authService.SignUp(request.Context(), SignUpInput{
		LoginID:      input.LoginID,
		Password:     input.Password,
		Nickname:     input.Nickname,
		ProfileImage: input.ProfileImage,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.Created(writer, profile)
}

// signInRequest represents the JSON payload expected for authentication.
type signInRequest struct {
	LoginID  string `json:"id"`
	Password string `json:"password"`
}

// signIn handles POST /api/v1/auth/sign-in requests.
//
// On success the refresh token is delivered twice: in the JSON payload for
// non-browser clients, and as an HttpOnly cookie scoped to the auth routes
// for browsers.
func (handler *Handler) signIn(writer http.ResponseWriter, request *http.Request) {
	var input signInRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.LoginID == "" || input.Password == "" {
		respond.Error(writer, request, validate.RequiredError("id/password", "are required"))
		return
	}

	session, err := handler.authService.SignIn(request.Context(), SignInInput{
		LoginID:  input.LoginID,
		Password: input.Password,
	})
	if err != nil {
		// HTTP 401 without leaking whether the ID or the password was wrong.
		respond.Error(writer, request, err)
		return
	}

	handler.setRefreshCookie(writer, session.Tokens.RefreshToken)

	respond.OK(writer, map[string]any{
		"access_token":  session.Tokens.AccessToken,
		"refresh_token": session.Tokens.RefreshToken,
		"user":          session.User,
	})
}

// refreshRequest is the fallback payload for clients that do not use cookies.
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// refresh handles POST /api/v1/auth/refresh requests.
//
// The refresh token is read from the HttpOnly cookie when present, falling
// back to the JSON body for mobile and CLI clients.
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	refreshToken := ""

	if cookie, err := request.Cookie(constants.RefreshTokenCookieName); err == nil {
		refreshToken = cookie.Value
	}

	if refreshToken == "" {
		var input refreshRequest
		if err := requestutil.DecodeJSON(request, &input); err == nil {
			refreshToken = input.RefreshToken
		}
	}

	if refreshToken == "" {
		respond.Error(writer, request, validate.RequiredError("refresh_token", "is required"))
		return
	}

	session, err := handler.authService.Refresh(request.Context(), refreshToken)
	if err != nil {
		handler.clearRefreshCookie(writer)
		respond.Error(writer, request, err)
		return
	}

	handler.setRefreshCookie(writer, session.Tokens.RefreshToken)

	respond.OK(writer, map[string]any{
		"access_token":  session.Tokens.AccessToken,
		"refresh_token": session.Tokens.RefreshToken,
		"user":          session.User,
	})
}

// signOut handles POST /api/v1/auth/sign-out requests.
func (handler *Handler) signOut(writer http.ResponseWriter, request *http.Request) {
	loginID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.SignOut(request.Context(), loginID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.clearRefreshCookie(writer)
	respond.NoContent(writer)
}

// myInformation handles GET /api/v1/auth/me requests.
func (handler *Handler) myInformation(writer http.ResponseWriter, request *http.Request) {
	loginID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.authService.GetMyInformation(request.Context(), loginID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

// updateUserRequest carries the optional profile mutation fields.
// Absent fields are left untouched; an empty password keeps the current one.
type updateUserRequest struct {
	Password     *string `json:"password"`
	Nickname     *string `json:"nickname"`
	ProfileImage *string `json:"profile_image"`
}

// updateUser handles PATCH /api/v1/auth/me requests.
func (handler *Handler) updateUser(writer http.ResponseWriter, request *http.Request) {
	loginID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if input.Nickname != nil {
		validator.Required("nickname", *input.Nickname).MaxLen("nickname", *input.Nickname, 20)
	}
	if input.Password != nil && *input.Password != "" {
		validator.MinLen("password", *input.Password, 8)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.authService.UpdateUser(request.Context(), loginID, UpdateInput{
		Password:     input.Password,
		Nickname:     input.Nickname,
		ProfileImage: input.ProfileImage,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

// passwordRequest carries a bare password for confirmation endpoints.
type passwordRequest struct {
	Password string `json:"password"`
}

// verifyPassword handles POST /api/v1/auth/verify-password requests.
func (handler *Handler) verifyPassword(writer http.ResponseWriter, request *http.Request) {
	loginID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input passwordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.VerifyPassword(request.Context(), loginID, input.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{"verified": true})
}

// deleteAccount handles DELETE /api/v1/auth/me requests.
//
// The password must be re-presented in the body as a confirmation step.
func (handler *Handler) deleteAccount(writer http.ResponseWriter, request *http.Request) {
	loginID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input passwordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.DeleteAccount(request.Context(), loginID, input.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.clearRefreshCookie(writer)
	respond.NoContent(writer)
}

// checkDuplicateID handles GET /api/v1/auth/check/id?value= requests.
func (handler *Handler) checkDuplicateID(writer http.ResponseWriter, request *http.Request) {
	value := request.URL.Query().Get("value")
	if value == "" {
		respond.Error(writer, request, validate.RequiredError("value", "is required"))
		return
	}

	taken, err := handler.authService.CheckDuplicateID(request.Context(), value)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if taken {
		respond.Error(writer, request, apperr.Conflict("This ID is already registered"))
		return
	}

	respond.OK(writer, map[string]string{"message": "This ID is available"})
}

// checkDuplicateNickname handles GET /api/v1/auth/check/nickname?value= requests.
func (handler *Handler) checkDuplicateNickname(writer http.ResponseWriter, request *http.Request) {
	value := request.URL.Query().Get("value")
	if value == "" {
		respond.Error(writer, request, validate.RequiredError("value", "is required"))
		return
	}

	taken, err := handler.authService.CheckDuplicateNickname(request.Context(), value)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if taken {
		respond.Error(writer, request, apperr.Conflict("This nickname is already taken"))
		return
	}

	respond.OK(writer, map[string]string{"message": "This nickname is available"})
}

// # Cookie Helpers

func (handler *Handler) setRefreshCookie(writer http.ResponseWriter, token string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    token,
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   int(handler.refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (handler *Handler) clearRefreshCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    "",
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}
