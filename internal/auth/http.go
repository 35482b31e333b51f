// Copyright (c) 2026 Doh. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/doh/internal/platform/apperr"
	"github.com/taibuivan/doh/internal/platform/constants"
	requestutil "github.com/taibuivan/doh/internal/platform/request"
	"github.com/taibuivan/doh/internal/platform/respond"
	"github.com/taibuivan/doh/internal/platform/validate"
)

// errMissingRefreshToken is returned when the refresh cookie is absent.
// It is deliberately identical in shape to a rejected token.
var errMissingRefreshToken = apperr.Unauthorized("Invalid or expired refresh token")

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the user lifecycle entry points: registration, login,
// session refresh, logout, and the identity check used by clients to verify
// their stored token on startup.
type Handler struct {
	authService *Service
	secureCooky bool
}

// NewHandler constructs a new [Handler] with its service dependency.
// secureCookies controls the Secure attribute on the refresh-token cookie
// and should be enabled everywhere except local development.
func NewHandler(service *Service, secureCookies bool) *Handler {
	return &Handler{authService: service, secureCooky: secureCookies}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register : Creates a new account.
//   - POST /login    : Authenticates and returns a JWT.
//   - POST /refresh  : Rotates the refresh session and re-issues a JWT.
//   - POST /logout   : Revokes the refresh session.
//   - GET  /me       : Returns the profile behind the presented JWT.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)
	router.Get("/me", handler.me)

	return router
}

// registerRequest represents the JSON payload expected for account creation.
type registerRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

/*
POST /api/v1/auth/register.

Description: Creates a new account with the default member role.

Request (Body):
  - registerRequest JSON object

Response:
  - 201: User: The created profile (password hash omitted)
  - 400: Validation: Input rules failed
  - 409: ErrConflict: Email or username already taken
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	// Keep malformed data out of the service layer.
	if input.Username == "" || len(input.Username) < 3 {
		respond.Error(writer, request, validate.RequiredError("username", "must be at least 3 characters"))
		return
	}
	if input.Email == "" {
		respond.Error(writer, request, validate.RequiredError("email", "is required"))
		return
	}
	if input.Password == "" || len(input.Password) < 8 {
		respond.Error(writer, request, validate.RequiredError("password", "must be at least 8 characters"))
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Username:    input.Username,
		Email:       input.Email,
		Password:    input.Password,
		DisplayName: input.DisplayName,
	})

	// Service handles uniqueness checks and Bcrypt hashing. Domain errors
	// map to HTTP status codes inside the respond helper.
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.Created(writer, user)
}

// loginRequest represents the JSON payload expected for authentication.
type loginRequest struct {
	Login    string `json:"login"` // Can be Username or Email
	Password string `json:"password"`
}

/*
POST /api/v1/auth/login.

Description: Authenticates credentials, sets the refresh-token cookie, and
returns a short-lived access token with the user profile.

Request (Body):
  - loginRequest JSON object

Response:
  - 200: access_token + user
  - 401: ErrUnauthorized: Bad credentials (reason never disclosed)
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	if input.Login == "" || input.Password == "" {
		respond.Error(writer, request, validate.RequiredError("login/password", "are required"))
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Login:     input.Login,
		Password:  input.Password,
		UserAgent: request.UserAgent(),
		IPAddress: request.RemoteAddr,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	handler.setRefreshCookie(writer, session.RefreshToken, session.RefreshTokenExpiresAt)

	respond.OK(writer, map[string]any{
		"access_token": session.AccessToken,
		"user":         session.User,
	})
}

/*
POST /api/v1/auth/refresh.

Description: Rotates the refresh session held in the cookie and returns a
fresh access token. The old refresh token is revoked first, so a replayed
cookie fails.

Response:
  - 200: access_token + user
  - 401: ErrUnauthorized: Missing, expired, or revoked refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	refreshToken, err := handler.refreshTokenFromCookie(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.RefreshSession(
		request.Context(), refreshToken, request.UserAgent(), request.RemoteAddr)
	if err != nil {
		// Clear the stale cookie so the client stops retrying a dead token.
		handler.clearRefreshCookie(writer)
		respond.Error(writer, request, err)
		return
	}

	handler.setRefreshCookie(writer, session.RefreshToken, session.RefreshTokenExpiresAt)

	respond.OK(writer, map[string]any{
		"access_token": session.AccessToken,
		"user":         session.User,
	})
}

/*
POST /api/v1/auth/logout.

Description: Revokes the refresh session and clears the cookie. Idempotent:
logging out without a live session still succeeds.

Response:
  - 204: No Content
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if refreshToken, err := handler.refreshTokenFromCookie(request); err == nil {
		if err := handler.authService.Logout(request.Context(), refreshToken); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	handler.clearRefreshCookie(writer)
	respond.NoContent(writer)
}

/*
GET /api/v1/auth/me.

Description: Returns the profile behind the presented access token. Clients
call this on startup to verify a remembered token is still usable.

Response:
  - 200: User: The authenticated profile
  - 401: ErrUnauthorized: Missing or invalid token, or account gone
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// ── Refresh Cookie Plumbing ──────────────────────────────────────────────────

// refreshTokenFromCookie extracts the refresh token, translating a missing
// cookie into the generic unauthorized error.
func (handler *Handler) refreshTokenFromCookie(request *http.Request) (string, error) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		return "", errMissingRefreshToken
	}
	return cookie.Value, nil
}

func (handler *Handler) setRefreshCookie(writer http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    token,
		Path:     constants.RefreshTokenCookiePath,
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   handler.secureCooky,
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
		Secure:   handler.secureCooky,
		SameSite: http.SameSiteStrictMode,
	})
}
