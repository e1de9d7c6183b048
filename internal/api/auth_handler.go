package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/fintrack/fintrack-api/internal/api/shared"
	"github.com/fintrack/fintrack-api/internal/domain"
	"github.com/fintrack/fintrack-api/internal/service"
	"github.com/fintrack/fintrack-api/internal/service/auth"
	"github.com/fintrack/fintrack-api/internal/store"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userService      service.UserService
	userStore        store.UserStore
	tokenService     auth.TokenService
	passwordVerifier auth.PasswordVerifier
	validator        *validator.Validate
	logger           *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userService service.UserService,
	userStore store.UserStore,
	tokenService auth.TokenService,
	passwordVerifier auth.PasswordVerifier,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		userService:      userService,
		userStore:        userStore,
		tokenService:     tokenService,
		passwordVerifier: passwordVerifier,
		validator:        validator.New(),
		logger:           logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles the POST /auth/registro endpoint.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.userService.Register(r.Context(), req.Name, req.Email, req.Password, domain.Role(req.Role))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, RegisterResponse{
		Message: "user registered successfully",
		User:    newUserResponse(user),
	})
}

// Login handles the POST /auth/login endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	// A missing user and a wrong password are indistinguishable to the
	// client.
	user, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to authenticate user", err)
		return
	}

	if !user.Active {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.tokenService.Generate(r.Context(), user.Email, user.ID, user.Role)
	if err != nil {
		h.logger.Error("failed to generate token",
			slog.String("error", err.Error()),
			slog.Int64("user_id", user.ID))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{
		Token:     token,
		User:      newUserResponse(user),
		ExpiresIn: int64(h.tokenService.Lifetime().Seconds()),
	})
}

// ValidateToken handles the POST /auth/validar-token endpoint.
// It always responds 200: failures of any kind yield {"valid": false}. On
// success the user is re-resolved by the token subject, so a deactivated
// user's otherwise-valid token is reported as invalid.
func (h *AuthHandler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest

	if err := shared.DecodeJSON(r, &req); err != nil || req.Token == "" {
		shared.RespondWithJSON(w, r, http.StatusOK, ValidateTokenResponse{Valid: false})
		return
	}

	claims, err := h.tokenService.Validate(r.Context(), req.Token)
	if err != nil {
		shared.RespondWithJSON(w, r, http.StatusOK, ValidateTokenResponse{Valid: false})
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), claims.Email)
	if err != nil || !user.Active {
		shared.RespondWithJSON(w, r, http.StatusOK, ValidateTokenResponse{Valid: false})
		return
	}

	userResp := newUserResponse(user)
	shared.RespondWithJSON(w, r, http.StatusOK, ValidateTokenResponse{
		Valid:         true,
		User:          &userResp,
		RemainingTime: h.tokenService.RemainingTime(claims).Milliseconds(),
	})
}

// RefreshToken handles the POST /auth/refresh endpoint.
// A valid token yields a brand-new token; the old one stays usable until it
// expires, since there is no revocation.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	claims, err := h.tokenService.Validate(r.Context(), req.Token)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	// Re-resolve the user so a deactivated account cannot refresh.
	user, err := h.userStore.GetByEmail(r.Context(), claims.Email)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
		return
	}
	if !user.Active {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
		return
	}

	token, err := h.tokenService.Generate(r.Context(), user.Email, user.ID, user.Role)
	if err != nil {
		h.logger.Error("failed to refresh token",
			slog.String("error", err.Error()),
			slog.Int64("user_id", user.ID))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RefreshResponse{
		Token:     token,
		ExpiresIn: int64(h.tokenService.Lifetime().Seconds()),
	})
}
