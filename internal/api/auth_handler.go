package api

import (
	"log/slog"
	"net/http"

	"github.com/chetarea/tarea-api/internal/api/shared"
	"github.com/chetarea/tarea-api/internal/platform/logger"
	"github.com/chetarea/tarea-api/internal/service"
)

// AuthHandler handles registration, login and the caller's own account.
type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(authService service.AuthService, userService service.UserService, log *slog.Logger) *AuthHandler {
	if authService == nil {
		panic("authService cannot be nil for AuthHandler")
	}
	if userService == nil {
		panic("userService cannot be nil for AuthHandler")
	}
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{
		authService: authService,
		userService: userService,
		logger:      log.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.authService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		Token: result.Token,
		User:  userToResponse(result.User),
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		Token: result.Token,
		User:  userToResponse(result.User),
	})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := getActor(w, r)
	if !ok {
		return
	}

	user, err := h.userService.Get(r.Context(), actor.UserID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load profile")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// UpdateProfile handles PUT /api/auth/profile.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := getActor(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tagID, clearTag, err := parseDefaultTag(req.DefaultTagID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), actor.UserID, service.ProfileInput{
		Name:               req.Name,
		Avatar:             req.Avatar,
		DefaultTagID:       tagID,
		ClearDefaultTag:    clearTag,
		EmailNotifications: req.EmailNotifications,
		AppNotifications:   req.AppNotifications,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update profile")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// ChangePassword handles PUT /api/auth/password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	actor, ok := getActor(w, r)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	err := h.userService.ChangePassword(r.Context(), actor.UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to change password")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("password changed",
		slog.String("user_id", actor.UserID.String()))
	w.WriteHeader(http.StatusNoContent)
}
