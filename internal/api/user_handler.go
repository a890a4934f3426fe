package api

import (
	"log/slog"
	"net/http"

	"github.com/chetarea/tarea-api/internal/api/shared"
	"github.com/chetarea/tarea-api/internal/domain"
	"github.com/chetarea/tarea-api/internal/service"
	"github.com/chetarea/tarea-api/internal/store"
)

// UserHandler handles account administration. Every route is behind RequireAdmin.
type UserHandler struct {
	users  service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users service.UserService, log *slog.Logger) *UserHandler {
	if users == nil {
		panic("users cannot be nil for UserHandler")
	}
	if log == nil {
		log = slog.Default()
	}
	return &UserHandler{
		users:  users,
		logger: log.With(slog.String("component", "user_handler")),
	}
}

// List handles GET /api/users?search=&role=&is_active=.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := getActor(w, r); !ok {
		return
	}

	q := r.URL.Query()
	filter := store.UserFilter{
		Search: q.Get("search"),
		Role:   domain.Role(q.Get("role")),
	}
	if filter.Role != "" && !filter.Role.IsValid() {
		HandleAPIError(w, r, domain.ErrInvalidRole, "")
		return
	}
	active, err := queryBool(r, "is_active")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	filter.IsActive = active

	users, err := h.users.List(r.Context(), filter)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list users")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, usersToResponse(users))
}

// Get handles GET /api/users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := handleActorAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get user")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// Create handles POST /api/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := getActor(w, r); !ok {
		return
	}

	var req CreateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Create(r.Context(), service.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, userToResponse(user))
}

// Update handles PUT /api/users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, userID, ok := handleActorAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tagID, clearTag, err := parseDefaultTag(req.DefaultTagID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := h.users.Update(r.Context(), actor, userID, service.UpdateUserInput{
		Name:            req.Name,
		Email:           req.Email,
		Role:            req.Role,
		IsActive:        req.IsActive,
		Avatar:          req.Avatar,
		DefaultTagID:    tagID,
		ClearDefaultTag: clearTag,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update user")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// Deactivate handles DELETE /api/users/{id}. Accounts are deactivated, never removed.
func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	actor, userID, ok := handleActorAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.users.Deactivate(r.Context(), actor, userID); err != nil {
		HandleAPIError(w, r, err, "Failed to deactivate user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResetPassword handles PUT /api/users/{id}/reset-password.
func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := handleActorAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req ResetPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.users.ResetPassword(r.Context(), userID, req.NewPassword); err != nil {
		HandleAPIError(w, r, err, "Failed to reset password")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
