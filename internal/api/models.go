package api

import (
	"time"

	"github.com/chetarea/tarea-api/internal/domain"
	"github.com/google/uuid"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest lists the fields a user may change on their own account.
// An empty default_tag_id clears the default tag.
type UpdateProfileRequest struct {
	Name               *string `json:"name"                validate:"omitempty,min=1,max=50"`
	Avatar             *string `json:"avatar"              validate:"omitempty,max=500"`
	DefaultTagID       *string `json:"default_tag_id"`
	EmailNotifications *bool   `json:"email_notifications"`
	AppNotifications   *bool   `json:"app_notifications"`
}

// ChangePasswordRequest defines the payload for changing one's own password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=6,max=72"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse is the public representation of an account.
type UserResponse struct {
	ID                 uuid.UUID   `json:"id"`
	Name               string      `json:"name"`
	Email              string      `json:"email"`
	Role               domain.Role `json:"role"`
	Avatar             string      `json:"avatar"`
	DefaultTagID       *uuid.UUID  `json:"default_tag_id"`
	EmailNotifications bool        `json:"email_notifications"`
	AppNotifications   bool        `json:"app_notifications"`
	IsActive           bool        `json:"is_active"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// CreateUserRequest defines the payload for creating an account as an administrator.
type CreateUserRequest struct {
	Name     string      `json:"name"     validate:"required,max=50"`
	Email    string      `json:"email"    validate:"required,email"`
	Password string      `json:"password" validate:"required,min=6,max=72"`
	Role     domain.Role `json:"role"     validate:"omitempty,oneof=admin user"`
}

// UpdateUserRequest lists the account fields an administrator may change.
type UpdateUserRequest struct {
	Name         *string      `json:"name"           validate:"omitempty,min=1,max=50"`
	Email        *string      `json:"email"          validate:"omitempty,email"`
	Role         *domain.Role `json:"role"           validate:"omitempty,oneof=admin user"`
	IsActive     *bool        `json:"is_active"`
	Avatar       *string      `json:"avatar"         validate:"omitempty,max=500"`
	DefaultTagID *string      `json:"default_tag_id"`
}

// ResetPasswordRequest defines the payload for an administrator password reset.
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6,max=72"`
}

// CreateTaskRequest defines the payload for creating a task.
// Omitting tag_ids applies the creator's default tag.
type CreateTaskRequest struct {
	Title       string          `json:"title"       validate:"required,max=100"`
	Description string          `json:"description" validate:"max=1000"`
	Priority    domain.Priority `json:"priority"    validate:"omitempty,oneof=high medium low"`
	AssignedTo  *uuid.UUID      `json:"assigned_to"`
	TagIDs      []uuid.UUID     `json:"tag_ids"`
	DueDate     *time.Time      `json:"due_date"`
}

// UpdateTaskRequest lists the task fields to change. Absent fields are left
// untouched; an empty tag_ids array removes every tag.
type UpdateTaskRequest struct {
	Title        *string            `json:"title"          validate:"omitempty,max=100"`
	Description  *string            `json:"description"    validate:"omitempty,max=1000"`
	Status       *domain.TaskStatus `json:"status"         validate:"omitempty,oneof=to_do in_progress pending_review done"`
	Priority     *domain.Priority   `json:"priority"       validate:"omitempty,oneof=high medium low"`
	AssignedTo   *uuid.UUID         `json:"assigned_to"`
	TagIDs       []uuid.UUID        `json:"tag_ids"`
	DueDate      *time.Time         `json:"due_date"`
	ClearDueDate bool               `json:"clear_due_date"`
}

// AddSubtaskRequest defines the payload for adding a checklist item.
type AddSubtaskRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}

// UpdateSubtaskRequest lists the subtask fields to change.
type UpdateSubtaskRequest struct {
	Title     *string `json:"title"     validate:"omitempty,max=200"`
	Completed *bool   `json:"completed"`
}

// AddCommentRequest defines the payload for commenting on a task.
type AddCommentRequest struct {
	Text string `json:"text" validate:"required,max=500"`
}

// TaskResponse is the public representation of a task, including its
// derived subtask progress.
type TaskResponse struct {
	ID              uuid.UUID              `json:"id"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	Status          domain.TaskStatus      `json:"status"`
	Priority        domain.Priority        `json:"priority"`
	TagIDs          []uuid.UUID            `json:"tag_ids"`
	AssignedTo      *uuid.UUID             `json:"assigned_to"`
	CreatedBy       uuid.UUID              `json:"created_by"`
	Subtasks        []domain.Subtask       `json:"subtasks"`
	Comments        []domain.Comment       `json:"comments"`
	History         []domain.HistoryEntry  `json:"history"`
	SubtaskProgress domain.SubtaskProgress `json:"subtask_progress"`
	DueDate         *time.Time             `json:"due_date"`
	CompletedAt     *time.Time             `json:"completed_at"`
	AutoDeleteAt    *time.Time             `json:"auto_delete_at"`
	IsArchived      bool                   `json:"is_archived"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// CreateTagRequest defines the payload for creating a tag.
type CreateTagRequest struct {
	Name      string `json:"name"       validate:"required,max=30"`
	Color     string `json:"color"      validate:"omitempty,hexcolor"`
	IsDefault bool   `json:"is_default"`
}

// UpdateTagRequest lists the tag fields to change.
type UpdateTagRequest struct {
	Name      *string `json:"name"       validate:"omitempty,max=30"`
	Color     *string `json:"color"      validate:"omitempty,hexcolor"`
	IsDefault *bool   `json:"is_default"`
}

// TagResponse is the public representation of a tag.
type TagResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedBy uuid.UUID `json:"created_by"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CleanupResponse reports the outcome of an on-demand retention sweep.
type CleanupResponse struct {
	DeletedCount int64 `json:"deleted_count"`
}

// HealthResponse is returned by the liveness endpoint. Uptime is in seconds.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    float64   `json:"uptime"`
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		Name:               u.Name,
		Email:              u.Email,
		Role:               u.Role,
		Avatar:             u.Avatar,
		DefaultTagID:       u.DefaultTagID,
		EmailNotifications: u.EmailNotifications,
		AppNotifications:   u.AppNotifications,
		IsActive:           u.IsActive,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

func usersToResponse(users []*domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userToResponse(u))
	}
	return out
}

func taskToResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:              t.ID,
		Title:           t.Title,
		Description:     t.Description,
		Status:          t.Status,
		Priority:        t.Priority,
		TagIDs:          nonNil(t.TagIDs),
		AssignedTo:      t.AssignedTo,
		CreatedBy:       t.CreatedBy,
		Subtasks:        nonNil(t.Subtasks),
		Comments:        nonNil(t.Comments),
		History:         nonNil(t.History),
		SubtaskProgress: t.SubtaskProgress(),
		DueDate:         t.DueDate,
		CompletedAt:     t.CompletedAt,
		AutoDeleteAt:    t.AutoDeleteAt,
		IsArchived:      t.IsArchived,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToResponse(t))
	}
	return out
}

func tagToResponse(t *domain.Tag) TagResponse {
	return TagResponse{
		ID:        t.ID,
		Name:      t.Name,
		Color:     t.Color,
		CreatedBy: t.CreatedBy,
		IsDefault: t.IsDefault,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func tagsToResponse(tags []*domain.Tag) []TagResponse {
	out := make([]TagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, tagToResponse(t))
	}
	return out
}

// nonNil makes empty collections encode as [] instead of null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
