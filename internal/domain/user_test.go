package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser("  Ana  ", "  Ana@Example.COM ", "secret1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if user.Name != "Ana" {
		t.Errorf("Expected trimmed name, got %q", user.Name)
	}
	if user.Email != "ana@example.com" {
		t.Errorf("Expected normalized email, got %q", user.Email)
	}
	if user.Role != RoleUser {
		t.Errorf("Expected role %s, got %s", RoleUser, user.Role)
	}
	if !user.IsActive || !user.AppNotifications || user.EmailNotifications {
		t.Errorf("Unexpected default flags: %+v", user)
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("Expected timestamps to be set")
	}

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		want     error
	}{
		{"empty name", "", "a@b.co", "secret1", ErrEmptyUserName},
		{"long name", strings.Repeat("x", MaxUserNameLength+1), "a@b.co", "secret1", ErrUserNameTooLong},
		{"empty email", "Ana", "", "secret1", ErrEmptyEmail},
		{"invalid email", "Ana", "invalidemail", "secret1", ErrInvalidEmail},
		{"short password", "Ana", "a@b.co", "12345", ErrPasswordTooShort},
		{"long password", "Ana", "a@b.co", strings.Repeat("p", MaxPasswordLength+1), ErrPasswordTooLong},
		{"missing password", "Ana", "a@b.co", "", ErrEmptyHashedPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.userName, tt.email, tt.password)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected error %v, got %v", tt.want, err)
			}
		})
	}
}

func TestUserValidate_HashedPassword(t *testing.T) {
	user := User{
		ID:             uuid.New(),
		Name:           "Ana",
		Email:          "ana@example.com",
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
		Role:           RoleAdmin,
	}

	if err := user.Validate(); err != nil {
		t.Fatalf("Expected valid user, got %v", err)
	}

	user.Role = "owner"
	if err := user.Validate(); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("Expected %v, got %v", ErrInvalidRole, err)
	}
}

func TestUserActor(t *testing.T) {
	user := User{ID: uuid.New(), Role: RoleAdmin}
	actor := user.Actor()

	if actor.UserID != user.ID {
		t.Errorf("Expected actor ID %s, got %s", user.ID, actor.UserID)
	}
	if !actor.IsAdmin() || !user.IsAdmin() {
		t.Error("Expected admin actor")
	}
	if (Actor{Role: RoleUser}).IsAdmin() {
		t.Error("Expected regular actor not to be admin")
	}
}
