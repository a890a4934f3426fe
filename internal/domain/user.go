package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Role determines what a user may do beyond their own tasks.
type Role string

// Possible roles
const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Field limits
const (
	MaxUserNameLength = 50
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

// Common validation errors
var (
	ErrEmptyUserID         = fmt.Errorf("%w: user ID cannot be empty", ErrValidation)
	ErrEmptyUserName       = fmt.Errorf("%w: name cannot be empty", ErrValidation)
	ErrUserNameTooLong     = fmt.Errorf("%w: name exceeds %d characters", ErrValidation, MaxUserNameLength)
	ErrInvalidEmail        = fmt.Errorf("%w: invalid email format", ErrValidation)
	ErrEmptyEmail          = fmt.Errorf("%w: email cannot be empty", ErrValidation)
	ErrPasswordTooShort    = fmt.Errorf("%w: password must be at least %d characters long", ErrValidation, MinPasswordLength)
	ErrPasswordTooLong     = fmt.Errorf("%w: password must be at most %d characters long", ErrValidation, MaxPasswordLength)
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
	ErrInvalidRole         = fmt.Errorf("%w: invalid role", ErrValidation)
)

var validate = validator.New()

// User is a member of the team board.
type User struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	Password           string     `json:"-"` // Plaintext, only present until hashed
	HashedPassword     string     `json:"-"`
	Role               Role       `json:"role"`
	Avatar             string     `json:"avatar"`
	DefaultTagID       *uuid.UUID `json:"default_tag_id"`
	EmailNotifications bool       `json:"email_notifications"`
	AppNotifications   bool       `json:"app_notifications"`
	IsActive           bool       `json:"is_active"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// NewUser creates an active user with the regular role.
// The email is trimmed and lowercased; the caller hashes the password before storage.
func NewUser(name, email, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:               uuid.New(),
		Name:             strings.TrimSpace(name),
		Email:            NormalizeEmail(email),
		Password:         password,
		Role:             RoleUser,
		AppNotifications: true,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if u.Name == "" {
		return ErrEmptyUserName
	}
	if len([]rune(u.Name)) > MaxUserNameLength {
		return ErrUserNameTooLong
	}
	if err := ValidateEmail(u.Email); err != nil {
		return err
	}
	if !u.Role.IsValid() {
		return ErrInvalidRole
	}

	if u.Password != "" {
		return ValidatePassword(u.Password)
	}
	if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}

	return nil
}

// ValidateEmail checks a normalized email address.
func ValidateEmail(email string) error {
	if email == "" {
		return ErrEmptyEmail
	}
	if err := validate.Var(email, "email"); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword checks plaintext password length.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}

// IsAdmin reports whether the user holds the administrator role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Actor returns the identity used for authorization decisions.
func (u *User) Actor() Actor {
	return Actor{UserID: u.ID, Role: u.Role}
}

// Actor is the authenticated identity performing an operation.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

// IsAdmin reports whether the actor holds the administrator role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
