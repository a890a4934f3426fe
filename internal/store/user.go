package store

import (
	"context"
	"database/sql"

	"github.com/chetarea/tarea-api/internal/domain"
	"github.com/google/uuid"
)

// UserFilter narrows a user listing. Zero values mean "no filter".
type UserFilter struct {
	// Search matches name or email, case-insensitively.
	Search   string
	Role     domain.Role
	IsActive *bool
}

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user. The HashedPassword must already be set.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their normalized email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List returns users matching the filter, newest first.
	List(ctx context.Context, filter UserFilter) ([]*domain.User, error)

	// Update replaces every mutable column of an existing user, including HashedPassword.
	// Returns ErrUserNotFound if the user does not exist.
	// Returns ErrEmailExists if updating to an email that already exists.
	Update(ctx context.Context, user *domain.User) error

	// WithTx returns a new UserStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) UserStore
}
