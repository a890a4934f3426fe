package store

import (
	"context"
	"database/sql"

	"github.com/chetarea/tarea-api/internal/domain"
	"github.com/google/uuid"
)

// TagStore defines the interface for tag persistence.
type TagStore interface {
	// Create saves a new tag.
	// Returns ErrTagExists if the creator already has a tag with that name.
	Create(ctx context.Context, tag *domain.Tag) error

	// GetByID retrieves a tag by its unique ID.
	// Returns ErrTagNotFound if the tag does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error)

	// List returns tags ordered by name. A non-nil visibleTo restricts the
	// result to that user's tags plus default tags.
	List(ctx context.Context, visibleTo *uuid.UUID) ([]*domain.Tag, error)

	// Update overwrites an existing tag.
	// Returns ErrTagNotFound or ErrTagExists.
	Update(ctx context.Context, tag *domain.Tag) error

	// Delete removes a tag. Users referencing it as their default tag are
	// cleared by the database.
	// Returns ErrTagNotFound if the tag does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new TagStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TagStore
}
