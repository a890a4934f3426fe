package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/chetarea/tarea-api/internal/domain"
	"github.com/google/uuid"
)

// TaskFilter narrows a task listing. Zero values mean "no filter".
type TaskFilter struct {
	// VisibleTo restricts results to tasks the user created or is assigned to.
	// Nil lists every task (administrators).
	VisibleTo       *uuid.UUID
	Status          domain.TaskStatus
	Priority        domain.Priority
	AssignedTo      *uuid.UUID
	IncludeArchived bool
}

// TaskStore defines the interface for task persistence. A task is stored as a
// single record with its subtasks, comments and history embedded, so every
// method reads or writes the whole task at once.
type TaskStore interface {
	// Create saves a new task.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List returns tasks matching the filter, newest first.
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)

	// Update overwrites an existing task. Concurrent updates are last-write-wins.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete permanently removes a task.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteExpired permanently removes, in one statement, every task that is
	// done and whose AutoDeleteAt is at or before now. It returns the number of
	// deleted tasks.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	// RemoveTag detaches a tag from every task that references it.
	RemoveTag(ctx context.Context, tagID uuid.UUID) error

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
