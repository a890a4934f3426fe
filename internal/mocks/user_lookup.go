package mocks

import (
	"context"

	"github.com/chetarea/tarea-api/internal/domain"
	"github.com/chetarea/tarea-api/internal/store"
	"github.com/google/uuid"
)

// MockUserLookup resolves users by ID for the authentication middleware.
type MockUserLookup struct {
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// Users is searched when GetByIDFn is nil.
	Users map[uuid.UUID]*domain.User
}

// NewMockUserLookup returns a lookup that knows the given users.
func NewMockUserLookup(users ...*domain.User) *MockUserLookup {
	m := &MockUserLookup{Users: make(map[uuid.UUID]*domain.User, len(users))}
	for _, u := range users {
		m.Users[u.ID] = u
	}
	return m
}

// GetByID returns the user or store.ErrUserNotFound.
func (m *MockUserLookup) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if u, ok := m.Users[id]; ok {
		return u, nil
	}
	return nil, store.ErrUserNotFound
}
