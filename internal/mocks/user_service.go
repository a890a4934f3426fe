package mocks

import (
	"context"

	"github.com/chetarea/tarea-api/internal/domain"
	"github.com/chetarea/tarea-api/internal/service"
	"github.com/chetarea/tarea-api/internal/store"
	"github.com/google/uuid"
)

// MockUserService implements service.UserService for testing
type MockUserService struct {
	ListFn           func(ctx context.Context, filter store.UserFilter) ([]*domain.User, error)
	GetFn            func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	CreateFn         func(ctx context.Context, input service.CreateUserInput) (*domain.User, error)
	UpdateFn         func(ctx context.Context, actor domain.Actor, userID uuid.UUID, input service.UpdateUserInput) (*domain.User, error)
	DeactivateFn     func(ctx context.Context, actor domain.Actor, userID uuid.UUID) error
	ResetPasswordFn  func(ctx context.Context, userID uuid.UUID, newPassword string) error
	UpdateProfileFn  func(ctx context.Context, userID uuid.UUID, input service.ProfileInput) (*domain.User, error)
	ChangePasswordFn func(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
}

var _ service.UserService = (*MockUserService)(nil)

func (m *MockUserService) List(ctx context.Context, filter store.UserFilter) ([]*domain.User, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	return nil, nil
}

func (m *MockUserService) Get(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, userID)
	}
	return nil, nil
}

func (m *MockUserService) Create(ctx context.Context, input service.CreateUserInput) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, input)
	}
	return nil, nil
}

func (m *MockUserService) Update(
	ctx context.Context,
	actor domain.Actor,
	userID uuid.UUID,
	input service.UpdateUserInput,
) (*domain.User, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, actor, userID, input)
	}
	return nil, nil
}

func (m *MockUserService) Deactivate(ctx context.Context, actor domain.Actor, userID uuid.UUID) error {
	if m.DeactivateFn != nil {
		return m.DeactivateFn(ctx, actor, userID)
	}
	return nil
}

func (m *MockUserService) ResetPassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	if m.ResetPasswordFn != nil {
		return m.ResetPasswordFn(ctx, userID, newPassword)
	}
	return nil
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID uuid.UUID, input service.ProfileInput) (*domain.User, error) {
	if m.UpdateProfileFn != nil {
		return m.UpdateProfileFn(ctx, userID, input)
	}
	return nil, nil
}

func (m *MockUserService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	if m.ChangePasswordFn != nil {
		return m.ChangePasswordFn(ctx, userID, currentPassword, newPassword)
	}
	return nil
}
