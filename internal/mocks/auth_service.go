package mocks

import (
	"context"

	"github.com/chetarea/tarea-api/internal/service"
)

// MockAuthService implements service.AuthService for testing
type MockAuthService struct {
	RegisterFn func(ctx context.Context, name, email, password string) (*service.AuthResult, error)
	LoginFn    func(ctx context.Context, email, password string) (*service.AuthResult, error)
}

var _ service.AuthService = (*MockAuthService)(nil)

// Register implements service.AuthService
func (m *MockAuthService) Register(ctx context.Context, name, email, password string) (*service.AuthResult, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, name, email, password)
	}
	return nil, nil
}

// Login implements service.AuthService
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.AuthResult, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, email, password)
	}
	return nil, nil
}
