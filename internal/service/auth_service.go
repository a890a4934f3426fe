package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/chetarea/tarea-api/internal/domain"
	"github.com/chetarea/tarea-api/internal/platform/logger"
	"github.com/chetarea/tarea-api/internal/service/auth"
	"github.com/chetarea/tarea-api/internal/store"
)

// AuthResult is returned by a successful registration or login.
type AuthResult struct {
	Token string
	User  *domain.User
}

// AuthService registers accounts and exchanges credentials for access tokens.
type AuthService interface {
	// Register creates an active account with the regular user role and signs it in.
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)

	// Login verifies credentials and returns a new access token.
	// Unknown emails, wrong passwords and inactive accounts all yield ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}

type authServiceImpl struct {
	users    UserService
	store    store.UserStore
	jwt      auth.JWTService
	verifier auth.PasswordVerifier
	logger   *slog.Logger
}

var _ AuthService = (*authServiceImpl)(nil)

// NewAuthService creates an AuthService. It panics if a dependency is nil.
func NewAuthService(
	users UserService,
	userStore store.UserStore,
	jwtService auth.JWTService,
	verifier auth.PasswordVerifier,
	log *slog.Logger,
) AuthService {
	if users == nil {
		panic("user service cannot be nil")
	}
	if userStore == nil {
		panic("user store cannot be nil")
	}
	if jwtService == nil {
		panic("jwt service cannot be nil")
	}
	if verifier == nil {
		panic("verifier cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &authServiceImpl{
		users:    users,
		store:    userStore,
		jwt:      jwtService,
		verifier: verifier,
		logger:   log.With(slog.String("component", "auth_service")),
	}
}

func (s *authServiceImpl) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	user, err := s.users.Create(ctx, CreateUserInput{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     domain.RoleUser,
	})
	if err != nil {
		return nil, err
	}

	return s.issue(ctx, "register", user)
}

func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.store.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login attempt for unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, NewServiceError("login", "failed to load user", err)
	}

	if !user.IsActive {
		log.Debug("login attempt for inactive user", slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login attempt with wrong password", slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	return s.issue(ctx, "login", user)
}

func (s *authServiceImpl) issue(ctx context.Context, op string, user *domain.User) (*AuthResult, error) {
	token, err := s.jwt.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, NewServiceError(op, "failed to generate token", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}
