package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/chetarea/tarea-api/internal/domain"
	"github.com/chetarea/tarea-api/internal/domain/access"
	"github.com/chetarea/tarea-api/internal/platform/logger"
	"github.com/chetarea/tarea-api/internal/redact"
	"github.com/chetarea/tarea-api/internal/service/auth"
	"github.com/chetarea/tarea-api/internal/store"
	"github.com/google/uuid"
)

// CreateUserInput holds the fields an administrator sets on a new account.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role // empty means user
}

// UpdateUserInput lists the account fields an administrator may change. Nil fields are left untouched.
type UpdateUserInput struct {
	Name            *string
	Email           *string
	Role            *domain.Role
	IsActive        *bool
	Avatar          *string
	DefaultTagID    *uuid.UUID
	ClearDefaultTag bool
}

// ProfileInput lists the fields users may change on their own account.
type ProfileInput struct {
	Name               *string
	Avatar             *string
	DefaultTagID       *uuid.UUID
	ClearDefaultTag    bool
	EmailNotifications *bool
	AppNotifications   *bool
}

// UserService provides account management.
type UserService interface {
	// List returns the users matching filter, newest first.
	List(ctx context.Context, filter store.UserFilter) ([]*domain.User, error)

	// Get retrieves a user by their ID.
	Get(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// Create creates an active account with a hashed password.
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)

	// Update changes account fields on behalf of actor.
	Update(ctx context.Context, actor domain.Actor, userID uuid.UUID, input UpdateUserInput) (*domain.User, error)

	// Deactivate marks an account inactive. Accounts are never hard-deleted.
	Deactivate(ctx context.Context, actor domain.Actor, userID uuid.UUID) error

	// ResetPassword replaces a user's password without checking the old one.
	ResetPassword(ctx context.Context, userID uuid.UUID, newPassword string) error

	// UpdateProfile changes the caller's own profile fields.
	UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileInput) (*domain.User, error)

	// ChangePassword replaces the caller's password after verifying the current one.
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
}

type userServiceImpl struct {
	users    store.UserStore
	tags     store.TagStore
	hasher   auth.PasswordHasher
	verifier auth.PasswordVerifier
	logger   *slog.Logger
}

var _ UserService = (*userServiceImpl)(nil)

// NewUserService creates a UserService. It panics if a dependency is nil.
func NewUserService(
	users store.UserStore,
	tags store.TagStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	log *slog.Logger,
) UserService {
	if users == nil {
		panic("users store cannot be nil")
	}
	if tags == nil {
		panic("tags store cannot be nil")
	}
	if hasher == nil {
		panic("hasher cannot be nil")
	}
	if verifier == nil {
		panic("verifier cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &userServiceImpl{
		users:    users,
		tags:     tags,
		hasher:   hasher,
		verifier: verifier,
		logger:   log.With(slog.String("component", "user_service")),
	}
}

func (s *userServiceImpl) List(ctx context.Context, filter store.UserFilter) ([]*domain.User, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, NewServiceError("list_users", "failed to list users", err)
	}
	return users, nil
}

func (s *userServiceImpl) Get(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to retrieve user",
				slog.String("error", redact.Error(err)),
				slog.String("user_id", userID.String()))
		}
		return nil, NewServiceError("get_user", "failed to retrieve user", err)
	}
	return user, nil
}

func (s *userServiceImpl) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(input.Name, input.Email, input.Password)
	if err != nil {
		return nil, err
	}
	if input.Role != "" {
		if !input.Role.IsValid() {
			return nil, domain.ErrInvalidRole
		}
		user.Role = input.Role
	}

	if err := s.setPassword(user, input.Password); err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("attempted to create user with existing email")
		}
		return nil, NewServiceError("create_user", "failed to save user", err)
	}

	log.Info("user created",
		slog.String("user_id", user.ID.String()),
		slog.String("role", string(user.Role)))
	return user, nil
}

func (s *userServiceImpl) Update(
	ctx context.Context,
	actor domain.Actor,
	userID uuid.UUID,
	input UpdateUserInput,
) (*domain.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.IsActive != nil && !*input.IsActive && actor.UserID == userID {
		return nil, ErrCannotDeactivateSelf
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		user.Email = domain.NormalizeEmail(*input.Email)
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Avatar != nil {
		user.Avatar = strings.TrimSpace(*input.Avatar)
	}
	if err := s.applyDefaultTag(ctx, user, input.DefaultTagID, input.ClearDefaultTag); err != nil {
		return nil, err
	}

	if err := s.save(ctx, "update_user", user); err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("user updated",
		slog.String("user_id", userID.String()),
		slog.String("actor_id", actor.UserID.String()))
	return user, nil
}

func (s *userServiceImpl) Deactivate(ctx context.Context, actor domain.Actor, userID uuid.UUID) error {
	if actor.UserID == userID {
		return ErrCannotDeactivateSelf
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !user.IsActive {
		return nil
	}

	user.IsActive = false
	if err := s.save(ctx, "deactivate_user", user); err != nil {
		return err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("user deactivated",
		slog.String("user_id", userID.String()),
		slog.String("actor_id", actor.UserID.String()))
	return nil
}

func (s *userServiceImpl) ResetPassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.setPassword(user, newPassword); err != nil {
		return err
	}
	if err := s.save(ctx, "reset_password", user); err != nil {
		return err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("user password reset",
		slog.String("user_id", userID.String()))
	return nil
}

func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileInput) (*domain.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Avatar != nil {
		user.Avatar = strings.TrimSpace(*input.Avatar)
	}
	if input.EmailNotifications != nil {
		user.EmailNotifications = *input.EmailNotifications
	}
	if input.AppNotifications != nil {
		user.AppNotifications = *input.AppNotifications
	}
	if err := s.applyDefaultTag(ctx, user, input.DefaultTagID, input.ClearDefaultTag); err != nil {
		return nil, err
	}

	if err := s.save(ctx, "update_profile", user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userServiceImpl) ChangePassword(
	ctx context.Context,
	userID uuid.UUID,
	currentPassword, newPassword string,
) error {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.verifier.Compare(user.HashedPassword, currentPassword); err != nil {
		return ErrIncorrectPassword
	}
	if err := s.setPassword(user, newPassword); err != nil {
		return err
	}
	if err := s.save(ctx, "change_password", user); err != nil {
		return err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("user changed password",
		slog.String("user_id", userID.String()))
	return nil
}

// setPassword validates and hashes password into user.HashedPassword.
func (s *userServiceImpl) setPassword(user *domain.User, password string) error {
	if err := domain.ValidatePassword(password); err != nil {
		return err
	}
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return NewServiceError("hash_password", "failed to hash password", err)
	}
	user.HashedPassword = hashed
	user.Password = ""
	return nil
}

// applyDefaultTag sets or clears user's default tag. The tag must be visible to the user.
func (s *userServiceImpl) applyDefaultTag(ctx context.Context, user *domain.User, tagID *uuid.UUID, clear bool) error {
	if clear {
		user.DefaultTagID = nil
		return nil
	}
	if tagID == nil {
		return nil
	}

	tag, err := s.tags.GetByID(ctx, *tagID)
	if err != nil {
		if errors.Is(err, store.ErrTagNotFound) {
			return ErrUnknownTag
		}
		return NewServiceError("set_default_tag", "failed to load tag", err)
	}
	if access.CanReadTag(user.Actor(), tag) != nil {
		return ErrUnknownTag
	}

	id := *tagID
	user.DefaultTagID = &id
	return nil
}

func (s *userServiceImpl) save(ctx context.Context, op string, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return err
	}
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return NewServiceError(op, "failed to save user", err)
	}
	return nil
}
