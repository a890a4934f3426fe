package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/chetarea/tarea-api/internal/domain"
	"github.com/chetarea/tarea-api/internal/domain/access"
	"github.com/chetarea/tarea-api/internal/platform/logger"
	"github.com/chetarea/tarea-api/internal/redact"
	"github.com/chetarea/tarea-api/internal/store"
	"github.com/google/uuid"
)

// CreateTagInput holds the fields of a new tag.
type CreateTagInput struct {
	Name      string
	Color     string // empty means domain.DefaultTagColor
	IsDefault bool
}

// TagChanges lists the tag fields to modify. Nil fields are left untouched.
type TagChanges struct {
	Name      *string
	Color     *string
	IsDefault *bool
}

// TagService manages the labels users attach to tasks.
type TagService interface {
	// List returns the actor's tags plus default tags; administrators see every tag.
	List(ctx context.Context, actor domain.Actor) ([]*domain.Tag, error)
	Get(ctx context.Context, actor domain.Actor, tagID uuid.UUID) (*domain.Tag, error)
	Create(ctx context.Context, actor domain.Actor, input CreateTagInput) (*domain.Tag, error)
	Update(ctx context.Context, actor domain.Actor, tagID uuid.UUID, changes TagChanges) (*domain.Tag, error)

	// Delete removes the tag and detaches it from every task in one transaction.
	Delete(ctx context.Context, actor domain.Actor, tagID uuid.UUID) error
}

type tagServiceImpl struct {
	tags   store.TagStore
	tasks  store.TaskStore
	db     *sql.DB
	logger *slog.Logger
}

var _ TagService = (*tagServiceImpl)(nil)

// NewTagService creates a TagService. It panics if a dependency is nil.
func NewTagService(tags store.TagStore, tasks store.TaskStore, db *sql.DB, log *slog.Logger) TagService {
	if tags == nil {
		panic("tags store cannot be nil")
	}
	if tasks == nil {
		panic("tasks store cannot be nil")
	}
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &tagServiceImpl{
		tags:   tags,
		tasks:  tasks,
		db:     db,
		logger: log.With(slog.String("component", "tag_service")),
	}
}

func (s *tagServiceImpl) List(ctx context.Context, actor domain.Actor) ([]*domain.Tag, error) {
	var visibleTo *uuid.UUID
	if !actor.IsAdmin() {
		visibleTo = &actor.UserID
	}

	tags, err := s.tags.List(ctx, visibleTo)
	if err != nil {
		return nil, NewServiceError("list_tags", "failed to list tags", err)
	}
	return tags, nil
}

func (s *tagServiceImpl) Get(ctx context.Context, actor domain.Actor, tagID uuid.UUID) (*domain.Tag, error) {
	tag, err := s.load(ctx, "get_tag", tagID)
	if err != nil {
		return nil, err
	}
	if err := access.CanReadTag(actor, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *tagServiceImpl) Create(ctx context.Context, actor domain.Actor, input CreateTagInput) (*domain.Tag, error) {
	if input.IsDefault {
		if err := access.CanSetDefaultTag(actor); err != nil {
			return nil, err
		}
	}

	tag, err := domain.NewTag(actor.UserID, input.Name, input.Color)
	if err != nil {
		return nil, err
	}
	tag.IsDefault = input.IsDefault

	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, NewServiceError("create_tag", "failed to save tag", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("tag created",
		slog.String("tag_id", tag.ID.String()),
		slog.Bool("is_default", tag.IsDefault))
	return tag, nil
}

func (s *tagServiceImpl) Update(
	ctx context.Context,
	actor domain.Actor,
	tagID uuid.UUID,
	changes TagChanges,
) (*domain.Tag, error) {
	tag, err := s.load(ctx, "update_tag", tagID)
	if err != nil {
		return nil, err
	}
	if err := access.CanMutateTag(actor, tag); err != nil {
		return nil, err
	}
	if changes.IsDefault != nil && *changes.IsDefault != tag.IsDefault {
		if err := access.CanSetDefaultTag(actor); err != nil {
			return nil, err
		}
		tag.IsDefault = *changes.IsDefault
	}

	if changes.Name != nil {
		tag.Name = strings.TrimSpace(*changes.Name)
	}
	if changes.Color != nil {
		tag.Color = *changes.Color
	}
	if err := tag.Validate(); err != nil {
		return nil, err
	}

	tag.UpdatedAt = time.Now().UTC()
	if err := s.tags.Update(ctx, tag); err != nil {
		return nil, NewServiceError("update_tag", "failed to save tag", err)
	}
	return tag, nil
}

func (s *tagServiceImpl) Delete(ctx context.Context, actor domain.Actor, tagID uuid.UUID) error {
	tag, err := s.load(ctx, "delete_tag", tagID)
	if err != nil {
		return err
	}
	if err := access.CanDeleteTag(actor, tag); err != nil {
		return err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.tasks.WithTx(tx).RemoveTag(ctx, tagID); err != nil {
			return err
		}
		return s.tags.WithTx(tx).Delete(ctx, tagID)
	})
	if err != nil {
		return NewServiceError("delete_tag", "failed to delete tag", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("tag deleted",
		slog.String("tag_id", tagID.String()),
		slog.String("user_id", actor.UserID.String()))
	return nil
}

func (s *tagServiceImpl) load(ctx context.Context, op string, tagID uuid.UUID) (*domain.Tag, error) {
	tag, err := s.tags.GetByID(ctx, tagID)
	if err != nil {
		if !errors.Is(err, store.ErrTagNotFound) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to load tag",
				slog.String("operation", op),
				slog.String("tag_id", tagID.String()),
				slog.String("error", redact.Error(err)))
		}
		return nil, NewServiceError(op, "failed to load tag", err)
	}
	return tag, nil
}
