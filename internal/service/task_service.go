package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chetarea/tarea-api/internal/domain"
	"github.com/chetarea/tarea-api/internal/domain/access"
	"github.com/chetarea/tarea-api/internal/domain/lifecycle"
	"github.com/chetarea/tarea-api/internal/platform/logger"
	"github.com/chetarea/tarea-api/internal/redact"
	"github.com/chetarea/tarea-api/internal/store"
	"github.com/google/uuid"
)

// TaskQuery narrows a task listing.
type TaskQuery struct {
	Status          domain.TaskStatus
	Priority        domain.Priority
	AssignedTo      *uuid.UUID
	IncludeArchived bool
}

// CreateTaskInput holds the fields a client may set when creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    domain.Priority // empty means medium
	AssignedTo  *uuid.UUID
	TagIDs      []uuid.UUID // nil falls back to the creator's default tag
	DueDate     *time.Time
}

// TaskService provides the task board use cases.
type TaskService interface {
	// List returns the tasks visible to actor, newest first. Administrators see every task.
	List(ctx context.Context, actor domain.Actor, query TaskQuery) ([]*domain.Task, error)

	// Get returns a task the actor may read.
	Get(ctx context.Context, actor domain.Actor, taskID uuid.UUID) (*domain.Task, error)

	// Create creates a task in to_do owned by actor.
	Create(ctx context.Context, actor domain.Actor, input CreateTaskInput) (*domain.Task, error)

	// Update applies field changes, including status transitions, through the lifecycle policy.
	Update(ctx context.Context, actor domain.Actor, taskID uuid.UUID, changes lifecycle.Changes) (*domain.Task, error)

	// Delete permanently removes a task. Only its creator or an administrator may delete it.
	Delete(ctx context.Context, actor domain.Actor, taskID uuid.UUID) error

	AddSubtask(ctx context.Context, actor domain.Actor, taskID uuid.UUID, title string) (*domain.Task, error)
	UpdateSubtask(ctx context.Context, actor domain.Actor, taskID, subtaskID uuid.UUID, changes lifecycle.SubtaskChanges) (*domain.Task, error)
	DeleteSubtask(ctx context.Context, actor domain.Actor, taskID, subtaskID uuid.UUID) (*domain.Task, error)

	// AddComment appends a comment and its history entry.
	AddComment(ctx context.Context, actor domain.Actor, taskID uuid.UUID, text string) (*domain.Task, error)

	// Restore moves a task back to to_do and cancels its retention deadline.
	Restore(ctx context.Context, actor domain.Actor, taskID uuid.UUID) (*domain.Task, error)

	// Approve completes a task waiting in pending_review. Administrators only.
	Approve(ctx context.Context, actor domain.Actor, taskID uuid.UUID) (*domain.Task, error)
}

// TaskServiceOption configures optional task service dependencies.
type TaskServiceOption func(*taskServiceImpl)

// WithClock replaces time.Now as the task service's time source.
func WithClock(now func() time.Time) TaskServiceOption {
	return func(s *taskServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

type taskServiceImpl struct {
	tasks  store.TaskStore
	users  store.UserStore
	tags   store.TagStore
	policy lifecycle.Policy
	now    func() time.Time
	logger *slog.Logger
}

var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a TaskService. It panics if a store is nil.
func NewTaskService(
	tasks store.TaskStore,
	users store.UserStore,
	tags store.TagStore,
	policy lifecycle.Policy,
	log *slog.Logger,
	opts ...TaskServiceOption,
) TaskService {
	if tasks == nil {
		panic("tasks store cannot be nil")
	}
	if users == nil {
		panic("users store cannot be nil")
	}
	if tags == nil {
		panic("tags store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	s := &taskServiceImpl{
		tasks:  tasks,
		users:  users,
		tags:   tags,
		policy: policy,
		now:    time.Now,
		logger: log.With(slog.String("component", "task_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *taskServiceImpl) List(ctx context.Context, actor domain.Actor, query TaskQuery) ([]*domain.Task, error) {
	filter := store.TaskFilter{
		Status:          query.Status,
		Priority:        query.Priority,
		AssignedTo:      query.AssignedTo,
		IncludeArchived: query.IncludeArchived,
	}
	if !actor.IsAdmin() {
		filter.VisibleTo = &actor.UserID
	}

	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, NewServiceError("list_tasks", "failed to list tasks", err)
	}
	return tasks, nil
}

func (s *taskServiceImpl) Get(ctx context.Context, actor domain.Actor, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.load(ctx, "get_task", taskID)
	if err != nil {
		return nil, err
	}
	if err := access.CanRead(actor, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskServiceImpl) Create(ctx context.Context, actor domain.Actor, input CreateTaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(actor.UserID, input.Title, s.now())
	if err != nil {
		return nil, err
	}

	task.Description = strings.TrimSpace(input.Description)
	if input.Priority != "" {
		task.Priority = input.Priority
	}
	if input.DueDate != nil {
		due := input.DueDate.UTC()
		task.DueDate = &due
	}

	if input.AssignedTo != nil {
		if err := s.ensureAssignable(ctx, *input.AssignedTo); err != nil {
			return nil, err
		}
		assignee := *input.AssignedTo
		task.AssignedTo = &assignee
	}

	if input.TagIDs == nil {
		if task.TagIDs, err = s.defaultTags(ctx, actor); err != nil {
			return nil, err
		}
	} else {
		if err := s.ensureTagsVisible(ctx, actor, input.TagIDs); err != nil {
			return nil, err
		}
		task.TagIDs = append([]uuid.UUID{}, input.TagIDs...)
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, NewServiceError("create_task", "failed to save task", err)
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", actor.UserID.String()))
	return task, nil
}

func (s *taskServiceImpl) Update(
	ctx context.Context,
	actor domain.Actor,
	taskID uuid.UUID,
	changes lifecycle.Changes,
) (*domain.Task, error) {
	task, err := s.load(ctx, "update_task", taskID)
	if err != nil {
		return nil, err
	}
	if err := access.CanMutate(actor, task); err != nil {
		return nil, err
	}

	if changes.AssignedTo != nil && !task.IsAssignee(*changes.AssignedTo) {
		if err := s.ensureAssignable(ctx, *changes.AssignedTo); err != nil {
			return nil, err
		}
	}
	if changes.TagIDs != nil {
		if err := s.ensureTagsVisible(ctx, actor, changes.TagIDs); err != nil {
			return nil, err
		}
	}

	next, entries, err := s.policy.Apply(*task, changes, actor.UserID, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.save(ctx, "update_task", &next); err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("task updated",
		slog.String("task_id", next.ID.String()),
		slog.Int("history_entries", len(entries)))
	return &next, nil
}

func (s *taskServiceImpl) Delete(ctx context.Context, actor domain.Actor, taskID uuid.UUID) error {
	task, err := s.load(ctx, "delete_task", taskID)
	if err != nil {
		return err
	}
	if err := access.CanDelete(actor, task); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return NewServiceError("delete_task", "failed to delete task", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task deleted",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", actor.UserID.String()))
	return nil
}

func (s *taskServiceImpl) AddSubtask(
	ctx context.Context,
	actor domain.Actor,
	taskID uuid.UUID,
	title string,
) (*domain.Task, error) {
	return s.mutate(ctx, "add_subtask", actor, taskID, func(task domain.Task, now time.Time) (domain.Task, error) {
		next, _, err := lifecycle.AddSubtask(task, title, now)
		return next, err
	})
}

func (s *taskServiceImpl) UpdateSubtask(
	ctx context.Context,
	actor domain.Actor,
	taskID, subtaskID uuid.UUID,
	changes lifecycle.SubtaskChanges,
) (*domain.Task, error) {
	return s.mutate(ctx, "update_subtask", actor, taskID, func(task domain.Task, now time.Time) (domain.Task, error) {
		return lifecycle.UpdateSubtask(task, subtaskID, changes, now)
	})
}

func (s *taskServiceImpl) DeleteSubtask(
	ctx context.Context,
	actor domain.Actor,
	taskID, subtaskID uuid.UUID,
) (*domain.Task, error) {
	return s.mutate(ctx, "delete_subtask", actor, taskID, func(task domain.Task, now time.Time) (domain.Task, error) {
		return lifecycle.DeleteSubtask(task, subtaskID, now)
	})
}

func (s *taskServiceImpl) AddComment(
	ctx context.Context,
	actor domain.Actor,
	taskID uuid.UUID,
	text string,
) (*domain.Task, error) {
	return s.mutate(ctx, "add_comment", actor, taskID, func(task domain.Task, now time.Time) (domain.Task, error) {
		next, _, err := lifecycle.AddComment(task, actor.UserID, text, now)
		return next, err
	})
}

func (s *taskServiceImpl) Restore(ctx context.Context, actor domain.Actor, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.load(ctx, "restore_task", taskID)
	if err != nil {
		return nil, err
	}
	if err := access.CanRestore(actor, task); err != nil {
		return nil, err
	}

	next, _ := s.policy.Restore(*task, actor.UserID, s.now())
	if err := s.save(ctx, "restore_task", &next); err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task restored",
		slog.String("task_id", taskID.String()),
		slog.String("previous_status", string(task.Status)))
	return &next, nil
}

func (s *taskServiceImpl) Approve(ctx context.Context, actor domain.Actor, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.load(ctx, "approve_task", taskID)
	if err != nil {
		return nil, err
	}
	if err := access.CanApprove(actor, task); err != nil {
		return nil, err
	}

	next, _, err := s.policy.Approve(*task, actor.UserID, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, "approve_task", &next); err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task approved",
		slog.String("task_id", taskID.String()),
		slog.Time("auto_delete_at", *next.AutoDeleteAt))
	return &next, nil
}

// mutate loads a task, checks that actor may modify it, applies fn and saves the result.
func (s *taskServiceImpl) mutate(
	ctx context.Context,
	op string,
	actor domain.Actor,
	taskID uuid.UUID,
	fn func(task domain.Task, now time.Time) (domain.Task, error),
) (*domain.Task, error) {
	task, err := s.load(ctx, op, taskID)
	if err != nil {
		return nil, err
	}
	if err := access.CanMutate(actor, task); err != nil {
		return nil, err
	}

	next, err := fn(*task, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, op, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *taskServiceImpl) load(ctx context.Context, op string, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to load task",
				slog.String("operation", op),
				slog.String("task_id", taskID.String()),
				slog.String("error", redact.Error(err)))
		}
		return nil, NewServiceError(op, "failed to load task", err)
	}
	return task, nil
}

func (s *taskServiceImpl) save(ctx context.Context, op string, task *domain.Task) error {
	if err := s.tasks.Update(ctx, task); err != nil {
		return NewServiceError(op, "failed to save task", err)
	}
	return nil
}

// ensureAssignable checks that userID names an existing, active user.
func (s *taskServiceImpl) ensureAssignable(ctx context.Context, userID uuid.UUID) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return ErrAssigneeUnavailable
		}
		return NewServiceError("check_assignee", "failed to load assignee", err)
	}
	if !user.IsActive {
		return ErrAssigneeUnavailable
	}
	return nil
}

func (s *taskServiceImpl) ensureTagsVisible(ctx context.Context, actor domain.Actor, tagIDs []uuid.UUID) error {
	for _, id := range tagIDs {
		tag, err := s.tags.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrTagNotFound) {
				return fmt.Errorf("%w: %s", ErrUnknownTag, id)
			}
			return NewServiceError("check_tags", "failed to load tag", err)
		}
		if access.CanReadTag(actor, tag) != nil {
			return fmt.Errorf("%w: %s", ErrUnknownTag, id)
		}
	}
	return nil
}

// defaultTags returns the creator's default tag when it is still visible to them.
func (s *taskServiceImpl) defaultTags(ctx context.Context, actor domain.Actor) ([]uuid.UUID, error) {
	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, NewServiceError("create_task", "failed to load creator", err)
	}
	if user.DefaultTagID == nil {
		return []uuid.UUID{}, nil
	}
	if err := s.ensureTagsVisible(ctx, actor, []uuid.UUID{*user.DefaultTagID}); err != nil {
		if domain.IsValidationError(err) {
			return []uuid.UUID{}, nil
		}
		return nil, err
	}
	return []uuid.UUID{*user.DefaultTagID}, nil
}
