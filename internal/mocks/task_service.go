package mocks

import (
	"context"

	"github.com/chetarea/tarea-api/internal/domain"
	"github.com/chetarea/tarea-api/internal/domain/lifecycle"
	"github.com/chetarea/tarea-api/internal/service"
	"github.com/google/uuid"
)

// MockTaskService implements service.TaskService for testing
type MockTaskService struct {
	ListFn          func(ctx context.Context, actor domain.Actor, query service.TaskQuery) ([]*domain.Task, error)
	GetFn           func(ctx context.Context, actor domain.Actor, taskID uuid.UUID) (*domain.Task, error)
	CreateFn        func(ctx context.Context, actor domain.Actor, input service.CreateTaskInput) (*domain.Task, error)
	UpdateFn        func(ctx context.Context, actor domain.Actor, taskID uuid.UUID, changes lifecycle.Changes) (*domain.Task, error)
	DeleteFn        func(ctx context.Context, actor domain.Actor, taskID uuid.UUID) error
	AddSubtaskFn    func(ctx context.Context, actor domain.Actor, taskID uuid.UUID, title string) (*domain.Task, error)
	UpdateSubtaskFn func(ctx context.Context, actor domain.Actor, taskID, subtaskID uuid.UUID, changes lifecycle.SubtaskChanges) (*domain.Task, error)
	DeleteSubtaskFn func(ctx context.Context, actor domain.Actor, taskID, subtaskID uuid.UUID) (*domain.Task, error)
	AddCommentFn    func(ctx context.Context, actor domain.Actor, taskID uuid.UUID, text string) (*domain.Task, error)
	RestoreFn       func(ctx context.Context, actor domain.Actor, taskID uuid.UUID) (*domain.Task, error)
	ApproveFn       func(ctx context.Context, actor domain.Actor, taskID uuid.UUID) (*domain.Task, error)
}

var _ service.TaskService = (*MockTaskService)(nil)

func (m *MockTaskService) List(ctx context.Context, actor domain.Actor, query service.TaskQuery) ([]*domain.Task, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, actor, query)
	}
	return nil, nil
}

func (m *MockTaskService) Get(ctx context.Context, actor domain.Actor, taskID uuid.UUID) (*domain.Task, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, actor, taskID)
	}
	return nil, nil
}

func (m *MockTaskService) Create(ctx context.Context, actor domain.Actor, input service.CreateTaskInput) (*domain.Task, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, actor, input)
	}
	return nil, nil
}

func (m *MockTaskService) Update(
	ctx context.Context,
	actor domain.Actor,
	taskID uuid.UUID,
	changes lifecycle.Changes,
) (*domain.Task, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, actor, taskID, changes)
	}
	return nil, nil
}

func (m *MockTaskService) Delete(ctx context.Context, actor domain.Actor, taskID uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, actor, taskID)
	}
	return nil
}

func (m *MockTaskService) AddSubtask(ctx context.Context, actor domain.Actor, taskID uuid.UUID, title string) (*domain.Task, error) {
	if m.AddSubtaskFn != nil {
		return m.AddSubtaskFn(ctx, actor, taskID, title)
	}
	return nil, nil
}

func (m *MockTaskService) UpdateSubtask(
	ctx context.Context,
	actor domain.Actor,
	taskID, subtaskID uuid.UUID,
	changes lifecycle.SubtaskChanges,
) (*domain.Task, error) {
	if m.UpdateSubtaskFn != nil {
		return m.UpdateSubtaskFn(ctx, actor, taskID, subtaskID, changes)
	}
	return nil, nil
}

func (m *MockTaskService) DeleteSubtask(ctx context.Context, actor domain.Actor, taskID, subtaskID uuid.UUID) (*domain.Task, error) {
	if m.DeleteSubtaskFn != nil {
		return m.DeleteSubtaskFn(ctx, actor, taskID, subtaskID)
	}
	return nil, nil
}

func (m *MockTaskService) AddComment(ctx context.Context, actor domain.Actor, taskID uuid.UUID, text string) (*domain.Task, error) {
	if m.AddCommentFn != nil {
		return m.AddCommentFn(ctx, actor, taskID, text)
	}
	return nil, nil
}

func (m *MockTaskService) Restore(ctx context.Context, actor domain.Actor, taskID uuid.UUID) (*domain.Task, error) {
	if m.RestoreFn != nil {
		return m.RestoreFn(ctx, actor, taskID)
	}
	return nil, nil
}

func (m *MockTaskService) Approve(ctx context.Context, actor domain.Actor, taskID uuid.UUID) (*domain.Task, error) {
	if m.ApproveFn != nil {
		return m.ApproveFn(ctx, actor, taskID)
	}
	return nil, nil
}
