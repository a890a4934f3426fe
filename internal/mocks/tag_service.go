package mocks

import (
	"context"

	"github.com/chetarea/tarea-api/internal/domain"
	"github.com/chetarea/tarea-api/internal/service"
	"github.com/google/uuid"
)

// MockTagService implements service.TagService for testing
type MockTagService struct {
	ListFn   func(ctx context.Context, actor domain.Actor) ([]*domain.Tag, error)
	GetFn    func(ctx context.Context, actor domain.Actor, tagID uuid.UUID) (*domain.Tag, error)
	CreateFn func(ctx context.Context, actor domain.Actor, input service.CreateTagInput) (*domain.Tag, error)
	UpdateFn func(ctx context.Context, actor domain.Actor, tagID uuid.UUID, changes service.TagChanges) (*domain.Tag, error)
	DeleteFn func(ctx context.Context, actor domain.Actor, tagID uuid.UUID) error
}

var _ service.TagService = (*MockTagService)(nil)

func (m *MockTagService) List(ctx context.Context, actor domain.Actor) ([]*domain.Tag, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, actor)
	}
	return nil, nil
}

func (m *MockTagService) Get(ctx context.Context, actor domain.Actor, tagID uuid.UUID) (*domain.Tag, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, actor, tagID)
	}
	return nil, nil
}

func (m *MockTagService) Create(ctx context.Context, actor domain.Actor, input service.CreateTagInput) (*domain.Tag, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, actor, input)
	}
	return nil, nil
}

func (m *MockTagService) Update(
	ctx context.Context,
	actor domain.Actor,
	tagID uuid.UUID,
	changes service.TagChanges,
) (*domain.Tag, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, actor, tagID, changes)
	}
	return nil, nil
}

func (m *MockTagService) Delete(ctx context.Context, actor domain.Actor, tagID uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, actor, tagID)
	}
	return nil
}
