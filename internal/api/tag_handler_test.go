package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/chetarea/tarea-api/internal/domain"
	"github.com/chetarea/tarea-api/internal/domain/access"
	"github.com/chetarea/tarea-api/internal/mocks"
	"github.com/chetarea/tarea-api/internal/service"
	"github.com/chetarea/tarea-api/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTagTestRouter(actor *domain.Actor, tags *mocks.MockTagService) http.Handler {
	h := NewTagHandler(tags, nil)
	return newTestRouter(actor, func(r chi.Router) {
		r.Get("/api/tags", h.List)
		r.Post("/api/tags", h.Create)
		r.Get("/api/tags/{id}", h.Get)
		r.Put("/api/tags/{id}", h.Update)
		r.Delete("/api/tags/{id}", h.Delete)
	})
}

func testTag(creator uuid.UUID, name string) *domain.Tag {
	return &domain.Tag{
		ID:        uuid.New(),
		Name:      name,
		Color:     domain.DefaultTagColor,
		CreatedBy: creator,
		CreatedAt: fixedTime,
		UpdatedAt: fixedTime,
	}
}

func TestTagHandler_List(t *testing.T) {
	tags := &mocks.MockTagService{
		ListFn: func(ctx context.Context, actor domain.Actor) ([]*domain.Tag, error) {
			return []*domain.Tag{testTag(actor.UserID, "backend"), testTag(adminActor.UserID, "urgent")}, nil
		},
	}
	rr := doRequest(t, newTagTestRouter(&userActor, tags), http.MethodGet, "/api/tags", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody[[]TagResponse](t, rr)
	require.Len(t, body, 2)
	assert.Equal(t, "backend", body[0].Name)
}

func TestTagHandler_Create(t *testing.T) {
	tests := []struct {
		name    string
		body    interface{}
		err     error
		status  int
		message string
	}{
		{name: "created", body: map[string]string{"name": "frontend", "color": "#ff0000"}, status: http.StatusCreated},
		{name: "bad color", body: map[string]string{"name": "frontend", "color": "red"}, status: http.StatusBadRequest, message: "Invalid color: invalid color"},
		{name: "name too long", body: map[string]string{"name": "a very long tag name that goes on"}, status: http.StatusBadRequest, message: "Invalid name: too long"},
		{name: "duplicate", body: map[string]string{"name": "frontend"}, err: store.ErrTagExists, status: http.StatusConflict, message: "A tag with this name already exists"},
		{
			name:    "default tag by user",
			body:    map[string]interface{}{"name": "global", "is_default": true},
			err:     fmt.Errorf("%w: create default tag", access.ErrForbidden),
			status:  http.StatusForbidden,
			message: "You do not have permission to perform this action",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tags := &mocks.MockTagService{
				CreateFn: func(ctx context.Context, actor domain.Actor, input service.CreateTagInput) (*domain.Tag, error) {
					if tc.err != nil {
						return nil, tc.err
					}
					tag := testTag(actor.UserID, input.Name)
					tag.Color = input.Color
					return tag, nil
				},
			}
			rr := doRequest(t, newTagTestRouter(&userActor, tags), http.MethodPost, "/api/tags", tc.body)

			assert.Equal(t, tc.status, rr.Code)
			if tc.message != "" {
				assert.Equal(t, tc.message, errorMessage(t, rr))
			}
		})
	}
}

func TestTagHandler_UpdateAndDelete(t *testing.T) {
	tagID := uuid.New()

	tags := &mocks.MockTagService{
		UpdateFn: func(ctx context.Context, actor domain.Actor, id uuid.UUID, changes service.TagChanges) (*domain.Tag, error) {
			require.NotNil(t, changes.Name)
			assert.Nil(t, changes.Color)
			tag := testTag(actor.UserID, *changes.Name)
			tag.ID = id
			return tag, nil
		},
		DeleteFn: func(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
			return store.ErrTagNotFound
		},
	}
	router := newTagTestRouter(&userActor, tags)

	rr := doRequest(t, router, http.MethodPut, "/api/tags/"+tagID.String(), map[string]string{"name": "renamed"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "renamed", decodeBody[TagResponse](t, rr).Name)

	rr = doRequest(t, router, http.MethodDelete, "/api/tags/"+tagID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Tag not found", errorMessage(t, rr))
}
