package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/chetarea/tarea-api/internal/domain"
	"github.com/chetarea/tarea-api/internal/domain/access"
	"github.com/chetarea/tarea-api/internal/domain/lifecycle"
	"github.com/chetarea/tarea-api/internal/mocks"
	"github.com/chetarea/tarea-api/internal/retention"
	"github.com/chetarea/tarea-api/internal/service"
	"github.com/chetarea/tarea-api/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTaskTestRouter(actor *domain.Actor, tasks *mocks.MockTaskService, sweeper *mocks.MockSweeper) http.Handler {
	if sweeper == nil {
		sweeper = &mocks.MockSweeper{}
	}
	h := NewTaskHandler(tasks, sweeper, nil)
	return newTestRouter(actor, func(r chi.Router) {
		r.Get("/api/tasks", h.List)
		r.Post("/api/tasks", h.Create)
		r.Post("/api/tasks/cleanup", h.Cleanup)
		r.Get("/api/tasks/{id}", h.Get)
		r.Put("/api/tasks/{id}", h.Update)
		r.Delete("/api/tasks/{id}", h.Delete)
		r.Post("/api/tasks/{id}/subtasks", h.AddSubtask)
		r.Put("/api/tasks/{id}/subtasks/{subtaskID}", h.UpdateSubtask)
		r.Delete("/api/tasks/{id}/subtasks/{subtaskID}", h.DeleteSubtask)
		r.Post("/api/tasks/{id}/comments", h.AddComment)
		r.Put("/api/tasks/{id}/restore", h.Restore)
		r.Put("/api/tasks/{id}/approve", h.Approve)
	})
}

func TestTaskHandler_Create(t *testing.T) {
	t.Run("creates task with defaults", func(t *testing.T) {
		var got service.CreateTaskInput
		tasks := &mocks.MockTaskService{
			CreateFn: func(ctx context.Context, actor domain.Actor, input service.CreateTaskInput) (*domain.Task, error) {
				assert.Equal(t, userActor, actor)
				got = input
				task := newTestTask(actor.UserID)
				task.Title = input.Title
				return task, nil
			},
		}
		router := newTaskTestRouter(&userActor, tasks, nil)

		rr := doRequest(t, router, http.MethodPost, "/api/tasks", map[string]interface{}{
			"title":       "Prepare sprint demo",
			"description": "Slides and a short video",
		})

		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		assert.Equal(t, "Prepare sprint demo", got.Title)
		assert.Nil(t, got.TagIDs, "omitted tag_ids falls back to the default tag")

		body := decodeBody[TaskResponse](t, rr)
		assert.Equal(t, domain.TaskStatusToDo, body.Status)
		assert.Equal(t, domain.SubtaskProgress{}, body.SubtaskProgress)
		assert.NotNil(t, body.TagIDs)
		require.Len(t, body.History, 1)
		assert.Equal(t, domain.ActionCreated, body.History[0].Action)
	})

	t.Run("explicit empty tag list is kept", func(t *testing.T) {
		var got service.CreateTaskInput
		tasks := &mocks.MockTaskService{
			CreateFn: func(ctx context.Context, actor domain.Actor, input service.CreateTaskInput) (*domain.Task, error) {
				got = input
				return newTestTask(actor.UserID), nil
			},
		}
		rr := doRequest(t, newTaskTestRouter(&userActor, tasks, nil), http.MethodPost, "/api/tasks",
			`{"title": "No labels", "tag_ids": []}`)

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.NotNil(t, got.TagIDs)
		assert.Empty(t, got.TagIDs)
	})

	tests := []struct {
		name    string
		body    interface{}
		status  int
		message string
	}{
		{"missing title", map[string]string{"description": "x"}, http.StatusBadRequest, "Invalid title: required field"},
		{"invalid priority", map[string]string{"title": "t", "priority": "urgent"}, http.StatusBadRequest, "Invalid priority: invalid value"},
		{"malformed json", `{"title":`, http.StatusBadRequest, "Invalid request format"},
		{"malformed assignee", `{"title": "t", "assigned_to": "nope"}`, http.StatusBadRequest, "Invalid request format"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tasks := &mocks.MockTaskService{
				CreateFn: func(ctx context.Context, actor domain.Actor, input service.CreateTaskInput) (*domain.Task, error) {
					t.Fatal("service must not be called for invalid input")
					return nil, nil
				},
			}
			rr := doRequest(t, newTaskTestRouter(&userActor, tasks, nil), http.MethodPost, "/api/tasks", tc.body)

			assert.Equal(t, tc.status, rr.Code)
			assert.Equal(t, tc.message, errorMessage(t, rr))
		})
	}

	t.Run("unavailable assignee", func(t *testing.T) {
		tasks := &mocks.MockTaskService{
			CreateFn: func(ctx context.Context, actor domain.Actor, input service.CreateTaskInput) (*domain.Task, error) {
				return nil, service.ErrAssigneeUnavailable
			},
		}
		rr := doRequest(t, newTaskTestRouter(&userActor, tasks, nil), http.MethodPost, "/api/tasks",
			map[string]string{"title": "t", "assigned_to": uuid.NewString()})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Assigned user does not exist or is inactive", errorMessage(t, rr))
	})
}

func TestTaskHandler_RequiresAuthentication(t *testing.T) {
	router := newTaskTestRouter(nil, &mocks.MockTaskService{}, nil)

	rr := doRequest(t, router, http.MethodGet, "/api/tasks", nil)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestTaskHandler_List(t *testing.T) {
	assignee := uuid.New()

	t.Run("passes filters to the service", func(t *testing.T) {
		var got service.TaskQuery
		tasks := &mocks.MockTaskService{
			ListFn: func(ctx context.Context, actor domain.Actor, query service.TaskQuery) ([]*domain.Task, error) {
				got = query
				return []*domain.Task{newTestTask(actor.UserID), newTestTask(actor.UserID)}, nil
			},
		}
		path := fmt.Sprintf("/api/tasks?status=done&priority=high&assigned_to=%s&include_archived=true", assignee)

		rr := doRequest(t, newTaskTestRouter(&userActor, tasks, nil), http.MethodGet, path, nil)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, domain.TaskStatusDone, got.Status)
		assert.Equal(t, domain.PriorityHigh, got.Priority)
		require.NotNil(t, got.AssignedTo)
		assert.Equal(t, assignee, *got.AssignedTo)
		assert.True(t, got.IncludeArchived)
		assert.Len(t, decodeBody[[]TaskResponse](t, rr), 2)
	})

	t.Run("empty result encodes as array", func(t *testing.T) {
		rr := doRequest(t, newTaskTestRouter(&userActor, &mocks.MockTaskService{}, nil), http.MethodGet, "/api/tasks", nil)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	for _, path := range []string{
		"/api/tasks?status=blocked",
		"/api/tasks?priority=urgent",
		"/api/tasks?assigned_to=abc",
		"/api/tasks?include_archived=maybe",
	} {
		t.Run("rejects "+path, func(t *testing.T) {
			rr := doRequest(t, newTaskTestRouter(&userActor, &mocks.MockTaskService{}, nil), http.MethodGet, path, nil)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestTaskHandler_Get(t *testing.T) {
	taskID := uuid.New()

	tests := []struct {
		name   string
		path   string
		err    error
		status int
	}{
		{"found", "/api/tasks/" + taskID.String(), nil, http.StatusOK},
		{"not found", "/api/tasks/" + taskID.String(), store.ErrTaskNotFound, http.StatusNotFound},
		{"forbidden", "/api/tasks/" + taskID.String(), fmt.Errorf("%w: read task", access.ErrForbidden), http.StatusForbidden},
		{"invalid id", "/api/tasks/not-a-uuid", nil, http.StatusBadRequest},
		{"store failure", "/api/tasks/" + taskID.String(), errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tasks := &mocks.MockTaskService{
				GetFn: func(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Task, error) {
					assert.Equal(t, taskID, id)
					if tc.err != nil {
						return nil, tc.err
					}
					task := newTestTask(actor.UserID)
					task.ID = id
					return task, nil
				},
			}

			rr := doRequest(t, newTaskTestRouter(&userActor, tasks, nil), http.MethodGet, tc.path, nil)

			assert.Equal(t, tc.status, rr.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, taskID, decodeBody[TaskResponse](t, rr).ID)
			}
		})
	}
}

func TestTaskHandler_Update(t *testing.T) {
	taskID := uuid.New()
	due := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)

	t.Run("maps request onto lifecycle changes", func(t *testing.T) {
		var got lifecycle.Changes
		tasks := &mocks.MockTaskService{
			UpdateFn: func(ctx context.Context, actor domain.Actor, id uuid.UUID, changes lifecycle.Changes) (*domain.Task, error) {
				got = changes
				task := newTestTask(actor.UserID)
				task.ID = id
				task.Status = domain.TaskStatusDone
				completed := fixedTime
				deleteAt := fixedTime.Add(lifecycle.DefaultRetention)
				task.CompletedAt = &completed
				task.AutoDeleteAt = &deleteAt
				return task, nil
			},
		}

		rr := doRequest(t, newTaskTestRouter(&userActor, tasks, nil), http.MethodPut, "/api/tasks/"+taskID.String(),
			map[string]interface{}{"status": "done", "priority": "low", "due_date": due})

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		require.NotNil(t, got.Status)
		assert.Equal(t, domain.TaskStatusDone, *got.Status)
		require.NotNil(t, got.Priority)
		assert.Equal(t, domain.PriorityLow, *got.Priority)
		require.NotNil(t, got.DueDate)
		assert.True(t, due.Equal(*got.DueDate))
		assert.Nil(t, got.Title)
		assert.Nil(t, got.TagIDs)
		assert.False(t, got.ClearDue)

		body := decodeBody[TaskResponse](t, rr)
		require.NotNil(t, body.AutoDeleteAt)
		assert.Equal(t, 240*time.Hour, body.AutoDeleteAt.Sub(*body.CompletedAt))
	})

	t.Run("clears due date", func(t *testing.T) {
		var got lifecycle.Changes
		tasks := &mocks.MockTaskService{
			UpdateFn: func(ctx context.Context, actor domain.Actor, id uuid.UUID, changes lifecycle.Changes) (*domain.Task, error) {
				got = changes
				return newTestTask(actor.UserID), nil
			},
		}
		rr := doRequest(t, newTaskTestRouter(&userActor, tasks, nil), http.MethodPut, "/api/tasks/"+taskID.String(),
			`{"clear_due_date": true, "tag_ids": []}`)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, got.ClearDue)
		assert.NotNil(t, got.TagIDs)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		rr := doRequest(t, newTaskTestRouter(&userActor, &mocks.MockTaskService{}, nil), http.MethodPut,
			"/api/tasks/"+taskID.String(), map[string]string{"status": "archived"})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Invalid status: invalid value", errorMessage(t, rr))
	})

	t.Run("forbidden for outsiders", func(t *testing.T) {
		tasks := &mocks.MockTaskService{
			UpdateFn: func(ctx context.Context, actor domain.Actor, id uuid.UUID, changes lifecycle.Changes) (*domain.Task, error) {
				return nil, fmt.Errorf("%w: update task", access.ErrForbidden)
			},
		}
		rr := doRequest(t, newTaskTestRouter(&userActor, tasks, nil), http.MethodPut, "/api/tasks/"+taskID.String(),
			map[string]string{"title": "Renamed"})

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestTaskHandler_Delete(t *testing.T) {
	taskID := uuid.New()

	called := false
	tasks := &mocks.MockTaskService{
		DeleteFn: func(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
			called = true
			assert.Equal(t, taskID, id)
			return nil
		},
	}
	rr := doRequest(t, newTaskTestRouter(&userActor, tasks, nil), http.MethodDelete, "/api/tasks/"+taskID.String(), nil)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.True(t, called)
	assert.Empty(t, rr.Body.String())
}

func TestTaskHandler_Subtasks(t *testing.T) {
	taskID := uuid.New()
	subtaskID := uuid.New()

	withSubtasks := func(actor domain.Actor) *domain.Task {
		task := newTestTask(actor.UserID)
		done := fixedTime
		task.Subtasks = []domain.Subtask{
			{ID: subtaskID, Title: "Draft", Completed: true, CompletedAt: &done},
			{ID: uuid.New(), Title: "Review"},
			{ID: uuid.New(), Title: "Publish"},
		}
		return task
	}

	t.Run("add", func(t *testing.T) {
		tasks := &mocks.MockTaskService{
			AddSubtaskFn: func(ctx context.Context, actor domain.Actor, id uuid.UUID, title string) (*domain.Task, error) {
				assert.Equal(t, "Draft", title)
				return withSubtasks(actor), nil
			},
		}
		rr := doRequest(t, newTaskTestRouter(&userActor, tasks, nil), http.MethodPost,
			"/api/tasks/"+taskID.String()+"/subtasks", map[string]string{"title": "Draft"})

		require.Equal(t, http.StatusCreated, rr.Code)
		body := decodeBody[TaskResponse](t, rr)
		assert.Equal(t, domain.SubtaskProgress{Completed: 1, Total: 3, Percentage: 33}, body.SubtaskProgress)
	})

	t.Run("update passes both ids", func(t *testing.T) {
		tasks := &mocks.MockTaskService{
			UpdateSubtaskFn: func(
				ctx context.Context,
				actor domain.Actor,
				tid, sid uuid.UUID,
				changes lifecycle.SubtaskChanges,
			) (*domain.Task, error) {
				assert.Equal(t, taskID, tid)
				assert.Equal(t, subtaskID, sid)
				require.NotNil(t, changes.Completed)
				assert.True(t, *changes.Completed)
				assert.Nil(t, changes.Title)
				return withSubtasks(actor), nil
			},
		}
		rr := doRequest(t, newTaskTestRouter(&userActor, tasks, nil), http.MethodPut,
			fmt.Sprintf("/api/tasks/%s/subtasks/%s", taskID, subtaskID), map[string]bool{"completed": true})

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("unknown subtask", func(t *testing.T) {
		tasks := &mocks.MockTaskService{
			DeleteSubtaskFn: func(ctx context.Context, actor domain.Actor, tid, sid uuid.UUID) (*domain.Task, error) {
				return nil, domain.ErrSubtaskNotFound
			},
		}
		rr := doRequest(t, newTaskTestRouter(&userActor, tasks, nil), http.MethodDelete,
			fmt.Sprintf("/api/tasks/%s/subtasks/%s", taskID, subtaskID), nil)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Subtask not found", errorMessage(t, rr))
	})

	t.Run("invalid subtask id", func(t *testing.T) {
		rr := doRequest(t, newTaskTestRouter(&userActor, &mocks.MockTaskService{}, nil), http.MethodDelete,
			fmt.Sprintf("/api/tasks/%s/subtasks/xyz", taskID), nil)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestTaskHandler_AddComment(t *testing.T) {
	taskID := uuid.New()

	tasks := &mocks.MockTaskService{
		AddCommentFn: func(ctx context.Context, actor domain.Actor, id uuid.UUID, text string) (*domain.Task, error) {
			task := newTestTask(actor.UserID)
			task.Comments = []domain.Comment{{ID: uuid.New(), UserID: actor.UserID, Text: text, CreatedAt: fixedTime}}
			task.History = append(task.History, domain.HistoryEntry{
				Action: domain.ActionCommented, UserID: actor.UserID, Comment: text, Timestamp: fixedTime,
			})
			return task, nil
		},
	}
	router := newTaskTestRouter(&userActor, tasks, nil)

	rr := doRequest(t, router, http.MethodPost, "/api/tasks/"+taskID.String()+"/comments", map[string]string{"text": "Looks good"})
	require.Equal(t, http.StatusCreated, rr.Code)
	body := decodeBody[TaskResponse](t, rr)
	require.Len(t, body.Comments, 1)
	assert.Equal(t, "Looks good", body.Comments[0].Text)
	assert.Equal(t, domain.ActionCommented, body.History[len(body.History)-1].Action)

	rr = doRequest(t, router, http.MethodPost, "/api/tasks/"+taskID.String()+"/comments", map[string]string{"text": ""})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestTaskHandler_RestoreAndApprove(t *testing.T) {
	taskID := uuid.New()

	t.Run("restore", func(t *testing.T) {
		tasks := &mocks.MockTaskService{
			RestoreFn: func(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Task, error) {
				return newTestTask(actor.UserID), nil
			},
		}
		rr := doRequest(t, newTaskTestRouter(&userActor, tasks, nil), http.MethodPut, "/api/tasks/"+taskID.String()+"/restore", nil)

		require.Equal(t, http.StatusOK, rr.Code)
		body := decodeBody[TaskResponse](t, rr)
		assert.Equal(t, domain.TaskStatusToDo, body.Status)
		assert.Nil(t, body.AutoDeleteAt)
	})

	tests := []struct {
		name   string
		actor  domain.Actor
		err    error
		status int
	}{
		{"admin approves", adminActor, nil, http.StatusOK},
		{"user is forbidden", userActor, fmt.Errorf("%w: approve task", access.ErrForbidden), http.StatusForbidden},
		{"task not pending review", adminActor, domain.ErrNotPendingReview, http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tasks := &mocks.MockTaskService{
				ApproveFn: func(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Task, error) {
					assert.Equal(t, tc.actor, actor)
					if tc.err != nil {
						return nil, tc.err
					}
					task := newTestTask(userActor.UserID)
					task.Status = domain.TaskStatusDone
					return task, nil
				},
			}
			rr := doRequest(t, newTaskTestRouter(&tc.actor, tasks, nil), http.MethodPut, "/api/tasks/"+taskID.String()+"/approve", nil)

			assert.Equal(t, tc.status, rr.Code)
		})
	}
}

func TestTaskHandler_Cleanup(t *testing.T) {
	t.Run("reports deleted count", func(t *testing.T) {
		sweeper := &mocks.MockSweeper{Result: retention.Result{StartedAt: fixedTime, DeletedCount: 4}}

		rr := doRequest(t, newTaskTestRouter(&adminActor, &mocks.MockTaskService{}, sweeper), http.MethodPost, "/api/tasks/cleanup", nil)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"deleted_count":4}`, rr.Body.String())
		assert.Equal(t, 1, sweeper.Calls)
	})

	t.Run("sweep failure", func(t *testing.T) {
		sweeper := &mocks.MockSweeper{Result: retention.Result{Err: errors.New("statement timeout")}}

		rr := doRequest(t, newTaskTestRouter(&adminActor, &mocks.MockTaskService{}, sweeper), http.MethodPost, "/api/tasks/cleanup", nil)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "Failed to clean up expired tasks", errorMessage(t, rr))
	})
}
