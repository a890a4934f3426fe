package postgres

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/chetarea/tarea-api/internal/domain"
	"github.com/chetarea/tarea-api/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockTaskStore(t *testing.T) (*PostgresTaskStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresTaskStore(db, slog.New(slog.NewTextHandler(io.Discard, nil))), mock
}

func taskRow(t *testing.T, task *domain.Task) *sqlmock.Rows {
	t.Helper()
	doc, err := encodeTaskDocument(task)
	require.NoError(t, err)

	var completedAt, autoDeleteAt any
	if task.CompletedAt != nil {
		completedAt = *task.CompletedAt
	}
	if task.AutoDeleteAt != nil {
		autoDeleteAt = *task.AutoDeleteAt
	}
	var assignedTo any
	if task.AssignedTo != nil {
		assignedTo = task.AssignedTo.String()
	}

	return sqlmock.NewRows([]string{
		"id", "title", "description", "status", "priority", "tag_ids", "assigned_to", "created_by",
		"subtasks", "comments", "history", "due_date", "completed_at", "auto_delete_at",
		"is_archived", "created_at", "updated_at",
	}).AddRow(
		task.ID.String(), task.Title, task.Description, string(task.Status), string(task.Priority),
		[]byte(doc.tagIDs), assignedTo, task.CreatedBy.String(),
		[]byte(doc.subtasks), []byte(doc.comments), []byte(doc.history),
		nil, completedAt, autoDeleteAt, task.IsArchived, task.CreatedAt, task.UpdatedAt,
	)
}

func TestPostgresTaskStore_GetByID(t *testing.T) {
	s, mock := newMockTaskStore(t)
	now := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)

	task, err := domain.NewTask(uuid.New(), "Write release notes", now)
	require.NoError(t, err)
	assignee := uuid.New()
	task.AssignedTo = &assignee
	task.TagIDs = []uuid.UUID{uuid.New()}
	task.Subtasks = []domain.Subtask{{ID: uuid.New(), Title: "outline"}}
	task.Status = domain.TaskStatusDone
	deadline := now.Add(240 * time.Hour)
	task.CompletedAt = &now
	task.AutoDeleteAt = &deadline

	mock.ExpectQuery(regexp.QuoteMeta("FROM tasks WHERE id = $1")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(taskRow(t, task))

	got, err := s.GetByID(context.Background(), task.ID)
	require.NoError(t, err)

	assert.Equal(t, task.ID, got.ID)
	assert.Equal(t, domain.TaskStatusDone, got.Status)
	assert.Equal(t, task.TagIDs, got.TagIDs)
	assert.Equal(t, task.Subtasks, got.Subtasks)
	require.Len(t, got.History, 1)
	assert.Equal(t, domain.ActionCreated, got.History[0].Action)
	require.NotNil(t, got.AssignedTo)
	assert.Equal(t, assignee, *got.AssignedTo)
	require.NotNil(t, got.AutoDeleteAt)
	assert.True(t, got.AutoDeleteAt.Equal(deadline))
	assert.Nil(t, got.DueDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTaskStore_GetByID_NotFound(t *testing.T) {
	s, mock := newMockTaskStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM tasks WHERE id = $1")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTaskStore_DeleteExpired(t *testing.T) {
	s, mock := newMockTaskStore(t)
	now := time.Date(2025, 2, 11, 2, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tasks WHERE status = $1 AND auto_delete_at <= $2")).
		WithArgs("done", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	deleted, err := s.DeleteExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTaskStore_UpdateMissingTask(t *testing.T) {
	s, mock := newMockTaskStore(t)

	task, err := domain.NewTask(uuid.New(), "Write release notes", time.Now())
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = s.Update(context.Background(), task)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTaskStore_CreateRejectsInvalidTask(t *testing.T) {
	s, mock := newMockTaskStore(t)

	task, err := domain.NewTask(uuid.New(), "Write release notes", time.Now())
	require.NoError(t, err)
	task.Status = domain.TaskStatusDone // missing retention timestamps

	err = s.Create(context.Background(), task)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.NoError(t, mock.ExpectationsWereMet(), "no statement should reach the database")
}

func TestBuildTaskListQuery(t *testing.T) {
	user := uuid.New()
	assignee := uuid.New()

	query, args := buildTaskListQuery(store.TaskFilter{})
	assert.Contains(t, query, "WHERE is_archived = FALSE")
	assert.Contains(t, query, "ORDER BY created_at DESC")
	assert.Empty(t, args)

	query, args = buildTaskListQuery(store.TaskFilter{
		VisibleTo:       &user,
		Status:          domain.TaskStatusInProgress,
		Priority:        domain.PriorityHigh,
		AssignedTo:      &assignee,
		IncludeArchived: true,
	})
	assert.Contains(t, query, "(created_by = $1 OR assigned_to = $1)")
	assert.Contains(t, query, "status = $2")
	assert.Contains(t, query, "priority = $3")
	assert.Contains(t, query, "assigned_to = $4")
	assert.NotContains(t, query, "is_archived = FALSE")
	assert.Equal(t, []any{user, domain.TaskStatusInProgress, domain.PriorityHigh, assignee}, args)
}

func TestEncodeTaskDocument_EmptyCollections(t *testing.T) {
	doc, err := encodeTaskDocument(&domain.Task{})
	require.NoError(t, err)

	for _, raw := range []string{doc.tagIDs, doc.subtasks, doc.comments, doc.history} {
		var v []any
		require.NoError(t, json.Unmarshal([]byte(raw), &v))
		assert.NotNil(t, v, "collections must be stored as [] rather than null")
	}
}
