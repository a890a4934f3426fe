package lifecycle

import (
	"strings"
	"testing"
	"time"

	"github.com/chetarea/tarea-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestAddComment(t *testing.T) {
	actor := uuid.New()
	task := newTask(t, actor)

	next, entries, err := AddComment(task, actor, "  looks good  ", t0)
	require.NoError(t, err)

	require.Len(t, next.Comments, 1)
	assert.Equal(t, "looks good", next.Comments[0].Text)
	assert.Equal(t, actor, next.Comments[0].UserID)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActionCommented, entries[0].Action)
	assert.Equal(t, "looks good", entries[0].Comment)
	assert.Len(t, next.History, 2)
	assert.Empty(t, task.Comments)

	_, _, err = AddComment(task, actor, "   ", t0)
	assert.ErrorIs(t, err, domain.ErrEmptyCommentText)
	_, _, err = AddComment(task, actor, strings.Repeat("c", domain.MaxCommentLength+1), t0)
	assert.ErrorIs(t, err, domain.ErrCommentTooLong)
}

func TestSubtaskLifecycle(t *testing.T) {
	actor := uuid.New()
	task := newTask(t, actor)

	withSub, sub, err := AddSubtask(task, " draft outline ", t0)
	require.NoError(t, err)
	assert.Equal(t, "draft outline", sub.Title)
	assert.False(t, sub.Completed)
	assert.Nil(t, sub.CompletedAt)
	require.Len(t, withSub.Subtasks, 1)

	later := t0.Add(time.Hour)
	completed, err := UpdateSubtask(withSub, sub.ID, SubtaskChanges{Completed: boolPtr(true)}, later)
	require.NoError(t, err)
	require.NotNil(t, completed.Subtasks[0].CompletedAt)
	assert.True(t, completed.Subtasks[0].CompletedAt.Equal(later))
	assert.Equal(t, domain.SubtaskProgress{Completed: 1, Total: 1, Percentage: 100}, completed.SubtaskProgress())

	// Completing again keeps the original stamp.
	again, err := UpdateSubtask(completed, sub.ID, SubtaskChanges{Completed: boolPtr(true)}, later.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, again.Subtasks[0].CompletedAt.Equal(later))

	reopened, err := UpdateSubtask(again, sub.ID, SubtaskChanges{Completed: boolPtr(false), Title: strPtr("final outline")}, later)
	require.NoError(t, err)
	assert.False(t, reopened.Subtasks[0].Completed)
	assert.Nil(t, reopened.Subtasks[0].CompletedAt)
	assert.Equal(t, "final outline", reopened.Subtasks[0].Title)

	_, err = UpdateSubtask(reopened, sub.ID, SubtaskChanges{Title: strPtr("  ")}, later)
	assert.ErrorIs(t, err, domain.ErrEmptySubtaskTitle)

	_, err = UpdateSubtask(reopened, uuid.New(), SubtaskChanges{}, later)
	assert.ErrorIs(t, err, domain.ErrSubtaskNotFound)

	removed, err := DeleteSubtask(reopened, sub.ID, later)
	require.NoError(t, err)
	assert.Empty(t, removed.Subtasks)
	assert.Len(t, reopened.Subtasks, 1, "input must not be modified")

	_, err = DeleteSubtask(removed, sub.ID, later)
	assert.ErrorIs(t, err, domain.ErrSubtaskNotFound)

	_, _, err = AddSubtask(task, "", t0)
	assert.ErrorIs(t, err, domain.ErrEmptySubtaskTitle)
}

func TestDeleteSubtask_PreservesOrder(t *testing.T) {
	actor := uuid.New()
	task := newTask(t, actor)

	var ids []uuid.UUID
	for _, title := range []string{"a", "b", "c"} {
		var sub domain.Subtask
		var err error
		task, sub, err = AddSubtask(task, title, t0)
		require.NoError(t, err)
		ids = append(ids, sub.ID)
	}

	next, err := DeleteSubtask(task, ids[1], t0)
	require.NoError(t, err)
	require.Len(t, next.Subtasks, 2)
	assert.Equal(t, "a", next.Subtasks[0].Title)
	assert.Equal(t, "c", next.Subtasks[1].Title)
	assert.Equal(t, "b", task.Subtasks[1].Title)
}
