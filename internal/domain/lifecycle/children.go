package lifecycle

import (
	"strings"
	"time"

	"github.com/chetarea/tarea-api/internal/domain"
	"github.com/google/uuid"
)

// SubtaskChanges lists the subtask fields to modify. Nil fields are left untouched.
type SubtaskChanges struct {
	Title     *string
	Completed *bool
}

// AddComment appends a comment and the matching "commented" history entry.
func AddComment(
	task domain.Task,
	actor uuid.UUID,
	text string,
	now time.Time,
) (domain.Task, []domain.HistoryEntry, error) {
	now = now.UTC()
	text = strings.TrimSpace(text)
	if text == "" {
		return task, nil, domain.ErrEmptyCommentText
	}
	if len([]rune(text)) > domain.MaxCommentLength {
		return task, nil, domain.ErrCommentTooLong
	}

	next := task.Clone()
	next.Comments = append(next.Comments, domain.Comment{
		ID:        uuid.New(),
		UserID:    actor,
		Text:      text,
		CreatedAt: now,
	})

	entry := domain.HistoryEntry{
		Action:    domain.ActionCommented,
		UserID:    actor,
		Comment:   text,
		Timestamp: now,
	}
	next.History = append(next.History, entry)
	next.UpdatedAt = now

	return next, []domain.HistoryEntry{entry}, nil
}

// AddSubtask appends an open subtask and returns it.
func AddSubtask(task domain.Task, title string, now time.Time) (domain.Task, domain.Subtask, error) {
	title = strings.TrimSpace(title)
	if err := domain.ValidateSubtaskTitle(title); err != nil {
		return task, domain.Subtask{}, err
	}

	subtask := domain.Subtask{ID: uuid.New(), Title: title}
	next := task.Clone()
	next.Subtasks = append(next.Subtasks, subtask)
	next.UpdatedAt = now.UTC()

	return next, subtask, nil
}

// UpdateSubtask edits a subtask. CompletedAt is stamped when the subtask becomes
// completed and cleared when it is reopened.
func UpdateSubtask(
	task domain.Task,
	subtaskID uuid.UUID,
	changes SubtaskChanges,
	now time.Time,
) (domain.Task, error) {
	now = now.UTC()
	next := task.Clone()

	idx := next.FindSubtask(subtaskID)
	if idx < 0 {
		return task, domain.ErrSubtaskNotFound
	}
	st := &next.Subtasks[idx]

	if changes.Title != nil {
		title := strings.TrimSpace(*changes.Title)
		if err := domain.ValidateSubtaskTitle(title); err != nil {
			return task, err
		}
		st.Title = title
	}

	if changes.Completed != nil && *changes.Completed != st.Completed {
		st.Completed = *changes.Completed
		if st.Completed {
			completed := now
			st.CompletedAt = &completed
		} else {
			st.CompletedAt = nil
		}
	}

	next.UpdatedAt = now
	return next, nil
}

// DeleteSubtask removes a subtask, preserving the order of the rest.
func DeleteSubtask(task domain.Task, subtaskID uuid.UUID, now time.Time) (domain.Task, error) {
	idx := task.FindSubtask(subtaskID)
	if idx < 0 {
		return task, domain.ErrSubtaskNotFound
	}

	next := task.Clone()
	next.Subtasks = append(next.Subtasks[:idx], next.Subtasks[idx+1:]...)
	next.UpdatedAt = now.UTC()
	return next, nil
}
