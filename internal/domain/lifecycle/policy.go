package lifecycle

import (
	"strings"
	"time"

	"github.com/chetarea/tarea-api/internal/domain"
	"github.com/google/uuid"
)

// DefaultRetention is how long a finished task is kept before the sweeper removes it.
const DefaultRetention = 10 * 24 * time.Hour

// Policy derives completion timestamps and history for task transitions.
type Policy struct {
	Retention time.Duration
}

// NewPolicy returns a Policy with the given retention period.
// Non-positive values fall back to DefaultRetention.
func NewPolicy(retention time.Duration) Policy {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return Policy{Retention: retention}
}

// Changes lists the fields a caller wants to modify. Nil fields are left untouched.
type Changes struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	Priority    *domain.Priority
	AssignedTo  *uuid.UUID // tasks cannot be unassigned; nil keeps the assignee
	TagIDs      []uuid.UUID // nil keeps the current set, empty clears it
	DueDate     *time.Time
	ClearDue    bool
}

// Apply returns task with changes applied and the history entries that record them.
// Status, priority and assignment changes each append exactly one entry; content
// edits are not recorded. The input task is never modified.
func (p Policy) Apply(
	task domain.Task,
	changes Changes,
	actor uuid.UUID,
	now time.Time,
) (domain.Task, []domain.HistoryEntry, error) {
	now = now.UTC()
	next := task.Clone()
	var entries []domain.HistoryEntry

	if changes.Title != nil {
		title := strings.TrimSpace(*changes.Title)
		if err := domain.ValidateTaskTitle(title); err != nil {
			return task, nil, err
		}
		next.Title = title
	}

	if changes.Description != nil {
		if len([]rune(*changes.Description)) > domain.MaxTaskDescriptionLength {
			return task, nil, domain.ErrDescriptionTooLong
		}
		next.Description = *changes.Description
	}

	if changes.Status != nil && *changes.Status != next.Status {
		if !changes.Status.IsValid() {
			return task, nil, domain.ErrInvalidTaskStatus
		}
		entries = append(entries, domain.HistoryEntry{
			Action:        domain.ActionStatusChanged,
			UserID:        actor,
			PreviousValue: string(next.Status),
			NewValue:      string(*changes.Status),
			Timestamp:     now,
		})
		p.transition(&next, *changes.Status, now)
	}

	if changes.Priority != nil && *changes.Priority != next.Priority {
		if !changes.Priority.IsValid() {
			return task, nil, domain.ErrInvalidPriority
		}
		entries = append(entries, domain.HistoryEntry{
			Action:        domain.ActionPriorityChanged,
			UserID:        actor,
			PreviousValue: string(next.Priority),
			NewValue:      string(*changes.Priority),
			Timestamp:     now,
		})
		next.Priority = *changes.Priority
	}

	if changes.AssignedTo != nil && !next.IsAssignee(*changes.AssignedTo) {
		previous := ""
		if next.AssignedTo != nil {
			previous = next.AssignedTo.String()
		}
		assignee := *changes.AssignedTo
		entries = append(entries, domain.HistoryEntry{
			Action:        domain.ActionAssigned,
			UserID:        actor,
			PreviousValue: previous,
			NewValue:      assignee.String(),
			Timestamp:     now,
		})
		next.AssignedTo = &assignee
	}

	if changes.TagIDs != nil {
		next.TagIDs = append([]uuid.UUID{}, changes.TagIDs...)
	}

	if changes.ClearDue {
		next.DueDate = nil
	} else if changes.DueDate != nil {
		due := changes.DueDate.UTC()
		next.DueDate = &due
	}

	next.History = append(next.History, entries...)
	next.UpdatedAt = now
	return next, entries, nil
}

// Restore moves a task back to to_do, clears retention and the archived flag,
// and records the reverse transition. It applies regardless of the current status.
func (p Policy) Restore(
	task domain.Task,
	actor uuid.UUID,
	now time.Time,
) (domain.Task, []domain.HistoryEntry) {
	now = now.UTC()
	next := task.Clone()

	entry := domain.HistoryEntry{
		Action:        domain.ActionStatusChanged,
		UserID:        actor,
		PreviousValue: string(next.Status),
		NewValue:      string(domain.TaskStatusToDo),
		Timestamp:     now,
	}

	next.Status = domain.TaskStatusToDo
	next.CompletedAt = nil
	next.AutoDeleteAt = nil
	next.IsArchived = false
	next.History = append(next.History, entry)
	next.UpdatedAt = now

	return next, []domain.HistoryEntry{entry}
}

// Approve completes a task awaiting review.
func (p Policy) Approve(
	task domain.Task,
	actor uuid.UUID,
	now time.Time,
) (domain.Task, []domain.HistoryEntry, error) {
	if task.Status != domain.TaskStatusPendingReview {
		return task, nil, domain.ErrNotPendingReview
	}
	done := domain.TaskStatusDone
	return p.Apply(task, Changes{Status: &done}, actor, now)
}

// transition sets the new status and keeps CompletedAt/AutoDeleteAt in step with it.
func (p Policy) transition(task *domain.Task, to domain.TaskStatus, now time.Time) {
	from := task.Status
	task.Status = to

	switch {
	case to == domain.TaskStatusDone && from != domain.TaskStatusDone:
		if task.AutoDeleteAt == nil {
			completed := now
			deadline := now.Add(p.Retention)
			task.CompletedAt = &completed
			task.AutoDeleteAt = &deadline
		} else if task.CompletedAt == nil {
			completed := now
			task.CompletedAt = &completed
		}
	case from == domain.TaskStatusDone && to != domain.TaskStatusDone:
		task.CompletedAt = nil
		task.AutoDeleteAt = nil
	}
}
