package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskStatus is a column of the board.
type TaskStatus string

// Possible task status values
const (
	TaskStatusToDo          TaskStatus = "to_do"
	TaskStatusInProgress    TaskStatus = "in_progress"
	TaskStatusPendingReview TaskStatus = "pending_review"
	TaskStatusDone          TaskStatus = "done"
)

// IsValid reports whether s is one of the known statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusToDo, TaskStatusInProgress, TaskStatusPendingReview, TaskStatusDone:
		return true
	}
	return false
}

// Priority ranks tasks within a column.
type Priority string

// Possible priority values
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// IsValid reports whether p is one of the known priorities.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// HistoryAction identifies the kind of change recorded in a task's history.
type HistoryAction string

// Possible history actions
const (
	ActionCreated         HistoryAction = "created"
	ActionStatusChanged   HistoryAction = "status_changed"
	ActionPriorityChanged HistoryAction = "priority_changed"
	ActionAssigned        HistoryAction = "assigned"
	ActionCommented       HistoryAction = "commented"
)

// Field limits
const (
	MaxTaskTitleLength       = 100
	MaxTaskDescriptionLength = 1000
	MaxSubtaskTitleLength    = 200
	MaxCommentLength         = 500
)

// Task validation errors
var (
	ErrEmptyTaskID          = fmt.Errorf("%w: task ID cannot be empty", ErrValidation)
	ErrEmptyTaskTitle       = fmt.Errorf("%w: task title cannot be empty", ErrValidation)
	ErrTaskTitleTooLong     = fmt.Errorf("%w: task title exceeds %d characters", ErrValidation, MaxTaskTitleLength)
	ErrDescriptionTooLong   = fmt.Errorf("%w: description exceeds %d characters", ErrValidation, MaxTaskDescriptionLength)
	ErrInvalidTaskStatus    = fmt.Errorf("%w: invalid task status", ErrValidation)
	ErrInvalidPriority      = fmt.Errorf("%w: invalid priority", ErrValidation)
	ErrEmptyTaskCreator     = fmt.Errorf("%w: task creator cannot be empty", ErrValidation)
	ErrEmptySubtaskTitle    = fmt.Errorf("%w: subtask title cannot be empty", ErrValidation)
	ErrSubtaskTitleTooLong  = fmt.Errorf("%w: subtask title exceeds %d characters", ErrValidation, MaxSubtaskTitleLength)
	ErrEmptyCommentText     = fmt.Errorf("%w: comment text cannot be empty", ErrValidation)
	ErrCommentTooLong       = fmt.Errorf("%w: comment exceeds %d characters", ErrValidation, MaxCommentLength)
	ErrInconsistentDeadline = fmt.Errorf("%w: completion and deletion timestamps must be set only when done", ErrValidation)
)

// Subtask is a checklist item inside a task.
type Subtask struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Comment is a note left on a task by a user.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryEntry records one change to a task. Entries are append-only.
type HistoryEntry struct {
	Action        HistoryAction `json:"action"`
	UserID        uuid.UUID     `json:"user_id"`
	PreviousValue string        `json:"previous_value,omitempty"`
	NewValue      string        `json:"new_value,omitempty"`
	Comment       string        `json:"comment,omitempty"`
	Timestamp     time.Time     `json:"timestamp"`
}

// SubtaskProgress summarizes checklist completion.
type SubtaskProgress struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// Task is a unit of trackable work on the board.
//
// CompletedAt and AutoDeleteAt are set exactly when Status is done; the
// lifecycle package is the only code that changes them.
type Task struct {
	ID           uuid.UUID      `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Status       TaskStatus     `json:"status"`
	Priority     Priority       `json:"priority"`
	TagIDs       []uuid.UUID    `json:"tag_ids"`
	AssignedTo   *uuid.UUID     `json:"assigned_to"`
	CreatedBy    uuid.UUID      `json:"created_by"`
	Subtasks     []Subtask      `json:"subtasks"`
	Comments     []Comment      `json:"comments"`
	History      []HistoryEntry `json:"history"`
	DueDate      *time.Time     `json:"due_date"`
	CompletedAt  *time.Time     `json:"completed_at"`
	AutoDeleteAt *time.Time     `json:"auto_delete_at"`
	IsArchived   bool           `json:"is_archived"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// NewTask creates a task in the to_do column with medium priority and the
// initial "created" history entry attributed to the creator.
// Returns an error if validation fails.
func NewTask(creatorID uuid.UUID, title string, now time.Time) (*Task, error) {
	now = now.UTC()
	task := &Task{
		ID:        uuid.New(),
		Title:     strings.TrimSpace(title),
		Status:    TaskStatusToDo,
		Priority:  PriorityMedium,
		TagIDs:    []uuid.UUID{},
		CreatedBy: creatorID,
		Subtasks:  []Subtask{},
		Comments:  []Comment{},
		History: []HistoryEntry{{
			Action:    ActionCreated,
			UserID:    creatorID,
			NewValue:  string(TaskStatusToDo),
			Timestamp: now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.CreatedBy == uuid.Nil {
		return ErrEmptyTaskCreator
	}
	if err := ValidateTaskTitle(t.Title); err != nil {
		return err
	}
	if len([]rune(t.Description)) > MaxTaskDescriptionLength {
		return ErrDescriptionTooLong
	}
	if !t.Status.IsValid() {
		return ErrInvalidTaskStatus
	}
	if !t.Priority.IsValid() {
		return ErrInvalidPriority
	}

	done := t.Status == TaskStatusDone
	if (t.CompletedAt != nil) != done || (t.AutoDeleteAt != nil) != done {
		return ErrInconsistentDeadline
	}

	for _, st := range t.Subtasks {
		if err := ValidateSubtaskTitle(st.Title); err != nil {
			return err
		}
	}

	return nil
}

// ValidateTaskTitle checks an already trimmed task title.
func ValidateTaskTitle(title string) error {
	if title == "" {
		return ErrEmptyTaskTitle
	}
	if len([]rune(title)) > MaxTaskTitleLength {
		return ErrTaskTitleTooLong
	}
	return nil
}

// ValidateSubtaskTitle checks an already trimmed subtask title.
func ValidateSubtaskTitle(title string) error {
	if title == "" {
		return ErrEmptySubtaskTitle
	}
	if len([]rune(title)) > MaxSubtaskTitleLength {
		return ErrSubtaskTitleTooLong
	}
	return nil
}

// IsCreator reports whether userID created the task.
func (t *Task) IsCreator(userID uuid.UUID) bool {
	return t.CreatedBy == userID
}

// IsAssignee reports whether userID is the current assignee.
func (t *Task) IsAssignee(userID uuid.UUID) bool {
	return t.AssignedTo != nil && *t.AssignedTo == userID
}

// SubtaskProgress returns completed/total counts and a rounded percentage.
func (t *Task) SubtaskProgress() SubtaskProgress {
	p := SubtaskProgress{Total: len(t.Subtasks)}
	for _, st := range t.Subtasks {
		if st.Completed {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Percentage = int(math.Round(float64(p.Completed) / float64(p.Total) * 100))
	}
	return p
}

// FindSubtask returns the index of the subtask with the given ID, or -1.
func (t *Task) FindSubtask(id uuid.UUID) int {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so callers can derive a new task without
// aliasing the original's slices or timestamps.
func (t Task) Clone() Task {
	c := t
	c.TagIDs = append([]uuid.UUID{}, t.TagIDs...)
	c.AssignedTo = clonePtr(t.AssignedTo)
	c.DueDate = clonePtr(t.DueDate)
	c.CompletedAt = clonePtr(t.CompletedAt)
	c.AutoDeleteAt = clonePtr(t.AutoDeleteAt)

	c.Subtasks = make([]Subtask, len(t.Subtasks))
	for i, st := range t.Subtasks {
		st.CompletedAt = clonePtr(st.CompletedAt)
		c.Subtasks[i] = st
	}
	c.Comments = append([]Comment{}, t.Comments...)
	c.History = append([]HistoryEntry{}, t.History...)
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
