package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chetarea/tarea-api/internal/domain"
	"github.com/chetarea/tarea-api/internal/platform/logger"
	"github.com/chetarea/tarea-api/internal/redact"
	"github.com/chetarea/tarea-api/internal/store"
	"github.com/google/uuid"
)

const taskColumns = `id, title, description, status, priority, tag_ids, assigned_to, created_by,
	subtasks, comments, history, due_date, completed_at, auto_delete_at, is_archived,
	created_at, updated_at`

// PostgresTaskStore implements the store.TaskStore interface. Subtasks,
// comments, history and tag IDs are stored as JSONB arrays on the task row.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{db: tx, logger: s.logger}
}

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", task.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	doc, err := encodeTaskDocument(task)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8, $9::jsonb, $10::jsonb, $11::jsonb,
			$12, $13, $14, $15, $16, $17)`,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		doc.tagIDs,
		nullUUID(task.AssignedTo),
		task.CreatedBy,
		doc.subtasks,
		doc.comments,
		doc.history,
		nullTime(task.DueDate),
		nullTime(task.CompletedAt),
		nullTime(task.AutoDeleteAt),
		task.IsArchived,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create task",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	log.Debug("task created", slog.String("task_id", task.ID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get task",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}
	return task, nil
}

// List implements store.TaskStore.List
func (s *PostgresTaskStore) List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	query, args := buildTaskListQuery(filter)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks",
			slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, MapError(err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return tasks, nil
}

func buildTaskListQuery(filter store.TaskFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.VisibleTo != nil {
		args = append(args, *filter.VisibleTo)
		conds = append(conds, fmt.Sprintf("(created_by = $%d OR assigned_to = $%d)", len(args), len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		conds = append(conds, fmt.Sprintf("priority = $%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		conds = append(conds, fmt.Sprintf("assigned_to = $%d", len(args)))
	}
	if !filter.IncludeArchived {
		conds = append(conds, "is_archived = FALSE")
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"
	return query, args
}

// Update implements store.TaskStore.Update
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", task.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	doc, err := encodeTaskDocument(task)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = $2, description = $3, status = $4, priority = $5, tag_ids = $6::jsonb,
			assigned_to = $7, subtasks = $8::jsonb, comments = $9::jsonb, history = $10::jsonb,
			due_date = $11, completed_at = $12, auto_delete_at = $13, is_archived = $14,
			updated_at = $15
		WHERE id = $1`,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		doc.tagIDs,
		nullUUID(task.AssignedTo),
		doc.subtasks,
		doc.comments,
		doc.history,
		nullTime(task.DueDate),
		nullTime(task.CompletedAt),
		nullTime(task.AutoDeleteAt),
		task.IsArchived,
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete task",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// DeleteExpired implements store.TaskStore.DeleteExpired
func (s *PostgresTaskStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE status = $1 AND auto_delete_at <= $2`,
		domain.TaskStatusDone, now.UTC())
	if err != nil {
		return 0, MapError(err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return deleted, nil
}

// RemoveTag implements store.TaskStore.RemoveTag
func (s *PostgresTaskStore) RemoveTag(ctx context.Context, tagID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE tasks
		SET tag_ids = tag_ids - $1::text, updated_at = NOW()
		WHERE tag_ids @> jsonb_build_array($1::text)`,
		tagID.String())
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to detach tag from tasks",
			slog.String("error", redact.Error(err)),
			slog.String("tag_id", tagID.String()))
		return MapError(err)
	}
	return nil
}

// taskDocument holds the JSONB encodings of a task's embedded collections.
type taskDocument struct {
	tagIDs   string
	subtasks string
	comments string
	history  string
}

func encodeTaskDocument(task *domain.Task) (taskDocument, error) {
	var doc taskDocument
	parts := []struct {
		dst *string
		src any
	}{
		{&doc.tagIDs, nonNil(task.TagIDs)},
		{&doc.subtasks, nonNil(task.Subtasks)},
		{&doc.comments, nonNil(task.Comments)},
		{&doc.history, nonNil(task.History)},
	}
	for _, p := range parts {
		b, err := json.Marshal(p.src)
		if err != nil {
			return doc, fmt.Errorf("failed to encode task document: %w", err)
		}
		*p.dst = string(b)
	}
	return doc, nil
}

// nonNil keeps nil slices from being stored as JSON null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		t                                   domain.Task
		assignedTo                          uuid.NullUUID
		tagIDs, subtasks, comments, history []byte
		dueDate, completedAt, autoDeleteAt  sql.NullTime
	)

	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Priority,
		&tagIDs,
		&assignedTo,
		&t.CreatedBy,
		&subtasks,
		&comments,
		&history,
		&dueDate,
		&completedAt,
		&autoDeleteAt,
		&t.IsArchived,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if assignedTo.Valid {
		id := assignedTo.UUID
		t.AssignedTo = &id
	}
	t.DueDate = timePtr(dueDate)
	t.CompletedAt = timePtr(completedAt)
	t.AutoDeleteAt = timePtr(autoDeleteAt)
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()

	for _, part := range []struct {
		raw []byte
		dst any
	}{
		{tagIDs, &t.TagIDs},
		{subtasks, &t.Subtasks},
		{comments, &t.Comments},
		{history, &t.History},
	} {
		if err := json.Unmarshal(part.raw, part.dst); err != nil {
			return nil, fmt.Errorf("failed to decode task %s document: %w", t.ID, err)
		}
	}

	return &t, nil
}
