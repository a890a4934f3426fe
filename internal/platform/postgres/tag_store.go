package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/chetarea/tarea-api/internal/domain"
	"github.com/chetarea/tarea-api/internal/platform/logger"
	"github.com/chetarea/tarea-api/internal/redact"
	"github.com/chetarea/tarea-api/internal/store"
	"github.com/google/uuid"
)

const tagColumns = `id, name, color, created_by, is_default, created_at, updated_at`

// PostgresTagStore implements the store.TagStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTagStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTagStore creates a new PostgreSQL implementation of the TagStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTagStore(db store.DBTX, logger *slog.Logger) *PostgresTagStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTagStore{
		db:     db,
		logger: logger.With(slog.String("component", "tag_store")),
	}
}

// Ensure PostgresTagStore implements store.TagStore interface
var _ store.TagStore = (*PostgresTagStore)(nil)

// WithTx implements store.TagStore.WithTx
func (s *PostgresTagStore) WithTx(tx *sql.Tx) store.TagStore {
	return &PostgresTagStore{db: tx, logger: s.logger}
}

// Create implements store.TagStore.Create
func (s *PostgresTagStore) Create(ctx context.Context, tag *domain.Tag) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (`+tagColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		tag.ID, tag.Name, tag.Color, tag.CreatedBy, tag.IsDefault, tag.CreatedAt, tag.UpdatedAt)
	if err != nil {
		if !IsUniqueViolation(err) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to create tag",
				slog.String("error", redact.Error(err)),
				slog.String("tag_id", tag.ID.String()))
		}
		return MapUniqueViolation(err, store.ErrTagExists)
	}
	return nil
}

// GetByID implements store.TagStore.GetByID
func (s *PostgresTagStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags WHERE id = $1`, id)
	tag, err := scanTag(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTagNotFound
		}
		return nil, MapError(err)
	}
	return tag, nil
}

// List implements store.TagStore.List
func (s *PostgresTagStore) List(ctx context.Context, visibleTo *uuid.UUID) ([]*domain.Tag, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if visibleTo == nil {
		rows, err = s.db.QueryContext(ctx, `SELECT `+tagColumns+` FROM tags ORDER BY name`)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+tagColumns+` FROM tags WHERE created_by = $1 OR is_default ORDER BY name`,
			*visibleTo)
	}
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tags",
			slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tags := []*domain.Tag{}
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, MapError(err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return tags, nil
}

// Update implements store.TagStore.Update
func (s *PostgresTagStore) Update(ctx context.Context, tag *domain.Tag) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE tags SET name = $2, color = $3, is_default = $4, updated_at = $5
		WHERE id = $1`,
		tag.ID, tag.Name, tag.Color, tag.IsDefault, tag.UpdatedAt)
	if err != nil {
		return MapUniqueViolation(err, store.ErrTagExists)
	}
	return CheckRowsAffected(result, store.ErrTagNotFound)
}

// Delete implements store.TagStore.Delete
func (s *PostgresTagStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrTagNotFound)
}

func scanTag(row rowScanner) (*domain.Tag, error) {
	var t domain.Tag
	if err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Color,
		&t.CreatedBy,
		&t.IsDefault,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}
