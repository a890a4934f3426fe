package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTagColor is used when a tag is created without a color.
const DefaultTagColor = "#2563eb"

// MaxTagNameLength bounds tag names.
const MaxTagNameLength = 30

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Tag validation errors
var (
	ErrEmptyTagID      = fmt.Errorf("%w: tag ID cannot be empty", ErrValidation)
	ErrEmptyTagName    = fmt.Errorf("%w: tag name cannot be empty", ErrValidation)
	ErrTagNameTooLong  = fmt.Errorf("%w: tag name exceeds %d characters", ErrValidation, MaxTagNameLength)
	ErrInvalidTagColor = fmt.Errorf("%w: invalid hex color", ErrValidation)
	ErrEmptyTagCreator = fmt.Errorf("%w: tag creator cannot be empty", ErrValidation)
)

// Tag is a colored label a user attaches to tasks. Default tags are
// visible to everyone and managed by administrators.
type Tag struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedBy uuid.UUID `json:"created_by"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTag creates a tag owned by creatorID. An empty color falls back to DefaultTagColor.
func NewTag(creatorID uuid.UUID, name, color string) (*Tag, error) {
	if color == "" {
		color = DefaultTagColor
	}
	now := time.Now().UTC()
	tag := &Tag{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Color:     color,
		CreatedBy: creatorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := tag.Validate(); err != nil {
		return nil, err
	}

	return tag, nil
}

// Validate checks if the Tag has valid data.
func (t *Tag) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTagID
	}
	if t.CreatedBy == uuid.Nil {
		return ErrEmptyTagCreator
	}
	if t.Name == "" {
		return ErrEmptyTagName
	}
	if len([]rune(t.Name)) > MaxTagNameLength {
		return ErrTagNameTooLong
	}
	if !hexColorPattern.MatchString(t.Color) {
		return ErrInvalidTagColor
	}
	return nil
}
