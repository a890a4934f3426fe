package domain

import "errors"

// ErrValidation is wrapped by every field-level validation error, so
// errors.Is(err, ErrValidation) identifies a rejected input.
var ErrValidation = errors.New("validation failed")

var (
	ErrInvalidID        = errors.New("invalid ID")
	ErrNotPendingReview = errors.New("task is not pending review")
	ErrSubtaskNotFound  = errors.New("subtask not found")
)

// IsValidationError reports whether err wraps ErrValidation.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}
