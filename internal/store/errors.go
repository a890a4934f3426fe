package store

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by every store implementation. Entity-specific
// errors wrap the generic ones so callers can match at either level.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrDuplicate     = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)
	ErrTagNotFound  = fmt.Errorf("%w: tag", ErrNotFound)

	// ErrEmailExists is returned when another account already uses the email.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)

	// ErrTagExists is returned when the creator already owns a tag with that name.
	ErrTagExists = fmt.Errorf("%w: tag name", ErrDuplicate)
)

// IsNotFoundError reports whether err is any store "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err is any store uniqueness violation.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
