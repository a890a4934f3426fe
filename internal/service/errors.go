package service

import (
	"errors"
	"fmt"

	"github.com/chetarea/tarea-api/internal/domain"
)

// Common service errors
var (
	// ErrInvalidCredentials is returned for an unknown email, a wrong
	// password or an inactive account alike.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrCannotDeactivateSelf prevents an administrator from locking themselves out.
	ErrCannotDeactivateSelf = fmt.Errorf("%w: you cannot deactivate your own account", domain.ErrValidation)

	// ErrIncorrectPassword is returned by ChangePassword when the current password does not match.
	ErrIncorrectPassword = fmt.Errorf("%w: current password is incorrect", domain.ErrValidation)

	// ErrAssigneeUnavailable means the assignee does not exist or is inactive.
	ErrAssigneeUnavailable = fmt.Errorf("%w: assigned user does not exist or is inactive", domain.ErrValidation)

	// ErrUnknownTag means a referenced tag does not exist or is not visible to the user.
	ErrUnknownTag = fmt.Errorf("%w: tag does not exist", domain.ErrValidation)
)

// ServiceError wraps unexpected failures with the operation that produced them.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError wraps err. It returns nil when err is nil.
func NewServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
