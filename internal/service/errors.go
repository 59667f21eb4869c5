package service

import (
	"errors"
	"fmt"
)

// Service-level sentinel errors. Callers check them with errors.Is and the
// API layer maps each to a status code and a client-safe message.
var (
	// ErrNotFound is the parent of every service "not found" error.
	ErrNotFound = errors.New("not found")

	// ErrTaskNotFound covers both missing tasks and tasks outside the caller's scope.
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)

	// ErrStatusNotFound indicates the requested status does not exist.
	ErrStatusNotFound = fmt.Errorf("%w: status", ErrNotFound)

	// ErrCategoryNotFound indicates the requested category does not exist.
	ErrCategoryNotFound = fmt.Errorf("%w: category", ErrNotFound)

	// ErrTaskLogNotFound indicates the requested audit entry does not exist.
	ErrTaskLogNotFound = fmt.Errorf("%w: task log", ErrNotFound)

	// ErrUserNotFound indicates the user behind a token no longer exists.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrDuplicateTitle is returned when the owner already has a task with the same title.
	ErrDuplicateTitle = errors.New("task title already used by this owner")

	// ErrPendingStatusMissing is returned on task creation when the pending
	// status has not been seeded.
	ErrPendingStatusMissing = errors.New("pending status does not exist")

	// ErrInvalidReference is returned when a status_id or category_id points at no row.
	ErrInvalidReference = errors.New("referenced entity does not exist")

	// ErrInUse is returned when deleting a status that tasks still reference.
	ErrInUse = errors.New("entity is still in use")

	// ErrDuplicateName is returned when a status or category name is taken.
	ErrDuplicateName = errors.New("name already exists")

	// ErrEmailTaken is returned on registration when the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
)

// ReferenceError names the request field whose reference did not resolve.
type ReferenceError struct {
	Field string
	ID    int64
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s %d does not exist", e.Field, e.ID)
}

// Unwrap lets errors.Is match ErrInvalidReference.
func (e *ReferenceError) Unwrap() error {
	return ErrInvalidReference
}

// ServiceError wraps an unexpected failure with the entity and operation it
// happened in. Expected conditions are returned as the sentinels above instead.
type ServiceError struct {
	Entity    string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Entity, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Entity, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(entity, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
