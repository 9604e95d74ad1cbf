package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store, or is already soft-deleted where an operation requires it open.
	// This is the generic version of the entity-specific not found errors.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidEntity is returned when an entity fails a storage constraint
	// before or during a write. Check the wrapped error for details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity.
	ErrDuplicate = errors.New("entity already exists")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrColumnUnsupported is returned when a caller requests a
	// per-occurrence field edit that the current storage schema does not
	// carry a column for. This is a capability gap, distinct from both
	// validation failures and storage failures.
	ErrColumnUnsupported = errors.New("storage schema does not support this column")

	// Entity-specific "not found" errors

	// ErrSeriesNotFound indicates the requested series does not exist.
	ErrSeriesNotFound = fmt.Errorf("%w: series", ErrNotFound)

	// ErrOccurrenceNotFound indicates the requested occurrence does not
	// exist or was already completed. Completion reports this distinctly so
	// callers can tell a replayed completion from a fresh one.
	ErrOccurrenceNotFound = fmt.Errorf("%w: occurrence", ErrNotFound)

	// ErrEmployeeNotFound indicates no directory row matches the login.
	ErrEmployeeNotFound = fmt.Errorf("%w: employee", ErrNotFound)

	// Capability-specific errors

	// ErrOccurrenceTitleUnsupported is returned when a per-occurrence title
	// edit is requested without the routine_occurrence.title column.
	ErrOccurrenceTitleUnsupported = fmt.Errorf(
		"%w: per-occurrence titles need the routine_occurrence.title column", ErrColumnUnsupported)

	// ErrOccurrenceAssigneeUnsupported is returned when a per-occurrence
	// assignee edit is requested without the routine_occurrence.assignee column.
	ErrOccurrenceAssigneeUnsupported = fmt.Errorf(
		"%w: per-occurrence assignees need the routine_occurrence.assignee column", ErrColumnUnsupported)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsCapabilityError checks if the error is a schema capability gap.
func IsCapabilityError(err error) bool {
	return errors.Is(err, ErrColumnUnsupported)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "series", "occurrence")
	Operation string // The operation that failed (e.g., "create", "update")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation,
// message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
