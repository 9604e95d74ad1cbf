package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/routine-api/internal/domain"
	"github.com/phrazzld/routine-api/internal/store"
)

// OccurrenceUpdateInput carries the sparse fields of an occurrence update.
// Title and Assignees require the per-occurrence override columns; without
// them the update is rejected rather than silently dropped.
type OccurrenceUpdateInput struct {
	DueDate   *string // YYYY-MM-DD
	Status    *string
	Summary   *string
	Title     *string
	Assignees []string
	// AssigneesSet distinguishes "clear the assignee" from "not supplied".
	AssigneesSet bool
}

// OccurrenceService provides occurrence-level operations: the joined
// listing, sparse updates, and single-row completion.
type OccurrenceService interface {
	// List returns one page of open occurrences joined with their parent
	// series, plus whether a further page exists.
	List(ctx context.Context, filter store.OccurrenceFilter, page store.Page) ([]*domain.OccurrenceView, bool, error)

	// Update applies a sparse update to an occurrence. Title/assignee
	// changes on a schema without the override columns fail with a
	// capability error. An update with no recognized fields succeeds
	// without touching storage.
	Update(ctx context.Context, id int64, in OccurrenceUpdateInput) error

	// Complete soft-deletes a single open occurrence and sets its terminal
	// status. Completing an already-completed occurrence returns
	// ErrOccurrenceNotFound.
	Complete(ctx context.Context, id int64) error
}

// OccurrenceServiceError wraps errors from the occurrence service with context.
type OccurrenceServiceError struct {
	// Operation is the operation that failed (e.g., "update_occurrence")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for OccurrenceServiceError.
func (e *OccurrenceServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("occurrence service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("occurrence service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *OccurrenceServiceError) Unwrap() error {
	return e.Err
}

// NewOccurrenceServiceError creates a new OccurrenceServiceError.
// Sentinel, validation, and capability errors pass through unwrapped so
// callers can match them with errors.Is.
func NewOccurrenceServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrOccurrenceNotFound) ||
		domain.IsValidationError(err) ||
		store.IsCapabilityError(err) {
		return err
	}
	if errors.Is(err, store.ErrOccurrenceNotFound) {
		return ErrOccurrenceNotFound
	}
	return &OccurrenceServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// occurrenceServiceImpl implements the OccurrenceService interface
type occurrenceServiceImpl struct {
	occurrenceStore store.OccurrenceStore
	logger          *slog.Logger
}

// NewOccurrenceService creates a new OccurrenceService.
// It returns an error if the occurrence store is nil.
func NewOccurrenceService(
	occurrenceStore store.OccurrenceStore,
	logger *slog.Logger,
) (OccurrenceService, error) {
	if occurrenceStore == nil {
		return nil, &OccurrenceServiceError{
			Operation: "create_service",
			Message:   "occurrenceStore cannot be nil",
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &occurrenceServiceImpl{
		occurrenceStore: occurrenceStore,
		logger:          logger.With("component", "occurrence_service"),
	}, nil
}

// List returns one page of the joined occurrence listing.
func (s *occurrenceServiceImpl) List(
	ctx context.Context,
	filter store.OccurrenceFilter,
	page store.Page,
) ([]*domain.OccurrenceView, bool, error) {
	result, hasNext, err := s.occurrenceStore.List(ctx, filter, page)
	if err != nil {
		return nil, false, NewOccurrenceServiceError("list_occurrences", "failed to list occurrences", err)
	}
	return result, hasNext, nil
}

// Update applies a sparse update to one occurrence.
func (s *occurrenceServiceImpl) Update(ctx context.Context, id int64, in OccurrenceUpdateInput) error {
	var patch domain.OccurrencePatch

	if in.DueDate != nil {
		due, err := time.ParseInLocation("2006-01-02", *in.DueDate, time.UTC)
		if err != nil {
			return NewOccurrenceServiceError("update_occurrence", "invalid due date", domain.ErrDueDateFormat)
		}
		patch.DueDate = &due
	}
	patch.Status = in.Status
	patch.Summary = in.Summary
	patch.Title = in.Title
	if in.AssigneesSet {
		joined := domain.JoinAssignees(in.Assignees)
		patch.Assignee = &joined
	}

	if patch.IsZero() {
		s.logger.Debug("occurrence update contained no recognized fields", "occurrence_id", id)
		return nil
	}

	if err := s.occurrenceStore.Update(ctx, id, patch); err != nil {
		return NewOccurrenceServiceError("update_occurrence", "failed to update occurrence", err)
	}
	s.logger.Info("occurrence updated", "occurrence_id", id)
	return nil
}

// Complete soft-deletes one open occurrence.
func (s *occurrenceServiceImpl) Complete(ctx context.Context, id int64) error {
	if err := s.occurrenceStore.Complete(ctx, id); err != nil {
		return NewOccurrenceServiceError("complete_occurrence", "failed to complete occurrence", err)
	}
	s.logger.Info("occurrence completed", "occurrence_id", id)
	return nil
}
