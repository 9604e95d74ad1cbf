package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/phrazzld/routine-api/internal/domain"
	"github.com/phrazzld/routine-api/internal/store"
)

// SeriesUpdateInput carries the sparse fields of a series update. Nil means
// the field was not supplied. Assignees doubles as the task-kind signal:
// when it is set without an explicit TaskKind, the stored kind is consulted
// so a routine does not silently flip between group and individual.
type SeriesUpdateInput struct {
	Frequency  *string
	HalfYear   *int
	DueDate    *string // YYYY-MM-DD
	StartMonth *string // YYYY-MM
	EndMonth   *string // YYYY-MM
	Year       *int
	Quarter    *int
	Month      *int
	WeekNum    *int
	Assignees  []string
	// AssigneesSet distinguishes "clear the assignee" from "not supplied".
	AssigneesSet bool
	TaskKind     *string
	Registrant   *string
	Status       *string
	Title        *string
	Summary      *string
	// PropagateAssignee controls how an assignee change reaches open
	// occurrences. Nil defaults to true (overwrite all open occurrences);
	// false fills only occurrences without their own assignee, using the
	// value the series had before this update.
	PropagateAssignee *bool
}

// SeriesService provides series-level operations: registration with
// occurrence expansion, listing, sparse updates, and completion.
type SeriesService interface {
	// Register validates the input, expands it into a series plus its
	// occurrence rows, and persists both atomically.
	Register(ctx context.Context, in domain.ExpandInput, registrant, departmentCD string) (*domain.Series, []domain.Occurrence, error)

	// Get retrieves a single series by its identifier.
	Get(ctx context.Context, id int64) (*domain.Series, error)

	// List returns one page of open series matching the filter, plus
	// whether a further page exists.
	List(ctx context.Context, filter store.SeriesFilter, page store.Page) ([]*domain.Series, bool, error)

	// Update applies a sparse update to a series and propagates assignee
	// changes to its open occurrences. An update with no recognized fields
	// succeeds without touching storage.
	Update(ctx context.Context, id int64, in SeriesUpdateInput) error

	// Complete closes a series: the parent is soft-deleted with terminal
	// status, and its open occurrences are soft-deleted with their
	// statuses untouched. Completing an already-closed series returns
	// ErrSeriesNotFound.
	Complete(ctx context.Context, id int64) error
}

// SeriesServiceError wraps errors from the series service with context.
type SeriesServiceError struct {
	// Operation is the operation that failed (e.g., "register_series")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for SeriesServiceError.
func (e *SeriesServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("series service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("series service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *SeriesServiceError) Unwrap() error {
	return e.Err
}

// NewSeriesServiceError creates a new SeriesServiceError.
// Sentinel and validation errors pass through unwrapped so callers can
// match them with errors.Is.
func NewSeriesServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrSeriesNotFound) || domain.IsValidationError(err) {
		return err
	}
	if errors.Is(err, store.ErrSeriesNotFound) {
		return ErrSeriesNotFound
	}
	return &SeriesServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// seriesServiceImpl implements the SeriesService interface
type seriesServiceImpl struct {
	db              *sql.DB
	seriesStore     store.SeriesStore
	occurrenceStore store.OccurrenceStore
	logger          *slog.Logger
	// runInTx defaults to store.RunInTransaction; injectable for tests.
	runInTx func(ctx context.Context, db *sql.DB, fn store.TxFn) error
}

// NewSeriesService creates a new SeriesService.
// It returns an error if any of the required dependencies are nil.
func NewSeriesService(
	db *sql.DB,
	seriesStore store.SeriesStore,
	occurrenceStore store.OccurrenceStore,
	logger *slog.Logger,
) (SeriesService, error) {
	if db == nil {
		return nil, &SeriesServiceError{
			Operation: "create_service",
			Message:   "db cannot be nil",
		}
	}
	if seriesStore == nil {
		return nil, &SeriesServiceError{
			Operation: "create_service",
			Message:   "seriesStore cannot be nil",
		}
	}
	if occurrenceStore == nil {
		return nil, &SeriesServiceError{
			Operation: "create_service",
			Message:   "occurrenceStore cannot be nil",
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &seriesServiceImpl{
		db:              db,
		seriesStore:     seriesStore,
		occurrenceStore: occurrenceStore,
		logger:          logger.With("component", "series_service"),
		runInTx:         store.RunInTransaction,
	}, nil
}

// Register expands the input into a series plus occurrences and persists
// both in one transaction.
func (s *seriesServiceImpl) Register(
	ctx context.Context,
	in domain.ExpandInput,
	registrant, departmentCD string,
) (*domain.Series, []domain.Occurrence, error) {
	series, occurrences, err := domain.Expand(in, registrant, departmentCD)
	if err != nil {
		s.logger.Debug("series expansion rejected",
			"error", err,
			"frequency", in.Frequency)
		return nil, nil, NewSeriesServiceError("register_series", "invalid series input", err)
	}

	err = s.runInTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txSeries := s.seriesStore.WithTx(tx)
		txOccurrences := s.occurrenceStore.WithTx(tx)

		if err := txSeries.Create(ctx, series); err != nil {
			return NewSeriesServiceError("register_series", "failed to save series", err)
		}
		if len(occurrences) == 0 {
			return nil
		}
		if err := txOccurrences.CreateBatch(ctx, series.ID, occurrences); err != nil {
			return NewSeriesServiceError("register_series", "failed to save occurrences", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("series registered",
		"series_id", series.ID,
		"frequency", series.Frequency,
		"occurrence_count", len(occurrences))
	return series, occurrences, nil
}

// Get retrieves a series by ID.
func (s *seriesServiceImpl) Get(ctx context.Context, id int64) (*domain.Series, error) {
	series, err := s.seriesStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrSeriesNotFound) {
			return nil, ErrSeriesNotFound
		}
		return nil, NewSeriesServiceError("get_series", "failed to retrieve series", err)
	}
	return series, nil
}

// List returns one page of open series.
func (s *seriesServiceImpl) List(
	ctx context.Context,
	filter store.SeriesFilter,
	page store.Page,
) ([]*domain.Series, bool, error) {
	result, hasNext, err := s.seriesStore.List(ctx, filter, page)
	if err != nil {
		return nil, false, NewSeriesServiceError("list_series", "failed to list series", err)
	}
	return result, hasNext, nil
}

// Update applies a sparse update, resolving the task kind when only the
// assignee changed and propagating the new assignee to open occurrences.
func (s *seriesServiceImpl) Update(ctx context.Context, id int64, in SeriesUpdateInput) error {
	patch, err := s.buildPatch(in)
	if err != nil {
		return NewSeriesServiceError("update_series", "invalid update input", err)
	}

	var newAssignee *string
	if in.AssigneesSet {
		kind, err := s.resolveUpdateKind(ctx, id, in)
		if err != nil {
			return err
		}
		joined := domain.JoinAssignees(in.Assignees)
		newAssignee = &joined
		patch.Assignee = newAssignee
		patch.TaskKind = &kind
	}

	if patch.IsZero() {
		s.logger.Debug("series update contained no recognized fields", "series_id", id)
		return nil
	}

	propagate := in.PropagateAssignee == nil || *in.PropagateAssignee

	err = s.runInTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txSeries := s.seriesStore.WithTx(tx)
		txOccurrences := s.occurrenceStore.WithTx(tx)

		var previousAssignee *string
		if in.AssigneesSet && !propagate {
			previousAssignee, err = txSeries.GetAssignee(ctx, id)
			if err != nil {
				return NewSeriesServiceError("update_series", "failed to read current assignee", err)
			}
		}

		if err := txSeries.Update(ctx, id, patch); err != nil {
			return NewSeriesServiceError("update_series", "failed to update series", err)
		}

		if in.AssigneesSet {
			if propagate {
				if err := txOccurrences.OverwriteAssignees(ctx, id, newAssignee); err != nil {
					return NewSeriesServiceError("update_series", "failed to propagate assignee", err)
				}
			} else {
				// Occurrences without their own assignee keep showing
				// the value the series had before this update.
				if err := txOccurrences.FillMissingAssignees(ctx, id, previousAssignee); err != nil {
					return NewSeriesServiceError("update_series", "failed to pin previous assignee", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("series updated", "series_id", id, "assignee_changed", in.AssigneesSet)
	return nil
}

// Complete soft-deletes the series and cascades to its open occurrences.
func (s *seriesServiceImpl) Complete(ctx context.Context, id int64) error {
	err := s.runInTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txSeries := s.seriesStore.WithTx(tx)
		txOccurrences := s.occurrenceStore.WithTx(tx)

		closed, err := txSeries.CompleteOpen(ctx, id)
		if err != nil {
			return NewSeriesServiceError("complete_series", "failed to complete series", err)
		}
		if closed == 0 {
			return ErrSeriesNotFound
		}

		cascaded, err := txOccurrences.CompleteBySeries(ctx, id)
		if err != nil {
			return NewSeriesServiceError("complete_series", "failed to close occurrences", err)
		}
		s.logger.Info("series completed",
			"series_id", id,
			"occurrences_closed", cascaded)
		return nil
	})
	return err
}

// buildPatch converts the sparse input into a storage patch, validating
// each supplied field. Assignee and task kind are handled by the caller.
func (s *seriesServiceImpl) buildPatch(in SeriesUpdateInput) (domain.SeriesPatch, error) {
	var patch domain.SeriesPatch

	if in.Frequency != nil {
		cadence, err := domain.ParseCadence(*in.Frequency)
		if err != nil {
			return patch, err
		}
		patch.Frequency = &cadence
	}
	if in.DueDate != nil {
		due, err := time.ParseInLocation("2006-01-02", *in.DueDate, time.UTC)
		if err != nil {
			return patch, domain.ErrDueDateFormat
		}
		patch.DueDate = &due
	}
	if in.StartMonth != nil {
		if _, _, err := domain.ParseYearMonth(*in.StartMonth); err != nil {
			return patch, err
		}
		patch.StartMonth = in.StartMonth
	}
	if in.EndMonth != nil {
		if _, _, err := domain.ParseYearMonth(*in.EndMonth); err != nil {
			return patch, err
		}
		patch.EndMonth = in.EndMonth
	}
	if in.StartMonth != nil && in.EndMonth != nil && *in.EndMonth < *in.StartMonth {
		return patch, domain.ErrEndBeforeStart
	}
	if in.WeekNum != nil {
		if *in.WeekNum < 1 || *in.WeekNum > 4 {
			return patch, domain.ErrWeekOutOfRange
		}
		patch.WeekNum = in.WeekNum
	}
	if in.Year != nil {
		patch.Year = in.Year
	}
	if in.Month != nil {
		patch.Month = in.Month
	}
	if in.Registrant != nil {
		patch.Registrant = in.Registrant
	}
	if in.Status != nil {
		patch.Status = in.Status
	}
	if in.Title != nil {
		patch.Title = in.Title
	}
	if in.Summary != nil {
		patch.Summary = in.Summary
	}

	// A supplied quarter wins over a supplied half-year: the half is
	// rederived from it. Out-of-range quarters are stored as given and
	// leave any explicit half-year in force.
	if in.Quarter != nil {
		quarterStr := strconv.Itoa(*in.Quarter)
		patch.Quarter = &quarterStr
		if half, ok := domain.HalfYearFromQuarter(*in.Quarter); ok {
			patch.HalfYear = &half
		} else if in.HalfYear != nil {
			patch.HalfYear = in.HalfYear
		}
	} else if in.HalfYear != nil {
		patch.HalfYear = in.HalfYear
	}

	return patch, nil
}

// resolveUpdateKind determines the task kind to store alongside a new
// assignee value. An explicit label is resolved the same way as at
// creation; otherwise the stored kind is reused as-is, so an update that
// only touches the assignee never flips a series between group and
// individual.
func (s *seriesServiceImpl) resolveUpdateKind(
	ctx context.Context,
	id int64,
	in SeriesUpdateInput,
) (domain.TaskKind, error) {
	var kind domain.TaskKind
	if in.TaskKind != nil {
		kind = domain.ResolveTaskKind(*in.TaskKind, in.Assignees)
	} else {
		stored, err := s.seriesStore.GetTaskKind(ctx, id)
		if err != nil {
			return "", NewSeriesServiceError("update_series", "failed to read task kind", err)
		}
		kind = stored
	}

	if err := domain.ValidateTaskKindAssignees(kind, in.Assignees); err != nil {
		return "", NewSeriesServiceError("update_series", "invalid assignee set", err)
	}
	return kind, nil
}
