package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/routine-api/internal/domain"
)

// SeriesFilter narrows a parent listing. Assignee and Registrant match as
// substrings; the month bounds compare against the persisted YYYY-MM values.
type SeriesFilter struct {
	Assignee   string
	Registrant string
	StartFrom  string
	EndTo      string
	Department string
	TaskKind   domain.TaskKind
}

// SeriesStore persists parent series records.
type SeriesStore interface {
	// Create inserts a new series and populates its ID.
	Create(ctx context.Context, series *domain.Series) error

	// GetByID retrieves a series regardless of its deletion state.
	// Returns ErrSeriesNotFound if no row exists.
	GetByID(ctx context.Context, id int64) (*domain.Series, error)

	// GetTaskKind returns the stored task kind of a series, normalized.
	// Returns ErrSeriesNotFound if no row exists.
	GetTaskKind(ctx context.Context, id int64) (domain.TaskKind, error)

	// GetAssignee returns the stored series-level assignee value.
	// Returns ErrSeriesNotFound if no row exists.
	GetAssignee(ctx context.Context, id int64) (*string, error)

	// List returns one page of open series matching the filter, newest
	// start month first, plus whether a further page exists.
	List(ctx context.Context, filter SeriesFilter, page Page) ([]*domain.Series, bool, error)

	// Update applies a sparse patch to a series and bumps updated_at.
	// A zero patch is a no-op.
	Update(ctx context.Context, id int64, patch domain.SeriesPatch) error

	// CompleteOpen soft-deletes the series and forces its status to the
	// terminal completed value, touching only a currently-open row.
	// Returns the number of rows affected (0 when already completed).
	CompleteOpen(ctx context.Context, id int64) (int64, error)

	// WithTx returns a store bound to the given transaction.
	WithTx(tx *sql.Tx) SeriesStore
}
