package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/routine-api/internal/domain"
)

// OccurrenceFilter narrows the joined occurrence listing.
type OccurrenceFilter struct {
	TaskKind domain.TaskKind
}

// OccurrenceStore persists the materialized child occurrences of a series.
type OccurrenceStore interface {
	// CreateBatch inserts occurrences for a series in sequence order,
	// populating their IDs. Per-occurrence title/assignee values are only
	// written when the schema carries those columns.
	CreateBatch(ctx context.Context, seriesID int64, occurrences []domain.Occurrence) error

	// List returns one page of open occurrences joined with their parent
	// series, plus whether a further page exists.
	List(ctx context.Context, filter OccurrenceFilter, page Page) ([]*domain.OccurrenceView, bool, error)

	// Update applies a sparse patch to an occurrence and bumps updated_at.
	// Title/assignee changes without the backing columns return
	// ErrOccurrenceTitleUnsupported / ErrOccurrenceAssigneeUnsupported.
	// A zero patch is a no-op.
	Update(ctx context.Context, id int64, patch domain.OccurrencePatch) error

	// Complete soft-deletes a single open occurrence and forces its status
	// to the terminal completed value. Returns ErrOccurrenceNotFound when
	// no open row matched, so a replayed completion is distinguishable
	// from a fresh one.
	Complete(ctx context.Context, id int64) error

	// CompleteBySeries soft-deletes every open occurrence of a series,
	// leaving their statuses untouched. Returns rows affected.
	CompleteBySeries(ctx context.Context, seriesID int64) (int64, error)

	// OverwriteAssignees sets the assignee on every open occurrence of a
	// series unconditionally. No-op when the schema has no assignee column.
	OverwriteAssignees(ctx context.Context, seriesID int64, assignee *string) error

	// FillMissingAssignees sets the assignee only on open occurrences that
	// currently have none, preserving per-occurrence overrides. No-op when
	// the schema has no assignee column.
	FillMissingAssignees(ctx context.Context, seriesID int64, assignee *string) error

	// WithTx returns a store bound to the given transaction.
	WithTx(tx *sql.Tx) OccurrenceStore
}

// SchemaCapabilities reports which optional occurrence columns the current
// storage schema carries. Implementations probe lazily once per process and
// cache the answer; absence of a column degrades listings to the
// series-level values rather than failing.
type SchemaCapabilities interface {
	OccurrenceHasTitle(ctx context.Context) bool
	OccurrenceHasAssignee(ctx context.Context) bool
}
