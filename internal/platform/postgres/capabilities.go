package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"

	"github.com/phrazzld/routine-api/internal/platform/logger"
	"github.com/phrazzld/routine-api/internal/store"
)

// schemaCapabilities probes the storage schema for the optional
// per-occurrence override columns. Each column is probed at most once per
// process life; the answer is cached until restart. Probe failures degrade
// to "absent" so a flaky connection can never unlock writes to a column
// that may not exist.
type schemaCapabilities struct {
	db *sql.DB

	titleOnce sync.Once
	hasTitle  bool

	assigneeOnce sync.Once
	hasAssignee  bool
}

// NewSchemaCapabilities creates the lazily-probed capability flags for the
// given database.
func NewSchemaCapabilities(db *sql.DB) store.SchemaCapabilities {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	return &schemaCapabilities{db: db}
}

// Ensure schemaCapabilities implements store.SchemaCapabilities
var _ store.SchemaCapabilities = (*schemaCapabilities)(nil)

// OccurrenceHasTitle reports whether routine_occurrence carries a title column.
func (c *schemaCapabilities) OccurrenceHasTitle(ctx context.Context) bool {
	c.titleOnce.Do(func() {
		c.hasTitle = c.probeColumn(ctx, "title")
	})
	return c.hasTitle
}

// OccurrenceHasAssignee reports whether routine_occurrence carries an
// assignee column.
func (c *schemaCapabilities) OccurrenceHasAssignee(ctx context.Context) bool {
	c.assigneeOnce.Do(func() {
		c.hasAssignee = c.probeColumn(ctx, "assignee")
	})
	return c.hasAssignee
}

func (c *schemaCapabilities) probeColumn(ctx context.Context, column string) bool {
	const query = `
		SELECT EXISTS (
			SELECT 1
			FROM information_schema.columns
			WHERE table_name = 'routine_occurrence'
			  AND column_name = $1
		)
	`
	var exists bool
	if err := c.db.QueryRowContext(ctx, query, column).Scan(&exists); err != nil {
		logger.FromContext(ctx).Warn("schema capability probe failed, treating column as absent",
			slog.String("column", column),
			slog.String("error", err.Error()))
		return false
	}
	return exists
}
