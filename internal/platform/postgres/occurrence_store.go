package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/phrazzld/routine-api/internal/domain"
	"github.com/phrazzld/routine-api/internal/domain/schedule"
	"github.com/phrazzld/routine-api/internal/platform/logger"
	"github.com/phrazzld/routine-api/internal/store"
)

// PostgresOccurrenceStore implements the store.OccurrenceStore interface
// using a PostgreSQL database as the storage backend. The optional
// per-occurrence title/assignee columns are consulted through the shared
// schema capability probe, so the same binary runs against schemas with or
// without them.
type PostgresOccurrenceStore struct {
	db     store.DBTX
	caps   store.SchemaCapabilities
	logger *slog.Logger
}

// NewPostgresOccurrenceStore creates a new PostgreSQL implementation of the
// OccurrenceStore interface. If logger is nil, a default logger will be used.
func NewPostgresOccurrenceStore(
	db store.DBTX,
	caps store.SchemaCapabilities,
	logger *slog.Logger,
) *PostgresOccurrenceStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if caps == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("caps cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresOccurrenceStore{
		db:     db,
		caps:   caps,
		logger: logger.With(slog.String("component", "occurrence_store")),
	}
}

// Ensure PostgresOccurrenceStore implements store.OccurrenceStore interface
var _ store.OccurrenceStore = (*PostgresOccurrenceStore)(nil)

// WithTx implements store.OccurrenceStore.WithTx
func (s *PostgresOccurrenceStore) WithTx(tx *sql.Tx) store.OccurrenceStore {
	return &PostgresOccurrenceStore{db: tx, caps: s.caps, logger: s.logger}
}

// CreateBatch implements store.OccurrenceStore.CreateBatch
func (s *PostgresOccurrenceStore) CreateBatch(
	ctx context.Context,
	seriesID int64,
	occurrences []domain.Occurrence,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	columns := []string{"task_no", "routine_no", "due_date", "status", "summary"}
	hasTitle := s.caps.OccurrenceHasTitle(ctx)
	hasAssignee := s.caps.OccurrenceHasAssignee(ctx)
	if hasTitle {
		columns = append(columns, "title")
	}
	if hasAssignee {
		columns = append(columns, "assignee")
	}

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf(
		`INSERT INTO routine_occurrence (%s) VALUES (%s) RETURNING record_no`,
		strings.Join(columns, ", "), strings.Join(placeholders, ", "),
	)

	for i := range occurrences {
		occ := &occurrences[i]
		args := []any{seriesID, occ.Seq, occ.DueDate, occ.Status, occ.Summary}
		if hasTitle {
			args = append(args, occ.Title)
		}
		if hasAssignee {
			args = append(args, occ.Assignee)
		}
		if err := s.db.QueryRowContext(ctx, query, args...).Scan(&occ.ID); err != nil {
			log.Error("failed to create occurrence",
				slog.String("error", err.Error()),
				slog.Int64("series_id", seriesID),
				slog.Int("seq", occ.Seq))
			return MapError(err)
		}
		occ.SeriesID = seriesID
	}

	log.Info("occurrences created",
		slog.Int64("series_id", seriesID),
		slog.Int("count", len(occurrences)))
	return nil
}

// List implements store.OccurrenceStore.List
// Open occurrences are joined with their parent series; per-occurrence
// title/assignee overrides win over the series values when the schema
// carries those columns.
func (s *PostgresOccurrenceStore) List(
	ctx context.Context,
	filter store.OccurrenceFilter,
	page store.Page,
) ([]*domain.OccurrenceView, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	page = page.Normalize()

	titleExpr := "p.title"
	if s.caps.OccurrenceHasTitle(ctx) {
		titleExpr = "COALESCE(o.title, p.title)"
	}
	assigneeExpr := "p.assignee"
	if s.caps.OccurrenceHasAssignee(ctx) {
		assigneeExpr = "COALESCE(o.assignee, p.assignee)"
	}

	conds := []string{"o.is_deleted = FALSE", "p.is_deleted = FALSE"}
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.TaskKind != "" {
		conds = append(conds, "p.task_kind = "+arg(filter.TaskKind))
	}

	query := `
		SELECT
			o.record_no, o.task_no, o.routine_no, o.due_date, o.status,
			COALESCE(o.summary, p.summary) AS summary,
			` + titleExpr + ` AS title,
			` + assigneeExpr + ` AS assignee,
			p.frequency, p.half_year, p.start_month, p.end_month,
			p.task_kind, p.registrant, p.attachment_link
		FROM routine_occurrence o
		JOIN routine_series p ON p.task_no = o.task_no
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY o.due_date ASC, o.record_no ASC
		OFFSET ` + arg(page.Offset()) + ` LIMIT ` + arg(page.Size+1)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list occurrences", slog.String("error", err.Error()))
		return nil, false, MapError(err)
	}
	defer closeRows(ctx, rows)

	var result []*domain.OccurrenceView
	for rows.Next() {
		view, err := scanOccurrenceView(rows)
		if err != nil {
			log.Error("failed to scan occurrence row", slog.String("error", err.Error()))
			return nil, false, MapError(err)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating occurrence rows", slog.String("error", err.Error()))
		return nil, false, MapError(err)
	}

	hasNext := len(result) > page.Size
	if hasNext {
		result = result[:page.Size]
	}
	return result, hasNext, nil
}

// Update implements store.OccurrenceStore.Update
func (s *PostgresOccurrenceStore) Update(ctx context.Context, id int64, patch domain.OccurrencePatch) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if patch.Title != nil && !s.caps.OccurrenceHasTitle(ctx) {
		return store.ErrOccurrenceTitleUnsupported
	}
	if patch.Assignee != nil && !s.caps.OccurrenceHasAssignee(ctx) {
		return store.ErrOccurrenceAssigneeUnsupported
	}

	var clauses []string
	var args []any
	set := func(column string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.DueDate != nil {
		set("due_date", *patch.DueDate)
	}
	if patch.Status != nil {
		set("status", *patch.Status)
	}
	if patch.Summary != nil {
		set("summary", *patch.Summary)
	}
	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Assignee != nil {
		set("assignee", *patch.Assignee)
	}
	if len(clauses) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE routine_occurrence SET %s, updated_at = now() WHERE record_no = $%d`,
		strings.Join(clauses, ", "), len(args),
	)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update occurrence",
			slog.String("error", err.Error()),
			slog.Int64("occurrence_id", id))
		return MapError(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if rowsAffected == 0 {
		log.Debug("occurrence not found for update", slog.Int64("occurrence_id", id))
		return store.ErrOccurrenceNotFound
	}

	log.Info("occurrence updated", slog.Int64("occurrence_id", id))
	return nil
}

// Complete implements store.OccurrenceStore.Complete
func (s *PostgresOccurrenceStore) Complete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE routine_occurrence
		SET is_deleted = TRUE,
		    deleted_at = now(),
		    status = $1,
		    updated_at = now()
		WHERE record_no = $2
		  AND is_deleted = FALSE
	`
	result, err := s.db.ExecContext(ctx, query, domain.StatusCompleted, id)
	if err != nil {
		log.Error("failed to complete occurrence",
			slog.String("error", err.Error()),
			slog.Int64("occurrence_id", id))
		return MapError(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if rowsAffected == 0 {
		log.Debug("no open occurrence to complete", slog.Int64("occurrence_id", id))
		return store.ErrOccurrenceNotFound
	}

	log.Info("occurrence completed", slog.Int64("occurrence_id", id))
	return nil
}

// CompleteBySeries implements store.OccurrenceStore.CompleteBySeries
// Statuses are left as they are; only the soft-delete markers move.
func (s *PostgresOccurrenceStore) CompleteBySeries(ctx context.Context, seriesID int64) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE routine_occurrence
		SET is_deleted = TRUE,
		    deleted_at = now(),
		    updated_at = now()
		WHERE task_no = $1
		  AND is_deleted = FALSE
	`
	result, err := s.db.ExecContext(ctx, query, seriesID)
	if err != nil {
		log.Error("failed to complete occurrences for series",
			slog.String("error", err.Error()),
			slog.Int64("series_id", seriesID))
		return 0, MapError(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, MapError(err)
	}
	return rowsAffected, nil
}

// OverwriteAssignees implements store.OccurrenceStore.OverwriteAssignees
func (s *PostgresOccurrenceStore) OverwriteAssignees(ctx context.Context, seriesID int64, assignee *string) error {
	if !s.caps.OccurrenceHasAssignee(ctx) {
		return nil
	}
	query := `
		UPDATE routine_occurrence
		SET assignee = $1, updated_at = now()
		WHERE task_no = $2
		  AND is_deleted = FALSE
	`
	if _, err := s.db.ExecContext(ctx, query, assignee, seriesID); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error(
			"failed to overwrite occurrence assignees",
			slog.String("error", err.Error()),
			slog.Int64("series_id", seriesID))
		return MapError(err)
	}
	return nil
}

// FillMissingAssignees implements store.OccurrenceStore.FillMissingAssignees
func (s *PostgresOccurrenceStore) FillMissingAssignees(ctx context.Context, seriesID int64, assignee *string) error {
	if !s.caps.OccurrenceHasAssignee(ctx) {
		return nil
	}
	query := `
		UPDATE routine_occurrence
		SET assignee = COALESCE(assignee, $1), updated_at = now()
		WHERE task_no = $2
		  AND is_deleted = FALSE
	`
	if _, err := s.db.ExecContext(ctx, query, assignee, seriesID); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error(
			"failed to fill occurrence assignees",
			slog.String("error", err.Error()),
			slog.Int64("series_id", seriesID))
		return MapError(err)
	}
	return nil
}

func scanOccurrenceView(row rowScanner) (*domain.OccurrenceView, error) {
	var view domain.OccurrenceView
	var frequency, taskKind string
	err := row.Scan(
		&view.ID,
		&view.SeriesID,
		&view.Seq,
		&view.DueDate,
		&view.Status,
		&view.Summary,
		&view.Title,
		&view.Assignee,
		&frequency,
		&view.HalfYear,
		&view.StartMonth,
		&view.EndMonth,
		&taskKind,
		&view.Registrant,
		&view.Attachment,
	)
	if err != nil {
		return nil, err
	}

	view.Frequency = domain.Cadence(frequency)
	view.TaskKind = domain.TaskKind(taskKind)
	if view.Assignee != nil {
		view.Assignees = domain.SplitAssignees(*view.Assignee)
	}

	// Each occurrence carries its own calendar, taken from its concrete
	// due date rather than the parent's generation parameters: a Feb-Apr
	// monthly series lists three distinct months, not the parent's one.
	due := view.DueDate
	q := schedule.QuarterOf(int(due.Month()))
	view.Year = due.Year()
	view.Quarter = strconv.Itoa(q)
	view.Month = int(due.Month())
	view.WeekNum = schedule.WeekOfMonth(due.Day())
	if view.HalfYear == nil {
		if half, ok := domain.HalfYearFromQuarter(q); ok {
			view.HalfYear = &half
		}
	}
	return &view, nil
}
