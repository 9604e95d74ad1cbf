package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/routine-api/internal/domain"
	"github.com/phrazzld/routine-api/internal/platform/logger"
	"github.com/phrazzld/routine-api/internal/store"
)

// PostgresSeriesStore implements the store.SeriesStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSeriesStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSeriesStore creates a new PostgreSQL implementation of the
// SeriesStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresSeriesStore(db store.DBTX, logger *slog.Logger) *PostgresSeriesStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresSeriesStore{
		db:     db,
		logger: logger.With(slog.String("component", "series_store")),
	}
}

// Ensure PostgresSeriesStore implements store.SeriesStore interface
var _ store.SeriesStore = (*PostgresSeriesStore)(nil)

// WithTx implements store.SeriesStore.WithTx
func (s *PostgresSeriesStore) WithTx(tx *sql.Tx) store.SeriesStore {
	return &PostgresSeriesStore{db: tx, logger: s.logger}
}

// seriesColumns is the scan order shared by every series SELECT.
const seriesColumns = `
	task_no, frequency, half_year, due_date, start_month, end_month,
	department_cd, year, quarter, month, week_num, assignee, task_kind,
	registrant, status, title, attachment_link, summary,
	is_deleted, deleted_at, created_at, updated_at
`

// Create implements store.SeriesStore.Create
// It inserts the series and populates its generated identifier.
func (s *PostgresSeriesStore) Create(ctx context.Context, series *domain.Series) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO routine_series (
			frequency, half_year, due_date, start_month, end_month,
			department_cd, year, quarter, month, week_num, assignee,
			task_kind, registrant, status, title, attachment_link, summary
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING task_no
	`

	err := s.db.QueryRowContext(
		ctx,
		query,
		series.Frequency,
		series.HalfYear,
		series.DueDate,
		series.StartMonth,
		series.EndMonth,
		series.DepartmentCD,
		series.Year,
		series.Quarter,
		series.Month,
		series.WeekNum,
		series.Assignee,
		series.TaskKind,
		series.Registrant,
		series.Status,
		series.Title,
		series.AttachmentLink,
		series.Summary,
	).Scan(&series.ID)

	if err != nil {
		log.Error("failed to create series",
			slog.String("error", err.Error()),
			slog.String("title", series.Title))
		return MapError(err)
	}

	log.Info("series created",
		slog.Int64("series_id", series.ID),
		slog.String("frequency", string(series.Frequency)))
	return nil
}

// GetByID implements store.SeriesStore.GetByID
func (s *PostgresSeriesStore) GetByID(ctx context.Context, id int64) (*domain.Series, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + seriesColumns + ` FROM routine_series WHERE task_no = $1`

	series, err := scanSeries(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("series not found", slog.Int64("series_id", id))
			return nil, store.ErrSeriesNotFound
		}
		log.Error("failed to get series by ID",
			slog.String("error", err.Error()),
			slog.Int64("series_id", id))
		return nil, MapError(err)
	}
	return series, nil
}

// GetTaskKind implements store.SeriesStore.GetTaskKind
// The stored label is re-normalized so legacy or hand-edited rows still
// resolve to a canonical kind.
func (s *PostgresSeriesStore) GetTaskKind(ctx context.Context, id int64) (domain.TaskKind, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var raw sql.NullString
	err := s.db.QueryRowContext(
		ctx, `SELECT task_kind FROM routine_series WHERE task_no = $1`, id,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", store.ErrSeriesNotFound
		}
		log.Error("failed to get series task kind",
			slog.String("error", err.Error()),
			slog.Int64("series_id", id))
		return "", MapError(err)
	}

	if kind, ok := domain.ParseTaskKind(raw.String); ok {
		return kind, nil
	}
	return domain.TaskKindIndividual, nil
}

// GetAssignee implements store.SeriesStore.GetAssignee
func (s *PostgresSeriesStore) GetAssignee(ctx context.Context, id int64) (*string, error) {
	var assignee *string
	err := s.db.QueryRowContext(
		ctx, `SELECT assignee FROM routine_series WHERE task_no = $1`, id,
	).Scan(&assignee)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSeriesNotFound
		}
		return nil, MapError(err)
	}
	return assignee, nil
}

// List implements store.SeriesStore.List
// Soft-deleted series are always excluded. One extra row beyond the page is
// fetched to detect whether a next page exists.
func (s *PostgresSeriesStore) List(
	ctx context.Context,
	filter store.SeriesFilter,
	page store.Page,
) ([]*domain.Series, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	page = page.Normalize()

	conds := []string{"is_deleted = FALSE"}
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Assignee != "" {
		conds = append(conds, "assignee LIKE "+arg("%"+filter.Assignee+"%"))
	}
	if filter.Registrant != "" {
		conds = append(conds, "registrant LIKE "+arg("%"+filter.Registrant+"%"))
	}
	if filter.StartFrom != "" {
		conds = append(conds, "start_month >= "+arg(filter.StartFrom))
	}
	if filter.EndTo != "" {
		conds = append(conds, "end_month <= "+arg(filter.EndTo))
	}
	if filter.Department != "" {
		conds = append(conds, "department_cd = "+arg(filter.Department))
	}
	if filter.TaskKind != "" {
		conds = append(conds, "task_kind = "+arg(filter.TaskKind))
	}

	query := `SELECT ` + seriesColumns + `
		FROM routine_series
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY start_month DESC, task_no DESC
		OFFSET ` + arg(page.Offset()) + ` LIMIT ` + arg(page.Size+1)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list series", slog.String("error", err.Error()))
		return nil, false, MapError(err)
	}
	defer closeRows(ctx, rows)

	var result []*domain.Series
	for rows.Next() {
		series, err := scanSeries(rows)
		if err != nil {
			log.Error("failed to scan series row", slog.String("error", err.Error()))
			return nil, false, MapError(err)
		}
		result = append(result, series)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating series rows", slog.String("error", err.Error()))
		return nil, false, MapError(err)
	}

	hasNext := len(result) > page.Size
	if hasNext {
		result = result[:page.Size]
	}
	return result, hasNext, nil
}

// Update implements store.SeriesStore.Update
func (s *PostgresSeriesStore) Update(ctx context.Context, id int64, patch domain.SeriesPatch) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	setClauses, args := buildSeriesUpdate(patch)
	if len(setClauses) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE routine_series SET %s, updated_at = now() WHERE task_no = $%d`,
		strings.Join(setClauses, ", "), len(args),
	)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update series",
			slog.String("error", err.Error()),
			slog.Int64("series_id", id))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if rowsAffected == 0 {
		log.Debug("series not found for update", slog.Int64("series_id", id))
		return store.ErrSeriesNotFound
	}

	log.Info("series updated", slog.Int64("series_id", id))
	return nil
}

// CompleteOpen implements store.SeriesStore.CompleteOpen
func (s *PostgresSeriesStore) CompleteOpen(ctx context.Context, id int64) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE routine_series
		SET is_deleted = TRUE,
		    deleted_at = now(),
		    status = $1,
		    updated_at = now()
		WHERE task_no = $2
		  AND is_deleted = FALSE
	`
	result, err := s.db.ExecContext(ctx, query, domain.StatusCompleted, id)
	if err != nil {
		log.Error("failed to complete series",
			slog.String("error", err.Error()),
			slog.Int64("series_id", id))
		return 0, MapError(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, MapError(err)
	}
	return rowsAffected, nil
}

// buildSeriesUpdate turns a sparse patch into SET clauses and their
// positional arguments, in a stable column order.
func buildSeriesUpdate(patch domain.SeriesPatch) ([]string, []any) {
	var clauses []string
	var args []any

	set := func(column string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Frequency != nil {
		set("frequency", *patch.Frequency)
	}
	if patch.HalfYear != nil {
		set("half_year", *patch.HalfYear)
	}
	if patch.DueDate != nil {
		set("due_date", *patch.DueDate)
	}
	if patch.StartMonth != nil {
		set("start_month", *patch.StartMonth)
	}
	if patch.EndMonth != nil {
		set("end_month", *patch.EndMonth)
	}
	if patch.Year != nil {
		set("year", *patch.Year)
	}
	if patch.Quarter != nil {
		set("quarter", *patch.Quarter)
	}
	if patch.Month != nil {
		set("month", *patch.Month)
	}
	if patch.WeekNum != nil {
		set("week_num", *patch.WeekNum)
	}
	if patch.Assignee != nil {
		set("assignee", *patch.Assignee)
	}
	if patch.TaskKind != nil {
		set("task_kind", *patch.TaskKind)
	}
	if patch.Registrant != nil {
		set("registrant", *patch.Registrant)
	}
	if patch.Status != nil {
		set("status", *patch.Status)
	}
	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Summary != nil {
		set("summary", *patch.Summary)
	}

	return clauses, args
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSeries(row rowScanner) (*domain.Series, error) {
	var series domain.Series
	var frequency, taskKind string
	err := row.Scan(
		&series.ID,
		&frequency,
		&series.HalfYear,
		&series.DueDate,
		&series.StartMonth,
		&series.EndMonth,
		&series.DepartmentCD,
		&series.Year,
		&series.Quarter,
		&series.Month,
		&series.WeekNum,
		&series.Assignee,
		&taskKind,
		&series.Registrant,
		&series.Status,
		&series.Title,
		&series.AttachmentLink,
		&series.Summary,
		&series.IsDeleted,
		&series.DeletedAt,
		&series.CreatedAt,
		&series.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	series.Frequency = domain.Cadence(frequency)
	series.TaskKind = domain.TaskKind(taskKind)
	return &series, nil
}

func closeRows(ctx context.Context, rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		logger.FromContext(ctx).Error("failed to close rows",
			slog.String("error", err.Error()))
	}
}
