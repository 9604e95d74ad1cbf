package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"github.com/phrazzld/routine-api/internal/domain"
	"github.com/phrazzld/routine-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockDBTX is a minimal DBTX stand-in for constructor tests.
type mockDBTX struct{}

func (m *mockDBTX) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return nil, nil
}

func (m *mockDBTX) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return nil, nil
}

func (m *mockDBTX) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return nil, nil
}

func (m *mockDBTX) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return nil
}

func TestNewPostgresSeriesStore(t *testing.T) {
	tests := []struct {
		name        string
		db          store.DBTX
		logger      *slog.Logger
		expectPanic bool
	}{
		{
			name:        "nil_db_panics",
			db:          nil,
			logger:      slog.Default(),
			expectPanic: true,
		},
		{
			name:   "valid_db_with_logger",
			db:     &mockDBTX{},
			logger: slog.Default(),
		},
		{
			name:   "nil_logger_uses_default",
			db:     &mockDBTX{},
			logger: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.expectPanic {
				assert.Panics(t, func() {
					NewPostgresSeriesStore(tt.db, tt.logger)
				})
				return
			}
			s := NewPostgresSeriesStore(tt.db, tt.logger)
			require.NotNil(t, s)
			assert.NotNil(t, s.db)
			assert.NotNil(t, s.logger)
		})
	}
}

func TestBuildSeriesUpdate(t *testing.T) {
	freq := domain.CadenceMonthly
	kind := domain.TaskKindGroup
	title := "月次棚卸"
	status := domain.StatusCompleted
	week := 4
	due := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)

	t.Run("empty_patch_produces_no_clauses", func(t *testing.T) {
		clauses, args := buildSeriesUpdate(domain.SeriesPatch{})
		assert.Empty(t, clauses)
		assert.Empty(t, args)
	})

	t.Run("single_field", func(t *testing.T) {
		clauses, args := buildSeriesUpdate(domain.SeriesPatch{Title: &title})
		require.Len(t, clauses, 1)
		assert.Equal(t, "title = $1", clauses[0])
		assert.Equal(t, []any{title}, args)
	})

	t.Run("placeholders_track_argument_order", func(t *testing.T) {
		clauses, args := buildSeriesUpdate(domain.SeriesPatch{
			Frequency: &freq,
			WeekNum:   &week,
			TaskKind:  &kind,
			Status:    &status,
			Title:     &title,
		})
		require.Len(t, clauses, 5)
		assert.Equal(t, []string{
			"frequency = $1",
			"week_num = $2",
			"task_kind = $3",
			"status = $4",
			"title = $5",
		}, clauses)
		assert.Equal(t, []any{freq, week, kind, status, title}, args)
	})

	t.Run("nullable_columns_accept_explicit_values", func(t *testing.T) {
		clauses, args := buildSeriesUpdate(domain.SeriesPatch{DueDate: &due})
		require.Len(t, clauses, 1)
		assert.Equal(t, "due_date = $1", clauses[0])
		assert.Equal(t, due, args[0])
	})
}

func TestPostgresSeriesStore_WithTx(t *testing.T) {
	// A real *sql.Tx needs a live connection; the rebinding itself is what
	// matters here.
	original := NewPostgresSeriesStore(&mockDBTX{}, slog.Default())
	bound := original.WithTx(&sql.Tx{})

	require.NotNil(t, bound)
	assert.NotSame(t, store.SeriesStore(original), bound)
	assert.IsType(t, &PostgresSeriesStore{}, bound)
}

func TestPostgresSeriesStore_UpdateEmptyPatchIsNoop(t *testing.T) {
	// An empty patch must not reach the database at all; the mock returns
	// nils, so any query would panic or error.
	s := NewPostgresSeriesStore(&mockDBTX{}, slog.Default())
	err := s.Update(context.Background(), 1, domain.SeriesPatch{})
	assert.NoError(t, err)
}
