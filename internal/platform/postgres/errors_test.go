package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/routine-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantIs   error
		wantSame bool
	}{
		{
			name: "nil_error",
			err:  nil,
		},
		{
			name:   "no_rows_maps_to_not_found",
			err:    sql.ErrNoRows,
			wantIs: store.ErrNotFound,
		},
		{
			name:   "wrapped_no_rows_maps_to_not_found",
			err:    fmt.Errorf("query failed: %w", sql.ErrNoRows),
			wantIs: store.ErrNotFound,
		},
		{
			name:   "unique_violation_maps_to_duplicate",
			err:    &pgconn.PgError{Code: uniqueViolationCode},
			wantIs: store.ErrDuplicate,
		},
		{
			name:   "foreign_key_violation_maps_to_invalid_entity",
			err:    &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "routine_occurrence_task_no_fkey"},
			wantIs: store.ErrInvalidEntity,
		},
		{
			name:   "check_violation_maps_to_invalid_entity",
			err:    &pgconn.PgError{Code: checkViolationCode},
			wantIs: store.ErrInvalidEntity,
		},
		{
			name:   "not_null_violation_maps_to_invalid_entity",
			err:    &pgconn.PgError{Code: notNullViolationCode, ColumnName: "title"},
			wantIs: store.ErrInvalidEntity,
		},
		{
			name:     "unrecognized_error_passes_through",
			err:      errors.New("connection reset"),
			wantSame: true,
		},
		{
			name:     "unrecognized_pg_code_passes_through",
			err:      &pgconn.PgError{Code: "42601"},
			wantSame: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if tt.err == nil {
				assert.NoError(t, got)
				return
			}
			if tt.wantSame {
				assert.Equal(t, tt.err, got)
				return
			}
			assert.ErrorIs(t, got, tt.wantIs)
			// Original cause stays visible for debugging.
			assert.Contains(t, got.Error(), tt.err.Error())
		})
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	fkErr := &pgconn.PgError{Code: foreignKeyViolationCode}
	assert.True(t, IsForeignKeyViolation(fkErr))
	assert.True(t, IsForeignKeyViolation(fmt.Errorf("insert: %w", fkErr)))
	assert.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: uniqueViolationCode}))
	assert.False(t, IsForeignKeyViolation(errors.New("boom")))
	assert.False(t, IsForeignKeyViolation(nil))
}
