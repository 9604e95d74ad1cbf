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

// stubCapabilities reports fixed answers for schema capability probes.
type stubCapabilities struct {
	title    bool
	assignee bool
}

func (s stubCapabilities) OccurrenceHasTitle(ctx context.Context) bool    { return s.title }
func (s stubCapabilities) OccurrenceHasAssignee(ctx context.Context) bool { return s.assignee }

func TestNewPostgresOccurrenceStore(t *testing.T) {
	tests := []struct {
		name        string
		db          store.DBTX
		caps        store.SchemaCapabilities
		expectPanic bool
	}{
		{
			name:        "nil_db_panics",
			db:          nil,
			caps:        stubCapabilities{},
			expectPanic: true,
		},
		{
			name:        "nil_caps_panics",
			db:          &mockDBTX{},
			caps:        nil,
			expectPanic: true,
		},
		{
			name: "valid_dependencies",
			db:   &mockDBTX{},
			caps: stubCapabilities{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.expectPanic {
				assert.Panics(t, func() {
					NewPostgresOccurrenceStore(tt.db, tt.caps, nil)
				})
				return
			}
			s := NewPostgresOccurrenceStore(tt.db, tt.caps, slog.Default())
			require.NotNil(t, s)
			assert.NotNil(t, s.db)
			assert.NotNil(t, s.logger)
		})
	}
}

func TestPostgresOccurrenceStore_UpdateCapabilityGating(t *testing.T) {
	title := "個別タイトル"
	assignee := "山田太郎"

	tests := []struct {
		name    string
		caps    stubCapabilities
		patch   domain.OccurrencePatch
		wantErr error
	}{
		{
			name:    "title_patch_without_title_column",
			caps:    stubCapabilities{title: false, assignee: true},
			patch:   domain.OccurrencePatch{Title: &title},
			wantErr: store.ErrOccurrenceTitleUnsupported,
		},
		{
			name:    "assignee_patch_without_assignee_column",
			caps:    stubCapabilities{title: true, assignee: false},
			patch:   domain.OccurrencePatch{Assignee: &assignee},
			wantErr: store.ErrOccurrenceAssigneeUnsupported,
		},
		{
			name:  "empty_patch_is_noop",
			caps:  stubCapabilities{},
			patch: domain.OccurrencePatch{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewPostgresOccurrenceStore(&mockDBTX{}, tt.caps, slog.Default())
			err := s.Update(context.Background(), 1, tt.patch)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPostgresOccurrenceStore_AssigneePropagationSkipsMissingColumn(t *testing.T) {
	// Without the assignee column both propagation modes are silent no-ops
	// and never touch the database.
	s := NewPostgresOccurrenceStore(&mockDBTX{}, stubCapabilities{assignee: false}, slog.Default())
	name := "佐藤花子"

	assert.NoError(t, s.OverwriteAssignees(context.Background(), 1, &name))
	assert.NoError(t, s.FillMissingAssignees(context.Background(), 1, &name))
}

// occurrenceRow feeds scanOccurrenceView a fixed joined row.
type occurrenceRow struct {
	id, seriesID         int64
	seq                  int
	due                  time.Time
	status               string
	summary, title       *string
	assignee             *string
	frequency            string
	halfYear             *int
	startMonth, endMonth string
	taskKind, registrant string
	attachment           *string
}

func (r occurrenceRow) Scan(dest ...any) error {
	*(dest[0].(*int64)) = r.id
	*(dest[1].(*int64)) = r.seriesID
	*(dest[2].(*int)) = r.seq
	*(dest[3].(*time.Time)) = r.due
	*(dest[4].(*string)) = r.status
	*(dest[5].(**string)) = r.summary
	*(dest[6].(**string)) = r.title
	*(dest[7].(**string)) = r.assignee
	*(dest[8].(*string)) = r.frequency
	*(dest[9].(**int)) = r.halfYear
	*(dest[10].(*string)) = r.startMonth
	*(dest[11].(*string)) = r.endMonth
	*(dest[12].(*string)) = r.taskKind
	*(dest[13].(*string)) = r.registrant
	*(dest[14].(**string)) = r.attachment
	return nil
}

func TestScanOccurrenceView_CalendarFromDueDate(t *testing.T) {
	t.Run("each_row_carries_its_own_month", func(t *testing.T) {
		// A Feb-Apr monthly series must list March's occurrence under
		// March, not under the parent's start month.
		view, err := scanOccurrenceView(occurrenceRow{
			id:         31,
			seriesID:   4,
			seq:        2,
			due:        time.Date(2026, 3, 27, 0, 0, 0, 0, time.UTC),
			status:     "未着手",
			frequency:  "月次",
			startMonth: "2026-02",
			endMonth:   "2026-04",
			taskKind:   "個人",
			registrant: "山田太郎",
		})
		require.NoError(t, err)
		assert.Equal(t, 2026, view.Year)
		assert.Equal(t, 3, view.Month)
		assert.Equal(t, "1", view.Quarter)
		assert.Equal(t, 4, view.WeekNum)
		require.NotNil(t, view.HalfYear)
		assert.Equal(t, 1, *view.HalfYear)
	})

	t.Run("stored_half_year_wins_over_derived", func(t *testing.T) {
		half := 2
		view, err := scanOccurrenceView(occurrenceRow{
			due:       time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC),
			frequency: "半期",
			halfYear:  &half,
			taskKind:  "個人",
		})
		require.NoError(t, err)
		require.NotNil(t, view.HalfYear)
		assert.Equal(t, 2, *view.HalfYear)
	})

	t.Run("spot_row_derives_everything", func(t *testing.T) {
		assignee := "山田太郎; 佐藤花子"
		view, err := scanOccurrenceView(occurrenceRow{
			due:       time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC),
			frequency: "スポット",
			assignee:  &assignee,
			taskKind:  "グループ",
		})
		require.NoError(t, err)
		assert.Equal(t, 2026, view.Year)
		assert.Equal(t, 8, view.Month)
		assert.Equal(t, "3", view.Quarter)
		assert.Equal(t, 1, view.WeekNum)
		require.NotNil(t, view.HalfYear)
		assert.Equal(t, 2, *view.HalfYear)
		assert.Equal(t, []string{"山田太郎", "佐藤花子"}, view.Assignees)
	})
}

func TestPostgresOccurrenceStore_WithTx(t *testing.T) {
	original := NewPostgresOccurrenceStore(&mockDBTX{}, stubCapabilities{}, slog.Default())
	bound := original.WithTx(&sql.Tx{})

	require.NotNil(t, bound)
	assert.IsType(t, &PostgresOccurrenceStore{}, bound)
	assert.NotSame(t, store.OccurrenceStore(original), bound)
}
