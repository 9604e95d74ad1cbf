package service

import (
	"context"
	"database/sql"

	"github.com/phrazzld/routine-api/internal/domain"
	"github.com/phrazzld/routine-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// mockSeriesStore is a testify mock of store.SeriesStore.
type mockSeriesStore struct {
	mock.Mock
}

var _ store.SeriesStore = (*mockSeriesStore)(nil)

func (m *mockSeriesStore) Create(ctx context.Context, series *domain.Series) error {
	args := m.Called(ctx, series)
	return args.Error(0)
}

func (m *mockSeriesStore) GetByID(ctx context.Context, id int64) (*domain.Series, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Series), args.Error(1)
}

func (m *mockSeriesStore) GetTaskKind(ctx context.Context, id int64) (domain.TaskKind, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.TaskKind), args.Error(1)
}

func (m *mockSeriesStore) GetAssignee(ctx context.Context, id int64) (*string, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

func (m *mockSeriesStore) List(
	ctx context.Context,
	filter store.SeriesFilter,
	page store.Page,
) ([]*domain.Series, bool, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Series), args.Bool(1), args.Error(2)
}

func (m *mockSeriesStore) Update(ctx context.Context, id int64, patch domain.SeriesPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *mockSeriesStore) CompleteOpen(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSeriesStore) WithTx(tx *sql.Tx) store.SeriesStore {
	return m
}

// mockOccurrenceStore is a testify mock of store.OccurrenceStore.
type mockOccurrenceStore struct {
	mock.Mock
}

var _ store.OccurrenceStore = (*mockOccurrenceStore)(nil)

func (m *mockOccurrenceStore) CreateBatch(
	ctx context.Context,
	seriesID int64,
	occurrences []domain.Occurrence,
) error {
	args := m.Called(ctx, seriesID, occurrences)
	return args.Error(0)
}

func (m *mockOccurrenceStore) List(
	ctx context.Context,
	filter store.OccurrenceFilter,
	page store.Page,
) ([]*domain.OccurrenceView, bool, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]*domain.OccurrenceView), args.Bool(1), args.Error(2)
}

func (m *mockOccurrenceStore) Update(ctx context.Context, id int64, patch domain.OccurrencePatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *mockOccurrenceStore) Complete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockOccurrenceStore) CompleteBySeries(ctx context.Context, seriesID int64) (int64, error) {
	args := m.Called(ctx, seriesID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockOccurrenceStore) OverwriteAssignees(ctx context.Context, seriesID int64, assignee *string) error {
	args := m.Called(ctx, seriesID, assignee)
	return args.Error(0)
}

func (m *mockOccurrenceStore) FillMissingAssignees(ctx context.Context, seriesID int64, assignee *string) error {
	args := m.Called(ctx, seriesID, assignee)
	return args.Error(0)
}

func (m *mockOccurrenceStore) WithTx(tx *sql.Tx) store.OccurrenceStore {
	return m
}
