package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/phrazzld/routine-api/internal/domain"
	"github.com/phrazzld/routine-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestOccurrenceService(t *testing.T, occurrenceStore *mockOccurrenceStore) OccurrenceService {
	t.Helper()
	svc, err := NewOccurrenceService(occurrenceStore, slog.Default())
	require.NoError(t, err)
	return svc
}

func TestNewOccurrenceService_Validation(t *testing.T) {
	svc, err := NewOccurrenceService(nil, nil)
	assert.Error(t, err)
	assert.Nil(t, svc)

	svc, err = NewOccurrenceService(new(mockOccurrenceStore), nil)
	assert.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestOccurrenceService_List(t *testing.T) {
	ctx := context.Background()
	occurrenceStore := new(mockOccurrenceStore)
	filter := store.OccurrenceFilter{TaskKind: domain.TaskKindGroup}
	page := store.Page{Number: 1, Size: 20}
	want := []*domain.OccurrenceView{{ID: 1}, {ID: 2}}
	occurrenceStore.On("List", ctx, filter, page).Return(want, false, nil)

	svc := newTestOccurrenceService(t, occurrenceStore)
	got, hasNext, err := svc.List(ctx, filter, page)
	require.NoError(t, err)
	assert.False(t, hasNext)
	assert.Equal(t, want, got)
}

func TestOccurrenceService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("patch_fields_parsed_and_forwarded", func(t *testing.T) {
		due := "2026-02-27"
		status := domain.StatusCompleted
		occurrenceStore := new(mockOccurrenceStore)
		occurrenceStore.On("Update", ctx, int64(3), mock.MatchedBy(func(p domain.OccurrencePatch) bool {
			return p.DueDate != nil &&
				p.DueDate.Equal(time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)) &&
				p.Status != nil && *p.Status == domain.StatusCompleted &&
				p.Summary == nil
		})).Return(nil)

		svc := newTestOccurrenceService(t, occurrenceStore)
		err := svc.Update(ctx, 3, OccurrenceUpdateInput{DueDate: &due, Status: &status})
		assert.NoError(t, err)
		occurrenceStore.AssertExpectations(t)
	})

	t.Run("assignees_joined_canonically", func(t *testing.T) {
		occurrenceStore := new(mockOccurrenceStore)
		occurrenceStore.On("Update", ctx, int64(3), mock.MatchedBy(func(p domain.OccurrencePatch) bool {
			return p.Assignee != nil && *p.Assignee == "山田太郎; 佐藤花子"
		})).Return(nil)

		svc := newTestOccurrenceService(t, occurrenceStore)
		err := svc.Update(ctx, 3, OccurrenceUpdateInput{
			Assignees:    []string{"山田太郎", "佐藤花子"},
			AssigneesSet: true,
		})
		assert.NoError(t, err)
	})

	t.Run("malformed_due_date", func(t *testing.T) {
		bad := "27-02-2026"
		svc := newTestOccurrenceService(t, new(mockOccurrenceStore))
		err := svc.Update(ctx, 3, OccurrenceUpdateInput{DueDate: &bad})
		assert.ErrorIs(t, err, domain.ErrDueDateFormat)
	})

	t.Run("empty_input_is_silent_success", func(t *testing.T) {
		svc := newTestOccurrenceService(t, new(mockOccurrenceStore))
		err := svc.Update(ctx, 3, OccurrenceUpdateInput{})
		assert.NoError(t, err)
	})

	t.Run("capability_gap_passes_through", func(t *testing.T) {
		title := "個別タイトル"
		occurrenceStore := new(mockOccurrenceStore)
		occurrenceStore.On("Update", ctx, int64(3), mock.Anything).
			Return(store.ErrOccurrenceTitleUnsupported)

		svc := newTestOccurrenceService(t, occurrenceStore)
		err := svc.Update(ctx, 3, OccurrenceUpdateInput{Title: &title})
		assert.ErrorIs(t, err, store.ErrOccurrenceTitleUnsupported)
		assert.True(t, store.IsCapabilityError(err))
	})

	t.Run("not_found_maps_to_service_sentinel", func(t *testing.T) {
		status := domain.StatusCompleted
		occurrenceStore := new(mockOccurrenceStore)
		occurrenceStore.On("Update", ctx, int64(404), mock.Anything).
			Return(store.ErrOccurrenceNotFound)

		svc := newTestOccurrenceService(t, occurrenceStore)
		err := svc.Update(ctx, 404, OccurrenceUpdateInput{Status: &status})
		assert.ErrorIs(t, err, ErrOccurrenceNotFound)
	})
}

func TestOccurrenceService_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		occurrenceStore := new(mockOccurrenceStore)
		occurrenceStore.On("Complete", ctx, int64(3)).Return(nil)

		svc := newTestOccurrenceService(t, occurrenceStore)
		assert.NoError(t, svc.Complete(ctx, 3))
		occurrenceStore.AssertExpectations(t)
	})

	t.Run("replayed_completion_is_not_found", func(t *testing.T) {
		occurrenceStore := new(mockOccurrenceStore)
		occurrenceStore.On("Complete", ctx, int64(3)).Return(store.ErrOccurrenceNotFound)

		svc := newTestOccurrenceService(t, occurrenceStore)
		err := svc.Complete(ctx, 3)
		assert.ErrorIs(t, err, ErrOccurrenceNotFound)
	})

	t.Run("storage_error_is_wrapped", func(t *testing.T) {
		occurrenceStore := new(mockOccurrenceStore)
		occurrenceStore.On("Complete", ctx, int64(3)).Return(errors.New("connection reset"))

		svc := newTestOccurrenceService(t, occurrenceStore)
		err := svc.Complete(ctx, 3)

		var svcErr *OccurrenceServiceError
		assert.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "complete_occurrence", svcErr.Operation)
	})
}
