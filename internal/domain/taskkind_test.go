package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveTaskKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		label     string
		assignees []string
		want      TaskKind
	}{
		{"explicit native group", "グループ", []string{"tanaka"}, TaskKindGroup},
		{"explicit english group", "Group", nil, TaskKindGroup},
		{"explicit lowercase individual", "individual", []string{"a", "b"}, TaskKindIndividual},
		{"explicit native individual", "個人", []string{"a", "b", "c"}, TaskKindIndividual},
		{"inferred group from count", "", []string{"tanaka", "suzuki"}, TaskKindGroup},
		{"inferred individual from single", "", []string{"tanaka"}, TaskKindIndividual},
		{"inferred individual from none", "", nil, TaskKindIndividual},
		{"unrecognized label falls back to count", "team", []string{"a", "b"}, TaskKindGroup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ResolveTaskKind(tt.label, tt.assignees))
		})
	}
}

func TestValidateTaskKindAssignees(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, ValidateTaskKindAssignees(TaskKindGroup, []string{"tanaka"}), ErrGroupNeedsAssignees)
	assert.ErrorIs(t, ValidateTaskKindAssignees(TaskKindGroup, nil), ErrGroupNeedsAssignees)
	assert.NoError(t, ValidateTaskKindAssignees(TaskKindGroup, []string{"tanaka", "suzuki"}))
	assert.NoError(t, ValidateTaskKindAssignees(TaskKindIndividual, nil))
	assert.NoError(t, ValidateTaskKindAssignees(TaskKindIndividual, []string{"tanaka"}))
}

func TestSplitAssignees(t *testing.T) {
	t.Parallel()

	assert.Nil(t, SplitAssignees(""))
	assert.Equal(t, []string{"tanaka"}, SplitAssignees("tanaka"))
	assert.Equal(t, []string{"tanaka", "suzuki"}, SplitAssignees("tanaka; suzuki"))
	assert.Equal(t, []string{"tanaka", "suzuki"}, SplitAssignees(" tanaka ;; suzuki ; "))
}

func TestJoinAssignees(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", JoinAssignees(nil))
	assert.Equal(t, "", JoinAssignees([]string{" ", ""}))
	assert.Equal(t, "tanaka", JoinAssignees([]string{"tanaka"}))
	assert.Equal(t, "tanaka; suzuki", JoinAssignees([]string{" tanaka ", "suzuki", ""}))
}
