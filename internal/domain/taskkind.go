package domain

import "strings"

// TaskKind categorizes a series as carried by a group or by an individual.
// As with cadences, the canonical values are the native-script literals.
type TaskKind string

// Canonical task-kind tokens.
const (
	TaskKindGroup      TaskKind = "グループ"
	TaskKindIndividual TaskKind = "個人"
)

// taskKindLabels maps every accepted task-kind literal to its canonical value.
var taskKindLabels = map[string]TaskKind{
	"グループ":       TaskKindGroup,
	"group":      TaskKindGroup,
	"個人":         TaskKindIndividual,
	"individual": TaskKindIndividual,
}

// ParseTaskKind maps an explicit task-kind label to its canonical value.
// Returns false when the label is empty or unrecognized.
func ParseTaskKind(label string) (TaskKind, bool) {
	trimmed := strings.TrimSpace(label)
	if kind, ok := taskKindLabels[trimmed]; ok {
		return kind, true
	}
	kind, ok := taskKindLabels[strings.ToLower(trimmed)]
	return kind, ok
}

// ResolveTaskKind decides the task kind of a series. An explicit recognized
// label wins; otherwise the kind is inferred from the assignee count
// (more than one assignee means Group).
func ResolveTaskKind(label string, assignees []string) TaskKind {
	if kind, ok := ParseTaskKind(label); ok {
		return kind
	}
	if len(assignees) > 1 {
		return TaskKindGroup
	}
	return TaskKindIndividual
}

// ValidateTaskKindAssignees enforces the invariant that a Group series has
// at least two assignees.
func ValidateTaskKindAssignees(kind TaskKind, assignees []string) error {
	if kind == TaskKindGroup && len(assignees) < 2 {
		return ErrGroupNeedsAssignees
	}
	return nil
}

// SplitAssignees parses a semicolon-delimited assignee string into a list,
// trimming whitespace and dropping empty entries.
func SplitAssignees(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ";") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// JoinAssignees renders an assignee list in its persisted form. Entries are
// trimmed and empties dropped; an empty list renders as the empty string.
func JoinAssignees(assignees []string) string {
	var kept []string
	for _, a := range assignees {
		if trimmed := strings.TrimSpace(a); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, "; ")
}
