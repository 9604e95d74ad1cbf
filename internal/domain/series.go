package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Task status literals stored on both series and occurrences. The status
// column is free text; these are the two values the engine itself writes.
const (
	StatusNotStarted = "未着手"
	StatusCompleted  = "完了"
)

// Series is one cadence definition: the parent record a set of occurrences
// is materialized from. Nullable columns are pointers; Assignee holds the
// persisted "; "-joined form.
type Series struct {
	ID             int64      `json:"task_no"`
	Frequency      Cadence    `json:"frequency"`
	HalfYear       *int       `json:"half_year"`
	DueDate        *time.Time `json:"due_date"`
	StartMonth     string     `json:"start_month"`
	EndMonth       string     `json:"end_month"`
	DepartmentCD   string     `json:"department_cd"`
	Year           int        `json:"year"`
	Quarter        string     `json:"quarter"`
	Month          int        `json:"month"`
	WeekNum        int        `json:"week_num"`
	Assignee       *string    `json:"assignee"`
	TaskKind       TaskKind   `json:"task_kind"`
	Registrant     string     `json:"registrant"`
	Status         string     `json:"status"`
	Title          string     `json:"title"`
	AttachmentLink *string    `json:"attachment_link"`
	Summary        *string    `json:"summary"`
	IsDeleted      bool       `json:"is_deleted"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Assignees returns the series' assignee list parsed from its persisted form.
func (s *Series) Assignees() []string {
	if s.Assignee == nil {
		return nil
	}
	return SplitAssignees(*s.Assignee)
}

// SeriesPatch is a sparse set of series field changes. Nil fields are left
// untouched. Assignee and TaskKind carry their normalized persisted forms.
type SeriesPatch struct {
	Frequency  *Cadence
	HalfYear   *int
	DueDate    *time.Time
	StartMonth *string
	EndMonth   *string
	Year       *int
	Quarter    *string
	Month      *int
	WeekNum    *int
	Assignee   *string
	TaskKind   *TaskKind
	Registrant *string
	Status     *string
	Title      *string
	Summary    *string
}

// IsZero reports whether the patch contains no changes at all.
func (p SeriesPatch) IsZero() bool {
	return p == SeriesPatch{}
}

// ParseYearMonth parses a YYYY-MM value into its year and month parts.
// The year must be four digits and the month two digits in [1,12].
func ParseYearMonth(value string) (int, int, error) {
	parts := strings.Split(value, "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return 0, 0, ErrMonthFormat
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, ErrMonthFormat
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, ErrMonthFormat
	}
	if month < 1 || month > 12 {
		return 0, 0, ErrMonthOutOfRange
	}
	return year, month, nil
}

// FormatYearMonth renders a year and month in the persisted YYYY-MM form.
func FormatYearMonth(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
