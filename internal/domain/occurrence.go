package domain

import "time"

// Occurrence is one materialized due instance of a series. Seq is the
// 1-based position within the series, assigned densely in generation order
// and stable for the life of the series (occurrences are never regenerated).
// Title and Assignee are per-occurrence overrides that exist only when the
// storage schema carries those columns; when absent, listings fall back to
// the series-level values.
type Occurrence struct {
	ID        int64      `json:"record_no"`
	SeriesID  int64      `json:"task_no"`
	Seq       int        `json:"routine_no"`
	DueDate   time.Time  `json:"due_date"`
	Title     *string    `json:"title,omitempty"`
	Assignee  *string    `json:"assignee,omitempty"`
	Status    string     `json:"status"`
	Summary   *string    `json:"summary"`
	IsDeleted bool       `json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// OccurrencePatch is a sparse set of occurrence field changes. Title and
// Assignee may only be set when the storage schema supports per-occurrence
// overrides; the service layer enforces that before any write.
type OccurrencePatch struct {
	DueDate  *time.Time
	Status   *string
	Summary  *string
	Title    *string
	Assignee *string
}

// IsZero reports whether the patch contains no changes at all.
func (p OccurrencePatch) IsZero() bool {
	return p == OccurrencePatch{}
}

// OccurrenceView is one row of the joined occurrence listing: the child
// record enriched with its parent's cadence fields. Title and Assignee are
// already resolved to the per-occurrence override when the schema has the
// columns, or the series-level value otherwise. For spot rows the calendar
// fields (Year, Quarter, HalfYear, Month, WeekNum) are derived from the
// concrete due date rather than copied from the parent.
type OccurrenceView struct {
	ID         int64     `json:"record_no"`
	SeriesID   int64     `json:"task_no"`
	Seq        int       `json:"routine_no"`
	Frequency  Cadence   `json:"frequency"`
	HalfYear   *int      `json:"half_year"`
	StartMonth string    `json:"start_month"`
	EndMonth   string    `json:"end_month"`
	Year       int       `json:"year"`
	Quarter    string    `json:"quarter"`
	Month      int       `json:"month"`
	WeekNum    int       `json:"week_num"`
	DueDate    time.Time `json:"due_date"`
	Assignee   *string   `json:"assignee"`
	Assignees  []string  `json:"assignees"`
	TaskKind   TaskKind  `json:"task_kind"`
	Registrant string    `json:"registrant"`
	Status     string    `json:"status"`
	Title      *string   `json:"title"`
	Attachment *string   `json:"attachment_link"`
	Summary    *string   `json:"summary"`
}
