package api

import (
	"encoding/json"
	"errors"

	"github.com/phrazzld/routine-api/internal/domain"
)

// AssigneeList accepts the assignee field in either of its wire shapes: a
// single "; "-joined string or an array of names. Set records whether the
// field appeared in the payload at all, which sparse updates rely on.
type AssigneeList struct {
	Values []string
	Set    bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *AssigneeList) UnmarshalJSON(data []byte) error {
	a.Set = true
	if string(data) == "null" {
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		a.Values = domain.SplitAssignees(single)
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		for _, name := range many {
			a.Values = append(a.Values, domain.SplitAssignees(name)...)
		}
		return nil
	}

	return errors.New("assignee must be a string or an array of strings")
}

// CreateSeriesRequest defines the payload for registering a new series.
// Week, quarter, month, and half_year arrive as numbers; the cadence decides
// which of them matter.
type CreateSeriesRequest struct {
	Title          string       `json:"title"           validate:"required,min=1"`
	Frequency      string       `json:"frequency"       validate:"required"`
	StartMonth     string       `json:"start_month"`
	EndMonth       string       `json:"end_month"`
	DueDate        string       `json:"due_date"`
	Week           *int         `json:"week"`
	Quarter        *int         `json:"quarter"`
	Month          *int         `json:"month"`
	HalfYear       *int         `json:"half_year"`
	TaskKind       string       `json:"task_kind"`
	Assignee       AssigneeList `json:"assignee"`
	Status         string       `json:"status"`
	Summary        *string      `json:"summary"`
	AttachmentLink *string      `json:"attachment_link"`
}

// CreateSeriesResponse defines the successful response for series registration.
type CreateSeriesResponse struct {
	SeriesID        int64 `json:"task_no"`
	OccurrenceCount int   `json:"occurrence_count"`
}

// UpdateSeriesRequest defines the sparse payload for updating a series.
// Absent fields are left untouched.
type UpdateSeriesRequest struct {
	Frequency  *string      `json:"frequency"`
	HalfYear   *int         `json:"half_year"`
	DueDate    *string      `json:"due_date"`
	StartMonth *string      `json:"start_month"`
	EndMonth   *string      `json:"end_month"`
	Year       *int         `json:"year"`
	Quarter    *int         `json:"quarter"`
	Month      *int         `json:"month"`
	Week       *int         `json:"week"`
	Assignee   AssigneeList `json:"assignee"`
	TaskKind   *string      `json:"task_kind"`
	Registrant *string      `json:"registrant"`
	Status     *string      `json:"status"`
	Title      *string      `json:"title"`
	Summary    *string      `json:"summary"`
	// ApplyAssigneeToOccurrences controls propagation of an assignee change
	// to the open occurrences. Defaults to true.
	ApplyAssigneeToOccurrences *bool `json:"apply_assignee_to_occurrences"`
}

// UpdateOccurrenceRequest defines the sparse payload for updating one
// occurrence. Title and assignee are honored only on schemas that carry the
// per-occurrence override columns.
type UpdateOccurrenceRequest struct {
	DueDate  *string      `json:"due_date"`
	Status   *string      `json:"status"`
	Summary  *string      `json:"summary"`
	Title    *string      `json:"title"`
	Assignee AssigneeList `json:"assignee"`
}

// SeriesResponse is the wire form of one series row.
type SeriesResponse struct {
	SeriesID       int64    `json:"task_no"`
	Frequency      string   `json:"frequency"`
	HalfYear       *int     `json:"half_year"`
	DueDate        *string  `json:"due_date"`
	StartMonth     string   `json:"start_month"`
	EndMonth       string   `json:"end_month"`
	DepartmentCD   string   `json:"department_cd"`
	Year           int      `json:"year"`
	Quarter        string   `json:"quarter"`
	Month          int      `json:"month"`
	Week           int      `json:"week"`
	Assignee       *string  `json:"assignee"`
	Assignees      []string `json:"assignees"`
	TaskKind       string   `json:"task_kind"`
	Registrant     string   `json:"registrant"`
	Status         string   `json:"status"`
	Title          string   `json:"title"`
	AttachmentLink *string  `json:"attachment_link"`
	Summary        *string  `json:"summary"`
}

// OccurrenceResponse is the wire form of one joined occurrence row.
type OccurrenceResponse struct {
	OccurrenceID int64    `json:"record_no"`
	SeriesID     int64    `json:"task_no"`
	Seq          int      `json:"routine_no"`
	Frequency    string   `json:"frequency"`
	HalfYear     *int     `json:"half_year"`
	StartMonth   string   `json:"start_month"`
	EndMonth     string   `json:"end_month"`
	Year         int      `json:"year"`
	Quarter      string   `json:"quarter"`
	Month        int      `json:"month"`
	Week         int      `json:"week_num"`
	DueDate      string   `json:"due_date"`
	Assignee     *string  `json:"assignee"`
	Assignees    []string `json:"assignees"`
	TaskKind     string   `json:"task_kind"`
	Registrant   string   `json:"registrant"`
	Status       string   `json:"status"`
	Title        *string  `json:"title"`
	Attachment   *string  `json:"attachment_link"`
	Summary      *string  `json:"summary"`
}

// PagedResponse wraps a listing page with its pagination envelope.
type PagedResponse struct {
	Items    interface{} `json:"items"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	HasNext  bool        `json:"has_next"`
}

// ProfileResponse is the wire form of the caller's directory profile.
type ProfileResponse struct {
	EmployeeID     *int64 `json:"employee_id"`
	Name           string `json:"name"`
	Login          string `json:"login"`
	DepartmentCD   string `json:"department_cd"`
	DepartmentName string `json:"department_name"`
	IsApprovalDept bool   `json:"is_approval_dept"`
}

// DepartmentResponse is the wire form of one department.
type DepartmentResponse struct {
	Code           string `json:"department_cd"`
	Name           string `json:"department_name"`
	IsApprovalDept bool   `json:"is_approval_dept"`
}

// EmployeeResponse is the wire form of one department member.
type EmployeeResponse struct {
	ID           int64  `json:"employee_id"`
	Name         string `json:"name"`
	Login        string `json:"login"`
	DepartmentCD string `json:"department_cd"`
}

const dateLayout = "2006-01-02"

// seriesToResponse converts a domain.Series to its wire form.
func seriesToResponse(series *domain.Series) SeriesResponse {
	resp := SeriesResponse{
		SeriesID:       series.ID,
		Frequency:      string(series.Frequency),
		HalfYear:       series.HalfYear,
		StartMonth:     series.StartMonth,
		EndMonth:       series.EndMonth,
		DepartmentCD:   series.DepartmentCD,
		Year:           series.Year,
		Quarter:        series.Quarter,
		Month:          series.Month,
		Week:           series.WeekNum,
		Assignee:       series.Assignee,
		Assignees:      series.Assignees(),
		TaskKind:       string(series.TaskKind),
		Registrant:     series.Registrant,
		Status:         series.Status,
		Title:          series.Title,
		AttachmentLink: series.AttachmentLink,
		Summary:        series.Summary,
	}
	if series.DueDate != nil {
		due := series.DueDate.Format(dateLayout)
		resp.DueDate = &due
	}
	return resp
}

// occurrenceToResponse converts a domain.OccurrenceView to its wire form.
func occurrenceToResponse(view *domain.OccurrenceView) OccurrenceResponse {
	return OccurrenceResponse{
		OccurrenceID: view.ID,
		SeriesID:     view.SeriesID,
		Seq:          view.Seq,
		Frequency:    string(view.Frequency),
		HalfYear:     view.HalfYear,
		StartMonth:   view.StartMonth,
		EndMonth:     view.EndMonth,
		Year:         view.Year,
		Quarter:      view.Quarter,
		Month:        view.Month,
		Week:         view.WeekNum,
		DueDate:      view.DueDate.Format(dateLayout),
		Assignee:     view.Assignee,
		Assignees:    view.Assignees,
		TaskKind:     string(view.TaskKind),
		Registrant:   view.Registrant,
		Status:       view.Status,
		Title:        view.Title,
		Attachment:   view.Attachment,
		Summary:      view.Summary,
	}
}
