package domain

import (
	"strconv"
	"time"

	"github.com/phrazzld/routine-api/internal/domain/schedule"
)

// ExpandInput is the caller-supplied definition of a new series. Optional
// numeric fields are pointers so "absent" and "zero" stay distinguishable.
type ExpandInput struct {
	Title          string
	Frequency      string
	StartMonth     string
	EndMonth       string
	DueDate        string
	Week           *int
	Quarter        *int
	Month          *int
	HalfYear       *int
	TaskKind       string
	Assignees      []string
	Status         string
	Summary        *string
	AttachmentLink *string
}

// Expand turns a cadence definition into the parent series record plus the
// ordered list of occurrences due between its bounds. Spot cadences produce
// exactly one occurrence pinned to the explicit due date; recurring cadences
// enumerate months from the generation start to the end bound and pin each
// occurrence to the requested week's Friday. Sequence numbers are assigned
// densely from 1 in enumeration order.
//
// Expand is pure: it validates everything it needs and never touches
// storage. All returned errors are validation failures.
func Expand(in ExpandInput, registrant, departmentCD string) (*Series, []Occurrence, error) {
	cadence, err := ParseCadence(in.Frequency)
	if err != nil {
		return nil, nil, err
	}
	if in.Title == "" {
		return nil, nil, ErrTitleRequired
	}

	week, err := cadence.ResolveWeek(in.Week)
	if err != nil {
		return nil, nil, err
	}

	status := in.Status
	if status == "" {
		status = StatusNotStarted
	}
	var assignee *string
	if joined := JoinAssignees(in.Assignees); joined != "" {
		assignee = &joined
	}
	assignees := SplitAssignees(JoinAssignees(in.Assignees))

	kind := ResolveTaskKind(in.TaskKind, assignees)
	if err := ValidateTaskKindAssignees(kind, assignees); err != nil {
		return nil, nil, err
	}

	series := &Series{
		Frequency:      cadence,
		DepartmentCD:   departmentCD,
		WeekNum:        week,
		Assignee:       assignee,
		TaskKind:       kind,
		Registrant:     registrant,
		Status:         status,
		Title:          in.Title,
		AttachmentLink: in.AttachmentLink,
		Summary:        in.Summary,
	}

	child := func(seq int, due time.Time) Occurrence {
		title := in.Title
		return Occurrence{
			Seq:      seq,
			DueDate:  due,
			Title:    &title,
			Assignee: assignee,
			Status:   status,
			Summary:  in.Summary,
		}
	}

	if cadence.IsSpot() {
		if in.DueDate == "" {
			return nil, nil, ErrDueDateRequired
		}
		due, err := time.ParseInLocation("2006-01-02", in.DueDate, time.UTC)
		if err != nil {
			return nil, nil, ErrDueDateFormat
		}
		month := FormatYearMonth(due.Year(), int(due.Month()))
		series.DueDate = &due
		series.StartMonth = month
		series.EndMonth = month
		series.Year = due.Year()
		series.Quarter = strconv.Itoa(schedule.QuarterOf(int(due.Month())))
		series.Month = int(due.Month())
		series.WeekNum = schedule.WeekOfMonth(due.Day())
		return series, []Occurrence{child(1, due)}, nil
	}

	if in.StartMonth == "" || in.EndMonth == "" {
		return nil, nil, ErrMonthRangeRequired
	}
	startYear, startMonth, err := ParseYearMonth(in.StartMonth)
	if err != nil {
		return nil, nil, err
	}
	endYear, endMonth, err := ParseYearMonth(in.EndMonth)
	if err != nil {
		return nil, nil, err
	}
	if !schedule.MonthLessEq(startYear, startMonth, endYear, endMonth) {
		return nil, nil, ErrEndBeforeStart
	}

	quarter := schedule.QuarterOf(startMonth)
	if in.Quarter != nil {
		quarter = *in.Quarter
	}
	monthValue := startMonth
	if in.Month != nil {
		monthValue = *in.Month
	}
	// Quarterly months are an offset within the quarter, not a calendar
	// month; fold whatever the caller gave into [1,3].
	if cadence == CadenceQuarterly {
		monthValue = (monthValue-1)%3 + 1
	}

	halfYear, ok := HalfYearFromQuarter(quarter)
	var half *int
	if ok {
		half = &halfYear
	} else {
		half = in.HalfYear
	}

	series.HalfYear = half
	series.StartMonth = FormatYearMonth(startYear, startMonth)
	series.EndMonth = FormatYearMonth(endYear, endMonth)
	series.Year = startYear
	series.Quarter = strconv.Itoa(quarter)
	series.Month = monthValue

	// Quarterly series anchor generation onto the requested month-within-
	// quarter offset, advanced in 3-month steps until it no longer predates
	// the series start. Every other cadence generates from the start month.
	genYear, genMonth := startYear, startMonth
	if cadence == CadenceQuarterly {
		genYear, genMonth = startYear, monthValue
		for !schedule.MonthLessEq(startYear, startMonth, genYear, genMonth) {
			genYear, genMonth = schedule.AddMonths(genYear, genMonth, 3)
		}
	}

	step, ok := cadence.StepMonths()
	if !ok {
		return nil, nil, ErrUnknownCadence
	}

	months := schedule.EnumerateMonths(genYear, genMonth, endYear, endMonth, step)
	occurrences := make([]Occurrence, 0, len(months))
	for i, ym := range months {
		due := schedule.NthWeekdayOfMonth(ym.Year, ym.Month, week, schedule.DueWeekday)
		occurrences = append(occurrences, child(i+1, due))
	}
	return series, occurrences, nil
}
