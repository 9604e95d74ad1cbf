package domain

import "errors"

// Common domain errors used across the application. All of these are
// caller-fixable validation failures and are raised before any storage
// access.
var (
	// ErrValidation is the root of all validation failures. More specific
	// errors below wrap or accompany it so callers can branch coarsely.
	ErrValidation = errors.New("validation failed")

	// ErrFrequencyRequired is returned when a series is registered without
	// a frequency label.
	ErrFrequencyRequired = errors.New("frequency is required")

	// ErrUnknownCadence is returned when a frequency label matches none of
	// the accepted cadence synonyms.
	ErrUnknownCadence = errors.New("unknown frequency")

	// ErrTitleRequired is returned when a series is registered without a title.
	ErrTitleRequired = errors.New("title is required")

	// ErrWeekRequired is returned when a cadence needs a week-of-month and
	// none was supplied.
	ErrWeekRequired = errors.New("week number is required when not a spot or weekly task")

	// ErrWeekOutOfRange is returned when a supplied week-of-month is not in [1,4].
	ErrWeekOutOfRange = errors.New("week number must be between 1 and 4")

	// ErrDueDateRequired is returned when a spot series has no due date.
	ErrDueDateRequired = errors.New("due_date is required for spot tasks")

	// ErrDueDateFormat is returned when a due date is not a valid ISO date.
	ErrDueDateFormat = errors.New("due_date must be an ISO date (YYYY-MM-DD)")

	// ErrMonthRangeRequired is returned when a recurring series is missing
	// its start or end month.
	ErrMonthRangeRequired = errors.New("start_month and end_month are required")

	// ErrMonthFormat is returned when a year-month value does not match YYYY-MM.
	ErrMonthFormat = errors.New("start_month and end_month must match YYYY-MM")

	// ErrMonthOutOfRange is returned when a year-month's month part is not in [1,12].
	ErrMonthOutOfRange = errors.New("month must be between 1 and 12")

	// ErrEndBeforeStart is returned when end_month precedes start_month.
	ErrEndBeforeStart = errors.New("end_month must be the same or after start_month")

	// ErrGroupNeedsAssignees is returned when a Group series carries fewer
	// than two assignees, at creation or on any update touching assignees
	// or task kind.
	ErrGroupNeedsAssignees = errors.New("group tasks require at least two assignees")
)

// validationErrors is the closed set matched by IsValidationError.
var validationErrors = []error{
	ErrValidation,
	ErrFrequencyRequired,
	ErrUnknownCadence,
	ErrTitleRequired,
	ErrWeekRequired,
	ErrWeekOutOfRange,
	ErrDueDateRequired,
	ErrDueDateFormat,
	ErrMonthRangeRequired,
	ErrMonthFormat,
	ErrMonthOutOfRange,
	ErrEndBeforeStart,
	ErrGroupNeedsAssignees,
}

// IsValidationError reports whether err belongs to the validation error
// family above, directly or wrapped.
func IsValidationError(err error) bool {
	for _, sentinel := range validationErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
