// Package schedule provides the calendar arithmetic used to materialize
// recurring due dates: month stepping with year carry, (year, month)
// ordering, month enumeration, and nth-weekday-of-month resolution.
//
// All functions are pure. Due-date policy decisions (which weekday, how an
// absent 4th instance is handled) live here because they determine the exact
// calendar day an occurrence lands on.
package schedule

import "time"

// DueWeekday is the fixed weekday used for all generated due dates.
// The week-of-month ordinal is caller-configurable; the weekday is not,
// since due dates represent a single organizational reporting cadence.
const DueWeekday = time.Friday

// YearMonth is a calendar month within a specific year.
type YearMonth struct {
	Year  int
	Month int
}

// AddMonths advances (year, month) by delta months, which may be negative.
// The returned month is always normalized into [1, 12] with year carry.
func AddMonths(year, month, delta int) (int, int) {
	month += delta
	year += (month - 1) / 12
	month = (month-1)%12 + 1
	// Go's integer division truncates toward zero, so large negative deltas
	// need one more year of correction to keep month positive.
	if month < 1 {
		year--
		month += 12
	}
	return year, month
}

// MonthLessEq reports whether (y1, m1) is the same month as or an earlier
// month than (y2, m2).
func MonthLessEq(y1, m1, y2, m2 int) bool {
	return y1 < y2 || (y1 == y2 && m1 <= m2)
}

// EnumerateMonths returns every month from (startY, startM) onward in
// step-month increments, inclusive while the month is <= (endY, endM).
// The result is empty when start is already past end.
func EnumerateMonths(startY, startM, endY, endM, step int) []YearMonth {
	var months []YearMonth
	year, month := startY, startM
	for MonthLessEq(year, month, endY, endM) {
		months = append(months, YearMonth{Year: year, Month: month})
		year, month = AddMonths(year, month, step)
	}
	return months
}

// NthWeekdayOfMonth returns the weekNum-th occurrence of weekday within the
// given month. weekNum is clamped into [1, 4]. When the computed day falls
// past the end of the month (months without a 4th instance of the weekday),
// the last calendar day of the month is returned instead of rolling into the
// next month.
func NthWeekdayOfMonth(year, month, weekNum int, weekday time.Weekday) time.Time {
	if weekNum < 1 {
		weekNum = 1
	}
	if weekNum > 4 {
		weekNum = 4
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	day := 1 + offset + 7*(weekNum-1)
	if last := DaysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the number of calendar days in the given month.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// QuarterOf returns the calendar quarter (1-4) containing the given month.
func QuarterOf(month int) int {
	return (month-1)/3 + 1
}

// WeekOfMonth returns the 1-based week ordinal of a day within its month,
// counting in 7-day blocks from the 1st.
func WeekOfMonth(day int) int {
	return (day-1)/7 + 1
}
