package domain

import "strings"

// Cadence is the canonical recurrence interval token of a series. The
// canonical values are the native-script literals the storage layer has
// always carried; English labels are accepted on input and normalized here.
type Cadence string

// Canonical cadence tokens.
const (
	CadenceWeekly     Cadence = "週次"
	CadenceMonthly    Cadence = "月次"
	CadenceQuarterly  Cadence = "四半期"
	CadenceHalfYearly Cadence = "半期"
	CadenceYearly     Cadence = "年次"
	CadenceSpot       Cadence = "スポット"
)

// cadenceLabels maps every accepted frequency literal to its canonical
// cadence. English labels match case-insensitively via ParseCadence; the
// native-script literals match exactly.
var cadenceLabels = map[string]Cadence{
	"週次":        CadenceWeekly,
	"weekly":    CadenceWeekly,
	"月次":        CadenceMonthly,
	"monthly":   CadenceMonthly,
	"四半期":       CadenceQuarterly,
	"quarterly": CadenceQuarterly,
	"半期":        CadenceHalfYearly,
	"half-year": CadenceHalfYearly,
	"halfyear":  CadenceHalfYearly,
	"年次":        CadenceYearly,
	"yearly":    CadenceYearly,
	"スポット":      CadenceSpot,
	"spot":      CadenceSpot,
}

// cadenceSteps maps each cadence to its month step. Spot has no step: it
// never enumerates months.
var cadenceSteps = map[Cadence]int{
	CadenceWeekly:     1,
	CadenceMonthly:    1,
	CadenceQuarterly:  3,
	CadenceHalfYearly: 6,
	CadenceYearly:     12,
}

// ParseCadence normalizes a frequency label to its canonical cadence.
// Returns ErrFrequencyRequired for an empty label and ErrUnknownCadence
// when the label matches no accepted synonym.
func ParseCadence(label string) (Cadence, error) {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return "", ErrFrequencyRequired
	}
	if c, ok := cadenceLabels[trimmed]; ok {
		return c, nil
	}
	if c, ok := cadenceLabels[strings.ToLower(trimmed)]; ok {
		return c, nil
	}
	return "", ErrUnknownCadence
}

// StepMonths returns the number of months between consecutive occurrences
// of the cadence. The second result is false for spot cadences.
func (c Cadence) StepMonths() (int, bool) {
	step, ok := cadenceSteps[c]
	return step, ok
}

// IsSpot reports whether the cadence is a one-off spot task.
func (c Cadence) IsSpot() bool {
	return c == CadenceSpot
}

// RequiresWeek reports whether the cadence needs an explicit week-of-month.
// Spot tasks take their week from the due date and weekly tasks land every
// week, so neither requires one.
func (c Cadence) RequiresWeek() bool {
	return c != CadenceSpot && c != CadenceWeekly
}

// ResolveWeek validates and resolves the week-of-month for the cadence.
// A nil week is an error when the cadence requires one and defaults to 1
// otherwise. A supplied week is validated against [1,4] even when the
// cadence does not require it.
func (c Cadence) ResolveWeek(week *int) (int, error) {
	if week == nil {
		if c.RequiresWeek() {
			return 0, ErrWeekRequired
		}
		return 1, nil
	}
	if *week < 1 || *week > 4 {
		return 0, ErrWeekOutOfRange
	}
	return *week, nil
}

// HalfYearFromQuarter derives the half-year (1 or 2) from a quarter number.
// Returns false when the quarter is outside [1,4].
func HalfYearFromQuarter(quarter int) (int, bool) {
	if quarter < 1 || quarter > 4 {
		return 0, false
	}
	if quarter <= 2 {
		return 1, true
	}
	return 2, true
}
