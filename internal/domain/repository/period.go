package repository

// Period represents the bar resolution of an analysis.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// IsValidPeriod returns true if p is a supported period.
func IsValidPeriod(p Period) bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return true
	default:
		return false
	}
}

// DefaultPeriod returns the default period.
func DefaultPeriod() Period { return PeriodDaily }

// NormalizePeriod converts a raw string to a valid period (or default).
func NormalizePeriod(s string) Period {
	if s == "" {
		return DefaultPeriod()
	}
	p := Period(s)
	if IsValidPeriod(p) {
		return p
	}
	return DefaultPeriod()
}

// HistoryDepth returns how many bars of history an analysis at this period
// requests from the bar store. Longer resolutions need longer history for
// slow indicators to warm up.
func HistoryDepth(p Period) int {
	switch p {
	case PeriodWeekly:
		return 500
	case PeriodMonthly:
		return 2000
	default:
		return 400
	}
}
