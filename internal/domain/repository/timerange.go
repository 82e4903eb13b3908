package repository

import (
	"fmt"
	"time"

	"StockSquad/pkg/util"
)

// Named time ranges supported by series and leaderboard lookups.
const (
	RangeWeek       = "1W"
	RangeMonth      = "1M"
	RangeQuarter    = "3M"
	RangeHalfYear   = "6M"
	RangeYear       = "1Y"
	RangeYearToDate = "YTD"
)

var namedRanges = map[string]bool{
	RangeWeek:       true,
	RangeMonth:      true,
	RangeQuarter:    true,
	RangeHalfYear:   true,
	RangeYear:       true,
	RangeYearToDate: true,
}

// IsNamedRange reports whether name is one of the supported range labels.
func IsNamedRange(name string) bool {
	return namedRanges[name]
}

// TimeRange is a resolved half-open window [Start, End) in UTC.
// Label keeps the original named range when one was used.
type TimeRange struct {
	Label string
	Start time.Time
	End   time.Time
}

// ResolveRange turns a named range or an explicit start/end pair into a
// concrete window anchored at now. Explicit end dates are inclusive, so
// the window extends one day past the given end.
func ResolveRange(name, startStr, endStr string, now time.Time) (TimeRange, error) {
	now = now.UTC()

	if startStr != "" || endStr != "" {
		if startStr == "" || endStr == "" {
			return TimeRange{}, fmt.Errorf("start and end must be given together")
		}
		startT, ok := util.ParseTime(startStr)
		if !ok {
			return TimeRange{}, fmt.Errorf("invalid start date %q", startStr)
		}
		endT, ok := util.ParseTime(endStr)
		if !ok {
			return TimeRange{}, fmt.Errorf("invalid end date %q", endStr)
		}
		// Explicit windows are date-granular: whatever form the bounds
		// arrived in, they snap to whole UTC days.
		start := util.TruncateDay(startT)
		end := util.TruncateDay(endT).AddDate(0, 0, 1)
		if !start.Before(end) {
			return TimeRange{}, fmt.Errorf("start %s is after end %s", startStr, endStr)
		}
		return TimeRange{
			Label: "custom",
			Start: start,
			End:   end,
		}, nil
	}

	end := now
	var start time.Time
	switch name {
	case RangeWeek:
		start = now.AddDate(0, 0, -7)
	case RangeMonth, "":
		start = now.AddDate(0, -1, 0)
		name = RangeMonth
	case RangeQuarter:
		start = now.AddDate(0, -3, 0)
	case RangeHalfYear:
		start = now.AddDate(0, -6, 0)
	case RangeYear:
		start = now.AddDate(-1, 0, 0)
	case RangeYearToDate:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return TimeRange{}, fmt.Errorf("unknown range %q", name)
	}

	return TimeRange{Label: name, Start: start, End: end}, nil
}
