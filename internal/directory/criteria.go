package directory

import "strings"

// Criteria is the snapshot of active filter selections for one pipeline run.
type Criteria struct {
	Category    Category
	SearchQuery string
	WeekendOnly bool
}

// restrictsCategory reports whether a category predicate is active.
func (c Criteria) restrictsCategory() bool {
	return c.Category != "" && c.Category != CategoryAll
}

// TimeRange is a named time-of-day selection.
type TimeRange string

const (
	TimeRangeAny       TimeRange = ""
	TimeRangeMorning   TimeRange = "morning"
	TimeRangeAfternoon TimeRange = "afternoon"
	TimeRangeWeekend   TimeRange = "weekend"
)

// Window is an inclusive start/end bound in 24h HH:MM form.
type Window struct {
	Start string
	End   string
}

var timeWindows = map[TimeRange]Window{
	TimeRangeMorning:   {Start: "06:00", End: "08:00"},
	TimeRangeAfternoon: {Start: "15:00", End: "18:00"},
}

// WeekendDays are the days accepted by the weekend predicate.
var WeekendDays = []string{"Saturday", "Sunday"}

// ParseTimeRange normalises a transport value.
func ParseTimeRange(raw string) (TimeRange, bool) {
	tr := TimeRange(strings.ToLower(strings.TrimSpace(raw)))
	switch tr {
	case TimeRangeAny, TimeRangeMorning, TimeRangeAfternoon, TimeRangeWeekend:
		return tr, true
	default:
		return tr, false
	}
}

// Window returns the server-side time bounds. Weekend has none; it is evaluated locally.
func (t TimeRange) Window() (Window, bool) {
	w, ok := timeWindows[t]
	return w, ok
}

// Weekend reports whether the range selects the weekend special case.
func (t TimeRange) Weekend() bool {
	return t == TimeRangeWeekend
}
