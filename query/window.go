package query

import (
	"time"

	"github.com/poiesic/sift/core"
)

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether ts falls inside the interval.
func (i Interval) Contains(ts time.Time) bool {
	return !ts.Before(i.Start) && ts.Before(i.End)
}

// Window resolves a timeframe to a concrete interval relative to now.
// Rolling windows run up to the end of the current day.
// ok is false for core.TimeframeNone or an unknown timeframe.
func Window(tf core.Timeframe, now time.Time) (Interval, bool) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	switch tf {
	case core.TimeframeToday:
		return Interval{Start: startOfDay, End: endOfDay}, true
	case core.TimeframeYesterday:
		return Interval{Start: startOfDay.AddDate(0, 0, -1), End: startOfDay}, true
	case core.TimeframeWeek:
		return Interval{Start: now.AddDate(0, 0, -7), End: endOfDay}, true
	case core.TimeframeMonth:
		return Interval{Start: now.AddDate(0, 0, -30), End: endOfDay}, true
	case core.TimeframeYear:
		return Interval{Start: now.AddDate(0, 0, -365), End: endOfDay}, true
	case core.TimeframeRecent:
		return Interval{Start: now.AddDate(0, 0, -3), End: endOfDay}, true
	}
	return Interval{}, false
}
