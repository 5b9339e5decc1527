package infer

import (
	"math"
	"time"

	"github.com/rotblauer/catspots/geo/score"
	"github.com/rotblauer/catspots/types/trajectory"
)

// segments returns the [first, last] fix indices of each recording segment.
func segments(t *trajectory.Trajectory) [][2]int {
	n := t.Len()
	if n == 0 {
		return nil
	}
	var out [][2]int
	from := 0
	for i := 1; i < n; i++ {
		if t.IsSegmentStart(i) {
			out = append(out, [2]int{from, i - 1})
			from = i
		}
	}
	return append(out, [2]int{from, n - 1})
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// CountDays is the number of days the trajectory was recorded on.
// Each segment counts its started days; a segment starting on the day the previous one ended
// does not count that day twice.
func CountDays(t *trajectory.Trajectory, loc *time.Location) int {
	days := 0
	for k, seg := range segments(t) {
		start, end := t.Timestamps[seg[0]], t.Timestamps[seg[1]]
		days += int(math.Floor(end.Sub(start).Hours()/24)) + 1
		if k > 0 && sameDate(start.In(loc), t.Timestamps[seg[0]-1].In(loc)) {
			days--
		}
	}
	return days
}

// CountWeekdays is the number of weekdays the trajectory was recorded on.
// Days are stepped from each segment's start while not after its end, and only Mon-Fri count.
func CountWeekdays(t *trajectory.Trajectory, loc *time.Location) int {
	days := 0
	for k, seg := range segments(t) {
		start, end := t.Timestamps[seg[0]].In(loc), t.Timestamps[seg[1]].In(loc)
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if score.IsWeekday(d.Weekday()) {
				days++
			}
		}
		if k > 0 && score.IsWeekday(start.Weekday()) && sameDate(start, t.Timestamps[seg[0]-1].In(loc)) {
			days--
		}
	}
	return days
}
