package infer

import (
	"testing"
	"time"

	"github.com/rotblauer/catspots/types/trajectory"
)

func fixes(times ...time.Time) []trajectory.Point {
	out := make([]trajectory.Point, len(times))
	for i, t := range times {
		out[i] = trajectory.Point{Time: t}
	}
	return out
}

func TestCountDays(t *testing.T) {
	cases := []struct {
		name     string
		points   []trajectory.Point
		days     int
		weekdays int
	}{
		{"empty", nil, 0, 0},
		{"one fix", fixes(monday.Add(8 * h)), 1, 1},
		{"evening to next evening", fixes(monday.Add(18*h), monday.Add(24*h+22*h+30*time.Minute)), 2, 2},
		{"evening to next morning", fixes(monday.Add(18*h), monday.Add(24*h+10*h)), 1, 1},
		{"a week", fixes(monday, monday.Add(7*24*h-time.Minute)), 7, 5},
		{"weekend", fixes(monday.Add(5*24*h), monday.Add(6*24*h+12*h)), 2, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tr := trajectory.New("x", c.points)
			if got := CountDays(tr, time.UTC); got != c.days {
				t.Errorf("days: want %d, got %d", c.days, got)
			}
			if got := CountWeekdays(tr, time.UTC); got != c.weekdays {
				t.Errorf("weekdays: want %d, got %d", c.weekdays, got)
			}
		})
	}
}

func TestCountDaysSegments(t *testing.T) {
	pts := fixes(
		monday.Add(8*h), monday.Add(10*h),
		// Same day, new recording.
		monday.Add(14*h), monday.Add(16*h),
		// Wednesday.
		monday.Add(2*24*h+9*h), monday.Add(2*24*h+11*h),
	)
	pts[2].SegmentStart = true
	pts[4].SegmentStart = true
	tr := trajectory.New("x", pts)
	if got := CountDays(tr, time.UTC); got != 2 {
		t.Errorf("days: want 2, got %d", got)
	}
	if got := CountWeekdays(tr, time.UTC); got != 2 {
		t.Errorf("weekdays: want 2, got %d", got)
	}
}
