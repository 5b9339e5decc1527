// Package score holds the scoring functions which describe a place by the times it was occupied.
package score

import (
	"time"

	"github.com/montanaflynn/stats"
	"github.com/rotblauer/catspots/params"
	"github.com/rotblauer/catspots/types/staypoint"
)

type Type string

const (
	TypeNightness  Type = "nightness"
	TypeWorkHours  Type = "workHours"
	TypePointCount Type = "pointCount"
)

func (t Type) String() string { return string(t) }

// decimalHour is the local time of day as fractional hours, eg. 13:30 => 13.5.
func decimalHour(t time.Time, loc *time.Location) float64 {
	t = t.In(loc)
	return float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
}

// Nightness is the average closeness of the times to local midnight:
// 1 at midnight, 0 at noon.
// No times yields -1.
func Nightness(times []time.Time, loc *time.Location) float64 {
	if len(times) == 0 {
		return -1
	}
	values := make(stats.Float64Data, 0, len(times))
	for _, t := range times {
		h := decimalHour(t, loc)
		diff := h
		if 24-h < diff {
			diff = 24 - h
		}
		values = append(values, 1-diff/12)
	}
	mean, err := values.Mean()
	if err != nil {
		return -1
	}
	return mean
}

// WorkHours is the fraction of times falling strictly inside the work window on a weekday.
// No times yields 0.
func WorkHours(times []time.Time, loc *time.Location, window params.WorkWindow) float64 {
	if len(times) == 0 {
		return 0
	}
	n := 0
	for _, t := range times {
		if IsWorkTime(t, loc, window) {
			n++
		}
	}
	return float64(n) / float64(len(times))
}

// IsWorkTime reports whether t is Mon-Fri, strictly between the window's hours.
func IsWorkTime(t time.Time, loc *time.Location, window params.WorkWindow) bool {
	if !IsWeekday(t.In(loc).Weekday()) {
		return false
	}
	h := decimalHour(t, loc)
	return h > window.StartHour && h < window.EndHour
}

func IsWeekday(d time.Weekday) bool {
	return d >= time.Monday && d <= time.Friday
}

// PointCount normalizes size against the smallest and largest of sizes.
// If all sizes are equal it is 0.
func PointCount(size int, sizes []int) float64 {
	if len(sizes) == 0 {
		return 0
	}
	data := make(stats.Float64Data, 0, len(sizes))
	for _, s := range sizes {
		data = append(data, float64(s))
	}
	lo, _ := data.Min()
	hi, _ := data.Max()
	if hi == lo {
		return 0
	}
	return (float64(size) - lo) / (hi - lo)
}

// SampleIntervals turns intervals into timestamps every step, from each start up to and including its end.
func SampleIntervals(intervals []staypoint.Interval, step time.Duration) []time.Time {
	if step <= 0 {
		step = time.Hour
	}
	var out []time.Time
	for _, iv := range intervals {
		for t := iv.Start; !t.After(iv.End); t = t.Add(step) {
			out = append(out, t)
		}
	}
	return out
}

// Evaluate computes every score for a cluster.
func Evaluate(c staypoint.Cluster, sizes []int, cfg *params.InferenceConfig) map[Type]float64 {
	times := SampleIntervals(c.OnSite, cfg.ScoringSampleInterval)
	return map[Type]float64{
		TypeNightness:  Nightness(times, cfg.Location),
		TypeWorkHours:  WorkHours(times, cfg.Location, cfg.WorkWindow),
		TypePointCount: PointCount(c.Size(), sizes),
	}
}
