package infer

import (
	"testing"
	"time"

	"github.com/rotblauer/catspots/types/staypoint"
)

// 2024-03-04 is a Monday.
var monday = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func onSite(ivs ...[2]time.Duration) staypoint.Cluster {
	c := staypoint.Cluster{}
	for _, iv := range ivs {
		c.OnSite = append(c.OnSite, staypoint.Interval{Start: monday.Add(iv[0]), End: monday.Add(iv[1])})
	}
	return c
}

const h = time.Hour

func TestHomeScore(t *testing.T) {
	cases := []struct {
		name string
		c    staypoint.Cluster
		want float64
	}{
		{"evening only", onSite([2]time.Duration{18 * h, 23 * h}), 0},
		{"overnight", onSite([2]time.Duration{18 * h, 32 * h}), 1},
		{"overnight until 4am", onSite([2]time.Duration{18 * h, 28 * h}), 0},
		{"two nights in one visit", onSite([2]time.Duration{18 * h, 56 * h}), 2},
		{"two visits", onSite([2]time.Duration{18 * h, 32 * h}, [2]time.Duration{42 * h, 56 * h}), 2},
		{"a week", onSite([2]time.Duration{0, 7 * 24 * h}), 6},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := HomeScore(c.c, time.UTC); got != c.want {
				t.Errorf("want %v, got %v", c.want, got)
			}
		})
	}
}

func TestWorkScore(t *testing.T) {
	saturday := 5 * 24 * h
	cases := []struct {
		name string
		c    staypoint.Cluster
		want float64
	}{
		{"full day", onSite([2]time.Duration{9 * h, 17 * h}), 1},
		{"morning", onSite([2]time.Duration{9 * h, 12*h + 30*time.Minute}), 0.5},
		{"afternoon", onSite([2]time.Duration{13 * h, 16 * h}), 0.5},
		{"lunch", onSite([2]time.Duration{11*h + 30*time.Minute, 13*h + 30*time.Minute}), 0},
		{"saturday", onSite([2]time.Duration{saturday + 9*h, saturday + 17*h}), 0},
		{"overnight shift", onSite([2]time.Duration{9 * h, 24*h + 17*h}), 2},
		{"night into tuesday", onSite([2]time.Duration{20 * h, 24*h + 8*h}), 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := WorkScore(c.c, time.UTC); got != c.want {
				t.Errorf("want %v, got %v", c.want, got)
			}
		})
	}
}

func TestConfidence(t *testing.T) {
	if got := Confidence(1, 2); got != 0.5 {
		t.Errorf("want 0.5, got %v", got)
	}
	if got := Confidence(3, 2); got != 1.5 {
		t.Errorf("want unclamped 1.5, got %v", got)
	}
	if got := Confidence(1, 0); got != 0 {
		t.Errorf("want 0 without days, got %v", got)
	}
}
