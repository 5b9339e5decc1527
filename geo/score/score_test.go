package score

import (
	"math"
	"testing"
	"time"

	"github.com/rotblauer/catspots/params"
	"github.com/rotblauer/catspots/types/staypoint"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNightness(t *testing.T) {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		times []time.Time
		want  float64
	}{
		{"empty", nil, -1},
		{"midnight", []time.Time{day}, 1},
		{"noon", []time.Time{day.Add(12 * time.Hour)}, 0},
		{"late evening", []time.Time{day.Add(21 * time.Hour)}, 0.75},
		{"early morning", []time.Time{day.Add(3 * time.Hour)}, 0.75},
		{"half hour", []time.Time{day.Add(6*time.Hour + 30*time.Minute)}, 1 - 6.5/12},
		{"mean", []time.Time{day, day.Add(12 * time.Hour)}, 0.5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Nightness(c.times, time.UTC); !near(got, c.want) {
				t.Errorf("want %v, got %v", c.want, got)
			}
		})
	}
}

func TestNightnessRange(t *testing.T) {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	for m := 0; m < 24*60; m += 7 {
		got := Nightness([]time.Time{start.Add(time.Duration(m) * time.Minute)}, time.UTC)
		if got < 0 || got > 1 {
			t.Fatalf("minute %d: nightness %v out of range", m, got)
		}
	}
}

func TestNightnessLocation(t *testing.T) {
	loc := time.FixedZone("UTC-6", -6*3600)
	// 06:00 UTC is local midnight.
	ts := []time.Time{time.Date(2024, 3, 4, 6, 0, 0, 0, time.UTC)}
	if got := Nightness(ts, loc); !near(got, 1) {
		t.Errorf("want 1, got %v", got)
	}
}

func TestWorkHours(t *testing.T) {
	monday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	saturday := monday.AddDate(0, 0, 5)
	w := params.DefaultWorkWindow
	cases := []struct {
		name  string
		times []time.Time
		want  float64
	}{
		{"empty", nil, 0},
		{"monday morning", []time.Time{monday.Add(10 * time.Hour)}, 1},
		{"exact start excluded", []time.Time{monday.Add(9 * time.Hour)}, 0},
		{"exact end excluded", []time.Time{monday.Add(17 * time.Hour)}, 0},
		{"saturday", []time.Time{saturday.Add(10 * time.Hour)}, 0},
		{"half", []time.Time{monday.Add(10 * time.Hour), monday.Add(20 * time.Hour)}, 0.5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := WorkHours(c.times, time.UTC, w)
			if !near(got, c.want) {
				t.Errorf("want %v, got %v", c.want, got)
			}
			if got < 0 || got > 1 {
				t.Errorf("out of range: %v", got)
			}
		})
	}
}

func TestPointCount(t *testing.T) {
	sizes := []int{2, 4, 6}
	if got := PointCount(4, sizes); !near(got, 0.5) {
		t.Errorf("want 0.5, got %v", got)
	}
	if got := PointCount(6, sizes); !near(got, 1) {
		t.Errorf("want 1, got %v", got)
	}
	if got := PointCount(2, sizes); !near(got, 0) {
		t.Errorf("want 0, got %v", got)
	}
	if got := PointCount(3, []int{3, 3, 3}); got != 0 {
		t.Errorf("degenerate sizes: want 0, got %v", got)
	}
}

func TestAggregate(t *testing.T) {
	scores := map[Type]float64{
		TypeNightness:  1,
		TypeWorkHours:  0,
		TypePointCount: 1,
	}
	if got := Aggregate(HomeTable, scores); !near(got, 1) {
		t.Errorf("home: want 1, got %v", got)
	}
	// work: (0.75*0 + 1*0 + 1*1) / 2.75
	if got := Aggregate(WorkTable, scores); !near(got, 1/2.75) {
		t.Errorf("work: want %v, got %v", 1/2.75, got)
	}
	if got := Aggregate(POITable, scores); got != 0 {
		t.Errorf("poi: want 0, got %v", got)
	}
	scores[TypePointCount] = math.NaN()
	if got := Aggregate(HomeTable, scores); !near(got, 1.75/2.75) {
		t.Errorf("NaN: want %v, got %v", 1.75/2.75, got)
	}
}

func TestSampleIntervals(t *testing.T) {
	t0 := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	got := SampleIntervals([]staypoint.Interval{
		{Start: t0, End: t0.Add(2*time.Hour + 10*time.Minute)},
		{Start: t0, End: t0},
	}, time.Hour)
	if len(got) != 4 {
		t.Fatalf("want 4 samples, got %d: %v", len(got), got)
	}
}
