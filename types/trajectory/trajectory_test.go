package trajectory

import (
	"errors"
	"testing"
	"time"
)

var t0 = time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)

func ptr(f float64) *float64 { return &f }

func TestNew(t *testing.T) {
	tr := New("rye", []Point{
		{Lat: 1, Lng: 2, Time: t0},
		{Lat: 3, Lng: 4, Time: t0.Add(time.Minute), Accuracy: ptr(5)},
	})
	if tr.Len() != 2 {
		t.Fatalf("want 2 coordinates, got %d", tr.Len())
	}
	if tr.Coordinates[1].Lat() != 3 || tr.Coordinates[1].Lon() != 4 {
		t.Errorf("unexpected coordinate %v", tr.Coordinates[1])
	}
	if len(tr.Accuracy) != 2 || tr.Accuracy[0] != 0 || tr.Accuracy[1] != 5 {
		t.Errorf("unexpected accuracy %v", tr.Accuracy)
	}
	if tr.Speed != nil || tr.SegmentStarts != nil {
		t.Error("optional arrays should stay empty")
	}
	if err := tr.Validate(); err != nil {
		t.Fatal(err)
	}
	back := tr.Points()
	if back[1].Accuracy == nil || *back[1].Accuracy != 5 {
		t.Errorf("accuracy lost on round trip: %+v", back[1])
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		tr   *Trajectory
		ok   bool
	}{
		{"nil", nil, false},
		{"empty", &Trajectory{}, true},
		{"mismatched timestamps", New("x", []Point{{Time: t0}}).withTimestamps(nil), false},
		{"decreasing", New("x", []Point{{Time: t0}, {Time: t0.Add(-time.Second)}}), false},
		{"equal timestamps", New("x", []Point{{Time: t0}, {Time: t0}}), true},
		{"short accuracy", &Trajectory{
			Coordinates: New("x", []Point{{Time: t0}, {Time: t0}}).Coordinates,
			Timestamps:  []time.Time{t0, t0},
			Accuracy:    []float64{1},
		}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.tr.Validate()
			if c.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !c.ok && !errors.Is(err, ErrMalformedTrajectory) {
				t.Fatalf("want ErrMalformedTrajectory, got %v", err)
			}
		})
	}
}

func (t *Trajectory) withTimestamps(ts []time.Time) *Trajectory {
	t.Timestamps = ts
	return t
}

func TestFirstIndexAtOrAfter(t *testing.T) {
	tr := New("x", []Point{{Time: t0}, {Time: t0.Add(time.Hour)}, {Time: t0.Add(2 * time.Hour)}})
	if i := tr.FirstIndexAtOrAfter(t0.Add(time.Hour)); i != 1 {
		t.Errorf("want 1, got %d", i)
	}
	if i := tr.FirstIndexAtOrAfter(t0.Add(90 * time.Minute)); i != 2 {
		t.Errorf("want 2, got %d", i)
	}
	if i := tr.FirstIndexAtOrAfter(t0.Add(3 * time.Hour)); i != 3 {
		t.Errorf("want 3, got %d", i)
	}
	sub := tr.Slice(1, 3)
	if sub.Len() != 2 || !sub.Timestamps[0].Equal(t0.Add(time.Hour)) {
		t.Errorf("unexpected slice %+v", sub)
	}
}
