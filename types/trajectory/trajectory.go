package trajectory

import (
	"errors"
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/rotblauer/catspots/conceptual"
)

var ErrMalformedTrajectory = errors.New("malformed trajectory")

// Point is a single fix, as reported by a device.
type Point struct {
	Lat  float64   `json:"lat"`
	Lng  float64   `json:"lng"`
	Time time.Time `json:"time"`

	// Accuracy is the reported horizontal accuracy in meters, if any.
	Accuracy *float64 `json:"accuracy,omitempty"`
	Speed    *float64 `json:"speed,omitempty"`

	// SegmentStart marks the first fix of a new recording session.
	SegmentStart bool `json:"segmentStart,omitempty"`
}

func (p Point) OrbPoint() orb.Point {
	return orb.Point{p.Lng, p.Lat}
}

// Trajectory is a time-ordered series of fixes for one cat,
// held as parallel arrays.
// Accuracy, Speed and SegmentStarts are optional; when present they
// must be as long as Coordinates.
type Trajectory struct {
	ID            conceptual.CatID
	Coordinates   []orb.Point
	Timestamps    []time.Time
	Accuracy      []float64
	Speed         []float64
	SegmentStarts []bool
}

// New builds a trajectory from points.
// Optional arrays are only populated if at least one point carries the value;
// missing values are then filled with zero.
func New(id conceptual.CatID, points []Point) *Trajectory {
	t := &Trajectory{
		ID:          id,
		Coordinates: make([]orb.Point, 0, len(points)),
		Timestamps:  make([]time.Time, 0, len(points)),
	}
	var hasAccuracy, hasSpeed, hasSegments bool
	for _, p := range points {
		hasAccuracy = hasAccuracy || p.Accuracy != nil
		hasSpeed = hasSpeed || p.Speed != nil
		hasSegments = hasSegments || p.SegmentStart
	}
	if hasAccuracy {
		t.Accuracy = make([]float64, 0, len(points))
	}
	if hasSpeed {
		t.Speed = make([]float64, 0, len(points))
	}
	if hasSegments {
		t.SegmentStarts = make([]bool, 0, len(points))
	}
	for _, p := range points {
		t.Coordinates = append(t.Coordinates, p.OrbPoint())
		t.Timestamps = append(t.Timestamps, p.Time)
		if hasAccuracy {
			var v float64
			if p.Accuracy != nil {
				v = *p.Accuracy
			}
			t.Accuracy = append(t.Accuracy, v)
		}
		if hasSpeed {
			var v float64
			if p.Speed != nil {
				v = *p.Speed
			}
			t.Speed = append(t.Speed, v)
		}
		if hasSegments {
			t.SegmentStarts = append(t.SegmentStarts, p.SegmentStart)
		}
	}
	return t
}

func (t *Trajectory) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Coordinates)
}

// Validate checks that the parallel arrays line up and that timestamps never decrease.
func (t *Trajectory) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil", ErrMalformedTrajectory)
	}
	n := len(t.Coordinates)
	if len(t.Timestamps) != n {
		return fmt.Errorf("%w: %d coordinates, %d timestamps", ErrMalformedTrajectory, n, len(t.Timestamps))
	}
	if len(t.Accuracy) != 0 && len(t.Accuracy) != n {
		return fmt.Errorf("%w: %d coordinates, %d accuracy values", ErrMalformedTrajectory, n, len(t.Accuracy))
	}
	if len(t.Speed) != 0 && len(t.Speed) != n {
		return fmt.Errorf("%w: %d coordinates, %d speed values", ErrMalformedTrajectory, n, len(t.Speed))
	}
	if len(t.SegmentStarts) != 0 && len(t.SegmentStarts) != n {
		return fmt.Errorf("%w: %d coordinates, %d segment flags", ErrMalformedTrajectory, n, len(t.SegmentStarts))
	}
	for i := 1; i < n; i++ {
		if t.Timestamps[i].Before(t.Timestamps[i-1]) {
			return fmt.Errorf("%w: timestamp %d (%s) before timestamp %d (%s)",
				ErrMalformedTrajectory, i, t.Timestamps[i], i-1, t.Timestamps[i-1])
		}
	}
	return nil
}

// IsSegmentStart reports whether the i'th fix begins a new recording segment.
func (t *Trajectory) IsSegmentStart(i int) bool {
	return i < len(t.SegmentStarts) && t.SegmentStarts[i]
}

// Points returns the trajectory as array-of-structs.
func (t *Trajectory) Points() []Point {
	out := make([]Point, 0, t.Len())
	for i := range t.Coordinates {
		p := Point{
			Lat:          t.Coordinates[i].Lat(),
			Lng:          t.Coordinates[i].Lon(),
			Time:         t.Timestamps[i],
			SegmentStart: t.IsSegmentStart(i),
		}
		if i < len(t.Accuracy) {
			v := t.Accuracy[i]
			p.Accuracy = &v
		}
		if i < len(t.Speed) {
			v := t.Speed[i]
			p.Speed = &v
		}
		out = append(out, p)
	}
	return out
}

// Slice returns the sub-trajectory [from, to).
// The returned trajectory shares backing arrays with t.
func (t *Trajectory) Slice(from, to int) *Trajectory {
	out := &Trajectory{
		ID:          t.ID,
		Coordinates: t.Coordinates[from:to],
		Timestamps:  t.Timestamps[from:to],
	}
	if len(t.Accuracy) > 0 {
		out.Accuracy = t.Accuracy[from:to]
	}
	if len(t.Speed) > 0 {
		out.Speed = t.Speed[from:to]
	}
	if len(t.SegmentStarts) > 0 {
		out.SegmentStarts = t.SegmentStarts[from:to]
	}
	return out
}

// FirstIndexAtOrAfter returns the index of the first fix at or after at,
// or Len() if there is none.
func (t *Trajectory) FirstIndexAtOrAfter(at time.Time) int {
	for i, ts := range t.Timestamps {
		if !ts.Before(at) {
			return i
		}
	}
	return t.Len()
}

// Span is the time between the first and last fix.
func (t *Trajectory) Span() time.Duration {
	if t.Len() < 2 {
		return 0
	}
	return t.Timestamps[t.Len()-1].Sub(t.Timestamps[0])
}
