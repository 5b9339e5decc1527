// Package staypoint finds the places a trajectory lingered at,
// after Li et al. 2008, "Mining User Similarity Based on Location History".
package staypoint

import (
	"log/slog"
	"time"

	"github.com/paulmach/orb"
	"github.com/rotblauer/catspots/common"
	"github.com/rotblauer/catspots/params"
	"github.com/rotblauer/catspots/types/staypoint"
	"github.com/rotblauer/catspots/types/trajectory"
)

// Detect scans the trajectory for staypoints.
//
// A candidate i collects the following fixes while they stay within DistanceThreshold of it.
// When a fix j leaves the radius, the span [i, j) is a staypoint if more than DurationThreshold
// passed between fixes i and j; j's time marks the end of the stay.
// A segment start at j closes the span [i, j-1] the same way, ending at j-1.
// If the scan runs out of fixes mid-span, the trailing span [i, last] is considered too,
// with the last fix included.
func Detect(t *trajectory.Trajectory, config *params.StaypointConfig) ([]staypoint.StayPoint, error) {
	if config == nil {
		config = params.DefaultStaypointConfig()
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	t = filterAccuracy(t, config.MaxAccuracy)

	coords, times := t.Coordinates, t.Timestamps
	n := len(coords)
	out := make([]staypoint.StayPoint, 0)

	i, j := 0, 0
	for i < n && j < n {
		j = i + 1
		for j < n {
			if t.IsSegmentStart(j) {
				if i != j-1 && times[j-1].Sub(times[i]) > config.DurationThreshold {
					out = append(out, newStayPoint(coords[i:j], times[i], times[j-1]))
				}
				i = j
				break
			}
			if common.Distance(coords[i], coords[j]) > config.DistanceThreshold {
				if times[j].Sub(times[i]) > config.DurationThreshold {
					out = append(out, newStayPoint(coords[i:j], times[i], times[j]))
				}
				i = j
				break
			}
			j++
		}
	}

	// We never left the last candidate.
	if n > 1 && i != n-1 {
		if times[n-1].Sub(times[i]) > config.DurationThreshold {
			out = append(out, newStayPoint(coords[i:n], times[i], times[n-1]))
		}
	}
	return out, nil
}

func newStayPoint(span []orb.Point, start, end time.Time) staypoint.StayPoint {
	return staypoint.StayPoint{
		Point:        common.MeanPoint(span),
		Start:        start,
		End:          end,
		Observations: len(span),
	}
}

// filterAccuracy drops fixes with accuracy worse than maxAccuracy.
// Trajectories without accuracy values, or a maxAccuracy of 0, are returned as is.
func filterAccuracy(t *trajectory.Trajectory, maxAccuracy float64) *trajectory.Trajectory {
	if maxAccuracy <= 0 || len(t.Accuracy) == 0 {
		return t
	}
	out := &trajectory.Trajectory{ID: t.ID}
	keepSpeed, keepSegments := len(t.Speed) > 0, len(t.SegmentStarts) > 0
	segmentPending := false
	for i, acc := range t.Accuracy {
		if acc > maxAccuracy {
			// A dropped segment start still starts a segment at the next kept fix.
			segmentPending = segmentPending || t.IsSegmentStart(i)
			continue
		}
		out.Coordinates = append(out.Coordinates, t.Coordinates[i])
		out.Timestamps = append(out.Timestamps, t.Timestamps[i])
		out.Accuracy = append(out.Accuracy, acc)
		if keepSpeed {
			out.Speed = append(out.Speed, t.Speed[i])
		}
		if keepSegments {
			out.SegmentStarts = append(out.SegmentStarts, segmentPending || t.SegmentStarts[i])
			segmentPending = false
		}
	}
	if dropped := t.Len() - out.Len(); dropped > 0 {
		slog.Debug("Dropped inaccurate fixes", "cat", t.ID, "dropped", dropped, "max", maxAccuracy)
	}
	return out
}
