package staypoint

import (
	"log/slog"

	"github.com/rotblauer/catspots/params"
	"github.com/rotblauer/catspots/types/staypoint"
	"github.com/rotblauer/catspots/types/trajectory"
)

// Splice updates previously detected staypoints for a trajectory which has grown since.
// The last stored staypoint may have been extended by the new fixes, so it is dropped,
// and detection is rerun from the first fix at or after its start.
// The recomputed tail is appended to the remaining stored staypoints.
// Without stored staypoints, the whole trajectory is scanned.
func Splice(stored []staypoint.StayPoint, t *trajectory.Trajectory, config *params.StaypointConfig) ([]staypoint.StayPoint, error) {
	if len(stored) == 0 {
		return Detect(t, config)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	last := stored[len(stored)-1]
	from := t.FirstIndexAtOrAfter(last.Start)
	if from == t.Len() {
		// Nothing at or after the last staypoint; the trajectory did not grow.
		slog.Warn("No fixes after last stored staypoint, keeping stored",
			"cat", t.ID, "last.start", last.Start, "fixes", t.Len())
		return append([]staypoint.StayPoint{}, stored...), nil
	}
	tail, err := Detect(t.Slice(from, t.Len()), config)
	if err != nil {
		return nil, err
	}
	out := make([]staypoint.StayPoint, 0, len(stored)-1+len(tail))
	out = append(out, stored[:len(stored)-1]...)
	out = append(out, tail...)
	slog.Debug("Spliced staypoints", "cat", t.ID,
		"stored", len(stored), "rescanned", t.Len()-from, "tail", len(tail))
	return out, nil
}
