package api

import (
	"github.com/mitchellh/hashstructure/v2"
	"github.com/paulmach/orb"
	"github.com/rotblauer/catspots/conceptual"
	"github.com/rotblauer/catspots/params"
	"github.com/rotblauer/catspots/types/inference"
	"github.com/rotblauer/catspots/types/trajectory"
)

// runInput is what a run's output depends on.
// Times are unix nanos since hashstructure skips time.Time's unexported fields.
type runInput struct {
	Cat           conceptual.CatID
	Coordinates   []orb.Point
	Times         []int64
	Accuracy      []float64
	Speed         []float64
	SegmentStarts []bool
	Types         []inference.Type

	Staypoint params.StaypointConfig
	Cluster   params.ClusterConfig
	Location  string
	Window    params.WorkWindow
	TopK      int
	MaxCoords int
	Sampling  int64
}

// Fingerprint hashes a run's input and configuration.
func Fingerprint(t *trajectory.Trajectory, config *params.InferenceConfig, types []inference.Type) (uint64, error) {
	in := runInput{
		Cat:           t.ID,
		Coordinates:   t.Coordinates,
		Times:         make([]int64, len(t.Timestamps)),
		Accuracy:      t.Accuracy,
		Speed:         t.Speed,
		SegmentStarts: t.SegmentStarts,
		Types:         types,
		Location:      config.Location.String(),
		Window:        config.WorkWindow,
		TopK:          config.TopK,
		MaxCoords:     config.MaxCoordinates,
		Sampling:      int64(config.ScoringSampleInterval),
	}
	for i, ts := range t.Timestamps {
		in.Times[i] = ts.UnixNano()
	}
	if config.Staypoint != nil {
		in.Staypoint = *config.Staypoint
	}
	if config.Cluster != nil {
		in.Cluster = *config.Cluster
	}
	return hashstructure.Hash(in, hashstructure.FormatV2, nil)
}
