// Package infer labels the places of a trajectory as home, work or points of interest.
package infer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rotblauer/catspots/geo/cluster"
	"github.com/rotblauer/catspots/geo/staypoint"
	"github.com/rotblauer/catspots/metrics"
	"github.com/rotblauer/catspots/params"
	"github.com/rotblauer/catspots/timetable"
	"github.com/rotblauer/catspots/types/inference"
	spt "github.com/rotblauer/catspots/types/staypoint"
	"github.com/rotblauer/catspots/types/trajectory"
)

type Engine struct {
	Config *params.InferenceConfig
}

func NewEngine(config *params.InferenceConfig) *Engine {
	return &Engine{Config: withDefaults(config)}
}

// withDefaults fills the unset parts of config, or returns the default config for nil.
func withDefaults(config *params.InferenceConfig) *params.InferenceConfig {
	if config == nil {
		return params.DefaultInferenceConfig()
	}
	if config.Staypoint == nil {
		config.Staypoint = params.DefaultStaypointConfig()
	}
	if config.Cluster == nil {
		config.Cluster = params.DefaultClusterConfig()
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	return config
}

// Infer runs the whole pipeline over the trajectory for the requested types,
// or all types if none are given.
func (e *Engine) Infer(ctx context.Context, t *trajectory.Trajectory, types ...inference.Type) (*inference.Result, error) {
	return e.InferWithStayPoints(ctx, t, nil, types...)
}

// InferWithStayPoints is Infer, using already detected staypoints if sps is not nil.
func (e *Engine) InferWithStayPoints(ctx context.Context, t *trajectory.Trajectory, sps []spt.StayPoint, types ...inference.Type) (res *inference.Result, err error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil", trajectory.ErrMalformedTrajectory)
	}
	started := time.Now()
	if len(types) == 0 {
		types = inference.AllTypes
	}
	res = &inference.Result{CatID: t.ID, Inferences: []inference.Inference{}}
	logger := slog.With("cat", t.ID)
	defer func() {
		metrics.UpdateSince("infer/total", started)
		if err != nil {
			metrics.Inc("infer/errors", 1)
			return
		}
		metrics.Inc("infer/status/"+string(res.Status), 1)
	}()

	if t.Len() > e.Config.MaxCoordinates {
		logger.Warn("Too many coordinates", "fixes", humanize.Comma(int64(t.Len())), "max", humanize.Comma(int64(e.Config.MaxCoordinates)))
		res.Status = inference.StatusTooManyCoordinates
		return res, nil
	}
	if t.Len() == 0 {
		res.Status = inference.StatusNoDataFound
		return res, nil
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	if sps == nil {
		phase := time.Now()
		sps, err = staypoint.Detect(t, e.Config.Staypoint)
		if err != nil {
			return nil, err
		}
		metrics.UpdateSince("infer/detect", phase)
	}
	res.StayPoints = sps
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	phase := time.Now()
	clusters, noise := cluster.Cluster(sps, e.Config.Cluster)
	metrics.UpdateSince("infer/cluster", phase)
	res.Clusters, res.Noise = clusters, noise
	if len(clusters) == 0 {
		logger.Info("No clusters", "staypoints", len(sps))
		res.Status = inference.StatusNoDataFound
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	phase = time.Now()
	days := CountDays(t, e.Config.Location)
	weekdays := CountWeekdays(t, e.Config.Location)
	candidates := NewCandidates(t.ID, clusters, e.Config)
	for _, typ := range types {
		switch typ {
		case inference.TypeHome:
			res.Inferences = append(res.Inferences, candidates.Home(days)...)
		case inference.TypeWork:
			res.Inferences = append(res.Inferences, candidates.Work(weekdays)...)
		case inference.TypePOI:
			res.Inferences = append(res.Inferences, candidates.POI()...)
		default:
			logger.Warn("Unknown inference type", "type", typ)
		}
	}
	res.Inferences = Dedupe(res.Inferences)
	metrics.UpdateSince("infer/score", phase)

	if len(res.Inferences) == 0 {
		res.Status = inference.StatusNoInferencesFound
		return res, nil
	}
	res.Status = inference.StatusSuccessful
	res.Timetable = timetable.Build(inference.OfType(res.Inferences, inference.TypePOI), e.Config.Location).Entries()

	logger.Info("Inferred places",
		"fixes", humanize.Comma(int64(t.Len())),
		"staypoints", len(sps),
		"clusters", len(clusters),
		"days", days, "weekdays", weekdays,
		"inferences", len(res.Inferences),
		"elapsed", time.Since(started).Round(time.Millisecond))
	return res, nil
}
