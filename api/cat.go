// Package api runs inference for one cat against its persisted state.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/paulmach/orb"
	"github.com/rotblauer/catspots/conceptual"
	"github.com/rotblauer/catspots/events"
	"github.com/rotblauer/catspots/geo/cluster"
	"github.com/rotblauer/catspots/geo/staypoint"
	"github.com/rotblauer/catspots/infer"
	"github.com/rotblauer/catspots/metrics"
	"github.com/rotblauer/catspots/metrics/influxdb"
	"github.com/rotblauer/catspots/params"
	"github.com/rotblauer/catspots/state"
	"github.com/rotblauer/catspots/timetable"
	"github.com/rotblauer/catspots/types/inference"
	spt "github.com/rotblauer/catspots/types/staypoint"
	"github.com/rotblauer/catspots/types/trajectory"
)

type StayPointStore interface {
	ReadStayPoints() ([]spt.StayPoint, error)
	StoreStayPoints([]spt.StayPoint) error
}

type InferenceStore interface {
	ReadInferences() ([]inference.Inference, error)
	StoreInferences([]inference.Inference) error
}

type TimetableStore interface {
	ReadTimetable() ([]inference.TimetableEntry, error)
	StoreTimetable([]inference.TimetableEntry) error
}

type FingerprintStore interface {
	ReadFingerprint() (uint64, bool, error)
	StoreFingerprint(uint64) error
}

// Store is everything a run reads and writes for one cat.
type Store interface {
	StayPointStore
	InferenceStore
	TimetableStore
	FingerprintStore
}

// Geocoder names a place. Implementations are best effort.
type Geocoder interface {
	Address(pt orb.Point) (string, error)
}

// Cat runs inference for one cat.
type Cat struct {
	CatID    conceptual.CatID
	DataDir  string
	Engine   *infer.Engine
	Geocoder Geocoder

	// ExportInflux posts successful runs' inferences to InfluxDB.
	ExportInflux bool

	logger *slog.Logger
}

func NewCat(catID conceptual.CatID, datadir string, config *params.InferenceConfig) *Cat {
	return &Cat{
		CatID:   catID,
		DataDir: datadir,
		Engine:  infer.NewEngine(config),
		logger:  slog.With("cat", catID),
	}
}

// Run opens the cat's state, blocking until no other run holds it,
// and runs RunWithStore. Completed runs are appended to the cat's run log.
func (c *Cat) Run(ctx context.Context, t *trajectory.Trajectory, types ...inference.Type) (*inference.Result, error) {
	c.logger.Debug("Run blocking on lock state")
	s, err := state.OpenCatState(c.DataDir, c.CatID, false)
	if err != nil {
		return nil, fmt.Errorf("open cat state: %w", err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			c.logger.Error("Failed to close cat state", "error", err)
		}
	}()
	res, err := c.RunWithStore(ctx, s, t, types...)
	if err != nil {
		return nil, err
	}
	if err := appendRun(s.Flat, newRunRecord(res, t.Len())); err != nil {
		c.logger.Error("Failed to append run log", "error", err)
	}
	return res, nil
}

// RunWithStore infers the cat's places from its full trajectory.
// Stored staypoints are spliced with the trajectory's tail rather than redetected.
// A run with the same input as the last stored run returns the stored inferences.
// Each completed run is announced on events.InferencesFeed.
func (c *Cat) RunWithStore(ctx context.Context, store Store, t *trajectory.Trajectory, types ...inference.Type) (res *inference.Result, err error) {
	started := time.Now()
	defer func() {
		metrics.UpdateSince("api/run", started)
	}()
	if t == nil {
		return nil, fmt.Errorf("%w: nil", trajectory.ErrMalformedTrajectory)
	}
	if t.ID != c.CatID {
		return nil, fmt.Errorf("trajectory of cat %q run for cat %q", t.ID, c.CatID)
	}
	if len(types) == 0 {
		types = inference.AllTypes
	}

	fp, err := Fingerprint(t, c.Engine.Config, types)
	if err != nil {
		return nil, err
	}
	if last, ok, err := store.ReadFingerprint(); err != nil {
		return nil, err
	} else if ok && last == fp {
		c.logger.Info("Input unchanged since last run, reusing stored inferences", "fingerprint", fp)
		metrics.Inc("api/unchanged", 1)
		return c.storedResult(store)
	}

	if t.Len() > c.Engine.Config.MaxCoordinates || t.Len() == 0 {
		// The engine reports these by status; there is nothing to persist.
		return c.Engine.Infer(ctx, t, types...)
	}

	sps, err := c.spliceStayPoints(store, t)
	if err != nil {
		return nil, err
	}
	res, err = c.Engine.InferWithStayPoints(ctx, t, sps, types...)
	if err != nil {
		return nil, err
	}
	c.geocode(res.Inferences)

	if err := store.StoreStayPoints(res.StayPoints); err != nil {
		return nil, fmt.Errorf("store staypoints: %w", err)
	}
	if err := store.StoreInferences(res.Inferences); err != nil {
		return nil, fmt.Errorf("store inferences: %w", err)
	}
	if err := store.StoreTimetable(res.Timetable); err != nil {
		return nil, fmt.Errorf("store timetable: %w", err)
	}
	if err := store.StoreFingerprint(fp); err != nil {
		return nil, fmt.Errorf("store fingerprint: %w", err)
	}
	c.logger.Info("Stored run", "status", res.Status,
		"fixes", humanize.Comma(int64(t.Len())),
		"staypoints", len(res.StayPoints),
		"inferences", len(res.Inferences),
		"elapsed", time.Since(started).Round(time.Millisecond))

	events.InferencesFeed.Send(res)

	if c.ExportInflux && res.Status == inference.StatusSuccessful {
		if err := influxdb.ExportInferences(res.Inferences); err != nil {
			c.logger.Error("Failed to export inferences to InfluxDB", "error", err)
		}
	}
	return res, nil
}

// spliceStayPoints extends the stored staypoints with the trajectory's tail.
// Stored staypoints that predate the trajectory belong to some other history,
// and are discarded.
func (c *Cat) spliceStayPoints(store StayPointStore, t *trajectory.Trajectory) ([]spt.StayPoint, error) {
	stored, err := store.ReadStayPoints()
	if err != nil {
		return nil, fmt.Errorf("read staypoints: %w", err)
	}
	if len(stored) > 0 && stored[0].Start.Before(t.Timestamps[0]) {
		c.logger.Warn("Stored staypoints predate trajectory, redetecting",
			"stored.first", stored[0].Start, "trajectory.first", t.Timestamps[0])
		stored = nil
	}
	phase := time.Now()
	sps, err := staypoint.Splice(stored, t, c.Engine.Config.Staypoint)
	if err != nil {
		return nil, err
	}
	metrics.UpdateSince("api/splice", phase)
	if sps == nil {
		sps = []spt.StayPoint{}
	}
	return sps, nil
}

func (c *Cat) geocode(infs []inference.Inference) {
	if c.Geocoder == nil {
		return
	}
	for i := range infs {
		addr, err := c.Geocoder.Address(infs[i].Point)
		if err != nil {
			c.logger.Debug("Failed to geocode inference", "type", infs[i].Type, "point", infs[i].Point, "error", err)
			continue
		}
		infs[i].Address = addr
	}
}

func (c *Cat) storedResult(store Store) (*inference.Result, error) {
	infs, err := store.ReadInferences()
	if err != nil {
		return nil, err
	}
	entries, err := store.ReadTimetable()
	if err != nil {
		return nil, err
	}
	sps, err := store.ReadStayPoints()
	if err != nil {
		return nil, err
	}
	status := inference.StatusSuccessful
	if len(infs) == 0 {
		// Clustering is deterministic, so the stored staypoints tell which empty run it was.
		status = inference.StatusNoInferencesFound
		if clusters, _ := cluster.Cluster(sps, c.Engine.Config.Cluster); len(clusters) == 0 {
			status = inference.StatusNoDataFound
		}
	}
	return &inference.Result{
		CatID:      c.CatID,
		Status:     status,
		Inferences: infs,
		StayPoints: sps,
		Timetable:  entries,
	}, nil
}

// Inferences returns the cat's last stored inferences.
func (c *Cat) Inferences() ([]inference.Inference, error) {
	s, err := state.OpenCatState(c.DataDir, c.CatID, true)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.ReadInferences()
}

// Timetable returns the cat's last stored timetable.
func (c *Cat) Timetable() (*timetable.Timetable, error) {
	s, err := state.OpenCatState(c.DataDir, c.CatID, true)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	entries, err := s.ReadTimetable()
	if err != nil {
		return nil, err
	}
	return timetable.FromEntries(entries, c.Engine.Config.Location), nil
}

// ErrNoPrediction is returned by Predict when no place was ever visited at that hour.
var ErrNoPrediction = errors.New("no place predicted")

// Predict returns the place the cat most often occupied at the weekday and hour of at.
func (c *Cat) Predict(at time.Time) (inference.Inference, int, error) {
	s, err := state.OpenCatState(c.DataDir, c.CatID, true)
	if err != nil {
		return inference.Inference{}, 0, err
	}
	defer s.Close()
	entries, err := s.ReadTimetable()
	if err != nil {
		return inference.Inference{}, 0, err
	}
	id, count, ok := timetable.FromEntries(entries, c.Engine.Config.Location).Predict(at)
	if !ok {
		return inference.Inference{}, 0, ErrNoPrediction
	}
	infs, err := s.ReadInferences()
	if err != nil {
		return inference.Inference{}, 0, err
	}
	for _, inf := range infs {
		if inf.ID == id {
			return inf, count, nil
		}
	}
	return inference.Inference{}, 0, fmt.Errorf("%w: timetable refers to unknown place %s", ErrNoPrediction, id)
}
