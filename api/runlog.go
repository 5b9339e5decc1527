package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/rotblauer/catspots/catz"
	"github.com/rotblauer/catspots/conceptual"
	"github.com/rotblauer/catspots/params"
	"github.com/rotblauer/catspots/state"
	"github.com/rotblauer/catspots/stream"
	"github.com/rotblauer/catspots/types/inference"
)

// RunRecord summarizes one completed run.
type RunRecord struct {
	Time       time.Time                `json:"time"`
	Status     inference.Status         `json:"status"`
	Fixes      int                      `json:"fixes"`
	StayPoints int                      `json:"stayPoints"`
	Inferences []conceptual.InferenceID `json:"inferences"`
}

func newRunRecord(res *inference.Result, fixes int) RunRecord {
	r := RunRecord{
		Time:       time.Now(),
		Status:     res.Status,
		Fixes:      fixes,
		StayPoints: len(res.StayPoints),
		Inferences: make([]conceptual.InferenceID, 0, len(res.Inferences)),
	}
	for _, inf := range res.Inferences {
		r.Inferences = append(r.Inferences, inf.ID)
	}
	return r
}

// appendRun appends r to the cat's run log in flat.
func appendRun(flat *catz.Flat, r RunRecord) error {
	w, err := flat.NewGZFileWriter(params.CatRunLogName, nil)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(w).Encode(r); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// Runs returns the cat's run log, oldest first.
func (c *Cat) Runs(ctx context.Context) ([]RunRecord, error) {
	flat := catz.NewFlatWithRoot(params.DefaultCatDataDir(c.DataDir, c.CatID.String()))
	r, err := flat.NamedGZReader(params.CatRunLogName)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: no runs for cat %s", state.ErrNoState, c.CatID)
	}
	if err != nil {
		return nil, err
	}
	defer r.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	records, errs := stream.NDJSON[RunRecord](ctx, r)
	out := stream.Collect(ctx, records)
	if err := <-errs; err != nil {
		return out, err
	}
	return out, nil
}
