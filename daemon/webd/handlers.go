package webd

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rotblauer/catspots/api"
	"github.com/rotblauer/catspots/conceptual"
	"github.com/rotblauer/catspots/metrics"
	"github.com/rotblauer/catspots/params"
	"github.com/rotblauer/catspots/state"
	"github.com/rotblauer/catspots/types/inference"
	"github.com/rotblauer/catspots/types/trajectory"
)

// maxInferBodyBytes bounds POSTed trajectories.
const maxInferBodyBytes = 256 << 20

func pingPong(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

type webDaemonStatus struct {
	StartedAt     time.Time               `json:"started_at"`
	Uptime        string                  `json:"uptime"`
	Config        *params.WebDaemonConfig `json:"config"`
	CachedResults int                     `json:"cached_results"`
}

func (s *WebDaemon) statusReport(w http.ResponseWriter, r *http.Request) {
	st := webDaemonStatus{
		StartedAt:     s.started,
		Uptime:        time.Since(s.started).Round(time.Second).String(),
		Config:        s.Config,
		CachedResults: s.results.Len(),
	}
	s.writeJSON(w, st)
}

func handleMetrics(w http.ResponseWriter, r *http.Request) {
	if err := json.NewEncoder(w).Encode(metrics.Summary()); err != nil {
		http.Error(w, "Failed to write response", http.StatusInternalServerError)
	}
}

func (s *WebDaemon) writeJSON(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("Failed to write response", "error", err)
	}
}

func getRequestCatID(r *http.Request) conceptual.CatID {
	if catID, ok := mux.Vars(r)["cat"]; ok {
		return conceptual.CatID(catID)
	}
	return conceptual.CatID(r.URL.Query().Get("cat"))
}

func (s *WebDaemon) handleGetCatForRequest(w http.ResponseWriter, r *http.Request) (conceptual.CatID, bool) {
	catID := getRequestCatID(r)
	if catID.IsEmpty() {
		s.logger.Warn("Missing cat", "url", r.URL)
		http.Error(w, "Missing cat", http.StatusBadRequest)
		return "", false
	}
	return catID, true
}

// readError maps a failed state read to a response.
func (s *WebDaemon) readError(w http.ResponseWriter, catID conceptual.CatID, err error) {
	if errors.Is(err, state.ErrNoState) {
		http.Error(w, "no cat that", http.StatusNotFound)
		return
	}
	s.logger.Error("Failed to read cat state", "cat", catID, "error", err)
	http.Error(w, "Failed to read cat state", http.StatusInternalServerError)
}

func (s *WebDaemon) handleCats(w http.ResponseWriter, r *http.Request) {
	cats, err := state.Cats(s.Config.DataDir)
	if err != nil {
		s.logger.Error("Failed to list cats", "error", err)
		http.Error(w, "Failed to list cats", http.StatusInternalServerError)
		return
	}
	if cats == nil {
		cats = []conceptual.CatID{}
	}
	s.writeJSON(w, cats)
}

// handleInferences writes the cat's stored inferences.
// With ?geojson=true it writes them as a FeatureCollection of points.
func (s *WebDaemon) handleInferences(w http.ResponseWriter, r *http.Request) {
	catID, ok := s.handleGetCatForRequest(w, r)
	if !ok {
		return
	}
	infs, err := s.cat(catID).Inferences()
	if err != nil {
		s.readError(w, catID, err)
		return
	}
	if r.URL.Query().Get("geojson") == "true" {
		w.Header().Set("Content-Type", "application/geo+json")
		s.writeJSON(w, inference.FeatureCollection(infs))
		return
	}
	s.writeJSON(w, infs)
}

// handleRuns writes the cat's run log, oldest first.
func (s *WebDaemon) handleRuns(w http.ResponseWriter, r *http.Request) {
	catID, ok := s.handleGetCatForRequest(w, r)
	if !ok {
		return
	}
	runs, err := s.cat(catID).Runs(r.Context())
	if err != nil {
		s.readError(w, catID, err)
		return
	}
	s.writeJSON(w, runs)
}

func (s *WebDaemon) handleTimetable(w http.ResponseWriter, r *http.Request) {
	catID, ok := s.handleGetCatForRequest(w, r)
	if !ok {
		return
	}
	tt, err := s.cat(catID).Timetable()
	if err != nil {
		s.readError(w, catID, err)
		return
	}
	s.writeJSON(w, tt.Entries())
}

type prediction struct {
	At        time.Time           `json:"at"`
	Weekday   time.Weekday        `json:"weekday"`
	Hour      int                 `json:"hour"`
	Count     int                 `json:"count"`
	Inference inference.Inference `json:"inference"`
}

// handlePredict writes the place the cat most often occupied at the weekday and hour
// of ?at (RFC3339), or of now.
func (s *WebDaemon) handlePredict(w http.ResponseWriter, r *http.Request) {
	catID, ok := s.handleGetCatForRequest(w, r)
	if !ok {
		return
	}
	at := time.Now()
	if v := r.URL.Query().Get("at"); v != "" {
		var err error
		at, err = time.Parse(time.RFC3339, v)
		if err != nil {
			http.Error(w, "Invalid 'at', want RFC3339", http.StatusBadRequest)
			return
		}
	}
	inf, count, err := s.cat(catID).Predict(at)
	if errors.Is(err, api.ErrNoPrediction) {
		http.Error(w, "No place predicted", http.StatusNotFound)
		return
	}
	if err != nil {
		s.readError(w, catID, err)
		return
	}
	local := at.In(s.Config.Inference.Location)
	s.writeJSON(w, prediction{
		At:        at,
		Weekday:   local.Weekday(),
		Hour:      local.Hour(),
		Count:     count,
		Inference: inf,
	})
}

// handleResult writes the cat's last run result, if it ran recently.
func (s *WebDaemon) handleResult(w http.ResponseWriter, r *http.Request) {
	catID, ok := s.handleGetCatForRequest(w, r)
	if !ok {
		return
	}
	item := s.results.Get(catID)
	if item == nil {
		http.Error(w, "No recent result", http.StatusNotFound)
		return
	}
	s.writeJSON(w, item.Value())
}

func parseTypes(v string) ([]inference.Type, error) {
	if v == "" {
		return nil, nil
	}
	var out []inference.Type
	for _, s := range strings.Split(v, ",") {
		typ, err := inference.ParseType(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		out = append(out, typ)
	}
	return out, nil
}

// handleInfer runs inference over the POSTed trajectory and writes the result.
// The body is the cat's whole trajectory, as NDJSON or a JSON array of points,
// or GeoJSON point features. ?types=home,work limits the inference types.
func (s *WebDaemon) handleInfer(w http.ResponseWriter, r *http.Request) {
	catID, ok := s.handleGetCatForRequest(w, r)
	if !ok {
		return
	}
	types, err := parseTypes(r.URL.Query().Get("types"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if r.Body == nil {
		http.Error(w, "Please send a request body", http.StatusBadRequest)
		return
	}
	pts, err := trajectory.DecodePoints(http.MaxBytesReader(w, r.Body, maxInferBodyBytes))
	if err != nil {
		s.logger.Warn("Failed to decode", "cat", catID, "error", err)
		http.Error(w, "Failed to decode", http.StatusUnprocessableEntity)
		return
	}
	pts = trajectory.Dedupe(pts, params.DuplicateFilterSize)
	slices.SortStableFunc(pts, func(a, b trajectory.Point) int {
		return a.Time.Compare(b.Time)
	})

	res, err := s.cat(catID).Run(r.Context(), trajectory.New(catID, pts), types...)
	if errors.Is(err, trajectory.ErrMalformedTrajectory) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		s.logger.Error("Failed to infer", "cat", catID, "error", err)
		http.Error(w, "Failed to infer", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, res)
}
