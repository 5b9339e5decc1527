package inference

import (
	"time"

	"github.com/rotblauer/catspots/conceptual"
	"github.com/rotblauer/catspots/types/staypoint"
)

type Status string

const (
	StatusSuccessful Status = "successful"

	// StatusNoDataFound is an empty trajectory, or one in which no place was stayed at.
	StatusNoDataFound Status = "no_data_found"

	// StatusNoInferencesFound is a run over places where no requested type applied.
	StatusNoInferencesFound  Status = "no_inferences_found"
	StatusTooManyCoordinates Status = "too_many_coordinates"
)

// TimetableEntry counts the hours a POI was occupied within one weekday/hour bucket.
// Weekday follows time.Weekday: Sunday is 0.
type TimetableEntry struct {
	Weekday time.Weekday           `json:"weekday"`
	Hour    int                    `json:"hour"`
	PoiID   conceptual.InferenceID `json:"poiId"`
	Count   int                    `json:"count"`
}

// Result is the outcome of one inference run.
type Result struct {
	CatID      conceptual.CatID      `json:"catId"`
	Status     Status                `json:"status"`
	Inferences []Inference           `json:"inferences"`
	StayPoints []staypoint.StayPoint `json:"stayPoints,omitempty"`
	Clusters   []staypoint.Cluster   `json:"clusters,omitempty"`
	Noise      []staypoint.StayPoint `json:"noise,omitempty"`
	Timetable  []TimetableEntry      `json:"timetable,omitempty"`
}
