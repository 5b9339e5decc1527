package params

import (
	"time"
)

// StaypointConfig configures staypoint detection.
type StaypointConfig struct {
	// DistanceThreshold is the radius in meters around a candidate point
	// within which following points belong to the same staypoint.
	DistanceThreshold float64

	// DurationThreshold is the time that must be spent within
	// DistanceThreshold for the span to count as a staypoint.
	// The comparison is strict (elapsed > threshold).
	DurationThreshold time.Duration

	// MaxAccuracy drops points whose reported accuracy is worse (greater) than this, in meters.
	// It only applies to trajectories carrying accuracy values. Zero disables the filter.
	MaxAccuracy float64
}

func DefaultStaypointConfig() *StaypointConfig {
	return &StaypointConfig{
		DistanceThreshold: 100,
		DurationThreshold: 15 * time.Minute,
		MaxAccuracy:       200,
	}
}

// ClusterConfig configures staypoint clustering.
type ClusterConfig struct {
	// NeighborhoodRadius is the DBSCAN epsilon, in meters.
	NeighborhoodRadius float64

	// MinPoints is the DBSCAN minPts. The neighborhood of a point includes the point itself,
	// so a value of 1 never yields noise.
	MinPoints int

	// MinObservationsPerHour drops staypoints which were inferred from too few raw fixes.
	MinObservationsPerHour float64
}

func DefaultClusterConfig() *ClusterConfig {
	return &ClusterConfig{
		NeighborhoodRadius:     50,
		MinPoints:              1,
		MinObservationsPerHour: 2,
	}
}

// WorkWindow is the daily window which counts as working time on weekdays.
type WorkWindow struct {
	StartHour float64
	EndHour   float64
}

var DefaultWorkWindow = WorkWindow{StartHour: 9, EndHour: 17}

// InferenceConfig configures the inference engine.
type InferenceConfig struct {
	Staypoint *StaypointConfig
	Cluster   *ClusterConfig

	// MaxCoordinates short-circuits runs over larger trajectories.
	MaxCoordinates int

	// TopK is the number of home and work candidates reported.
	TopK int

	// Location is used for all calendar arithmetic: nights, work days, timetable buckets.
	Location *time.Location

	WorkWindow WorkWindow

	// ScoringSampleInterval is the step at which on-site intervals
	// are sampled into timestamps for the scoring functions.
	ScoringSampleInterval time.Duration
}

func DefaultInferenceConfig() *InferenceConfig {
	return &InferenceConfig{
		Staypoint:             DefaultStaypointConfig(),
		Cluster:               DefaultClusterConfig(),
		MaxCoordinates:        100_000,
		TopK:                  3,
		Location:              time.Local,
		WorkWindow:            DefaultWorkWindow,
		ScoringSampleInterval: time.Hour,
	}
}

// DefaultTestInferenceConfig is DefaultInferenceConfig pinned to UTC.
func DefaultTestInferenceConfig() *InferenceConfig {
	c := DefaultInferenceConfig()
	c.Location = time.UTC
	return c
}
