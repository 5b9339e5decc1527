package params

import (
	"time"

	"github.com/rotblauer/catspots/common"
)

// CleanConfig configures the track cleaning run before inference.
type CleanConfig struct {
	// MaxSpeed drops fixes reporting a faster speed, in m/s.
	MaxSpeed float64

	// TeleportSpeedFactor is the factor to determine teleportation.
	// If calculated speed is X times faster than reported speed, it's a teleportation.
	TeleportSpeedFactor float64

	// TeleportMinDistance is the minimum distance between two points to consider teleportation.
	TeleportMinDistance float64

	// TeleportWindow is the maximum interval between two points to consider teleportation.
	// Longer gaps are signal loss.
	TeleportWindow time.Duration

	// Smooth runs kept fixes through a Kalman filter.
	Smooth bool

	// KalmanDistancePerSecond is how far a cat is expected to move, in m/s.
	KalmanDistancePerSecond float64

	// KalmanSpeedPerSecond is how fast a cat's speed is expected to change, in m/s².
	KalmanSpeedPerSecond float64
}

func DefaultCleanConfig() *CleanConfig {
	return &CleanConfig{
		MaxSpeed:            common.SpeedOfSound,
		TeleportSpeedFactor: 10.0,
		TeleportMinDistance: 25.0,
		TeleportWindow:      60 * time.Second,

		KalmanDistancePerSecond: 1.4,
		KalmanSpeedPerSecond:    0.1,
	}
}
