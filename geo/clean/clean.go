// Package clean drops implausible fixes from a cat's tracks.
package clean

import (
	"context"
	"log/slog"

	rkalman "github.com/regnull/kalman"
	"github.com/rotblauer/catspots/common"
	"github.com/rotblauer/catspots/params"
	"github.com/rotblauer/catspots/stream"
	"github.com/rotblauer/catspots/types/trajectory"
)

// Filter is a stage of the cleaning pipeline.
// A dropped fix's segment start is carried to the next kept fix.
type Filter func(ctx context.Context, in <-chan trajectory.Point) <-chan trajectory.Point

// dropper runs drop against each fix and the last kept fix.
func dropper(drop func(last *trajectory.Point, p trajectory.Point) bool) Filter {
	return func(ctx context.Context, in <-chan trajectory.Point) <-chan trajectory.Point {
		out := make(chan trajectory.Point)
		go func() {
			defer close(out)
			var last *trajectory.Point
			carrySegment := false
			for p := range in {
				if drop(last, p) {
					carrySegment = carrySegment || p.SegmentStart
					continue
				}
				if carrySegment {
					p.SegmentStart = true
					carrySegment = false
				}
				select {
				case <-ctx.Done():
					return
				case out <- p:
					kept := p
					last = &kept
				}
			}
		}()
		return out
	}
}

// SpeedFilter drops fixes reporting speeds faster than max.
func SpeedFilter(max float64) Filter {
	return dropper(func(_ *trajectory.Point, p trajectory.Point) bool {
		return p.Speed != nil && *p.Speed >= max
	})
}

// TeleportationFilter drops fixes whose distance from the last kept fix
// implies a speed many times faster than the fix reports.
// Fixes without a reported speed, or after a gap longer than the window, are kept.
func TeleportationFilter(config *params.CleanConfig) Filter {
	return dropper(func(last *trajectory.Point, p trajectory.Point) bool {
		// The first track is always sent.
		if last == nil || p.Speed == nil || *p.Speed < 0 {
			return false
		}
		// Signal loss is not teleportation.
		interval := p.Time.Sub(last.Time)
		if interval <= 0 || interval > config.TeleportWindow {
			return false
		}
		dist := common.Distance(last.OrbPoint(), p.OrbPoint())
		if dist < config.TeleportMinDistance {
			return false
		}
		calculatedSpeed := dist / interval.Seconds()
		return calculatedSpeed > *p.Speed*config.TeleportSpeedFactor
	})
}

func newGeoFilter(config *params.CleanConfig, latitude float64) (*rkalman.GeoFilter, error) {
	return rkalman.NewGeoFilter(&rkalman.GeoProcessNoise{
		// Fixes are close enough together to disregard the earth's curvature.
		BaseLat:           latitude,
		DistancePerSecond: config.KalmanDistancePerSecond,
		SpeedPerSecond:    config.KalmanSpeedPerSecond,
	})
}

// KalmanFilter replaces each fix's position with a Kalman estimate.
// The filter restarts at every segment start and after every gap longer
// than the teleport window. Fixes are passed unchanged if the filter fails.
func KalmanFilter(config *params.CleanConfig) Filter {
	return func(ctx context.Context, in <-chan trajectory.Point) <-chan trajectory.Point {
		out := make(chan trajectory.Point)
		go func() {
			defer close(out)
			var filter *rkalman.GeoFilter
			var last trajectory.Point
			for p := range in {
				seconds := p.Time.Sub(last.Time).Seconds()
				if filter == nil || p.SegmentStart || seconds <= 0 || seconds > config.TeleportWindow.Seconds() {
					f, err := newGeoFilter(config, p.Lat)
					if err != nil {
						slog.Error("Failed to initialize Kalman filter", "error", err)
					}
					filter = f
					seconds = 1
				}
				last = p
				if filter != nil {
					smoothed, err := observe(filter, seconds, p)
					if err != nil {
						slog.Error("Kalman.Observe failed", "error", err)
					} else {
						p = smoothed
					}
				}
				select {
				case <-ctx.Done():
					return
				case out <- p:
				}
			}
		}()
		return out
	}
}

func observe(filter *rkalman.GeoFilter, seconds float64, p trajectory.Point) (trajectory.Point, error) {
	ob := &rkalman.GeoObserved{
		Lat:                p.Lat,
		Lng:                p.Lng,
		SpeedAccuracy:      0.2,
		HorizontalAccuracy: 10,
		VerticalAccuracy:   2.0,
	}
	if p.Speed != nil && *p.Speed >= 0 {
		ob.Speed = *p.Speed
	}
	if p.Accuracy != nil && *p.Accuracy > 0 {
		ob.HorizontalAccuracy = *p.Accuracy
	}
	if err := filter.Observe(seconds, ob); err != nil {
		return p, err
	}
	if est := filter.Estimate(); est != nil {
		p.Lat, p.Lng = est.Lat, est.Lng
	}
	return p, nil
}

// Clean runs pts, in time order, through the speed and teleportation filters,
// then the Kalman filter when config.Smooth is set.
func Clean(ctx context.Context, config *params.CleanConfig, pts []trajectory.Point) []trajectory.Point {
	if config == nil {
		config = params.DefaultCleanConfig()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ch := stream.Slice(ctx, pts)
	filters := []Filter{SpeedFilter(config.MaxSpeed), TeleportationFilter(config)}
	if config.Smooth {
		filters = append(filters, KalmanFilter(config))
	}
	for _, f := range filters {
		ch = f(ctx, ch)
	}
	return stream.Collect(ctx, ch)
}
