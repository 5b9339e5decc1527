package common

import (
	"math"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// EarthRadiusMeters is the mean earth radius used for all distances.
// Note that orb.EarthRadius is the equatorial radius, which we do not use.
const EarthRadiusMeters = 6371000.0

// MetersPerDegreeLat is the length of one degree of latitude on the sphere.
const MetersPerDegreeLat = EarthRadiusMeters * math.Pi / 180

// LatLng returns the s2 representation of an orb point.
func LatLng(pt orb.Point) s2.LatLng {
	return s2.LatLngFromDegrees(pt.Lat(), pt.Lon())
}

// Distance returns the great-circle distance in meters between two points.
// s2.LatLng.Distance is the haversine formula.
func Distance(a, b orb.Point) float64 {
	return LatLng(a).Distance(LatLng(b)).Radians() * EarthRadiusMeters
}

// DistanceLatLng is Distance for plain (lat, lon) degree pairs.
func DistanceLatLng(lat1, lon1, lat2, lon2 float64) float64 {
	return Distance(orb.Point{lon1, lat1}, orb.Point{lon2, lat2})
}

// MeanPoint returns the arithmetic mean of the points' coordinates.
// It is a planar mean, so it is wrong near the poles and the antimeridian.
func MeanPoint(pts []orb.Point) orb.Point {
	if len(pts) == 0 {
		return orb.Point{}
	}
	if len(pts) == 1 {
		return pts[0]
	}
	centroid, _ := planar.CentroidArea(orb.MultiPoint(pts))
	return centroid
}

// DegreesForMeters returns the latitude and longitude spans (in degrees)
// covering the given distance around pt.
func DegreesForMeters(pt orb.Point, meters float64) (dLat, dLon float64) {
	dLat = meters / MetersPerDegreeLat
	cos := math.Cos(pt.Lat() * math.Pi / 180)
	if cos < 1e-6 {
		return dLat, 360
	}
	dLon = meters / (MetersPerDegreeLat * cos)
	return dLat, dLon
}

// ConvexHull returns the closed convex hull ring of the points.
// Fewer than three distinct points yield a degenerate ring of those points.
func ConvexHull(pts []orb.Point) orb.Ring {
	distinct := dedupePoints(pts)
	if len(distinct) == 0 {
		return nil
	}
	if len(distinct) < 3 {
		ring := append(orb.Ring{}, distinct...)
		return append(ring, ring[0])
	}
	q := s2.NewConvexHullQuery()
	for _, pt := range distinct {
		q.AddPoint(s2.PointFromLatLng(LatLng(pt)))
	}
	loop := q.ConvexHull()
	ring := make(orb.Ring, 0, loop.NumVertices()+1)
	for _, v := range loop.Vertices() {
		ll := s2.LatLngFromPoint(v)
		ring = append(ring, orb.Point{ll.Lng.Degrees(), ll.Lat.Degrees()})
	}
	return append(ring, ring[0])
}

func dedupePoints(pts []orb.Point) []orb.Point {
	out := make([]orb.Point, 0, len(pts))
	seen := make(map[orb.Point]struct{}, len(pts))
	for _, pt := range pts {
		if _, ok := seen[pt]; ok {
			continue
		}
		seen[pt] = struct{}{}
		out = append(out, pt)
	}
	return out
}
