package common

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestDistance(t *testing.T) {
	cases := []struct {
		name string
		a, b orb.Point
		want float64
	}{
		{"same", orb.Point{8.5417, 47.3769}, orb.Point{8.5417, 47.3769}, 0},
		{"one degree lat", orb.Point{0, 0}, orb.Point{0, 1}, MetersPerDegreeLat},
		{"one degree lon at equator", orb.Point{0, 0}, orb.Point{1, 0}, MetersPerDegreeLat},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Distance(c.a, c.b)
			if math.Abs(got-c.want) > 0.01 {
				t.Errorf("got %f, want %f", got, c.want)
			}
			if rev := Distance(c.b, c.a); math.Abs(rev-got) > 1e-6 {
				t.Errorf("not symmetric: %f != %f", rev, got)
			}
		})
	}
	if got, want := DistanceLatLng(0, 0, 1, 0), MetersPerDegreeLat; math.Abs(got-want) > 0.01 {
		t.Errorf("DistanceLatLng: got %f, want %f", got, want)
	}
}

func TestMeanPoint(t *testing.T) {
	got := MeanPoint([]orb.Point{{8, 47}, {9, 48}})
	if math.Abs(got.Lon()-8.5) > 1e-9 || math.Abs(got.Lat()-47.5) > 1e-9 {
		t.Errorf("got %v", got)
	}
	if got := MeanPoint(nil); got != (orb.Point{}) {
		t.Errorf("want zero point for no points, got %v", got)
	}
}

func TestConvexHull(t *testing.T) {
	square := []orb.Point{{8, 47}, {8.001, 47}, {8.001, 47.001}, {8, 47.001}, {8.0005, 47.0005}, {8, 47}}
	ring := ConvexHull(square)
	if len(ring) != 5 {
		t.Fatalf("want 4 corners closed, got %v", ring)
	}
	if !ring.Closed() {
		t.Error("want closed ring")
	}
	if got := ConvexHull([]orb.Point{{8, 47}}); len(got) != 2 {
		t.Errorf("want degenerate ring for one point, got %v", got)
	}
}

func TestDegreesForMeters(t *testing.T) {
	dLat, dLon := DegreesForMeters(orb.Point{0, 60}, MetersPerDegreeLat)
	if math.Abs(dLat-1) > 1e-9 {
		t.Errorf("dLat: got %f", dLat)
	}
	if math.Abs(dLon-2) > 1e-6 {
		t.Errorf("dLon at 60N: got %f", dLon)
	}
}

func TestDecimalToFixed(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{47.376912, 47.3769},
		{8.54175, 8.5418},
		{-8.54175, -8.5418},
	}
	for _, c := range cases {
		if got := DecimalToFixed(c.in, GPSPrecision4); got != c.want {
			t.Errorf("DecimalToFixed(%v) = %v, want %v", c.in, got, c.want)
		}
	}
	// Neighbouring fixes within a few meters share a rounded key.
	a := DecimalToFixed(47.37691, GPSPrecision4)
	b := DecimalToFixed(47.37693, GPSPrecision4)
	if a != b || Distance(orb.Point{8.5417, 47.37691}, orb.Point{8.5417, 47.37693}) > 11 {
		t.Errorf("want nearby fixes rounded together, got %v and %v", a, b)
	}
	if !math.IsNaN(DecimalToFixed(math.NaN(), GPSPrecision4)) {
		t.Error("want NaN passed through")
	}
}
