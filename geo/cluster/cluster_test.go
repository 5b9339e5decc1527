package cluster

import (
	"reflect"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/rotblauer/catspots/params"
	"github.com/rotblauer/catspots/testing/testdata"
	"github.com/rotblauer/catspots/types/staypoint"
)

var t0 = time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)

func sp(pt orb.Point, day int) staypoint.StayPoint {
	start := t0.AddDate(0, 0, day)
	return staypoint.StayPoint{Point: pt, Start: start, End: start.Add(time.Hour), Observations: 12}
}

func TestClusterEmpty(t *testing.T) {
	clusters, noise := Cluster(nil, nil)
	if len(clusters) != 0 || len(noise) != 0 {
		t.Fatalf("want empty, got %v %v", clusters, noise)
	}
}

func TestClusterPlaces(t *testing.T) {
	home, work := testdata.PlaceHome, testdata.PlaceWork
	sps := []staypoint.StayPoint{
		sp(home, 0),
		sp(work, 0),
		sp(testdata.Offset(home, 20, 0), 1),
		sp(testdata.Offset(work, 0, 30), 1),
		sp(testdata.Offset(home, 0, -15), 2),
		sp(testdata.PlaceGym, 2),
	}
	clusters, noise := Cluster(sps, params.DefaultClusterConfig())
	if len(noise) != 0 {
		t.Errorf("minPts 1 should never yield noise, got %d", len(noise))
	}
	if len(clusters) != 3 {
		t.Fatalf("want 3 clusters, got %d", len(clusters))
	}
	if clusters[0].Size() != 3 || clusters[1].Size() != 2 || clusters[2].Size() != 1 {
		t.Errorf("unexpected sizes %d %d %d", clusters[0].Size(), clusters[1].Size(), clusters[2].Size())
	}
	if clusters[0].Members[1] != sps[2].Point {
		t.Errorf("members should keep input order")
	}
	if clusters[0].Observations != 36 {
		t.Errorf("want 36 observations, got %d", clusters[0].Observations)
	}
	if len(clusters[0].OnSite) != 3 || !clusters[0].OnSite[2].Start.Equal(sps[4].Start) {
		t.Errorf("unexpected on-site intervals %v", clusters[0].OnSite)
	}
}

func TestClusterChain(t *testing.T) {
	// 40m apart each, so neighbors chain through the radius.
	home := testdata.PlaceHome
	sps := []staypoint.StayPoint{
		sp(home, 0),
		sp(testdata.Offset(home, 40, 0), 1),
		sp(testdata.Offset(home, 80, 0), 2),
		sp(testdata.Offset(home, 120, 0), 3),
	}
	clusters, _ := Cluster(sps, params.DefaultClusterConfig())
	if len(clusters) != 1 || clusters[0].Size() != 4 {
		t.Fatalf("want one chained cluster, got %+v", clusters)
	}
}

func TestClusterNoise(t *testing.T) {
	home := testdata.PlaceHome
	sps := []staypoint.StayPoint{
		sp(home, 0),
		sp(testdata.Offset(home, 10, 0), 1),
		sp(testdata.PlaceGym, 2),
	}
	cfg := params.DefaultClusterConfig()
	cfg.MinPoints = 2
	clusters, noise := Cluster(sps, cfg)
	if len(clusters) != 1 || clusters[0].Size() != 2 {
		t.Fatalf("want one cluster of 2, got %+v", clusters)
	}
	if len(noise) != 1 || noise[0].Point != testdata.PlaceGym {
		t.Fatalf("want the gym as noise, got %+v", noise)
	}
}

func TestClusterDensityFilter(t *testing.T) {
	sparse := sp(testdata.PlaceHome, 0)
	sparse.Observations = 1
	point := sp(testdata.PlaceWork, 0)
	point.End = point.Start
	point.Observations = 1

	clusters, _ := Cluster([]staypoint.StayPoint{sparse, point}, params.DefaultClusterConfig())
	if len(clusters) != 1 || clusters[0].Point != testdata.PlaceWork {
		t.Fatalf("want only the zero-duration staypoint kept, got %+v", clusters)
	}

	clusters, _ = Cluster([]staypoint.StayPoint{sparse}, params.DefaultClusterConfig())
	if len(clusters) != 0 {
		t.Fatalf("want all filtered, got %+v", clusters)
	}
}

func TestClusterDeterministic(t *testing.T) {
	sps := []staypoint.StayPoint{
		sp(testdata.PlaceHome, 0),
		sp(testdata.PlaceWork, 0),
		sp(testdata.Offset(testdata.PlaceHome, 30, 30), 1),
		sp(testdata.Offset(testdata.PlaceWork, -25, 0), 1),
		sp(testdata.PlaceCafe, 2),
		sp(testdata.Offset(testdata.PlaceHome, 45, 45), 3),
	}
	a, _ := Cluster(sps, nil)
	b, _ := Cluster(sps, nil)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("clustering is not deterministic:\n%+v\n%+v", a, b)
	}
}

func TestIndexNeighbors(t *testing.T) {
	home := testdata.PlaceHome
	pts := []orb.Point{
		testdata.Offset(home, 60, 0),
		home,
		testdata.Offset(home, 49, 0),
		testdata.Offset(home, 0, 51),
	}
	got := newIndex(pts, 50).neighbors(1)
	if !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("want [1 2], got %v", got)
	}
}

func TestClusterWrapsGlobe(t *testing.T) {
	cases := []struct {
		name string
		a, b orb.Point
	}{
		// About 22m apart on either side of the antimeridian.
		{"antimeridian", orb.Point{179.9999, 0}, orb.Point{-179.9999, 0}},
		{"antimeridian reversed", orb.Point{-179.9999, 0}, orb.Point{179.9999, 0}},
		// About 22m apart across the north pole.
		{"pole", orb.Point{0, 89.9999}, orb.Point{180, 89.9999}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			clusters, noise := Cluster([]staypoint.StayPoint{sp(c.a, 0), sp(c.b, 1)}, params.DefaultClusterConfig())
			if len(noise) != 0 {
				t.Errorf("unexpected noise %v", noise)
			}
			if len(clusters) != 1 || clusters[0].Size() != 2 {
				t.Fatalf("want 1 cluster of 2, got %d clusters", len(clusters))
			}
		})
	}
}
