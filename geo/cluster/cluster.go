// Package cluster groups staypoints into places with DBSCAN.
package cluster

import (
	"log/slog"

	"github.com/paulmach/orb"
	"github.com/rotblauer/catspots/params"
	"github.com/rotblauer/catspots/types/staypoint"
)

const (
	unvisited = 0
	noise     = -1
)

// Cluster drops sparse staypoints, then groups the rest with DBSCAN.
//
// A staypoint is sparse if it has fewer than MinObservationsPerHour raw fixes per hour.
// Two staypoints are neighbors if they are at most NeighborhoodRadius meters apart,
// and a staypoint's neighborhood includes itself.
// Staypoints are visited in input order and border staypoints join the first cluster reaching them,
// so equal input yields equal output.
// Clusters are ordered by their first core staypoint; members keep input order.
// Noise is not clustered, and is returned separately.
func Cluster(sps []staypoint.StayPoint, config *params.ClusterConfig) (clusters []staypoint.Cluster, noisy []staypoint.StayPoint) {
	if config == nil {
		config = params.DefaultClusterConfig()
	}
	clusters = make([]staypoint.Cluster, 0)
	dense := FilterDensity(sps, config.MinObservationsPerHour)
	if len(dense) == 0 {
		return clusters, nil
	}

	points := make([]orb.Point, len(dense))
	for i, sp := range dense {
		points[i] = sp.Point
	}
	labels := dbscan(newIndex(points, config.NeighborhoodRadius), len(points), config.MinPoints)

	var n int
	for _, l := range labels {
		if l > n {
			n = l
		}
	}
	members := make([][]staypoint.StayPoint, n)
	for i, l := range labels {
		if l == noise {
			noisy = append(noisy, dense[i])
			continue
		}
		members[l-1] = append(members[l-1], dense[i])
	}
	for _, m := range members {
		clusters = append(clusters, staypoint.NewCluster(m))
	}
	if len(noisy) > 0 {
		slog.Debug("Discarded noise staypoints", "noise", len(noisy), "clusters", len(clusters))
	}
	return clusters, noisy
}

// FilterDensity keeps the staypoints with at least minPerHour observations per hour.
func FilterDensity(sps []staypoint.StayPoint, minPerHour float64) []staypoint.StayPoint {
	out := make([]staypoint.StayPoint, 0, len(sps))
	for _, sp := range sps {
		if sp.ObservationsPerHour() < minPerHour {
			continue
		}
		out = append(out, sp)
	}
	if dropped := len(sps) - len(out); dropped > 0 {
		slog.Debug("Dropped sparse staypoints", "dropped", dropped, "kept", len(out), "min.per.hour", minPerHour)
	}
	return out
}

// dbscan labels each of n points with a 1-based cluster number, or noise.
func dbscan(x *index, n, minPts int) []int {
	labels := make([]int, n)
	visited := make([]bool, n)
	c := 0
	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		visited[i] = true
		nbrs := x.neighbors(i)
		if len(nbrs) < minPts {
			labels[i] = noise
			continue
		}
		c++
		labels[i] = c
		queue := nbrs
		for k := 0; k < len(queue); k++ {
			q := queue[k]
			if labels[q] == noise {
				labels[q] = c
			}
			if visited[q] {
				continue
			}
			visited[q] = true
			if labels[q] == unvisited {
				labels[q] = c
			}
			if qn := x.neighbors(q); len(qn) >= minPts {
				queue = append(queue, qn...)
			}
		}
	}
	return labels
}
