package cluster

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/rotblauer/catspots/common"
)

type rtreeItem struct {
	rect  rtreego.Rect
	index int
}

func (item rtreeItem) Bounds() rtreego.Rect {
	return item.rect
}

// index answers radius queries over a fixed set of points.
// Candidates come from an R-tree over degree bounding boxes, and are confirmed by haversine distance.
// A box crossing the antimeridian is queried on both sides of it.
// A box reaching a pole covers every longitude, so all points are candidates.
type index struct {
	points []orb.Point
	tree   *rtreego.Rtree
	radius float64
}

func newIndex(points []orb.Point, radius float64) *index {
	tree := rtreego.NewTree(2, 25, 50)
	for i, p := range points {
		tree.Insert(rtreeItem{rect: rtreego.Point{p.Lat(), p.Lon()}.ToRect(1e-9), index: i})
	}
	return &index{points: points, tree: tree, radius: radius}
}

// boxes returns the degree boxes, as [lat, lon] corners and spans, covering radius around p.
// It returns false when no set of boxes short of the whole globe covers it.
func (x *index) boxes(p orb.Point) ([][2]rtreego.Point, bool) {
	dLat, dLon := common.DegreesForMeters(p, x.radius)
	// Pad the box: longitude degrees shrink away from the point's latitude.
	dLat, dLon = dLat*1.1+1e-9, dLon*1.1+1e-9
	if dLon >= 180 || p.Lat()+dLat >= 90 || p.Lat()-dLat <= -90 {
		return nil, false
	}
	span := rtreego.Point{2 * dLat, 2 * dLon}
	out := [][2]rtreego.Point{{{p.Lat() - dLat, p.Lon() - dLon}, span}}
	if p.Lon()-dLon < -180 {
		out = append(out, [2]rtreego.Point{{p.Lat() - dLat, p.Lon() - dLon + 360}, span})
	}
	if p.Lon()+dLon > 180 {
		out = append(out, [2]rtreego.Point{{p.Lat() - dLat, p.Lon() - dLon - 360}, span})
	}
	return out, true
}

func (x *index) candidates(p orb.Point) []int {
	boxes, ok := x.boxes(p)
	if !ok {
		all := make([]int, len(x.points))
		for j := range all {
			all[j] = j
		}
		return all
	}
	seen := make(map[int]struct{})
	var out []int
	for _, b := range boxes {
		rect, err := rtreego.NewRect(b[0], b[1])
		if err != nil {
			// Only a non-positive span fails, and spans are padded above zero.
			continue
		}
		for _, s := range x.tree.SearchIntersect(rect) {
			j := s.(rtreeItem).index
			if _, ok := seen[j]; ok {
				continue
			}
			seen[j] = struct{}{}
			out = append(out, j)
		}
	}
	return out
}

// neighbors returns the indices of all points within radius of point i, i included, ascending.
func (x *index) neighbors(i int) []int {
	p := x.points[i]
	candidates := x.candidates(p)
	out := make([]int, 0, len(candidates))
	for _, j := range candidates {
		if j == i || common.Distance(p, x.points[j]) <= x.radius {
			out = append(out, j)
		}
	}
	sort.Ints(out)
	return out
}
