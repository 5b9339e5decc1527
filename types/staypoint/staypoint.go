package staypoint

import (
	"math"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
	"github.com/rotblauer/catspots/common"
)

// StayPoint is a place where the cat lingered: the mean of a run of fixes
// that stayed within the detection radius for longer than the detection duration.
type StayPoint struct {
	Point        orb.Point `json:"point"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Observations int       `json:"observations"`
}

func (sp StayPoint) Duration() time.Duration {
	return sp.End.Sub(sp.Start)
}

// ObservationsPerHour is the density of raw fixes behind the staypoint.
// A zero-duration staypoint has infinite density.
func (sp StayPoint) ObservationsPerHour() float64 {
	h := sp.Duration().Hours()
	if h == 0 {
		return math.Inf(1)
	}
	return float64(sp.Observations) / h
}

func (sp StayPoint) Interval() Interval {
	return Interval{Start: sp.Start, End: sp.End}
}

func (sp StayPoint) Feature() *geojson.Feature {
	f := geojson.NewFeature(sp.Point)
	f.Properties["Time_Start_Unix"] = sp.Start.Unix()
	f.Properties["Time_Start_RFC339"] = sp.Start.Format(time.RFC3339)
	f.Properties["Time_End_Unix"] = sp.End.Unix()
	f.Properties["Time_End_RFC339"] = sp.End.Format(time.RFC3339)
	f.Properties["Duration"] = sp.Duration().Round(time.Second).Seconds()
	f.Properties["RawPointCount"] = sp.Observations
	return f
}

// Interval is one visit: the time span of a single staypoint.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Cluster is a group of staypoints considered to be the same place.
type Cluster struct {
	Point        orb.Point   `json:"point"`
	OnSite       []Interval  `json:"onSite"`
	Observations int         `json:"observations"`
	Members      []orb.Point `json:"members"`
}

// Size is the number of staypoints in the cluster.
func (c Cluster) Size() int {
	return len(c.Members)
}

// NewCluster aggregates member staypoints, in the given order.
func NewCluster(members []StayPoint) Cluster {
	c := Cluster{
		OnSite:  make([]Interval, 0, len(members)),
		Members: make([]orb.Point, 0, len(members)),
	}
	for _, m := range members {
		c.OnSite = append(c.OnSite, m.Interval())
		c.Members = append(c.Members, m.Point)
		c.Observations += m.Observations
	}
	c.Point = common.MeanPoint(c.Members)
	return c
}

func (c Cluster) Feature() *geojson.Feature {
	f := geojson.NewFeature(c.Point)
	f.Properties["Visits"] = len(c.OnSite)
	f.Properties["RawPointCount"] = c.Observations
	var total time.Duration
	for _, iv := range c.OnSite {
		total += iv.Duration()
	}
	f.Properties["Duration"] = total.Round(time.Second).Seconds()
	f.Properties["Area"] = common.DecimalToFixed(geo.Area(orb.MultiPoint(c.Members).Bound()), 0)
	return f
}

func FeatureCollection(sps []StayPoint) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, sp := range sps {
		fc.Append(sp.Feature())
	}
	return fc
}
