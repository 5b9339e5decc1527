package score

import (
	"math"
	"sort"
)

// Curve maps a raw score to its contribution to an aggregate.
type Curve int

const (
	Identity Curve = iota
	Inverse
)

func (c Curve) Apply(x float64) float64 {
	switch c {
	case Inverse:
		return 1 - x
	default:
		return x
	}
}

func (c Curve) String() string {
	switch c {
	case Inverse:
		return "inverse"
	default:
		return "identity"
	}
}

type Config struct {
	Weight float64
	Curve  Curve
}

// Table says which scores count toward an aggregate, and how much.
type Table map[Type]Config

var HomeTable = Table{
	TypeNightness:  {Weight: 1, Curve: Identity},
	TypeWorkHours:  {Weight: 0.75, Curve: Inverse},
	TypePointCount: {Weight: 1, Curve: Identity},
}

var WorkTable = Table{
	TypeNightness:  {Weight: 0.75, Curve: Inverse},
	TypeWorkHours:  {Weight: 1, Curve: Identity},
	TypePointCount: {Weight: 1, Curve: Identity},
}

var POITable = Table{}

// Aggregate is the weighted mean of the curved scores named in the table.
// Missing or NaN scores count as 0. An empty table aggregates to 0.
func Aggregate(table Table, scores map[Type]float64) float64 {
	if len(table) == 0 {
		return 0
	}
	types := make([]Type, 0, len(table))
	for t := range table {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	var sum, weights float64
	for _, t := range types {
		cfg := table[t]
		v := cfg.Curve.Apply(scores[t])
		if math.IsNaN(v) {
			v = 0
		}
		sum += cfg.Weight * v
		weights += cfg.Weight
	}
	if weights == 0 {
		return 0
	}
	out := sum / weights
	if math.IsNaN(out) {
		return 0
	}
	return out
}
