package inference

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rotblauer/catspots/common"
	"github.com/rotblauer/catspots/conceptual"
	"github.com/rotblauer/catspots/geo/score"
	"github.com/rotblauer/catspots/types/staypoint"
)

type Type string

const (
	TypeHome Type = "home"
	TypeWork Type = "work"
	TypePOI  Type = "poi"
)

// AllTypes is the default set of requested inference types, in output order.
var AllTypes = []Type{TypeHome, TypeWork, TypePOI}

func (t Type) String() string { return string(t) }

func (t Type) Name() string {
	switch t {
	case TypeHome:
		return "Home"
	case TypeWork:
		return "Work"
	case TypePOI:
		return "Point of interest"
	}
	return string(t)
}

func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeHome, TypeWork, TypePOI:
		return Type(s), nil
	}
	return "", fmt.Errorf("unknown inference type %q", s)
}

// Inference is a labelled place derived from one staypoint cluster.
type Inference struct {
	ID          conceptual.InferenceID `json:"id"`
	Type        Type                   `json:"type"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	CatID       conceptual.CatID       `json:"catId"`
	Point       orb.Point              `json:"point"`
	Outline     orb.Ring               `json:"outline"`

	// Confidence is the share of eligible days on which the place was occupied
	// in the manner expected for its type. It is not clamped to 1.
	Confidence float64 `json:"confidence"`

	// Scores are the per-function scores of the cluster, Evidence their weighted aggregate.
	Scores   map[score.Type]float64 `json:"scores,omitempty"`
	Evidence float64                `json:"evidence"`

	OnSite    []staypoint.Interval `json:"onSite"`
	Address   string               `json:"address,omitempty"`
	CreatedAt time.Time            `json:"createdAt"`
}

// New builds an inference of the given type for a cluster.
// The outline is the convex hull of the cluster's member staypoints.
func New(catID conceptual.CatID, typ Type, c staypoint.Cluster, confidence float64, description string) Inference {
	return Inference{
		ID:          conceptual.InferenceID(uuid.New().String()),
		Type:        typ,
		Name:        typ.Name(),
		Description: description,
		CatID:       catID,
		Point:       c.Point,
		Outline:     common.ConvexHull(c.Members),
		Confidence:  confidence,
		OnSite:      c.OnSite,
		CreatedAt:   time.Now(),
	}
}

func (inf Inference) Feature() *geojson.Feature {
	f := geojson.NewFeature(inf.Point)
	f.ID = inf.ID.String()
	f.Properties["Type"] = inf.Type.String()
	f.Properties["Name"] = inf.Name
	f.Properties["Description"] = inf.Description
	f.Properties["CatID"] = inf.CatID.String()
	f.Properties["Confidence"] = common.DecimalToFixed(inf.Confidence, 4)
	f.Properties["Evidence"] = common.DecimalToFixed(inf.Evidence, 4)
	f.Properties["Visits"] = len(inf.OnSite)
	if inf.Address != "" {
		f.Properties["Address"] = inf.Address
	}
	for k, v := range inf.Scores {
		f.Properties["Score_"+k.String()] = common.DecimalToFixed(v, 4)
	}
	return f
}

// OutlineFeature is the inference's outline as a polygon feature,
// or nil if the outline is degenerate.
func (inf Inference) OutlineFeature() *geojson.Feature {
	if len(inf.Outline) < 4 {
		return nil
	}
	f := geojson.NewFeature(orb.Polygon{inf.Outline})
	f.ID = inf.ID.String()
	f.Properties["Type"] = inf.Type.String()
	return f
}

func FeatureCollection(infs []Inference) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, inf := range infs {
		fc.Append(inf.Feature())
	}
	return fc
}

// OfType filters infs by type, keeping order.
func OfType(infs []Inference, typ Type) []Inference {
	out := make([]Inference, 0, len(infs))
	for _, inf := range infs {
		if inf.Type == typ {
			out = append(out, inf)
		}
	}
	return out
}
