package infer

import (
	"fmt"
	"strconv"

	"github.com/rotblauer/catspots/conceptual"
	"github.com/rotblauer/catspots/geo/score"
	"github.com/rotblauer/catspots/params"
	"github.com/rotblauer/catspots/types/inference"
	"github.com/rotblauer/catspots/types/staypoint"
)

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Candidates scores each cluster once, for all inference types.
type Candidates struct {
	CatID    conceptual.CatID
	Clusters []staypoint.Cluster
	Scores   []map[score.Type]float64
	Config   *params.InferenceConfig
}

// NewCandidates scores clusters. A nil config is the default config.
func NewCandidates(catID conceptual.CatID, clusters []staypoint.Cluster, config *params.InferenceConfig) *Candidates {
	config = withDefaults(config)
	sizes := make([]int, len(clusters))
	for i, c := range clusters {
		sizes[i] = c.Size()
	}
	scores := make([]map[score.Type]float64, len(clusters))
	for i, c := range clusters {
		scores[i] = score.Evaluate(c, sizes, config)
	}
	return &Candidates{CatID: catID, Clusters: clusters, Scores: scores, Config: config}
}

func (cs *Candidates) newInference(i int, typ inference.Type, table score.Table, confidence float64, description string) inference.Inference {
	inf := inference.New(cs.CatID, typ, cs.Clusters[i], confidence, description)
	inf.Scores = cs.Scores[i]
	inf.Evidence = score.Aggregate(table, cs.Scores[i])
	return inf
}

// Home ranks clusters by the share of days whose night was spent there.
func (cs *Candidates) Home(days int) []inference.Inference {
	if len(cs.Clusters) == 0 {
		return nil
	}
	infs := make([]inference.Inference, 0, len(cs.Clusters))
	for i, c := range cs.Clusters {
		s := HomeScore(c, cs.Config.Location)
		infs = append(infs, cs.newInference(i, inference.TypeHome, score.HomeTable, Confidence(s, days),
			fmt.Sprintf("Location where %s nights (from midnight to 4am) were spent", formatScore(s))))
	}
	return TopK(infs, cs.Config.TopK)
}

// Work ranks clusters by the share of weekdays worked there.
func (cs *Candidates) Work(weekdays int) []inference.Inference {
	if len(cs.Clusters) == 0 {
		return nil
	}
	infs := make([]inference.Inference, 0, len(cs.Clusters))
	for i, c := range cs.Clusters {
		s := WorkScore(c, cs.Config.Location)
		infs = append(infs, cs.newInference(i, inference.TypeWork, score.WorkTable, Confidence(s, weekdays),
			fmt.Sprintf("Location where %s workdays (weekdays from 10am to 12pm and 2pm to 4pm) were spent", formatScore(s))))
	}
	return TopK(infs, cs.Config.TopK)
}

// POI reports every cluster visited more than once.
func (cs *Candidates) POI() []inference.Inference {
	var infs []inference.Inference
	for i, c := range cs.Clusters {
		visits := len(c.OnSite)
		if visits <= 1 {
			continue
		}
		// TODO: grade POI confidence by visit regularity once there is a formula for it.
		infs = append(infs, cs.newInference(i, inference.TypePOI, score.POITable, Confidence(float64(visits), visits),
			fmt.Sprintf("Location that was visited %d times", visits)))
	}
	return infs
}
