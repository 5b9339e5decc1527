package infer

import (
	"sort"

	"github.com/rotblauer/catspots/common"
	"github.com/rotblauer/catspots/types/inference"
)

// Confidence is score per day. Without days there is no confidence.
// It is not clamped, values over 1 mean very high confidence.
func Confidence(score float64, days int) float64 {
	if days <= 0 {
		return 0
	}
	return common.ZeroNaN(score / float64(days))
}

// TopK returns the k most confident inferences, most confident first.
// Equal confidences keep input order, and the earlier of them is kept when
// only some fit.
func TopK(infs []inference.Inference, k int) []inference.Inference {
	if k <= 0 {
		return []inference.Inference{}
	}
	var picked []int
	if len(infs) <= k {
		picked = make([]int, len(infs))
		for i := range infs {
			picked[i] = i
		}
	} else {
		picked = make([]int, k)
		for i := 0; i < k; i++ {
			picked[i] = i
		}
		for i := k; i < len(infs); i++ {
			// The weakest pick; of equally weak ones, the latest in input goes first.
			weakest := 0
			for p := 1; p < k; p++ {
				c, w := infs[picked[p]].Confidence, infs[picked[weakest]].Confidence
				if c < w || (c == w && picked[p] > picked[weakest]) {
					weakest = p
				}
			}
			if infs[i].Confidence > infs[picked[weakest]].Confidence {
				picked[weakest] = i
			}
		}
	}
	sort.Ints(picked)
	out := make([]inference.Inference, 0, len(picked))
	for _, i := range picked {
		out = append(out, infs[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

// Dedupe removes the POIs sitting exactly where the most confident home and the most confident work are.
// Other home and work candidates may still share a spot with a POI.
func Dedupe(infs []inference.Inference) []inference.Inference {
	for _, typ := range []inference.Type{inference.TypeHome, inference.TypeWork} {
		top, ok := mostConfident(infs, typ)
		if !ok {
			continue
		}
		kept := make([]inference.Inference, 0, len(infs))
		for _, inf := range infs {
			if inf.Type == inference.TypePOI && inf.Point == top.Point {
				continue
			}
			kept = append(kept, inf)
		}
		infs = kept
	}
	return infs
}

// mostConfident returns the first of the most confident inferences of the type.
func mostConfident(infs []inference.Inference, typ inference.Type) (inference.Inference, bool) {
	var top inference.Inference
	found := false
	for _, inf := range infs {
		if inf.Type != typ {
			continue
		}
		if !found || inf.Confidence > top.Confidence {
			top, found = inf, true
		}
	}
	return top, found
}
