package trajectory

import (
	"github.com/golang/groupcache/lru"
	"github.com/mitchellh/hashstructure/v2"
)

// DuplicateFilter remembers recently seen fixes.
// Devices resend fixes they are unsure were received.
type DuplicateFilter struct {
	seen *lru.Cache
}

func NewDuplicateFilter(size int) *DuplicateFilter {
	return &DuplicateFilter{seen: lru.New(size)}
}

type pointKey struct {
	Lat, Lng float64
	Time     int64
}

// Seen reports whether an identical fix was seen recently, and remembers p.
func (f *DuplicateFilter) Seen(p Point) bool {
	key, err := hashstructure.Hash(pointKey{Lat: p.Lat, Lng: p.Lng, Time: p.Time.UnixNano()}, hashstructure.FormatV2, nil)
	if err != nil {
		return false
	}
	if _, ok := f.seen.Get(key); ok {
		return true
	}
	f.seen.Add(key, struct{}{})
	return false
}

// Dedupe drops fixes identical to one of the last size fixes.
func Dedupe(pts []Point, size int) []Point {
	f := NewDuplicateFilter(size)
	out := pts[:0:0]
	for _, p := range pts {
		if f.Seen(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}
