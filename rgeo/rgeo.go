package rgeo

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/paulmach/orb"
	"github.com/rotblauer/catspots/common"
	"github.com/rotblauer/catspots/params"
	srgeo "github.com/sams96/rgeo"
)

var (
	Cities10      = srgeo.Cities10
	Countries10   = srgeo.Countries10
	Provinces10   = srgeo.Provinces10
	US_Counties10 = srgeo.US_Counties10
)

// DefaultDatasets are loaded by New when none are given.
var DefaultDatasets = []func() []byte{
	Cities10,
	Countries10,
	Provinces10,
	US_Counties10,
}

// Geocoder names the place at a point, offline.
// Lookups are cached by the point rounded to GPSPrecision4 (about 11m).
type Geocoder struct {
	r     *srgeo.Rgeo
	cache *lru.Cache[orb.Point, string]

	// srgeo is safe for concurrent reads; the mutex only guards lookups
	// so that concurrent misses for one key are resolved once.
	mu sync.Mutex
}

func New(datasets ...func() []byte) (*Geocoder, error) {
	if len(datasets) == 0 {
		datasets = DefaultDatasets
	}
	names := make([]string, 0, len(datasets))
	for _, d := range datasets {
		names = append(names, strings.TrimPrefix(common.ReflectFunctionName(d), "github.com/sams96/rgeo."))
	}
	slices.Sort(names)

	start := time.Now()
	r, err := srgeo.New(datasets...)
	if err != nil {
		return nil, fmt.Errorf("load rgeo datasets: %w", err)
	}
	cache, err := lru.New[orb.Point, string](params.GeocoderCacheSize)
	if err != nil {
		return nil, err
	}
	slog.Info("Loaded reverse geocoder", "datasets", strings.Join(names, ","),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return &Geocoder{r: r, cache: cache}, nil
}

func cacheKey(pt orb.Point) orb.Point {
	return orb.Point{
		common.DecimalToFixed(pt.Lon(), common.GPSPrecision4),
		common.DecimalToFixed(pt.Lat(), common.GPSPrecision4),
	}
}

// Address returns a human-readable place name for pt, most specific first,
// eg. "Zürich, Zürich, Switzerland".
func (g *Geocoder) Address(pt orb.Point) (string, error) {
	key := cacheKey(pt)
	g.mu.Lock()
	defer g.mu.Unlock()
	if v, ok := g.cache.Get(key); ok {
		return v, nil
	}
	loc, err := g.r.ReverseGeocode(pt)
	if err != nil {
		return "", err
	}
	addr := FormatLocation(loc)
	g.cache.Add(key, addr)
	return addr, nil
}

// Cached is the number of cached lookups.
func (g *Geocoder) Cached() int {
	return g.cache.Len()
}

// FormatLocation joins the location's non-empty names from city to country,
// skipping repeats. The country is its common name, or else its long name.
func FormatLocation(loc srgeo.Location) string {
	country := loc.Country
	if country == "" {
		country = loc.CountryLong
	}
	parts := make([]string, 0, 4)
	for _, p := range []string{loc.City, loc.County, loc.Province, country} {
		if p == "" || slices.Contains(parts, p) {
			continue
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, ", ")
}
