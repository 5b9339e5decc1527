package params

import (
	"os"
	"path/filepath"
	"time"
)

const (
	CatsDir        = "cats"
	CatStateDBName = "state.db"

	// CatRunLogName is the gzipped NDJSON log of a cat's runs, next to its state.
	CatRunLogName = "runs.ndjson.gz"
)

var DefaultDatadirRoot = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".catspots")
	}
	return filepath.Join(home, ".catspots")
}()

func DefaultCatDataDir(root, catID string) string {
	if root == "" {
		root = DefaultDatadirRoot
	}
	return filepath.Join(root, CatsDir, catID)
}

// CatStateBucket holds everything one cat's runs persist.
var CatStateBucket = []byte("state")

// CatStateKey* are the keys in CatStateBucket.
var (
	CatStateKey_StayPoints  = []byte("staypoints")
	CatStateKey_Inferences  = []byte("inferences")
	CatStateKey_Timetable   = []byte("timetable")
	CatStateKey_Fingerprint = []byte("fingerprint")
)

// DuplicateFilterSize is how many recent fixes are remembered to drop resent duplicates.
var DuplicateFilterSize = 10_000

var (
	CacheLastResultTTL = 1 * 24 * time.Hour
	GeocoderCacheSize  = 10_000
)

// INFLUXDB_* configure the optional inference export.
var (
	INFLUXDB_URL    = os.Getenv("INFLUXDB_URL")
	INFLUXDB_TOKEN  = os.Getenv("INFLUXDB_TOKEN")
	INFLUXDB_ORG    = os.Getenv("INFLUXDB_ORG")
	INFLUXDB_BUCKET = os.Getenv("INFLUXDB_BUCKET")
)
