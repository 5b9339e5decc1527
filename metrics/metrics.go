// Package metrics keeps process-wide timers and counters for inference runs.
package metrics

import (
	"time"

	gethmetrics "github.com/ethereum/go-ethereum/metrics"
)

// Registry holds every metric catspots records.
var Registry = gethmetrics.NewRegistry()

func init() {
	// Metrics created while this is false are no-ops.
	gethmetrics.Enabled = true
}

// UpdateSince records the time elapsed since start with the named timer.
func UpdateSince(name string, start time.Time) {
	gethmetrics.GetOrRegisterTimer(name, Registry).UpdateSince(start)
}

// Inc increments the named counter.
func Inc(name string, n int64) {
	gethmetrics.GetOrRegisterCounter(name, Registry).Inc(n)
}

// Count returns the current value of the named counter.
func Count(name string) int64 {
	return gethmetrics.GetOrRegisterCounter(name, Registry).Snapshot().Count()
}

// TimerCount returns the number of events recorded by the named timer.
func TimerCount(name string) int64 {
	return gethmetrics.GetOrRegisterTimer(name, Registry).Snapshot().Count()
}

// Summary is a JSON-friendly snapshot of every registered metric.
func Summary() map[string]map[string]interface{} {
	return Registry.GetAll()
}
