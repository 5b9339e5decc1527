package stream

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/rotblauer/catspots/common"
)

// Meter logs read throughput on an interval while a long input is consumed.
type Meter struct {
	mu       sync.Mutex
	name     string
	label    time.Time // eg. the time of the last point read
	interval time.Duration
	started  time.Time
	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once

	count     metrics.Meter
	sizeMeter metrics.Meter
}

func NewMeter(name string, interval time.Duration) *Meter {
	// The metrics package is a no-op without this global setting.
	metrics.Enabled = true

	m := &Meter{
		name:      name,
		interval:  interval,
		started:   time.Now(),
		done:      make(chan struct{}),
		count:     metrics.NewMeter(),
		sizeMeter: metrics.NewMeter(),
	}
	m.ticker = time.NewTicker(interval)
	go m.run()
	return m
}

// Mark records one item of size bytes, labelled by t.
func (m *Meter) Mark(t time.Time, size int) {
	m.mu.Lock()
	m.label = t
	m.mu.Unlock()
	m.count.Mark(1)
	m.sizeMeter.Mark(int64(size))
}

// Count returns the number of items marked.
func (m *Meter) Count() int64 {
	return m.count.Snapshot().Count()
}

func (m *Meter) run() {
	for {
		select {
		case <-m.done:
			return
		case <-m.ticker.C:
			m.log()
		}
	}
}

func (m *Meter) log() {
	countSnap := m.count.Snapshot()
	sizeSnap := m.sizeMeter.Snapshot()
	m.mu.Lock()
	last := m.label
	m.mu.Unlock()
	slog.Info("Read "+m.name, "n", humanize.Comma(countSnap.Count()),
		"read.last", last.Format(time.DateTime),
		"rate", common.DecimalToFixed(countSnap.Rate1(), 0),
		"bps", humanize.Bytes(uint64(sizeSnap.Rate1())),
		"total.bytes", humanize.Bytes(uint64(sizeSnap.Count())),
		"running", time.Since(m.started).Round(time.Second))
}

// Stop halts the ticker and logs a final summary line.
func (m *Meter) Stop() {
	m.stopOnce.Do(func() {
		m.ticker.Stop()
		close(m.done)
		m.log()
		m.count.Stop()
		m.sizeMeter.Stop()
	})
}
