// Package metrics provides lock-free counters and a latency histogram for
// resolver observability.
//
// # Design
//
// Counters are stored in cache-line-padded uint64 slots and incremented
// atomically. The latency histogram uses 8 fixed buckets (≤50µs … +Inf).
// Both are allocation-free on the write path.
//
// # Architecture boundaries
//
// This package owns metric storage and snapshot creation. Metric export
// (Prometheus, OTel) lives in metrics/export/ and reads Snapshot values.
//
// # What this package must NOT do
//
//   - Perform I/O or network calls.
//   - Import the root package or any sibling package.
//   - Expose global metric registries.
package metrics

import (
	"sync/atomic"
	"time"
)

// MetricID identifies one counter or histogram slot.
type MetricID uint16

const (
	MetricResolveTotal MetricID = iota
	MetricResolveActive
	MetricResolveOnboarding
	MetricResolvePendingMember
	MetricResolveSuspended
	MetricResolveTerminal
	MetricResolveUnauthenticated
	MetricResolveCancelled
	MetricLookupDegraded
	MetricFallbackTaken
	MetricInvariantViolation
	MetricPathAllowed
	MetricPathBlocked

	counterCount
)

const (
	// MetricResolveLatency is the single histogram slot.
	MetricResolveLatency MetricID = iota
	histogramCount
)

// HistogramBuckets is the number of fixed latency buckets.
const HistogramBuckets = 8

// BucketBounds are the upper bounds of the latency buckets; the last bucket
// is +Inf.
var BucketBounds = [HistogramBuckets - 1]time.Duration{
	50 * time.Microsecond,
	200 * time.Microsecond,
	500 * time.Microsecond,
	time.Millisecond,
	5 * time.Millisecond,
	20 * time.Millisecond,
	100 * time.Millisecond,
}

// paddedCounter keeps each slot on its own cache line to avoid false
// sharing between concurrent resolutions.
type paddedCounter struct {
	v atomic.Uint64
	_ [56]byte
}

// Metrics is the in-process registry. The zero value is unusable; create
// with New. A nil *Metrics drops every write.
type Metrics struct {
	counters   [counterCount]paddedCounter
	histograms [histogramCount][HistogramBuckets]paddedCounter
}

func New() *Metrics {
	return &Metrics{}
}

// Inc adds one to a counter slot.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || id >= counterCount {
		return
	}
	m.counters[id].v.Add(1)
}

// Observe records a latency sample into the histogram slot.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || id >= histogramCount {
		return
	}
	bucket := HistogramBuckets - 1
	for i, bound := range BucketBounds {
		if d <= bound {
			bucket = i
			break
		}
	}
	m.histograms[id][bucket].v.Add(1)
}

// Snapshot is a point-in-time copy of every slot.
type Snapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// Snapshot copies the current values. Slots written concurrently with the
// copy may or may not be included; the snapshot is consistent per slot, not
// across slots.
func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{
		Counters:   make(map[MetricID]uint64, counterCount),
		Histograms: make(map[MetricID][]uint64, histogramCount),
	}
	if m == nil {
		return snap
	}
	for id := MetricID(0); id < counterCount; id++ {
		snap.Counters[id] = m.counters[id].v.Load()
	}
	for id := MetricID(0); id < histogramCount; id++ {
		buckets := make([]uint64, HistogramBuckets)
		for i := range buckets {
			buckets[i] = m.histograms[id][i].v.Load()
		}
		snap.Histograms[id] = buckets
	}
	return snap
}
