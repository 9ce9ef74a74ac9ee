package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestIncAndSnapshot(t *testing.T) {
	m := New()
	m.Inc(MetricResolveTotal)
	m.Inc(MetricResolveTotal)
	m.Inc(MetricPathBlocked)

	snap := m.Snapshot()
	if snap.Counters[MetricResolveTotal] != 2 {
		t.Fatalf("resolve total = %d, want 2", snap.Counters[MetricResolveTotal])
	}
	if snap.Counters[MetricPathBlocked] != 1 {
		t.Fatalf("path blocked = %d, want 1", snap.Counters[MetricPathBlocked])
	}
	if snap.Counters[MetricFallbackTaken] != 0 {
		t.Fatal("untouched counters must read zero")
	}
}

func TestNilMetricsDropsWrites(t *testing.T) {
	var m *Metrics
	m.Inc(MetricResolveTotal)
	m.Observe(MetricResolveLatency, time.Millisecond)

	snap := m.Snapshot()
	if len(snap.Counters) != 0 && snap.Counters[MetricResolveTotal] != 0 {
		t.Fatal("nil metrics must not record")
	}
}

func TestOutOfRangeIDIgnored(t *testing.T) {
	m := New()
	m.Inc(MetricID(5000))
	m.Observe(MetricID(5000), time.Second)
	// No panic is the assertion.
}

func TestObserveBucketPlacement(t *testing.T) {
	m := New()
	cases := []struct {
		d      time.Duration
		bucket int
	}{
		{10 * time.Microsecond, 0},
		{50 * time.Microsecond, 0},
		{51 * time.Microsecond, 1},
		{time.Millisecond, 3},
		{50 * time.Millisecond, 6},
		{time.Second, 7}, // +Inf bucket
	}
	for _, c := range cases {
		m.Observe(MetricResolveLatency, c.d)
	}

	buckets := m.Snapshot().Histograms[MetricResolveLatency]
	if len(buckets) != HistogramBuckets {
		t.Fatalf("expected %d buckets, got %d", HistogramBuckets, len(buckets))
	}
	want := make([]uint64, HistogramBuckets)
	for _, c := range cases {
		want[c.bucket]++
	}
	for i := range want {
		if buckets[i] != want[i] {
			t.Fatalf("bucket %d = %d, want %d (all: %v)", i, buckets[i], want[i], buckets)
		}
	}
}

func TestConcurrentIncrements(t *testing.T) {
	m := New()
	const workers = 8
	const perWorker = 1000

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				m.Inc(MetricResolveTotal)
				m.Observe(MetricResolveLatency, time.Microsecond)
			}
		}()
	}
	wg.Wait()

	snap := m.Snapshot()
	if got := snap.Counters[MetricResolveTotal]; got != workers*perWorker {
		t.Fatalf("resolve total = %d, want %d", got, workers*perWorker)
	}
	var total uint64
	for _, b := range snap.Histograms[MetricResolveLatency] {
		total += b
	}
	if total != workers*perWorker {
		t.Fatalf("histogram total = %d, want %d", total, workers*perWorker)
	}
}
