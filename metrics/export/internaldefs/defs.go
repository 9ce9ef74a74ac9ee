// Package internaldefs holds the shared metric definitions consumed by the
// Prometheus and OTel exporters. It exists so both exporters render the same
// names, help strings, and bucket layout without importing each other.
package internaldefs

import (
	lifegate "github.com/orvanta/lifegate"
)

// CounterDef names one exported counter.
type CounterDef struct {
	ID   lifegate.MetricID
	Name string
	Help string
}

// HistogramDef names one exported histogram.
type HistogramDef struct {
	ID   lifegate.MetricID
	Name string
	Help string
}

// CounterDefs is the exported counter set, in render order.
var CounterDefs = []CounterDef{
	{ID: lifegate.MetricResolveTotal, Name: "lifegate_resolve_total", Help: "Completed lifecycle resolutions."},
	{ID: lifegate.MetricResolveActive, Name: "lifegate_resolve_active_total", Help: "Resolutions landing in an active state."},
	{ID: lifegate.MetricResolveOnboarding, Name: "lifegate_resolve_onboarding_total", Help: "Resolutions landing in an onboarding state."},
	{ID: lifegate.MetricResolvePendingMember, Name: "lifegate_resolve_pending_member_total", Help: "Resolutions landing in the pending-invitation state."},
	{ID: lifegate.MetricResolveSuspended, Name: "lifegate_resolve_suspended_total", Help: "Resolutions landing in the suspended state."},
	{ID: lifegate.MetricResolveTerminal, Name: "lifegate_resolve_terminal_total", Help: "Resolutions landing in a terminal state."},
	{ID: lifegate.MetricResolveUnauthenticated, Name: "lifegate_resolve_unauthenticated_total", Help: "Resolutions landing in an unauthenticated-family state."},
	{ID: lifegate.MetricResolveCancelled, Name: "lifegate_resolve_cancelled_total", Help: "Resolutions aborted by context cancellation."},
	{ID: lifegate.MetricLookupDegraded, Name: "lifegate_lookup_degraded_total", Help: "Optional fact lookups degraded to absent."},
	{ID: lifegate.MetricFallbackTaken, Name: "lifegate_fallback_taken_total", Help: "Unreachable-by-contract defensive fallbacks taken."},
	{ID: lifegate.MetricInvariantViolation, Name: "lifegate_invariant_violation_total", Help: "Decisions that violated a structural invariant."},
	{ID: lifegate.MetricPathAllowed, Name: "lifegate_path_allowed_total", Help: "Path checks that allowed the request."},
	{ID: lifegate.MetricPathBlocked, Name: "lifegate_path_blocked_total", Help: "Path checks that blocked the request."},
}

// HistogramDefs is the exported histogram set.
var HistogramDefs = []HistogramDef{
	{ID: lifegate.MetricResolveLatency, Name: "lifegate_resolve_latency_seconds", Help: "Resolve latency histogram."},
}

// HistogramBounds are the bucket upper bounds in seconds, matching the
// internal registry layout.
var HistogramBounds = []string{
	"0.00005",
	"0.0002",
	"0.0005",
	"0.001",
	"0.005",
	"0.02",
	"0.1",
	"+Inf",
}

// HistogramBoundSuffix mirrors HistogramBounds with metric-name-safe spelling.
var HistogramBoundSuffix = []string{
	"0_00005",
	"0_0002",
	"0_0005",
	"0_001",
	"0_005",
	"0_02",
	"0_1",
	"inf",
}

// NormalizeBuckets pads or truncates a raw snapshot slice to the fixed
// bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to the cumulative form
// Prometheus and OTel expect.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
