package prometheus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	lifegate "github.com/orvanta/lifegate"
)

type fakeSource struct {
	snapshot lifegate.MetricsSnapshot
	dropped  uint64
}

func (f *fakeSource) MetricsSnapshot() lifegate.MetricsSnapshot { return f.snapshot }
func (f *fakeSource) AuditDropped() uint64                      { return f.dropped }

func testSource() *fakeSource {
	return &fakeSource{
		snapshot: lifegate.MetricsSnapshot{
			Counters: map[lifegate.MetricID]uint64{
				lifegate.MetricResolveTotal:   7,
				lifegate.MetricResolveActive:  4,
				lifegate.MetricPathBlocked:    2,
				lifegate.MetricFallbackTaken:  0,
				lifegate.MetricLookupDegraded: 1,
			},
			Histograms: map[lifegate.MetricID][]uint64{
				lifegate.MetricResolveLatency: {2, 1, 0, 0, 1, 0, 0, 0},
			},
		},
		dropped: 3,
	}
}

func TestRenderCounters(t *testing.T) {
	out := NewExporterFromSource(testSource()).Render()

	for _, want := range []string{
		"# TYPE lifegate_resolve_total counter",
		"lifegate_resolve_total 7",
		"lifegate_resolve_active_total 4",
		"lifegate_path_blocked_total 2",
		"lifegate_fallback_taken_total 0",
		"lifegate_audit_dropped_total 3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestRenderHistogramIsCumulative(t *testing.T) {
	out := NewExporterFromSource(testSource()).Render()

	for _, want := range []string{
		"# TYPE lifegate_resolve_latency_seconds histogram",
		`lifegate_resolve_latency_seconds_bucket{le="0.00005"} 2`,
		`lifegate_resolve_latency_seconds_bucket{le="0.0002"} 3`,
		`lifegate_resolve_latency_seconds_bucket{le="0.005"} 4`,
		`lifegate_resolve_latency_seconds_bucket{le="+Inf"} 4`,
		"lifegate_resolve_latency_seconds_count 4",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestRenderEmptySnapshot(t *testing.T) {
	out := NewExporterFromSource(&fakeSource{
		snapshot: lifegate.MetricsSnapshot{
			Counters:   map[lifegate.MetricID]uint64{},
			Histograms: map[lifegate.MetricID][]uint64{},
		},
	}).Render()

	if !strings.Contains(out, "lifegate_resolve_total 0") {
		t.Fatalf("missing zero-valued counters:\n%s", out)
	}
	if !strings.Contains(out, `lifegate_resolve_latency_seconds_bucket{le="+Inf"} 0`) {
		t.Fatalf("missing zero-valued histogram:\n%s", out)
	}
}

func TestNilExporterRendersEmpty(t *testing.T) {
	var e *Exporter
	if e.Render() != "" {
		t.Fatal("nil exporter must render empty output")
	}
}

func TestHandlerServesExposition(t *testing.T) {
	handler := NewExporterFromSource(testSource()).Handler()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "lifegate_resolve_total 7") {
		t.Fatal("body missing rendered metrics")
	}
}

func TestExporterReadsLiveResolver(t *testing.T) {
	// End to end against a real resolver: resolve once and scrape.
	r, err := lifegate.New().
		WithOrganizationProvider(nullOrgs{}).
		WithWorkspaceProvider(nullWorkspaces{}).
		WithBillingProvider(nullBilling{}).
		Build()
	if err != nil {
		t.Fatalf("build resolver: %v", err)
	}
	defer r.Close()

	if _, err := r.Resolve(nil, nil); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	out := NewExporter(r).Render()
	if !strings.Contains(out, "lifegate_resolve_total 1") {
		t.Fatalf("expected one recorded resolution:\n%s", out)
	}
}

type nullOrgs struct{}

func (nullOrgs) GetPrimaryMembership(ctx context.Context, principalID, orgID string) (*lifegate.MembershipRecord, error) {
	return nil, nil
}
func (nullOrgs) GetAnyMembership(ctx context.Context, principalID string) (*lifegate.MembershipRecord, error) {
	return nil, nil
}
func (nullOrgs) GetOrganization(ctx context.Context, orgID string) (*lifegate.OrganizationRecord, error) {
	return nil, nil
}

type nullWorkspaces struct{}

func (nullWorkspaces) GetFirstMembership(ctx context.Context, principalID string) (*lifegate.WorkspaceRecord, error) {
	return nil, nil
}

type nullBilling struct{}

func (nullBilling) GetBillingStatus(ctx context.Context, scopeID string, scope lifegate.BillingScope) (lifegate.BillingStatus, error) {
	return lifegate.BillingUnknown, nil
}
