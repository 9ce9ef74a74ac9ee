package lifegate

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	internalaudit "github.com/orvanta/lifegate/internal/audit"
	"github.com/orvanta/lifegate/internal/invariant"
	internalmetrics "github.com/orvanta/lifegate/internal/metrics"
	"github.com/orvanta/lifegate/internal/resolve"
	"github.com/orvanta/lifegate/routing"
)

// Resolver computes lifecycle decisions. Safe for unbounded concurrent use
// after [Builder.Build]; it owns no mutable state beyond the audit and
// metric side channels.
type Resolver struct {
	config   Config
	baseDeps resolve.Deps
	audit    *internalaudit.Dispatcher
	metrics  *Metrics
	closed   atomic.Bool
}

// Close stops the audit dispatcher after draining buffered events. The
// resolver rejects calls afterwards.
func (r *Resolver) Close() {
	if r == nil {
		return
	}
	r.closed.Store(true)
	r.audit.Close()
}

// AuditDropped reports how many diagnostic events were discarded because the
// audit buffer was full.
func (r *Resolver) AuditDropped() uint64 {
	if r == nil {
		return 0
	}
	return r.audit.Dropped()
}

// MetricsSnapshot copies the current metric values.
func (r *Resolver) MetricsSnapshot() MetricsSnapshot {
	if r == nil || r.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return r.metrics.Snapshot()
}

// Resolve computes the lifecycle decision for principal. A nil principal
// resolves to [StateUnauthenticated]. Pure with respect to its inputs: the
// same facts produce the same state, though facts come from live lookups
// and may legitimately differ between calls.
//
// On context cancellation no decision is returned. In [ModeStrict] an
// internally inconsistent decision aborts the call with a [ViolationError];
// in [ModeTolerant] the decision is returned anyway after logging.
func (r *Resolver) Resolve(ctx context.Context, principal *Principal) (*ResolvedLifecycle, error) {
	if r == nil || r.closed.Load() {
		return nil, ErrResolverNotReady
	}
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	resolutionID := uuid.NewString()

	deps := r.baseDeps
	deps.OnDegraded = func(lookup string, err error) {
		r.metrics.Inc(internalmetrics.MetricLookupDegraded)
		r.audit.Emit(ctx, AuditEvent{
			Timestamp:    time.Now().UTC(),
			EventType:    AuditEventLookupDegraded,
			ResolutionID: resolutionID,
			PrincipalID:  principalID(principal),
			Detail:       lookup,
			Metadata:     map[string]string{"error": err.Error()},
		})
	}
	deps.OnFallback = func(detail string) {
		r.metrics.Inc(internalmetrics.MetricFallbackTaken)
		log.Print("lifegate: unreachable-by-contract fallback: " + detail)
		r.audit.Emit(ctx, AuditEvent{
			Timestamp:    time.Now().UTC(),
			EventType:    AuditEventFallbackTaken,
			ResolutionID: resolutionID,
			PrincipalID:  principalID(principal),
			Detail:       detail,
		})
	}

	lookupCtx := ctx
	if r.config.Lookup.Timeout > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, r.config.Lookup.Timeout)
		defer cancel()
	}

	decision, err := resolve.Run(lookupCtx, principal, deps)
	if err != nil {
		r.metrics.Inc(internalmetrics.MetricResolveCancelled)
		return nil, err
	}
	decision.ResolutionID = resolutionID

	entry := routing.For(decision.State)
	decision.RedirectTo = entry.RedirectTo
	decision.AllowedPathPatterns = entry.Allowed
	decision.BlockedPathPatterns = entry.Blocked

	if violations := invariant.Validate(&decision); len(violations) > 0 {
		r.metrics.Inc(internalmetrics.MetricInvariantViolation)
		verr := &ViolationError{Violations: violations}
		log.Print("lifegate: " + verr.Error())
		r.audit.Emit(ctx, AuditEvent{
			Timestamp:    time.Now().UTC(),
			EventType:    AuditEventInvariantViolation,
			ResolutionID: resolutionID,
			PrincipalID:  decision.PrincipalID,
			OrgID:        decision.OrgID,
			State:        decision.State.String(),
			Detail:       verr.Error(),
		})
		if r.config.ValidationMode == ModeStrict {
			return nil, verr
		}
	}

	r.metrics.Inc(internalmetrics.MetricResolveTotal)
	r.metrics.Inc(familyMetric(decision.State))
	r.metrics.Observe(internalmetrics.MetricResolveLatency, time.Since(start))
	r.audit.Emit(ctx, AuditEvent{
		Timestamp:    time.Now().UTC(),
		EventType:    AuditEventResolved,
		ResolutionID: resolutionID,
		PrincipalID:  decision.PrincipalID,
		OrgID:        decision.OrgID,
		State:        decision.State.String(),
	})

	return &decision, nil
}

// IsAllowed reports whether the decision permits reaching path. The allow
// list wins on first match, the block list denies on first match, and
// unlisted paths stay reachable. A nil decision fails closed.
func (r *Resolver) IsAllowed(decision *ResolvedLifecycle, path string) bool {
	if decision == nil {
		return false
	}
	allowed := routing.Allowed(routing.Entry{
		Allowed: decision.AllowedPathPatterns,
		Blocked: decision.BlockedPathPatterns,
	}, path)
	if allowed {
		r.metricInc(internalmetrics.MetricPathAllowed)
	} else {
		r.metricInc(internalmetrics.MetricPathBlocked)
	}
	return allowed
}

// RoutingFor returns the compiled-in routing entry for a state. Total over
// the enumeration; unknown states get the most restrictive entry.
func RoutingFor(s LifecycleState) routing.Entry {
	return routing.For(s)
}

func (r *Resolver) metricInc(id MetricID) {
	if r == nil {
		return
	}
	r.metrics.Inc(id)
}

func principalID(p *Principal) string {
	if p == nil {
		return ""
	}
	return p.ID
}

// familyMetric buckets a state into its census counter.
func familyMetric(s LifecycleState) MetricID {
	switch {
	case s == StateUnauthenticated || s == StateEmailUnverified:
		return internalmetrics.MetricResolveUnauthenticated
	case s == StateSuspended:
		return internalmetrics.MetricResolveSuspended
	case s == StateDeleted || s == StateMustResetPassword:
		return internalmetrics.MetricResolveTerminal
	case s == StateOrgMemberPending:
		return internalmetrics.MetricResolvePendingMember
	case s.IsActive():
		return internalmetrics.MetricResolveActive
	default:
		return internalmetrics.MetricResolveOnboarding
	}
}
