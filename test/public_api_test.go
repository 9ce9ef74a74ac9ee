package test

import (
	"context"
	"net/http"
	"testing"

	lifegate "github.com/orvanta/lifegate"
	"github.com/orvanta/lifegate/middleware"
	"github.com/orvanta/lifegate/routing"
)

// This test intentionally guards public API compile-compat for consumers.
func TestPublicAPISurfaceCompile(t *testing.T) {
	_ = lifegate.New

	var _ *lifegate.Builder
	var _ *lifegate.Resolver
	var _ lifegate.Config
	var _ lifegate.Principal
	var _ lifegate.ResolvedLifecycle
	var _ lifegate.LifecycleState
	var _ lifegate.OrganizationProvider
	var _ lifegate.WorkspaceProvider
	var _ lifegate.BillingProvider
	var _ lifegate.AuditSink
	var _ lifegate.AuditEvent
	var _ lifegate.MetricsSnapshot

	var _ error = lifegate.ErrResolverNotReady
	var _ error = lifegate.ErrBuilderReused
	var _ error = lifegate.ErrOrganizationProviderRequired
	var _ error = lifegate.ErrWorkspaceProviderRequired
	var _ error = lifegate.ErrBillingProviderRequired
	var _ error = lifegate.ErrInvariantViolation
	var _ error = &lifegate.ViolationError{}

	var _ func(*lifegate.Resolver, middleware.PrincipalFunc) func(http.Handler) http.Handler = middleware.Guard

	var _ func(*lifegate.Resolver, context.Context, *lifegate.Principal) (*lifegate.ResolvedLifecycle, error) = (*lifegate.Resolver).Resolve
	var _ func(*lifegate.Resolver, *lifegate.ResolvedLifecycle, string) bool = (*lifegate.Resolver).IsAllowed
	var _ func(*lifegate.Resolver) = (*lifegate.Resolver).Close

	var _ func(lifegate.LifecycleState) routing.Entry = lifegate.RoutingFor
	var _ func() []lifegate.LifecycleState = lifegate.States
}

func TestStateEnumerationStable(t *testing.T) {
	// The enumeration is part of the public contract: sixteen states with
	// wire-stable names.
	states := lifegate.States()
	if len(states) != 16 {
		t.Fatalf("expected 16 states, got %d", len(states))
	}
	wantFirst := "UNAUTHENTICATED"
	if states[0].String() != wantFirst {
		t.Fatalf("first state = %q, want %q", states[0], wantFirst)
	}
	for _, s := range states {
		if s.String() == "UNKNOWN" {
			t.Fatalf("state %d has no name", s)
		}
	}
}
