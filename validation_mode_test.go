package lifegate

import (
	"testing"
)

// Violations signal resolver bugs, so a healthy build cannot produce one
// through the public API; the rules themselves are exercised in
// internal/invariant. These tests pin down what the modes share: on
// consistent decisions they are indistinguishable.

func tolerantResolver(t *testing.T, f *fixture) *Resolver {
	t.Helper()
	cfg := defaultConfig()
	cfg.ValidationMode = ModeTolerant
	return f.build(t, func(b *Builder) { b.WithConfig(cfg) })
}

func TestTolerantModeMatchesStrictOnConsistentDecisions(t *testing.T) {
	build := func(mode ValidationMode) *Resolver {
		f := newFixture()
		f.orgs.primary["p-1:org-1"] = &MembershipRecord{OrgID: "org-1", Role: RoleOwner, Status: MemberStatusActive}
		f.workspaces.byPrincipal["p-1"] = &WorkspaceRecord{WorkspaceID: "ws-1"}
		cfg := defaultConfig()
		cfg.ValidationMode = mode
		return f.build(t, func(b *Builder) { b.WithConfig(cfg) })
	}

	p := &Principal{ID: "p-1", EmailVerified: true, AccountType: AccountTypeOrg, PrimaryOrgID: "org-1"}
	strict := mustResolve(t, build(ModeStrict), p)
	tolerant := mustResolve(t, build(ModeTolerant), p)

	if strict.State != tolerant.State {
		t.Fatalf("modes disagree on state: %v vs %v", strict.State, tolerant.State)
	}
	if strict.OrgID != tolerant.OrgID || strict.HasWorkspace != tolerant.HasWorkspace {
		t.Fatal("modes disagree on decision facts")
	}
}

func TestTolerantModeReportsNoViolationsOnHealthyResolver(t *testing.T) {
	r := tolerantResolver(t, newFixture())
	mustResolve(t, r, &Principal{ID: "p-1", EmailVerified: true, AccountType: AccountTypeIndividual})

	if snap := r.MetricsSnapshot(); snap.Counters[MetricInvariantViolation] != 0 {
		t.Fatalf("unexpected violation count %d", snap.Counters[MetricInvariantViolation])
	}
}
