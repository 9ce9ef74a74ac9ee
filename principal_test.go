package lifegate

import (
	"testing"

	"github.com/orvanta/lifegate/jwt"
)

func TestPrincipalFromClaims(t *testing.T) {
	claims := &jwt.PrincipalClaims{
		EmailVerified:     true,
		MustResetPassword: true,
		AccountType:       jwt.AccountTypeOrg,
		PrimaryOrgID:      "org-1",
	}
	claims.Subject = "p-1"

	p := PrincipalFromClaims(claims)
	if p == nil {
		t.Fatal("expected a principal")
	}
	if p.ID != "p-1" || !p.EmailVerified || !p.MustResetPassword {
		t.Fatalf("facts lost: %+v", p)
	}
	if p.AccountType != AccountTypeOrg || p.PrimaryOrgID != "org-1" {
		t.Fatalf("org facts lost: %+v", p)
	}
}

func TestPrincipalFromClaimsNilAndEmptySubject(t *testing.T) {
	if PrincipalFromClaims(nil) != nil {
		t.Fatal("nil claims must map to a nil principal")
	}
	if PrincipalFromClaims(&jwt.PrincipalClaims{}) != nil {
		t.Fatal("empty subject must map to a nil principal")
	}
}

func TestPrincipalFromClaimsGarbledAccountType(t *testing.T) {
	claims := &jwt.PrincipalClaims{EmailVerified: true, AccountType: "enterprise"}
	claims.Subject = "p-1"

	p := PrincipalFromClaims(claims)
	if p.AccountType != AccountTypeUnset {
		t.Fatalf("garbled account type must map to unset, got %v", p.AccountType)
	}

	// A garbled token category resolves to the account-type chooser, never
	// to the defensive fallback.
	r := newFixture().build(t)
	dec := mustResolve(t, r, p)
	if dec.State != StateAccountTypePending {
		t.Fatalf("got %v, want account-type pending", dec.State)
	}
	if snap := r.MetricsSnapshot(); snap.Counters[MetricFallbackTaken] != 0 {
		t.Fatal("fallback must not fire for garbled claims")
	}
}
