package lifegate

import (
	"errors"
	"strings"
	"testing"
)

func TestViolationErrorMatchesClassSentinel(t *testing.T) {
	err := &ViolationError{Violations: []Violation{
		{Kind: ViolationOrgRequired, Message: "state ORG_MEMBER_ACTIVE requires a resolved organization id"},
		{Kind: ViolationWorkspaceRequired, Message: "active state ORG_MEMBER_ACTIVE requires a workspace"},
	}}

	if !errors.Is(err, ErrInvariantViolation) {
		t.Fatal("ViolationError must match ErrInvariantViolation")
	}
	msg := err.Error()
	if !strings.Contains(msg, "org_required") || !strings.Contains(msg, "workspace_required") {
		t.Fatalf("message must name every violated rule: %q", msg)
	}
}

func TestViolationErrorEmpty(t *testing.T) {
	err := &ViolationError{}
	if err.Error() != ErrInvariantViolation.Error() {
		t.Fatalf("empty violation error message = %q", err.Error())
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrResolverNotReady,
		ErrBuilderReused,
		ErrOrganizationProviderRequired,
		ErrWorkspaceProviderRequired,
		ErrBillingProviderRequired,
		ErrInvalidLookupTimeout,
		ErrInvalidAuditBuffer,
		ErrInvalidValidationMode,
		ErrInvariantViolation,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinels %v and %v must not match", a, b)
			}
		}
	}
}
