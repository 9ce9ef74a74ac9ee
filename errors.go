package lifegate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/orvanta/lifegate/internal/invariant"
)

var (
	// ErrResolverNotReady is returned when a Resolver is used before Build or after Close.
	ErrResolverNotReady = errors.New("resolver not ready")
	// ErrBuilderReused is returned when Build is called twice on one Builder.
	ErrBuilderReused = errors.New("builder already consumed")
	// ErrOrganizationProviderRequired is returned by Build when no organization provider was wired.
	ErrOrganizationProviderRequired = errors.New("organization provider required")
	// ErrWorkspaceProviderRequired is returned by Build when no workspace provider was wired.
	ErrWorkspaceProviderRequired = errors.New("workspace provider required")
	// ErrBillingProviderRequired is returned by Build when no billing provider was wired.
	ErrBillingProviderRequired = errors.New("billing provider required")
	// ErrInvalidLookupTimeout is returned by Config.Validate for a negative or excessive lookup timeout.
	ErrInvalidLookupTimeout = errors.New("invalid lookup timeout")
	// ErrInvalidAuditBuffer is returned by Config.Validate for a non-positive audit buffer with audit enabled.
	ErrInvalidAuditBuffer = errors.New("invalid audit buffer size")
	// ErrInvalidValidationMode is returned by Config.Validate for a mode outside the enumeration.
	ErrInvalidValidationMode = errors.New("invalid validation mode")
	// ErrInvariantViolation is the class error matched by every ViolationError via errors.Is.
	ErrInvariantViolation = errors.New("lifecycle invariant violation")
)

// ViolationKind identifies one structural invariant rule.
type ViolationKind = invariant.Kind

const (
	// ViolationAccountTypeMismatch: state family and account type disagree.
	ViolationAccountTypeMismatch = invariant.KindAccountTypeMismatch
	// ViolationOrgRequired: the state requires a resolved organization id.
	ViolationOrgRequired = invariant.KindOrgRequired
	// ViolationWorkspaceRequired: an active state has no workspace.
	ViolationWorkspaceRequired = invariant.KindWorkspaceRequired
	// ViolationWorkspaceForbidden: a no-workspace state carries one.
	ViolationWorkspaceForbidden = invariant.KindWorkspaceForbidden
	// ViolationOwnerRoleRequired: an owner state with a non-owner role.
	ViolationOwnerRoleRequired = invariant.KindOwnerRoleRequired
	// ViolationStateOutOfRange: the state is not a member of the enumeration.
	ViolationStateOutOfRange = invariant.KindStateOutOfRange
)

// Violation is one broken invariant rule: its kind, a message, and the
// offending decision fields.
type Violation = invariant.Violation

// ViolationError aborts a Resolve call in [ModeStrict] when the assembled
// decision is internally inconsistent. It carries every violated rule; the
// decision is never repaired.
type ViolationError struct {
	Violations []Violation
}

// Error lists the violated rules.
func (e *ViolationError) Error() string {
	if e == nil || len(e.Violations) == 0 {
		return ErrInvariantViolation.Error()
	}
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = fmt.Sprintf("%s: %s", v.Kind, v.Message)
	}
	return fmt.Sprintf("%s: %s", ErrInvariantViolation, strings.Join(parts, "; "))
}

// Is matches [ErrInvariantViolation] so callers can class-check without
// unwrapping the individual rules.
func (e *ViolationError) Is(target error) bool {
	return target == ErrInvariantViolation
}
