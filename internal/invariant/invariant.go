// Package invariant checks a resolved decision against the structural rules
// that must hold between a state and its fields. A violated rule means a
// resolver bug, never a normal user condition; rules report, they never
// repair.
package invariant

import (
	"fmt"

	"github.com/orvanta/lifegate/internal/state"
)

// Kind identifies one violated rule.
type Kind uint8

const (
	KindAccountTypeMismatch Kind = iota
	KindOrgRequired
	KindWorkspaceRequired
	KindWorkspaceForbidden
	KindOwnerRoleRequired
	KindStateOutOfRange
)

// String returns the wire-stable name of the violation kind.
func (k Kind) String() string {
	switch k {
	case KindAccountTypeMismatch:
		return "account_type_mismatch"
	case KindOrgRequired:
		return "org_required"
	case KindWorkspaceRequired:
		return "workspace_required"
	case KindWorkspaceForbidden:
		return "workspace_forbidden"
	case KindOwnerRoleRequired:
		return "owner_role_required"
	case KindStateOutOfRange:
		return "state_out_of_range"
	}
	return "unknown"
}

// Violation is one broken rule with the offending fields attached.
type Violation struct {
	Kind    Kind
	Message string
	Fields  map[string]string
}

// rule couples a kind with its check. check returns "" when the rule holds
// and a message naming the offense when it does not.
type rule struct {
	kind  Kind
	check func(d *state.Decision) string
}

var rules = []rule{
	{KindStateOutOfRange, func(d *state.Decision) string {
		if !d.State.Valid() {
			return fmt.Sprintf("state %d is outside the enumeration", uint8(d.State))
		}
		return ""
	}},
	{KindAccountTypeMismatch, func(d *state.Decision) string {
		if d.State.IsIndividualFamily() && d.AccountType != state.AccountTypeIndividual {
			return fmt.Sprintf("state %s requires account type individual, got %s", d.State, d.AccountType)
		}
		if d.State.IsOrgFamily() && d.AccountType != state.AccountTypeOrg {
			return fmt.Sprintf("state %s requires account type org, got %s", d.State, d.AccountType)
		}
		return ""
	}},
	{KindOrgRequired, func(d *state.Decision) string {
		if d.State.RequiresOrg() && d.OrgID == "" {
			return fmt.Sprintf("state %s requires a resolved organization id", d.State)
		}
		return ""
	}},
	{KindWorkspaceRequired, func(d *state.Decision) string {
		if d.State.IsActive() && !d.HasWorkspace {
			return fmt.Sprintf("active state %s requires a workspace", d.State)
		}
		return ""
	}},
	{KindWorkspaceForbidden, func(d *state.Decision) string {
		switch d.State {
		case state.StateOrgOwnerNoWorkspace, state.StateOrgAdminNoWorkspace, state.StateOrgMemberNoWorkspace:
			if d.HasWorkspace {
				return fmt.Sprintf("state %s must not carry a workspace", d.State)
			}
		}
		return ""
	}},
	{KindOwnerRoleRequired, func(d *state.Decision) string {
		switch d.State {
		case state.StateOrgOwnerNoWorkspace, state.StateOrgOwnerActive:
			if d.OrgRole != state.RoleOwner {
				return fmt.Sprintf("state %s requires role owner, got %s", d.State, d.OrgRole)
			}
		}
		return ""
	}},
}

// Validate evaluates every rule against d and returns all violations in rule
// order. The decision is never mutated.
func Validate(d *state.Decision) []Violation {
	if d == nil {
		return []Violation{{
			Kind:    KindStateOutOfRange,
			Message: "nil decision",
		}}
	}
	var out []Violation
	for _, r := range rules {
		msg := r.check(d)
		if msg == "" {
			continue
		}
		out = append(out, Violation{
			Kind:    r.kind,
			Message: msg,
			Fields: map[string]string{
				"state":         d.State.String(),
				"principal_id":  d.PrincipalID,
				"account_type":  d.AccountType.String(),
				"org_id":        d.OrgID,
				"org_role":      d.OrgRole.String(),
				"has_workspace": fmt.Sprintf("%t", d.HasWorkspace),
			},
		})
	}
	return out
}
