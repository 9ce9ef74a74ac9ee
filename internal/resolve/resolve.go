// Package resolve orchestrates one lifecycle resolution: the ordered
// early-exit checks, the concurrent fact fan-out, and the account-type
// branch tables. The root resolver builds Deps once and delegates every
// Resolve call here.
//
// # What this package must NOT do
//
//   - Export types that appear in the public API (the root package aliases
//     internal/state for that).
//   - Return a partially-built decision: either the outcome is complete or
//     the call fails with the context's error.
package resolve

import (
	"context"
	"errors"

	"github.com/orvanta/lifegate/internal/state"
)

// Membership is the org-membership fact returned by lookups.
type Membership struct {
	OrgID  string
	Role   state.OrgRole
	Status state.MemberStatus
}

// OrgDisplay carries best-effort organization display fields.
type OrgDisplay struct {
	Name     string
	ImageURL string
}

// Workspace is the workspace-membership existence fact. Which membership is
// returned when the principal holds several is unspecified.
type Workspace struct {
	WorkspaceID string
}

// Deps captures every lookup and side channel a resolution needs. All lookup
// funcs treat (nil, nil) as "fact absent". The root engine wires this once
// from the configured providers.
type Deps struct {
	// Fan-out toggle. When false the lookups run sequentially in the same
	// documented order, which some callers prefer under test.
	ConcurrentLookups bool

	GetPrimaryMembership func(ctx context.Context, principalID, orgID string) (*Membership, error)
	GetAnyMembership     func(ctx context.Context, principalID string) (*Membership, error)
	GetOrganization      func(ctx context.Context, orgID string) (*OrgDisplay, error)
	GetWorkspace         func(ctx context.Context, principalID string) (*Workspace, error)
	GetBillingStatus     func(ctx context.Context, scopeID string, scope state.BillingScope) (state.BillingStatus, error)

	// OnDegraded is invoked when an optional lookup failed and was treated
	// as an absent fact. Never invoked for context cancellation.
	OnDegraded func(lookup string, err error)
	// OnFallback is invoked when a defensive, unreachable-by-contract
	// branch was taken.
	OnFallback func(detail string)
}

// earlyRule is one pre-lookup check. Rules are evaluated strictly in slice
// order; the first hit wins.
type earlyRule struct {
	name  string
	match func(p *state.Principal) bool
	state state.State
}

// earlyRules encodes evaluation-order steps that need no lookups. Order is
// load-bearing: the reset-password flag dominates every other fact
// including deletion, deletion dominates unverified email, which dominates
// the missing account type.
var earlyRules = []earlyRule{
	{name: "must_reset_password", match: func(p *state.Principal) bool { return p.MustResetPassword }, state: state.StateMustResetPassword},
	{name: "deleted", match: func(p *state.Principal) bool { return p.Deleted }, state: state.StateDeleted},
	{name: "email_unverified", match: func(p *state.Principal) bool { return !p.EmailVerified }, state: state.StateEmailUnverified},
	{name: "account_type_pending", match: func(p *state.Principal) bool { return p.AccountType == state.AccountTypeUnset }, state: state.StateAccountTypePending},
}

// orgRoleBranch maps an org role to its workspace-dependent state pair.
type orgRoleBranch struct {
	noWorkspace state.State
	active      state.State
}

var orgRoleBranches = map[state.OrgRole]orgRoleBranch{
	state.RoleOwner:     {state.StateOrgOwnerNoWorkspace, state.StateOrgOwnerActive},
	state.RoleAdmin:     {state.StateOrgAdminNoWorkspace, state.StateOrgAdminActive},
	state.RoleModerator: {state.StateOrgAdminNoWorkspace, state.StateOrgAdminActive},
}

// memberBranch is the branch for RoleMember and any role outside the map.
var memberBranch = orgRoleBranch{state.StateOrgMemberNoWorkspace, state.StateOrgMemberActive}

// Run performs one resolution. The returned Decision has no routing fields
// yet; the root engine attaches those from the routing table.
func Run(ctx context.Context, p *state.Principal, d Deps) (state.Decision, error) {
	if p == nil {
		return state.Decision{State: state.StateUnauthenticated}, nil
	}

	out := state.Decision{
		PrincipalID:       p.ID,
		AccountType:       p.AccountType,
		MustResetPassword: p.MustResetPassword,
		EmailVerified:     p.EmailVerified,
	}

	for _, rule := range earlyRules {
		if rule.match(p) {
			out.State = rule.state
			return out, nil
		}
	}

	switch p.AccountType {
	case state.AccountTypeIndividual, state.AccountTypeOrg:
	default:
		// Unreachable by contract: account types outside the enumeration
		// fall to the most restrictive state rather than guessing.
		if d.OnFallback != nil {
			d.OnFallback("unknown account type " + p.AccountType.String())
		}
		return state.Decision{State: state.StateUnauthenticated, PrincipalID: p.ID}, nil
	}

	facts, err := gather(ctx, p, d)
	if err != nil {
		return state.Decision{}, err
	}
	out.OrgID = facts.orgID
	out.OrgName = facts.orgName
	out.OrgImageURL = facts.orgImageURL
	out.OrgRole = facts.role
	out.OrgMemberStatus = facts.memberStatus
	out.WorkspaceID = facts.workspaceID
	out.HasWorkspace = facts.hasWorkspace
	out.BillingStatus = facts.billing

	// Suspension dominates org and workspace branching but never the
	// early-exit checks above.
	if facts.billing == state.BillingSuspended {
		out.State = state.StateSuspended
		return out, nil
	}

	if p.AccountType == state.AccountTypeIndividual {
		if !facts.hasWorkspace {
			out.State = state.StateIndividualOnboarding
		} else {
			out.State = state.StateIndividualActive
		}
		return out, nil
	}

	if facts.orgID == "" {
		// Membership is a prerequisite for every org role except an owner
		// who has not created the organization yet, so this branch assumes
		// an eventual owner. A degraded membership lookup can also land
		// here; gather flags that case for the audit trail.
		out.State = state.StateOrgOwnerOnboarding
		return out, nil
	}

	if facts.memberStatus == state.MemberStatusInvited {
		out.State = state.StateOrgMemberPending
		return out, nil
	}

	branch, ok := orgRoleBranches[facts.role]
	if !ok {
		branch = memberBranch
	}
	if !facts.hasWorkspace {
		out.State = branch.noWorkspace
	} else {
		out.State = branch.active
	}
	return out, nil
}

type gatheredFacts struct {
	orgID        string
	orgName      string
	orgImageURL  string
	role         state.OrgRole
	memberStatus state.MemberStatus
	workspaceID  string
	hasWorkspace bool
	billing      state.BillingStatus
}

// gather runs the read-only fact lookups. The workspace check is independent
// of everything else and fans out concurrently; billing waits on the
// membership result because org accounts bill against the resolved org id.
// Lookup failures degrade to absent facts, except cancellation, which aborts
// the whole resolution.
func gather(ctx context.Context, p *state.Principal, d Deps) (gatheredFacts, error) {
	var facts gatheredFacts

	type workspaceResult struct {
		ws  *Workspace
		err error
	}
	var wsCh chan workspaceResult
	if d.ConcurrentLookups {
		wsCh = make(chan workspaceResult, 1)
		go func() {
			ws, err := lookupWorkspace(ctx, p.ID, d)
			wsCh <- workspaceResult{ws, err}
		}()
	}

	if p.AccountType == state.AccountTypeOrg {
		membership, err := lookupMembership(ctx, p, d)
		if err != nil {
			return gatheredFacts{}, err
		}
		if membership != nil {
			facts.orgID = membership.OrgID
			facts.role = membership.Role
			facts.memberStatus = membership.Status

			display, err := optional(ctx, d, "organization", func() (*OrgDisplay, error) {
				return d.GetOrganization(ctx, membership.OrgID)
			})
			if err != nil {
				return gatheredFacts{}, err
			}
			if display != nil {
				facts.orgName = display.Name
				facts.orgImageURL = display.ImageURL
			}
		}
	}

	billingScope, billingID := state.ScopePrincipal, p.ID
	if p.AccountType == state.AccountTypeOrg {
		billingScope, billingID = state.ScopeOrganization, facts.orgID
	}
	if billingID != "" && d.GetBillingStatus != nil {
		status, err := d.GetBillingStatus(ctx, billingID, billingScope)
		switch {
		case err == nil:
			facts.billing = status
		case isCancellation(ctx, err):
			return gatheredFacts{}, ctxError(ctx, err)
		default:
			if d.OnDegraded != nil {
				d.OnDegraded("billing", err)
			}
		}
	}

	var ws *Workspace
	var wsErr error
	if d.ConcurrentLookups {
		res := <-wsCh
		ws, wsErr = res.ws, res.err
	} else {
		ws, wsErr = lookupWorkspace(ctx, p.ID, d)
	}
	if wsErr != nil {
		return gatheredFacts{}, wsErr
	}
	if ws != nil {
		facts.workspaceID = ws.WorkspaceID
		facts.hasWorkspace = true
	}

	if err := ctx.Err(); err != nil {
		return gatheredFacts{}, err
	}
	return facts, nil
}

// lookupMembership resolves the principal's organization membership: the
// primary organization preference first, then any membership. First match
// wins; one principal is expected to hold at most one active membership.
func lookupMembership(ctx context.Context, p *state.Principal, d Deps) (*Membership, error) {
	if p.PrimaryOrgID != "" && d.GetPrimaryMembership != nil {
		m, err := optional(ctx, d, "primary_membership", func() (*Membership, error) {
			return d.GetPrimaryMembership(ctx, p.ID, p.PrimaryOrgID)
		})
		if err != nil {
			return nil, err
		}
		if m != nil {
			return m, nil
		}
	}
	if d.GetAnyMembership == nil {
		return nil, nil
	}
	return optional(ctx, d, "membership", func() (*Membership, error) {
		return d.GetAnyMembership(ctx, p.ID)
	})
}

func lookupWorkspace(ctx context.Context, principalID string, d Deps) (*Workspace, error) {
	if d.GetWorkspace == nil {
		return nil, nil
	}
	return optional(ctx, d, "workspace", func() (*Workspace, error) {
		return d.GetWorkspace(ctx, principalID)
	})
}

// optional runs a lookup whose failure degrades to an absent fact.
// Cancellation is never degraded: it aborts the resolution so the caller is
// not handed a decision built from half the facts.
func optional[T any](ctx context.Context, d Deps, name string, fn func() (*T, error)) (*T, error) {
	v, err := fn()
	if err == nil {
		return v, nil
	}
	if isCancellation(ctx, err) {
		return nil, ctxError(ctx, err)
	}
	if d.OnDegraded != nil {
		d.OnDegraded(name, err)
	}
	return nil, nil
}

func isCancellation(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func ctxError(ctx context.Context, err error) error {
	if cerr := ctx.Err(); cerr != nil {
		return cerr
	}
	return err
}
