package lifegate

import "github.com/orvanta/lifegate/internal/state"

// LifecycleState is one value from the closed enumeration describing where a
// principal stands in onboarding, activation, or restriction. Exactly one
// state is produced per resolution.
//
// Predicates ([LifecycleState.IsActive], [LifecycleState.RequiresOnboarding],
// [LifecycleState.IsPendingOrgMember], [LifecycleState.IsTerminal]) and the
// display label ([LifecycleState.Label]) are pure functions over the state
// alone.
type LifecycleState = state.State

const (
	// StateUnauthenticated is resolved for anonymous requests and is the
	// defensive fallback for unreachable-by-contract inputs.
	StateUnauthenticated = state.StateUnauthenticated
	// StateEmailUnverified means the principal exists but has not verified
	// its email address.
	StateEmailUnverified = state.StateEmailUnverified
	// StateAccountTypePending means the principal has not chosen between an
	// individual and an organization account.
	StateAccountTypePending = state.StateAccountTypePending
	// StateIndividualOnboarding is an individual account without a workspace.
	StateIndividualOnboarding = state.StateIndividualOnboarding
	// StateIndividualActive is a fully set-up individual account.
	StateIndividualActive = state.StateIndividualActive
	// StateOrgOwnerOnboarding is an org account with no organization
	// membership yet; only an eventual owner reaches this state.
	StateOrgOwnerOnboarding = state.StateOrgOwnerOnboarding
	// StateOrgOwnerNoWorkspace is an organization owner without a workspace.
	StateOrgOwnerNoWorkspace = state.StateOrgOwnerNoWorkspace
	// StateOrgOwnerActive is a fully set-up organization owner.
	StateOrgOwnerActive = state.StateOrgOwnerActive
	// StateOrgAdminNoWorkspace is an admin or moderator without a workspace.
	StateOrgAdminNoWorkspace = state.StateOrgAdminNoWorkspace
	// StateOrgAdminActive is a fully set-up admin or moderator.
	StateOrgAdminActive = state.StateOrgAdminActive
	// StateOrgMemberPending is an unaccepted invitation, regardless of the
	// invited role.
	StateOrgMemberPending = state.StateOrgMemberPending
	// StateOrgMemberNoWorkspace is an accepted member without a workspace.
	StateOrgMemberNoWorkspace = state.StateOrgMemberNoWorkspace
	// StateOrgMemberActive is a fully set-up organization member.
	StateOrgMemberActive = state.StateOrgMemberActive
	// StateSuspended means the billing scope is suspended; dominates org and
	// workspace branching.
	StateSuspended = state.StateSuspended
	// StateDeleted is terminal; callers must force logout.
	StateDeleted = state.StateDeleted
	// StateMustResetPassword blocks everything until the password is reset.
	StateMustResetPassword = state.StateMustResetPassword
)

// States returns every member of the enumeration in declaration order.
// Useful for exhaustive sweeps in tests and tooling.
func States() []LifecycleState {
	out := make([]LifecycleState, state.Count())
	for i := range out {
		out[i] = LifecycleState(i)
	}
	return out
}
