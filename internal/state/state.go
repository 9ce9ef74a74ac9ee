// Package state holds the canonical lifecycle enumerations and the decision
// model shared by the resolver, the invariant rules, and the routing table.
//
// # Architecture boundaries
//
// This package owns the closed LifecycleState enumeration, the fact
// enumerations (account type, org role, member status, billing status), and
// the Decision value. The root package re-exports them via type aliases.
//
// # What this package must NOT do
//
//   - Perform lookups or any I/O.
//   - Import the root package or any sibling package.
package state

// State is one value from the closed lifecycle enumeration.
type State uint8

const (
	// StateUnauthenticated is the zero value on purpose: an uninitialized
	// decision routes to the most restrictive surface.
	StateUnauthenticated State = iota
	StateEmailUnverified
	StateAccountTypePending
	StateIndividualOnboarding
	StateIndividualActive
	StateOrgOwnerOnboarding
	StateOrgOwnerNoWorkspace
	StateOrgOwnerActive
	StateOrgAdminNoWorkspace
	StateOrgAdminActive
	StateOrgMemberPending
	StateOrgMemberNoWorkspace
	StateOrgMemberActive
	StateSuspended
	StateDeleted
	StateMustResetPassword

	stateCount
)

// Count reports the number of states in the enumeration.
func Count() int { return int(stateCount) }

// Valid reports whether s is a member of the closed enumeration.
func (s State) Valid() bool { return s < stateCount }

var stateNames = [...]string{
	StateUnauthenticated:      "UNAUTHENTICATED",
	StateEmailUnverified:      "EMAIL_UNVERIFIED",
	StateAccountTypePending:   "ACCOUNT_TYPE_PENDING",
	StateIndividualOnboarding: "INDIVIDUAL_ONBOARDING",
	StateIndividualActive:     "INDIVIDUAL_ACTIVE",
	StateOrgOwnerOnboarding:   "ORG_OWNER_ONBOARDING",
	StateOrgOwnerNoWorkspace:  "ORG_OWNER_NO_WORKSPACE",
	StateOrgOwnerActive:       "ORG_OWNER_ACTIVE",
	StateOrgAdminNoWorkspace:  "ORG_ADMIN_NO_WORKSPACE",
	StateOrgAdminActive:       "ORG_ADMIN_ACTIVE",
	StateOrgMemberPending:     "ORG_MEMBER_PENDING",
	StateOrgMemberNoWorkspace: "ORG_MEMBER_NO_WORKSPACE",
	StateOrgMemberActive:      "ORG_MEMBER_ACTIVE",
	StateSuspended:            "SUSPENDED",
	StateDeleted:              "DELETED",
	StateMustResetPassword:    "MUST_RESET_PASSWORD",
}

// String returns the wire-stable uppercase name of the state. Out-of-range
// values render as UNKNOWN so logs never panic on a corrupted decision.
func (s State) String() string {
	if !s.Valid() {
		return "UNKNOWN"
	}
	return stateNames[s]
}

var stateLabels = [...]string{
	StateUnauthenticated:      "Signed out",
	StateEmailUnverified:      "Email verification required",
	StateAccountTypePending:   "Account type not chosen",
	StateIndividualOnboarding: "Setting up personal account",
	StateIndividualActive:     "Personal account active",
	StateOrgOwnerOnboarding:   "Creating organization",
	StateOrgOwnerNoWorkspace:  "Organization owner, no workspace yet",
	StateOrgOwnerActive:       "Organization owner",
	StateOrgAdminNoWorkspace:  "Organization admin, no workspace yet",
	StateOrgAdminActive:       "Organization admin",
	StateOrgMemberPending:     "Invitation pending",
	StateOrgMemberNoWorkspace: "Organization member, no workspace yet",
	StateOrgMemberActive:      "Organization member",
	StateSuspended:            "Account suspended",
	StateDeleted:              "Account deleted",
	StateMustResetPassword:    "Password reset required",
}

// Label returns a human-readable description of the state. Display only;
// never a control-flow input.
func (s State) Label() string {
	if !s.Valid() {
		return "Unknown"
	}
	return stateLabels[s]
}

// IsActive reports whether the state is one of the fully-activated states.
func (s State) IsActive() bool {
	switch s {
	case StateIndividualActive, StateOrgOwnerActive, StateOrgAdminActive, StateOrgMemberActive:
		return true
	}
	return false
}

// RequiresOnboarding reports whether the principal still has a setup step to
// finish before reaching an active state.
func (s State) RequiresOnboarding() bool {
	switch s {
	case StateAccountTypePending, StateIndividualOnboarding, StateOrgOwnerOnboarding,
		StateOrgOwnerNoWorkspace, StateOrgAdminNoWorkspace, StateOrgMemberNoWorkspace:
		return true
	}
	return false
}

// IsPendingOrgMember reports whether the principal holds an unaccepted
// organization invitation.
func (s State) IsPendingOrgMember() bool { return s == StateOrgMemberPending }

// IsTerminal reports whether the state blocks all normal navigation until an
// out-of-band action (payment, reset, nothing for deleted) completes.
func (s State) IsTerminal() bool {
	switch s {
	case StateSuspended, StateDeleted, StateMustResetPassword:
		return true
	}
	return false
}

// IsIndividualFamily reports whether the state belongs to the
// individual-account family.
func (s State) IsIndividualFamily() bool {
	return s == StateIndividualOnboarding || s == StateIndividualActive
}

// IsOrgFamily reports whether the state belongs to any organization family.
func (s State) IsOrgFamily() bool {
	switch s {
	case StateOrgOwnerOnboarding, StateOrgOwnerNoWorkspace, StateOrgOwnerActive,
		StateOrgAdminNoWorkspace, StateOrgAdminActive,
		StateOrgMemberPending, StateOrgMemberNoWorkspace, StateOrgMemberActive:
		return true
	}
	return false
}

// RequiresOrg reports whether the state may only be reached with a resolved
// organization id.
func (s State) RequiresOrg() bool {
	switch s {
	case StateOrgOwnerNoWorkspace, StateOrgOwnerActive,
		StateOrgAdminNoWorkspace, StateOrgAdminActive,
		StateOrgMemberPending, StateOrgMemberNoWorkspace, StateOrgMemberActive:
		return true
	}
	return false
}

// AccountType is the principal's chosen account category.
type AccountType uint8

const (
	// AccountTypeUnset means the principal has not picked a category yet.
	AccountTypeUnset AccountType = iota
	AccountTypeIndividual
	AccountTypeOrg
)

// String returns the lowercase wire name of the account type.
func (a AccountType) String() string {
	switch a {
	case AccountTypeUnset:
		return "unset"
	case AccountTypeIndividual:
		return "individual"
	case AccountTypeOrg:
		return "org"
	}
	return "invalid"
}

// OrgRole is the principal's role inside its organization.
type OrgRole uint8

const (
	RoleNone OrgRole = iota
	RoleOwner
	RoleAdmin
	RoleModerator
	RoleMember
)

// String returns the lowercase wire name of the role.
func (r OrgRole) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleAdmin:
		return "admin"
	case RoleModerator:
		return "moderator"
	case RoleMember:
		return "member"
	}
	return "none"
}

// MemberStatus is the acceptance status of an organization membership.
type MemberStatus uint8

const (
	MemberStatusNone MemberStatus = iota
	MemberStatusInvited
	MemberStatusActive
)

// String returns the lowercase wire name of the membership status.
func (m MemberStatus) String() string {
	switch m {
	case MemberStatusInvited:
		return "invited"
	case MemberStatusActive:
		return "active"
	}
	return "none"
}

// BillingStatus is the billing standing of the scope the principal bills
// against. Only BillingSuspended changes resolver control flow; every other
// value passes through.
type BillingStatus uint8

const (
	BillingUnknown BillingStatus = iota
	BillingActive
	BillingTrialing
	BillingPastDue
	BillingSuspended
)

// String returns the lowercase wire name of the billing status.
func (b BillingStatus) String() string {
	switch b {
	case BillingActive:
		return "active"
	case BillingTrialing:
		return "trialing"
	case BillingPastDue:
		return "past_due"
	case BillingSuspended:
		return "suspended"
	}
	return "unknown"
}

// BillingScope selects which id a billing lookup is keyed by.
type BillingScope uint8

const (
	// ScopePrincipal bills against the principal id (individual accounts).
	ScopePrincipal BillingScope = iota
	// ScopeOrganization bills against the organization id (org accounts).
	ScopeOrganization
)

// Principal carries the read-only identity facts the caller gathered for one
// resolution. A nil *Principal means the request is anonymous.
type Principal struct {
	ID                string
	EmailVerified     bool
	MustResetPassword bool
	Deleted           bool
	AccountType       AccountType
	// PrimaryOrgID is the principal's preferred organization, if any. The
	// resolver falls back to any membership when it is empty or stale.
	PrimaryOrgID string
}

// Decision is the assembled outcome of one resolution. Built fresh per call,
// never mutated after construction, discarded once the caller has its
// verdict.
type Decision struct {
	// ResolutionID correlates audit events and metrics for one call.
	ResolutionID string

	State       State
	PrincipalID string
	AccountType AccountType

	OrgID           string
	OrgName         string
	OrgImageURL     string
	OrgRole         OrgRole
	OrgMemberStatus MemberStatus

	WorkspaceID  string
	HasWorkspace bool

	MustResetPassword bool
	EmailVerified     bool
	BillingStatus     BillingStatus

	// RedirectTo is empty when the state has no forced destination.
	RedirectTo          string
	AllowedPathPatterns []string
	BlockedPathPatterns []string
}
