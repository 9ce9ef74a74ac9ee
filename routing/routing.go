// Package routing maps each lifecycle state to its compiled-in routing entry
// and implements path pattern matching over an entry's pattern sets.
//
// The table is process-wide constant data: built once at init, read-only
// afterwards, safe to share across all concurrent resolutions without
// synchronization. Unknown states map to the most restrictive entry.
package routing

import "github.com/orvanta/lifegate/internal/state"

// Canonical application surfaces referenced by the table. Callers that mount
// the application elsewhere should wrap the matcher with their own prefix.
const (
	PathSignIn            = "/auth/signin"
	PathVerifyEmail       = "/auth/verify-email"
	PathResetPassword     = "/auth/reset-password"
	PathAccountType       = "/onboarding/account-type"
	PathIndividualSetup   = "/onboarding/individual"
	PathOrganizationSetup = "/onboarding/organization"
	PathWorkspaceSetup    = "/onboarding/workspace"
	PathWelcome           = "/onboarding/welcome"
	PathInvitations       = "/invitations"
	PathProfile           = "/profile"
	PathBilling           = "/billing"
	PathOrganization      = "/organization"
	PathWorkspaces        = "/workspaces"
	PathDashboard         = "/dashboard"
)

// Entry is one immutable routing record: where the state must be redirected
// and which path patterns it may or may not reach. Pattern slices are shared
// constant data and must not be mutated by callers.
type Entry struct {
	RedirectTo string
	Allowed    []string
	Blocked    []string
}

// fallback is served for any state outside the enumeration: sign-in
// redirect, empty allow list, blanket block.
var fallback = Entry{
	RedirectTo: PathSignIn,
	Blocked:    []string{"*"},
}

var table = [...]Entry{
	state.StateUnauthenticated: {
		RedirectTo: PathSignIn,
		Allowed:    []string{PathSignIn, PathResetPassword},
		Blocked:    []string{"*"},
	},
	state.StateEmailUnverified: {
		RedirectTo: PathVerifyEmail,
		Allowed:    []string{PathVerifyEmail, PathSignIn, PathProfile},
		Blocked:    []string{"*"},
	},
	state.StateAccountTypePending: {
		RedirectTo: PathAccountType,
		Allowed:    []string{PathAccountType, PathProfile},
		Blocked:    []string{"*"},
	},
	state.StateIndividualOnboarding: {
		RedirectTo: PathWorkspaceSetup,
		Allowed:    []string{PathIndividualSetup, PathWorkspaceSetup, PathWelcome, PathProfile, PathBilling},
		Blocked:    []string{PathWorkspaces + "/*", PathDashboard},
	},
	state.StateIndividualActive: {
		Allowed: []string{"*"},
		Blocked: []string{PathIndividualSetup, PathWorkspaceSetup, PathWelcome, PathAccountType},
	},
	state.StateOrgOwnerOnboarding: {
		RedirectTo: PathOrganizationSetup,
		Allowed:    []string{PathOrganizationSetup, PathWelcome, PathProfile, PathBilling},
		Blocked:    []string{PathWorkspaces + "/*", PathDashboard, PathOrganization + "/*"},
	},
	state.StateOrgOwnerNoWorkspace: {
		RedirectTo: PathWorkspaceSetup,
		Allowed:    []string{PathWorkspaceSetup, PathWelcome, PathProfile, PathBilling, PathOrganization},
		Blocked:    []string{PathWorkspaces + "/*", PathDashboard},
	},
	state.StateOrgOwnerActive: {
		Allowed: []string{"*"},
		Blocked: []string{PathOrganizationSetup, PathWorkspaceSetup, PathWelcome, PathAccountType},
	},
	state.StateOrgAdminNoWorkspace: {
		RedirectTo: PathWorkspaceSetup,
		Allowed:    []string{PathWorkspaceSetup, PathWelcome, PathProfile, PathOrganization},
		Blocked:    []string{PathWorkspaces + "/*", PathDashboard, PathBilling},
	},
	state.StateOrgAdminActive: {
		Allowed: []string{"*"},
		Blocked: []string{PathOrganizationSetup, PathWorkspaceSetup, PathWelcome, PathAccountType},
	},
	state.StateOrgMemberPending: {
		RedirectTo: PathInvitations,
		Allowed:    []string{PathInvitations, PathInvitations + "/*", PathProfile},
		Blocked:    []string{"*"},
	},
	state.StateOrgMemberNoWorkspace: {
		RedirectTo: PathWorkspaceSetup,
		Allowed:    []string{PathWorkspaceSetup, PathWelcome, PathProfile},
		Blocked:    []string{PathWorkspaces + "/*", PathDashboard, PathOrganization + "/*", PathBilling},
	},
	state.StateOrgMemberActive: {
		Allowed: []string{"*"},
		Blocked: []string{PathOrganizationSetup, PathWorkspaceSetup, PathWelcome, PathAccountType},
	},
	state.StateSuspended: {
		RedirectTo: PathBilling,
		Allowed:    []string{PathBilling, PathProfile},
		Blocked:    []string{"*"},
	},
	state.StateDeleted: {
		RedirectTo: PathSignIn,
		Blocked:    []string{"*"},
	},
	state.StateMustResetPassword: {
		RedirectTo: PathResetPassword,
		Blocked:    []string{"*"},
	},
}

// For returns the routing entry for s. Total over the enumeration; any value
// outside it gets the most restrictive entry.
func For(s state.State) Entry {
	if !s.Valid() {
		return fallback
	}
	return table[s]
}

// MatchPattern reports whether path matches a single pattern.
//
// Semantics:
//   - "*" matches any path.
//   - "prefix/*" matches any path under prefix (but not prefix itself
//     spelled differently: "/workspaces/*" matches "/workspaces/123/tasks",
//     not "/workspacesX").
//   - anything else matches the exact path or a strict sub-path of it.
func MatchPattern(pattern, path string) bool {
	if pattern == "*" {
		return true
	}
	if n := len(pattern); n >= 2 && pattern[n-2] == '/' && pattern[n-1] == '*' {
		prefix := pattern[:n-2]
		return path == prefix || hasPathPrefix(path, prefix)
	}
	return path == pattern || hasPathPrefix(path, pattern)
}

func hasPathPrefix(path, prefix string) bool {
	if len(path) <= len(prefix) || path[:len(prefix)] != prefix {
		return false
	}
	return path[len(prefix)] == '/'
}

// Allowed decides reachability of path under e. The allow list wins on first
// match, then the block list denies on first match, and unlisted paths stay
// reachable. Allow-before-block is the accepted tie-break for entries that
// could match both ways.
func Allowed(e Entry, path string) bool {
	for _, p := range e.Allowed {
		if MatchPattern(p, path) {
			return true
		}
	}
	for _, p := range e.Blocked {
		if MatchPattern(p, path) {
			return false
		}
	}
	return true
}
