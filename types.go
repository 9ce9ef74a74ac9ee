package lifegate

import (
	"context"
	"io"

	internalaudit "github.com/orvanta/lifegate/internal/audit"
	internalmetrics "github.com/orvanta/lifegate/internal/metrics"
	"github.com/orvanta/lifegate/internal/state"
)

// Principal carries the read-only identity facts gathered by the caller for
// one resolution. A nil *Principal resolves to [StateUnauthenticated].
type Principal = state.Principal

// ResolvedLifecycle is the decision object returned by [Resolver.Resolve]:
// exactly one state, the facts that produced it, and the routing verdict
// derived from the state. Created fresh per call and never mutated after
// construction.
type ResolvedLifecycle = state.Decision

// AccountType is the principal's chosen account category.
type AccountType = state.AccountType

const (
	// AccountTypeUnset means the principal has not picked a category yet.
	AccountTypeUnset = state.AccountTypeUnset
	// AccountTypeIndividual is a personal account billed against the principal id.
	AccountTypeIndividual = state.AccountTypeIndividual
	// AccountTypeOrg is an organization account billed against the organization id.
	AccountTypeOrg = state.AccountTypeOrg
)

// OrgRole is the principal's role inside its organization.
type OrgRole = state.OrgRole

const (
	RoleNone      = state.RoleNone
	RoleOwner     = state.RoleOwner
	RoleAdmin     = state.RoleAdmin
	RoleModerator = state.RoleModerator
	RoleMember    = state.RoleMember
)

// MemberStatus is the acceptance status of an organization membership.
type MemberStatus = state.MemberStatus

const (
	MemberStatusNone    = state.MemberStatusNone
	MemberStatusInvited = state.MemberStatusInvited
	MemberStatusActive  = state.MemberStatusActive
)

// BillingStatus is the billing standing of the scope the principal bills
// against. Only [BillingSuspended] changes resolver control flow.
type BillingStatus = state.BillingStatus

const (
	BillingUnknown   = state.BillingUnknown
	BillingActive    = state.BillingActive
	BillingTrialing  = state.BillingTrialing
	BillingPastDue   = state.BillingPastDue
	BillingSuspended = state.BillingSuspended
)

// BillingScope selects which id a billing lookup is keyed by.
type BillingScope = state.BillingScope

const (
	// ScopePrincipal bills against the principal id (individual accounts).
	ScopePrincipal = state.ScopePrincipal
	// ScopeOrganization bills against the organization id (org accounts).
	ScopeOrganization = state.ScopeOrganization
)

// MembershipRecord is an organization membership returned by an
// [OrganizationProvider].
type MembershipRecord struct {
	OrgID  string
	Role   OrgRole
	Status MemberStatus
}

// OrganizationRecord carries best-effort organization display fields.
type OrganizationRecord struct {
	OrgID    string
	Name     string
	ImageURL string
}

// WorkspaceRecord is the workspace-membership existence fact. When the
// principal belongs to several workspaces the provider returns any one of
// them; the pick is unspecified and must not be relied on.
type WorkspaceRecord struct {
	WorkspaceID string
}

// OrganizationProvider looks up organization memberships and display
// records. All methods treat (nil, nil) as "fact absent"; errors other than
// context cancellation are degraded to absent facts by the resolver.
type OrganizationProvider interface {
	// GetPrimaryMembership returns the principal's membership in its
	// preferred organization, or nil when none exists.
	GetPrimaryMembership(ctx context.Context, principalID, orgID string) (*MembershipRecord, error)
	// GetAnyMembership returns any membership held by the principal. First
	// match wins; a principal is expected to hold at most one active
	// membership.
	GetAnyMembership(ctx context.Context, principalID string) (*MembershipRecord, error)
	// GetOrganization returns display fields for an organization.
	// Best-effort: failures leave display fields empty and never change
	// resolver control flow.
	GetOrganization(ctx context.Context, orgID string) (*OrganizationRecord, error)
}

// WorkspaceProvider answers the workspace-membership existence check.
type WorkspaceProvider interface {
	GetFirstMembership(ctx context.Context, principalID string) (*WorkspaceRecord, error)
}

// BillingProvider looks up the billing standing of a principal or an
// organization, depending on scope.
type BillingProvider interface {
	GetBillingStatus(ctx context.Context, scopeID string, scope BillingScope) (BillingStatus, error)
}

// AuditEvent is the structured diagnostic event emitted by the resolver.
type AuditEvent = internalaudit.Event

// AuditSink receives emitted audit events. Implementations must be safe for
// concurrent use.
type AuditSink = internalaudit.Sink

// NoOpSink drops audit events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink writes audit events into a buffered channel.
type ChannelSink = internalaudit.ChannelSink

// NewChannelSink creates a ChannelSink with the given buffer size.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// JSONWriterSink writes one JSON object per line to w.
type JSONWriterSink = internalaudit.JSONWriterSink

// NewJSONWriterSink creates a JSONWriterSink writing to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

// Audit event types, re-exported for sink consumers.
const (
	AuditEventResolved           = internalaudit.TypeResolved
	AuditEventLookupDegraded     = internalaudit.TypeLookupDegraded
	AuditEventFallbackTaken      = internalaudit.TypeFallbackTaken
	AuditEventInvariantViolation = internalaudit.TypeInvariantViolation
)

// MetricID identifies one counter or histogram slot.
type MetricID = internalmetrics.MetricID

const (
	MetricResolveTotal           = internalmetrics.MetricResolveTotal
	MetricResolveActive          = internalmetrics.MetricResolveActive
	MetricResolveOnboarding      = internalmetrics.MetricResolveOnboarding
	MetricResolvePendingMember   = internalmetrics.MetricResolvePendingMember
	MetricResolveSuspended       = internalmetrics.MetricResolveSuspended
	MetricResolveTerminal        = internalmetrics.MetricResolveTerminal
	MetricResolveUnauthenticated = internalmetrics.MetricResolveUnauthenticated
	MetricResolveCancelled       = internalmetrics.MetricResolveCancelled
	MetricLookupDegraded         = internalmetrics.MetricLookupDegraded
	MetricFallbackTaken          = internalmetrics.MetricFallbackTaken
	MetricInvariantViolation     = internalmetrics.MetricInvariantViolation
	MetricPathAllowed            = internalmetrics.MetricPathAllowed
	MetricPathBlocked            = internalmetrics.MetricPathBlocked

	// MetricResolveLatency is the single histogram slot.
	MetricResolveLatency = internalmetrics.MetricResolveLatency
)

// Metrics is the lock-free in-process metric registry.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time copy of every metric slot.
type MetricsSnapshot = internalmetrics.Snapshot
