package lifegate

import (
	"context"

	internalaudit "github.com/orvanta/lifegate/internal/audit"
	internalmetrics "github.com/orvanta/lifegate/internal/metrics"
	"github.com/orvanta/lifegate/internal/resolve"
)

// Builder wires a [Resolver] from its configuration and fact providers.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	organizations OrganizationProvider
	workspaces    WorkspaceProvider
	billing       BillingProvider
	auditSink     AuditSink

	built bool
}

// New returns a Builder preloaded with the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the configuration. The struct is copied; later caller
// mutations do not reach the built resolver.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithOrganizationProvider wires the organization membership and display
// lookups.
func (b *Builder) WithOrganizationProvider(p OrganizationProvider) *Builder {
	b.organizations = p
	return b
}

// WithWorkspaceProvider wires the workspace-membership existence check.
func (b *Builder) WithWorkspaceProvider(p WorkspaceProvider) *Builder {
	b.workspaces = p
	return b
}

// WithBillingProvider wires the billing status lookup.
func (b *Builder) WithBillingProvider(p BillingProvider) *Builder {
	b.billing = p
	return b
}

// WithAuditSink wires the destination for diagnostic events. Without a sink
// the dispatcher runs against a no-op sink (drop counting still works).
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// Build validates the wiring and returns a ready Resolver. A Builder can be
// consumed once.
func (b *Builder) Build() (*Resolver, error) {
	if b.built {
		return nil, ErrBuilderReused
	}
	if err := b.config.Validate(); err != nil {
		return nil, err
	}
	if b.organizations == nil {
		return nil, ErrOrganizationProviderRequired
	}
	if b.workspaces == nil {
		return nil, ErrWorkspaceProviderRequired
	}
	if b.billing == nil {
		return nil, ErrBillingProviderRequired
	}
	b.built = true

	r := &Resolver{
		config: b.config,
		audit: internalaudit.NewDispatcher(internalaudit.Config{
			Enabled:    b.config.Audit.Enabled,
			BufferSize: b.config.Audit.BufferSize,
			DropIfFull: b.config.Audit.DropIfFull,
		}, b.auditSink),
	}
	if b.config.Metrics.Enabled {
		r.metrics = internalmetrics.New()
	}
	r.baseDeps = b.lookupDeps()
	return r, nil
}

// lookupDeps adapts the provider interfaces to the flow-local lookup funcs.
// Built once; per-resolution side channels are attached by Resolve.
func (b *Builder) lookupDeps() resolve.Deps {
	orgs, workspaces, billing := b.organizations, b.workspaces, b.billing

	return resolve.Deps{
		ConcurrentLookups: b.config.Lookup.ConcurrentFanOut,
		GetPrimaryMembership: func(ctx context.Context, principalID, orgID string) (*resolve.Membership, error) {
			rec, err := orgs.GetPrimaryMembership(ctx, principalID, orgID)
			if err != nil || rec == nil {
				return nil, err
			}
			return &resolve.Membership{OrgID: rec.OrgID, Role: rec.Role, Status: rec.Status}, nil
		},
		GetAnyMembership: func(ctx context.Context, principalID string) (*resolve.Membership, error) {
			rec, err := orgs.GetAnyMembership(ctx, principalID)
			if err != nil || rec == nil {
				return nil, err
			}
			return &resolve.Membership{OrgID: rec.OrgID, Role: rec.Role, Status: rec.Status}, nil
		},
		GetOrganization: func(ctx context.Context, orgID string) (*resolve.OrgDisplay, error) {
			rec, err := orgs.GetOrganization(ctx, orgID)
			if err != nil || rec == nil {
				return nil, err
			}
			return &resolve.OrgDisplay{Name: rec.Name, ImageURL: rec.ImageURL}, nil
		},
		GetWorkspace: func(ctx context.Context, principalID string) (*resolve.Workspace, error) {
			rec, err := workspaces.GetFirstMembership(ctx, principalID)
			if err != nil || rec == nil {
				return nil, err
			}
			return &resolve.Workspace{WorkspaceID: rec.WorkspaceID}, nil
		},
		GetBillingStatus: func(ctx context.Context, scopeID string, scope BillingScope) (BillingStatus, error) {
			return billing.GetBillingStatus(ctx, scopeID, scope)
		},
	}
}
