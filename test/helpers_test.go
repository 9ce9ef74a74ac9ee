//go:build integration
// +build integration

package test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	lifegate "github.com/orvanta/lifegate"
	"github.com/orvanta/lifegate/redisstore"
	"github.com/redis/go-redis/v9"
)

// integrationStack wires a resolver to Redis-backed providers over miniredis.
type integrationStack struct {
	resolver *lifegate.Resolver
	store    *redisstore.Store
	client   *redis.Client
}

func newIntegrationStack(t *testing.T) (*integrationStack, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := redisstore.New(rdb, "lg")

	resolver, err := lifegate.New().
		WithOrganizationProvider(store).
		WithWorkspaceProvider(store).
		WithBillingProvider(store).
		Build()
	if err != nil {
		t.Fatalf("build resolver: %v", err)
	}

	stack := &integrationStack{resolver: resolver, store: store, client: rdb}
	return stack, func() {
		resolver.Close()
		_ = rdb.Close()
		mr.Close()
	}
}

func seedActiveOwner(t *testing.T, store *redisstore.Store, principalID, orgID string) {
	t.Helper()
	ctx := context.Background()
	if err := store.PutMembership(ctx, principalID, lifegate.MembershipRecord{
		OrgID:  orgID,
		Role:   lifegate.RoleOwner,
		Status: lifegate.MemberStatusActive,
	}, 0); err != nil {
		t.Fatalf("seed membership: %v", err)
	}
	if err := store.PutOrganization(ctx, lifegate.OrganizationRecord{OrgID: orgID, Name: "Acme"}, 0); err != nil {
		t.Fatalf("seed organization: %v", err)
	}
	if err := store.PutWorkspace(ctx, principalID, "ws-1", 0); err != nil {
		t.Fatalf("seed workspace: %v", err)
	}
	if err := store.PutBillingStatus(ctx, orgID, lifegate.ScopeOrganization, lifegate.BillingActive, 0); err != nil {
		t.Fatalf("seed billing: %v", err)
	}
}
