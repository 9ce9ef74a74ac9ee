package redisstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	lifegate "github.com/orvanta/lifegate"
	"github.com/redis/go-redis/v9"
)

func newStoreTest(t *testing.T) (*Store, *redis.Client, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := New(rdb, "lg")
	return store, rdb, func() {
		rdb.Close()
		mr.Close()
	}
}

func TestMembershipRoundTrip(t *testing.T) {
	store, _, done := newStoreTest(t)
	defer done()
	ctx := context.Background()

	rec := lifegate.MembershipRecord{
		OrgID:  "org-1",
		Role:   lifegate.RoleAdmin,
		Status: lifegate.MemberStatusActive,
	}
	if err := store.PutMembership(ctx, "p-1", rec, time.Hour); err != nil {
		t.Fatalf("put membership: %v", err)
	}

	got, err := store.GetPrimaryMembership(ctx, "p-1", "org-1")
	if err != nil {
		t.Fatalf("get primary membership: %v", err)
	}
	if got == nil || got.OrgID != "org-1" || got.Role != lifegate.RoleAdmin || got.Status != lifegate.MemberStatusActive {
		t.Fatalf("unexpected membership: %+v", got)
	}

	// The index key answers lookups that do not know the org.
	got, err = store.GetAnyMembership(ctx, "p-1")
	if err != nil {
		t.Fatalf("get any membership: %v", err)
	}
	if got == nil || got.OrgID != "org-1" {
		t.Fatalf("unexpected indexed membership: %+v", got)
	}
}

func TestMembershipAbsentIsNilNil(t *testing.T) {
	store, _, done := newStoreTest(t)
	defer done()
	ctx := context.Background()

	got, err := store.GetPrimaryMembership(ctx, "p-none", "org-none")
	if err != nil {
		t.Fatalf("expected absent fact without error, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil record, got %+v", got)
	}
}

func TestDeleteMembershipClearsIndex(t *testing.T) {
	store, _, done := newStoreTest(t)
	defer done()
	ctx := context.Background()

	rec := lifegate.MembershipRecord{OrgID: "org-1", Role: lifegate.RoleMember, Status: lifegate.MemberStatusInvited}
	if err := store.PutMembership(ctx, "p-1", rec, 0); err != nil {
		t.Fatalf("put membership: %v", err)
	}
	if err := store.DeleteMembership(ctx, "p-1", "org-1"); err != nil {
		t.Fatalf("delete membership: %v", err)
	}

	got, err := store.GetAnyMembership(ctx, "p-1")
	if err != nil || got != nil {
		t.Fatalf("expected cleared index, got %+v err %v", got, err)
	}
}

func TestOrganizationRoundTrip(t *testing.T) {
	store, _, done := newStoreTest(t)
	defer done()
	ctx := context.Background()

	rec := lifegate.OrganizationRecord{OrgID: "org-1", Name: "Acme", ImageURL: "https://img.example/acme.png"}
	if err := store.PutOrganization(ctx, rec, time.Hour); err != nil {
		t.Fatalf("put organization: %v", err)
	}

	got, err := store.GetOrganization(ctx, "org-1")
	if err != nil {
		t.Fatalf("get organization: %v", err)
	}
	if got == nil || got.OrgID != "org-1" || got.Name != "Acme" || got.ImageURL != "https://img.example/acme.png" {
		t.Fatalf("unexpected organization: %+v", got)
	}

	got, err = store.GetOrganization(ctx, "org-missing")
	if err != nil || got != nil {
		t.Fatalf("expected absent organization, got %+v err %v", got, err)
	}
}

func TestWorkspaceRoundTrip(t *testing.T) {
	store, _, done := newStoreTest(t)
	defer done()
	ctx := context.Background()

	if err := store.PutWorkspace(ctx, "p-1", "ws-7", 0); err != nil {
		t.Fatalf("put workspace: %v", err)
	}
	got, err := store.GetFirstMembership(ctx, "p-1")
	if err != nil {
		t.Fatalf("get workspace: %v", err)
	}
	if got == nil || got.WorkspaceID != "ws-7" {
		t.Fatalf("unexpected workspace: %+v", got)
	}

	if err := store.DeleteWorkspace(ctx, "p-1"); err != nil {
		t.Fatalf("delete workspace: %v", err)
	}
	got, err = store.GetFirstMembership(ctx, "p-1")
	if err != nil || got != nil {
		t.Fatalf("expected absent workspace, got %+v err %v", got, err)
	}
}

func TestBillingScopesAreDisjoint(t *testing.T) {
	store, _, done := newStoreTest(t)
	defer done()
	ctx := context.Background()

	if err := store.PutBillingStatus(ctx, "id-1", lifegate.ScopeOrganization, lifegate.BillingSuspended, 0); err != nil {
		t.Fatalf("put org billing: %v", err)
	}
	if err := store.PutBillingStatus(ctx, "id-1", lifegate.ScopePrincipal, lifegate.BillingActive, 0); err != nil {
		t.Fatalf("put principal billing: %v", err)
	}

	orgStatus, err := store.GetBillingStatus(ctx, "id-1", lifegate.ScopeOrganization)
	if err != nil || orgStatus != lifegate.BillingSuspended {
		t.Fatalf("org scope: got %v err %v", orgStatus, err)
	}
	principalStatus, err := store.GetBillingStatus(ctx, "id-1", lifegate.ScopePrincipal)
	if err != nil || principalStatus != lifegate.BillingActive {
		t.Fatalf("principal scope: got %v err %v", principalStatus, err)
	}
}

func TestBillingMissingIsUnknown(t *testing.T) {
	store, _, done := newStoreTest(t)
	defer done()

	status, err := store.GetBillingStatus(context.Background(), "id-none", lifegate.ScopeOrganization)
	if err != nil {
		t.Fatalf("expected no error for missing billing, got %v", err)
	}
	if status != lifegate.BillingUnknown {
		t.Fatalf("expected BillingUnknown, got %v", status)
	}
}

func TestCorruptRecordRejected(t *testing.T) {
	store, rdb, done := newStoreTest(t)
	defer done()
	ctx := context.Background()

	// Unknown codec version.
	if err := rdb.Set(ctx, store.membershipIndexKey("p-1"), []byte{0xFF, 0x00}, 0).Err(); err != nil {
		t.Fatalf("seed corrupt record: %v", err)
	}
	_, err := store.GetAnyMembership(ctx, "p-1")
	if !errors.Is(err, ErrCorruptRecord) {
		t.Fatalf("expected ErrCorruptRecord, got %v", err)
	}

	// Truncated string payload.
	if err := rdb.Set(ctx, store.organizationKey("org-1"), []byte{organizationCodecVersion, 0x00, 0x10, 'x'}, 0).Err(); err != nil {
		t.Fatalf("seed truncated record: %v", err)
	}
	_, err = store.GetOrganization(ctx, "org-1")
	if !errors.Is(err, ErrCorruptRecord) {
		t.Fatalf("expected ErrCorruptRecord, got %v", err)
	}
}

func TestUnavailableWrapsSentinel(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	store := New(rdb, "lg")
	mr.Close()

	_, err = store.GetAnyMembership(context.Background(), "p-1")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	_, err = store.GetBillingStatus(context.Background(), "id-1", lifegate.ScopePrincipal)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

var _ lifegate.OrganizationProvider = (*Store)(nil)
var _ lifegate.WorkspaceProvider = (*Store)(nil)
var _ lifegate.BillingProvider = (*Store)(nil)
