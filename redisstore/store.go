// Package redisstore implements the lifegate fact-provider interfaces on
// top of Redis, for deployments that project identity, workspace, and
// billing facts into a shared cache. Records are stored as small versioned
// binary values under a configurable key prefix.
//
// The store is read-mostly: Resolve-path lookups are single GETs. The Put
// methods exist for the projection jobs that maintain the facts (and for
// tests); they are not called by the resolver.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	lifegate "github.com/orvanta/lifegate"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrUnavailable wraps every Redis transport failure.
	ErrUnavailable = errors.New("fact store unavailable")
	// ErrCorruptRecord reports a value that failed to decode.
	ErrCorruptRecord = errors.New("fact store record corrupt")
)

// Store implements [lifegate.OrganizationProvider],
// [lifegate.WorkspaceProvider], and [lifegate.BillingProvider].
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// New creates a Store. An empty prefix defaults to "lg".
func New(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "lg"
	}
	return &Store{redis: client, prefix: prefix}
}

func (s *Store) membershipKey(principalID, orgID string) string {
	return s.prefix + ":m:" + principalID + ":" + orgID
}

// membershipIndexKey points at the principal's single membership record.
// Projections overwrite it when the membership changes organization.
func (s *Store) membershipIndexKey(principalID string) string {
	return s.prefix + ":mi:" + principalID
}

func (s *Store) organizationKey(orgID string) string {
	return s.prefix + ":o:" + orgID
}

func (s *Store) workspaceKey(principalID string) string {
	return s.prefix + ":w:" + principalID
}

func (s *Store) billingKey(scopeID string, scope lifegate.BillingScope) string {
	if scope == lifegate.ScopeOrganization {
		return s.prefix + ":b:o:" + scopeID
	}
	return s.prefix + ":b:p:" + scopeID
}

// GetPrimaryMembership returns the membership record projected for the
// principal in the given organization, or nil when none exists.
func (s *Store) GetPrimaryMembership(ctx context.Context, principalID, orgID string) (*lifegate.MembershipRecord, error) {
	return s.getMembership(ctx, s.membershipKey(principalID, orgID))
}

// GetAnyMembership returns the principal's membership record regardless of
// organization, or nil when none exists.
func (s *Store) GetAnyMembership(ctx context.Context, principalID string) (*lifegate.MembershipRecord, error) {
	return s.getMembership(ctx, s.membershipIndexKey(principalID))
}

func (s *Store) getMembership(ctx context.Context, key string) (*lifegate.MembershipRecord, error) {
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	rec, err := decodeMembership(data)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// GetOrganization returns display fields for an organization, or nil when
// the organization is not projected.
func (s *Store) GetOrganization(ctx context.Context, orgID string) (*lifegate.OrganizationRecord, error) {
	data, err := s.redis.Get(ctx, s.organizationKey(orgID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	rec, err := decodeOrganization(data)
	if err != nil {
		return nil, err
	}
	rec.OrgID = orgID
	return rec, nil
}

// GetFirstMembership returns one workspace membership for the principal, or
// nil when the principal belongs to none.
func (s *Store) GetFirstMembership(ctx context.Context, principalID string) (*lifegate.WorkspaceRecord, error) {
	workspaceID, err := s.redis.Get(ctx, s.workspaceKey(principalID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if workspaceID == "" {
		return nil, nil
	}
	return &lifegate.WorkspaceRecord{WorkspaceID: workspaceID}, nil
}

// GetBillingStatus returns the billing standing projected for the scope.
// Missing records report [lifegate.BillingUnknown] without error.
func (s *Store) GetBillingStatus(ctx context.Context, scopeID string, scope lifegate.BillingScope) (lifegate.BillingStatus, error) {
	data, err := s.redis.Get(ctx, s.billingKey(scopeID, scope)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return lifegate.BillingUnknown, nil
		}
		return lifegate.BillingUnknown, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return decodeBilling(data)
}

// PutMembership projects a membership record, updating both the per-org key
// and the principal's membership index. ttl of zero stores without expiry.
func (s *Store) PutMembership(ctx context.Context, principalID string, rec lifegate.MembershipRecord, ttl time.Duration) error {
	encoded, err := encodeMembership(&rec)
	if err != nil {
		return err
	}
	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.membershipKey(principalID, rec.OrgID), encoded, ttl)
		pipe.Set(ctx, s.membershipIndexKey(principalID), encoded, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// DeleteMembership removes the principal's membership projection.
func (s *Store) DeleteMembership(ctx context.Context, principalID, orgID string) error {
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.membershipKey(principalID, orgID))
		pipe.Del(ctx, s.membershipIndexKey(principalID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// PutOrganization projects organization display fields.
func (s *Store) PutOrganization(ctx context.Context, rec lifegate.OrganizationRecord, ttl time.Duration) error {
	encoded, err := encodeOrganization(&rec)
	if err != nil {
		return err
	}
	if err := s.redis.Set(ctx, s.organizationKey(rec.OrgID), encoded, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// PutWorkspace projects the principal's first workspace membership.
func (s *Store) PutWorkspace(ctx context.Context, principalID, workspaceID string, ttl time.Duration) error {
	if err := s.redis.Set(ctx, s.workspaceKey(principalID), workspaceID, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// DeleteWorkspace removes the principal's workspace projection.
func (s *Store) DeleteWorkspace(ctx context.Context, principalID string) error {
	if err := s.redis.Del(ctx, s.workspaceKey(principalID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// PutBillingStatus projects the billing standing for a scope.
func (s *Store) PutBillingStatus(ctx context.Context, scopeID string, scope lifegate.BillingScope, status lifegate.BillingStatus, ttl time.Duration) error {
	if err := s.redis.Set(ctx, s.billingKey(scopeID, scope), encodeBilling(status), ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
