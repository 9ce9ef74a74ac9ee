// Package lifegate provides an identity lifecycle and access-routing
// resolver: given read-only facts about a principal (authentication status,
// account category, organization membership, workspace membership, billing
// standing, password-reset and email-verification flags) it computes exactly
// one lifecycle state and derives, from that state alone, the redirect
// target and the path patterns the principal may currently reach.
//
// The package is designed for concurrent server workloads: Resolver methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build]. Every resolution builds a fresh [ResolvedLifecycle]; the
// routing table is process-wide constant data.
//
// # Architecture boundaries
//
// lifegate is the public surface. It exposes [Resolver], [Builder],
// [Config], the [LifecycleState] enumeration, and value types
// (ResolvedLifecycle, MetricsSnapshot, AuditEvent). Internal coordination —
// rule evaluation, fact fan-out, invariant checks, audit dispatch — lives
// under internal/ and is never exported directly.
//
// # What this package must NOT do
//
//   - Authenticate credentials or verify tokens; callers gather principal
//     facts (optionally with the jwt sub-package) before resolving.
//   - Enforce resource-level permissions; that is a separate capability
//     layer.
//   - Perform the redirect or render a response; it only computes the
//     answer. The middleware sub-package shows the caller-side contract.
//
// # Failure contract
//
// Optional fact lookups that fail degrade to absent facts and never abort a
// resolution. Context cancellation aborts the whole call; a partially-built
// decision is never returned. Invariant violations abort in [ModeStrict]
// and are logged-but-tolerated in [ModeTolerant]; downstream callers fail
// closed on blocked paths either way.
package lifegate
