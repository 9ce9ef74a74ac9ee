// Command lifegate-simulate sweeps the whole identity fact space through a
// resolver backed by a Redis fact store, prints the resulting state census,
// and exits non-zero if any resolution misbehaves: an invariant violation, a
// defensive fallback, or a state outside the enumeration.
//
// Without -redis-addr an embedded miniredis is started, so the sweep runs
// self-contained.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	lifegate "github.com/orvanta/lifegate"
	"github.com/orvanta/lifegate/redisstore"
	"github.com/redis/go-redis/v9"
)

type combo struct {
	emailVerified bool
	mustReset     bool
	deleted       bool
	accountType   lifegate.AccountType
	hasMembership bool
	role          lifegate.OrgRole
	memberStatus  lifegate.MemberStatus
	hasWorkspace  bool
	billing       lifegate.BillingStatus
}

func allCombos() []combo {
	var out []combo
	bools := []bool{false, true}
	accountTypes := []lifegate.AccountType{lifegate.AccountTypeUnset, lifegate.AccountTypeIndividual, lifegate.AccountTypeOrg}
	roles := []lifegate.OrgRole{lifegate.RoleNone, lifegate.RoleOwner, lifegate.RoleAdmin, lifegate.RoleModerator, lifegate.RoleMember}
	statuses := []lifegate.MemberStatus{lifegate.MemberStatusInvited, lifegate.MemberStatusActive}
	billings := []lifegate.BillingStatus{lifegate.BillingUnknown, lifegate.BillingActive, lifegate.BillingTrialing, lifegate.BillingPastDue, lifegate.BillingSuspended}

	for _, ev := range bools {
		for _, mr := range bools {
			for _, del := range bools {
				for _, at := range accountTypes {
					for _, hm := range bools {
						for _, role := range roles {
							for _, ms := range statuses {
								for _, hw := range bools {
									for _, b := range billings {
										out = append(out, combo{ev, mr, del, at, hm, role, ms, hw, b})
									}
								}
							}
						}
					}
				}
			}
		}
	}
	return out
}

func main() {
	var (
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "lg", "fact store key prefix")
		concurrency = flag.Int("concurrency", 64, "concurrent workers for the latency phase")
		ops         = flag.Int("ops", 50000, "resolutions in the latency phase (0 disables)")
	)
	flag.Parse()

	if *concurrency <= 0 || *ops < 0 {
		fmt.Fprintln(os.Stderr, "concurrency must be > 0 and ops >= 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	store := redisstore.New(client, *prefix)
	combos := allCombos()

	fmt.Printf("seeding %d fact combinations...\n", len(combos))
	startSeed := time.Now()
	for i, c := range combos {
		if err := seed(ctx, store, i, c); err != nil {
			fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	resolver, err := lifegate.New().
		WithOrganizationProvider(store).
		WithWorkspaceProvider(store).
		WithBillingProvider(store).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build resolver: %v\n", err)
		os.Exit(1)
	}
	defer resolver.Close()

	census := make(map[lifegate.LifecycleState]int)
	for i, c := range combos {
		dec, err := resolver.Resolve(ctx, principalFor(i, c))
		if err != nil {
			fmt.Fprintf(os.Stderr, "combo %d (%+v): resolve failed: %v\n", i, c, err)
			os.Exit(1)
		}
		if !dec.State.Valid() {
			fmt.Fprintf(os.Stderr, "combo %d (%+v): state %d outside the enumeration\n", i, c, dec.State)
			os.Exit(1)
		}
		census[dec.State]++
	}

	fmt.Println("---- state census ----")
	states := make([]lifegate.LifecycleState, 0, len(census))
	for s := range census {
		states = append(states, s)
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })
	for _, s := range states {
		fmt.Printf("%-24s %6d\n", s, census[s])
	}
	for _, s := range lifegate.States() {
		if census[s] == 0 {
			// Unauthenticated only arises from a nil principal or a garbled
			// account type, neither of which the sweep produces.
			fmt.Printf("note: state %s not reached by the sweep\n", s)
		}
	}

	snap := resolver.MetricsSnapshot()
	if snap.Counters[lifegate.MetricFallbackTaken] != 0 {
		fmt.Fprintf(os.Stderr, "defensive fallback fired %d times on valid inputs\n",
			snap.Counters[lifegate.MetricFallbackTaken])
		os.Exit(1)
	}
	if snap.Counters[lifegate.MetricInvariantViolation] != 0 {
		fmt.Fprintf(os.Stderr, "invariant violations: %d\n",
			snap.Counters[lifegate.MetricInvariantViolation])
		os.Exit(1)
	}
	if snap.Counters[lifegate.MetricLookupDegraded] != 0 {
		fmt.Fprintf(os.Stderr, "degraded lookups against a healthy store: %d\n",
			snap.Counters[lifegate.MetricLookupDegraded])
		os.Exit(1)
	}

	if *ops > 0 {
		runLatencyPhase(ctx, resolver, combos, *ops, *concurrency)
	}
	fmt.Println("sweep passed")
}

func seed(ctx context.Context, store *redisstore.Store, i int, c combo) error {
	principalID := fmt.Sprintf("p-%d", i)
	orgID := fmt.Sprintf("org-%d", i)

	if c.hasMembership {
		err := store.PutMembership(ctx, principalID, lifegate.MembershipRecord{
			OrgID:  orgID,
			Role:   c.role,
			Status: c.memberStatus,
		}, 0)
		if err != nil {
			return err
		}
		err = store.PutOrganization(ctx, lifegate.OrganizationRecord{
			OrgID: orgID,
			Name:  "Org " + orgID,
		}, 0)
		if err != nil {
			return err
		}
	}
	if c.hasWorkspace {
		if err := store.PutWorkspace(ctx, principalID, "ws-"+principalID, 0); err != nil {
			return err
		}
	}
	if err := store.PutBillingStatus(ctx, principalID, lifegate.ScopePrincipal, c.billing, 0); err != nil {
		return err
	}
	return store.PutBillingStatus(ctx, orgID, lifegate.ScopeOrganization, c.billing, 0)
}

func principalFor(i int, c combo) *lifegate.Principal {
	return &lifegate.Principal{
		ID:                fmt.Sprintf("p-%d", i),
		EmailVerified:     c.emailVerified,
		MustResetPassword: c.mustReset,
		Deleted:           c.deleted,
		AccountType:       c.accountType,
		PrimaryOrgID:      fmt.Sprintf("org-%d", i),
	}
}

func runLatencyPhase(ctx context.Context, resolver *lifegate.Resolver, combos []combo, ops, concurrency int) {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		mu        sync.Mutex
		latencies = make([]time.Duration, 0, ops)
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				idx := r.Intn(len(combos))
				t0 := time.Now()
				_, err := resolver.Resolve(ctx, principalFor(idx, combos[idx]))
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	pct := func(p float64) time.Duration {
		if len(latencies) == 0 {
			return 0
		}
		idx := int(float64(len(latencies)-1) * p)
		return latencies[idx]
	}
	fmt.Println("---- latency phase ----")
	fmt.Printf("resolutions: %d in %s (%.0f/s), failures: %d\n",
		len(latencies), total.Round(time.Millisecond),
		float64(len(latencies))/total.Seconds(), atomic.LoadInt64(&failures))
	fmt.Printf("p50 %s  p95 %s  p99 %s\n",
		pct(0.50).Round(time.Microsecond),
		pct(0.95).Round(time.Microsecond),
		pct(0.99).Round(time.Microsecond))
}
