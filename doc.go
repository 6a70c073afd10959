// Package objectpool provides a generic object pool: a bounded set of idle
// instances that amortizes the construction cost of expensive resources
// (connections, parsers, buffers, sessions) by renting and recycling them
// instead of creating a fresh one per request.
//
// Acquisition never blocks: a miss constructs a new object through the
// user-supplied factory, and a release that finds the pool full destroys the
// object instead of queueing the caller. Idle objects live in a fixed slot
// buffer coordinated with per-slot compare-and-swap, so the hot path takes
// no lock.
//
// # Basic Usage
//
//	import "github.com/giantswarm/objectpool"
//
//	ctx := context.Background()
//
//	pool := objectpool.New(func(ctx context.Context) (*Parser, error) {
//	    return NewParser()
//	}, objectpool.WithMaxSize(8))
//	defer pool.Close()
//
//	lease, err := pool.Acquire(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer lease.Release() // Returns nil on success; safe to ignore in defer
//
//	parser, err := lease.Value()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// Use parser...
//
// # Lifecycle Hooks
//
// Reset, resource-release, and validation hooks attach through options and
// infer the pool's value type from their signatures:
//
//	pool := objectpool.New(newConn,
//	    objectpool.WithReset(func(c *Conn) error { return c.Discard() }),
//	    objectpool.WithReleaseResources(func(c *Conn) error { return c.Close() }),
//	    objectpool.WithValidator(func(d objectpool.ValidationDirection, c *Conn) bool {
//	        return c.Ping() == nil
//	    }),
//	)
//
// A failing reset or validation destroys the object; the pool stays
// consistent and the failure is visible in the diagnostics counters.
//
// # Idle Eviction
//
// NewTimed builds a pool whose evictor destroys objects idle for longer than
// a timeout:
//
//	pool := objectpool.NewTimed(newConn, 30*time.Second)
//
// Plain pools opt into periodic validation scans with WithEviction.
//
// # Abandoned Leases
//
// A lease dropped without Release is reclaimed by a finalizer: the garbage
// collector returns the underlying object to the pool and the rescue is
// counted in Diagnostics.Resurrected. This is a safety net for careless
// callers, not a substitute for releasing on every exit path.
//
// # Keyed Pools
//
// NewKeyed multiplexes per-key sub-pools under one shared size bound, for
// resources parameterized by an endpoint, a tenant, or a shard:
//
//	pools := objectpool.NewKeyed(func(ctx context.Context, addr string) (*Conn, error) {
//	    return dial(ctx, addr)
//	})
//	lease, err := pools.Acquire(ctx, "10.0.0.7:5432")
package objectpool
