package objectpool

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/giantswarm/objectpool/internal/core"
)

// Pool is a bounded pool of reusable values of type T.
//
// Callers follow this lifecycle:
//
//	New → Acquire/Release (repeatable) → Close
//
// Acquire never blocks: when no idle object is available, the factory
// constructs a fresh one. Release (via Lease.Release) returns the object for
// reuse, or destroys it when the pool is full or the object fails its reset
// or validation hooks. Close is optional for pools without eviction; pools
// with eviction enabled own timer resources that Close releases.
//
// The core pool is stored as a named (unexported) field rather than
// embedded, so internal methods used by leases and variants do not leak into
// the public API.
//
// All methods are safe for concurrent use by multiple goroutines.
type Pool[T any] struct {
	core *core.Pool[T]
}

// New creates a Pool that constructs values with factory on acquisition
// miss. See the Option constructors for hooks, sizing, eviction, and
// diagnostics control.
//
// Panics if factory is nil or an option carries an invalid value; these are
// programmer errors caught at construction time.
func New[T any](factory Factory[T], opts ...Option) *Pool[T] {
	if factory == nil {
		panic("objectpool: New factory must not be nil")
	}
	cfg := newTemplate[T](DefaultMaxSize, opts)
	cfg.Factory = core.Factory[T](factory)
	return &Pool[T]{core: core.NewPool(cfg, nil)}
}

// Acquire returns a lease on an object in the Reserved state. On a buffer
// hit the object is validated outbound before being handed out; on a miss
// the factory constructs a fresh one (counted as a miss). Factory errors
// propagate wrapped, so errors.Is matches the original error.
//
// The context is checked on entry and passed through to the factory; the
// pool itself never blocks or waits for a free object.
//
// Returns ErrPoolClosed after Close, and ErrAcquireRetriesExhausted when
// every candidate within the attempt cap failed outbound validation.
func (p *Pool[T]) Acquire(ctx context.Context) (*Lease[T], error) {
	o, err := p.core.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return newLease(o, p.core), nil
}

// Clear drains the pool and destroys every idle object. Objects currently
// rented out are unaffected; they are destroyed or re-pooled when released.
// Safe to call repeatedly.
func (p *Pool[T]) Clear() {
	p.core.Clear()
}

// Resize changes the idle-capacity bound, destroying idle objects that no
// longer fit. Growing never loses objects.
//
// Returns ErrInvalidMaxSize if newMax < 1.
func (p *Pool[T]) Resize(newMax int) error {
	return p.core.Resize(newMax)
}

// MaxSize returns the current idle-capacity bound.
func (p *Pool[T]) MaxSize() int {
	return p.core.MaxSize()
}

// SetMaxSize is Resize under its property name.
func (p *Pool[T]) SetMaxSize(newMax int) error {
	return p.core.Resize(newMax)
}

// IdleCount returns the number of idle objects currently held by the pool.
func (p *Pool[T]) IdleCount() int {
	return p.core.IdleCount()
}

// InUseCount returns the number of live objects currently held by
// acquirers, derived from the diagnostics counters minus the idle count. It
// is not meaningful while diagnostics counting is disabled (it then reads 0
// or below).
func (p *Pool[T]) InUseCount() int64 {
	return p.core.InUseCount()
}

// Diagnostics returns the pool's counter set.
func (p *Pool[T]) Diagnostics() *Diagnostics {
	return p.core.Diagnostics()
}

// Prefill proactively constructs and pools up to n idle objects, stopping
// early when the pool is full, and returns the number added. Factory errors
// abort the fill and propagate; objects already added stay pooled.
func (p *Pool[T]) Prefill(ctx context.Context, n int) (int, error) {
	return p.core.Prefill(ctx, n)
}

// Close destroys all idle objects, cancels the eviction ticket, and
// disposes the pool-owned scheduler if any. Subsequent Acquire calls return
// ErrPoolClosed; leases released after Close destroy their objects instead
// of re-pooling them. Idempotent.
func (p *Pool[T]) Close() {
	p.core.Close()
}

// Lease is one acquisition of a pooled object. It is the unit of release
// discipline: every lease must be released exactly once, on every exit path.
//
// The released flag is a wrapper-level guard that catches the common case of
// a single caller releasing twice with a clean ErrDoubleRelease, before the
// object-level state machine (which treats a second release as a no-op) is
// ever consulted.
type Lease[T any] struct {
	obj      *core.Object[T]
	pool     *core.Pool[T]
	released atomic.Bool
}

// newLease wraps an acquired object, arming finalizer rescue when the pool
// is configured for it. The finalizer only fires if the lease becomes
// unreachable without Release, in which case the object is returned to the
// pool and the rescue is counted as a resurrection.
func newLease[T any](o *core.Object[T], p *core.Pool[T]) *Lease[T] {
	l := &Lease[T]{obj: o, pool: p}
	if p.FinalizerResurrection() {
		runtime.SetFinalizer(l, (*Lease[T]).finalize)
	}
	return l
}

// Value returns the pooled value.
//
// Returns ErrLeaseReleased after Release: the object may already be rented
// to another consumer, so handing out the value would break exclusive
// ownership. If Value and Release race on the same lease, Value may succeed
// one final time.
func (l *Lease[T]) Value() (T, error) {
	if l.released.Load() {
		var zero T
		return zero, ErrLeaseReleased
	}
	return l.obj.Value(), nil
}

// ID returns the pool-unique identifier of the leased object. Ids are
// assigned once at creation from a monotonic counter and never reused.
func (l *Lease[T]) ID() int64 {
	return l.obj.ID()
}

// State returns the current lifecycle state of the leased object.
func (l *Lease[T]) State() State {
	return l.obj.State()
}

// Release returns the object to the pool. Depending on the pool's hooks and
// occupancy the object is re-pooled (reset, validated inbound, re-enqueued)
// or destroyed; either way the lease is finished.
//
// Returns nil on success; using defer lease.Release() is safe. Returns
// ErrDoubleRelease when called more than once on the same lease — the
// object's state is not touched again.
func (l *Lease[T]) Release() error {
	if !l.released.CompareAndSwap(false, true) {
		return ErrDoubleRelease
	}
	runtime.SetFinalizer(l, nil)
	l.pool.Release(l.obj)
	return nil
}

// finalize is the finalizer target for abandoned leases. The CAS mirrors
// Release so a finalizer racing an explicit release acts at most once.
func (l *Lease[T]) finalize() {
	if !l.released.CompareAndSwap(false, true) {
		return
	}
	l.pool.Resurrect(l.obj)
}
