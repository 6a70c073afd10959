package core

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/giantswarm/objectpool/internal/sentinel"
)

// ErrPoolClosed is returned when Acquire is called on a closed pool.
const ErrPoolClosed = sentinel.Error("pool is closed")

// ErrAcquireRetriesExhausted is returned when every candidate examined by a
// single Acquire — cached or freshly constructed — failed outbound
// validation. An unbounded retry loop here would spin forever against a
// factory that keeps producing invalid objects.
const ErrAcquireRetriesExhausted = sentinel.Error("acquire attempts exhausted: no candidate passed outbound validation")

// Pool coordinates acquisition and return of pooled objects over a slot
// buffer. Acquire never blocks: a miss constructs a fresh object via the
// factory, and a release that finds the buffer full destroys the object
// instead of queueing it.
//
// It is safe for concurrent use by multiple goroutines.
//
// Synchronization strategy:
//   - the buffer is the single point of synchronization for idle objects;
//     the pool holds no lock on the acquire/release hot path.
//   - lastID and closed are atomics.
//   - resizeMu serializes Resize so the buffer capacity and the advertised
//     max size change together.
//   - evictMu guards the eviction ticket and scheduler reconfiguration,
//     which are administrative and never on the hot path.
type Pool[T any] struct {
	cfg  Config[T]
	buf  *Buffer[T]
	diag *Diagnostics

	// lastID stamps new objects. Monotonic, never reused; an id is drawn only
	// after the factory succeeds, so a factory failure consumes none.
	lastID atomic.Int64

	closed atomic.Bool

	// maxSize mirrors the buffer capacity for lock-free reads.
	maxSize atomic.Int64

	// idleTimeout is the timed variant's eviction predicate threshold, in
	// nanoseconds. Zero disables the predicate.
	idleTimeout atomic.Int64

	// resizeMu serializes Resize calls.
	resizeMu sync.Mutex

	// evictMu protects ticket, scheduler, and ownsScheduler.
	evictMu       sync.Mutex
	ticket        Ticket
	scheduler     Scheduler
	ownsScheduler bool
}

// NewPool creates a Pool from cfg. When diag is nil the pool creates its own
// Diagnostics (initialized from cfg.DiagnosticsEnabled); the keyed variant
// passes a shared one instead.
//
// Panics if cfg.Validate() reports any errors. Invalid configuration is a
// programmer error that should be caught at construction time, similar to
// regexp.MustCompile.
func NewPool[T any](cfg Config[T], diag *Diagnostics) *Pool[T] {
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("objectpool: invalid pool config: %v", err))
	}
	if diag == nil {
		diag = NewDiagnostics()
		diag.SetEnabled(cfg.DiagnosticsEnabled)
	}
	diag.setResurrectionSupported(cfg.FinalizerResurrection)

	p := &Pool[T]{
		cfg:  cfg,
		buf:  NewBuffer[T](cfg.MaxSize),
		diag: diag,
	}
	p.maxSize.Store(int64(cfg.MaxSize))
	p.idleTimeout.Store(int64(cfg.IdleTimeout))

	if cfg.Eviction.Enabled {
		delay := cfg.Eviction.Delay
		if delay == 0 {
			delay = cfg.Eviction.Period
		}
		if err := p.ReconfigureEviction(delay, cfg.Eviction.Period); err != nil {
			// Only possible with a caller-supplied scheduler that is already
			// disposed; the pool stays usable without eviction.
			Logger().Warn("failed to start evictor", "error", err)
		}
	}

	return p
}

// Diagnostics returns the counter set shared by this pool.
func (p *Pool[T]) Diagnostics() *Diagnostics { return p.diag }

// MaxSize returns the current idle-capacity bound.
func (p *Pool[T]) MaxSize() int { return int(p.maxSize.Load()) }

// IdleCount returns the number of objects currently held by the buffer.
func (p *Pool[T]) IdleCount() int { return p.buf.Len() }

// InUseCount returns the number of live objects currently held by acquirers.
// Derived from the diagnostics counters minus the idle count, so it is not
// meaningful while counting is disabled (it then reads 0 or below).
func (p *Pool[T]) InUseCount() int64 { return p.diag.Live() - int64(p.buf.Len()) }

// FinalizerResurrection reports whether leases should arm finalizer rescue.
func (p *Pool[T]) FinalizerResurrection() bool { return p.cfg.FinalizerResurrection }

// now returns the configured clock's time, defaulting to time.Now.
func (p *Pool[T]) now() time.Time {
	if p.cfg.Clock != nil {
		return p.cfg.Clock()
	}
	return time.Now()
}

// nextID returns a fresh object id. Ids start at 1.
func (p *Pool[T]) nextID() int64 { return p.lastID.Add(1) }

// Acquire returns an object in the Reserved state. A buffer hit is validated
// outbound before being handed out; a miss constructs a fresh object, which
// is validated the same way. Candidates failing validation are destroyed and
// retried up to the configured attempt cap.
//
// The context is checked on entry and passed to the factory; the pool itself
// never blocks. Factory errors propagate to the caller and leave no object
// behind.
func (p *Pool[T]) Acquire(ctx context.Context) (*Object[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context done before acquire: %w", err)
	}
	if p.closed.Load() {
		return nil, ErrPoolClosed
	}

	for attempt := 0; attempt < p.cfg.AcquireAttempts; attempt++ {
		o, fromBuffer := p.buf.TryDequeue()
		if !fromBuffer {
			p.diag.addMiss()
			v, err := p.cfg.Factory(ctx)
			if err != nil {
				return nil, fmt.Errorf("creating pooled object: %w", err)
			}
			o = NewObject(p.nextID(), v)
			o.touch(p.now())
			p.diag.addCreated()
		}

		if p.cfg.Validator != nil && !p.cfg.Validator(Outbound, o.Value()) {
			Logger().Debug("outbound validation failed", "id", o.ID())
			p.destroy(o)
			continue
		}

		// A hit is a valid retrieval: a cached object that fails outbound
		// validation above is destroyed without counting.
		if fromBuffer {
			p.diag.addHit()
		}

		if !o.tryReserve() {
			// A dequeued object is owned by this goroutine, so a failed
			// reservation means its state was corrupted by a double release
			// at the caller. Drop it rather than hand out a shared object.
			Logger().Warn("dequeued object was not available", "id", o.ID(), "state", o.State().String())
			continue
		}
		return o, nil
	}

	return nil, fmt.Errorf("%w (attempts=%d)", ErrAcquireRetriesExhausted, p.cfg.AcquireAttempts)
}

// Release returns o to the pool. It is the terminal step of the lease
// release path and is idempotent: releasing an object that is not Reserved
// is a no-op and does not alter counters.
//
// Order of operations: the Reserved→Available transition gates idempotence,
// then the reset hook runs, then inbound validation, then the buffer
// re-entry. Failure at any step disposes the object instead.
func (p *Pool[T]) Release(o *Object[T]) {
	if o == nil || !o.tryMakeAvailable() {
		return
	}

	if p.cfg.Reset != nil {
		if err := p.cfg.Reset(o.Value()); err != nil {
			Logger().Debug("reset failed, destroying object", "id", o.ID(), "error", err)
			p.diag.addResetFailed()
			p.destroy(o)
			return
		}
	}

	if p.cfg.Validator != nil && !p.cfg.Validator(Inbound, o.Value()) {
		Logger().Debug("inbound validation failed", "id", o.ID())
		p.destroy(o)
		return
	}

	o.touch(p.now())

	if p.closed.Load() {
		p.destroy(o)
		return
	}

	if p.buf.TryEnqueue(o) {
		p.diag.addReturnedToPool()
		return
	}

	p.diag.addOverflow()
	p.destroy(o)
}

// Resurrect is the finalizer entry point for objects abandoned while
// Reserved. It re-runs the release path once and counts the rescue.
func (p *Pool[T]) Resurrect(o *Object[T]) {
	if o == nil || o.State() != StateReserved {
		return
	}
	p.diag.addResurrected()
	Logger().Debug("resurrecting abandoned object", "id", o.ID())
	p.Release(o)
}

// destroy disposes o and releases its resources exactly once. Hook errors
// are logged and swallowed to keep the pool consistent; the destruction is
// counted either way.
func (p *Pool[T]) destroy(o *Object[T]) {
	if !o.tryLatchDestroy() {
		return
	}
	o.markDisposed()
	if p.cfg.ReleaseResources != nil {
		if err := p.cfg.ReleaseResources(o.Value()); err != nil {
			Logger().Warn("release-resources hook failed", "id", o.ID(), "error", err)
		}
	}
	p.diag.addDestroyed()
}

// Clear drains the buffer and destroys every extracted object. Safe to call
// repeatedly and concurrently with acquisitions; objects checked out by
// acquirers are unaffected.
func (p *Pool[T]) Clear() {
	for {
		o, ok := p.buf.TryDequeue()
		if !ok {
			return
		}
		p.destroy(o)
	}
}

// Resize changes the idle-capacity bound to newMax, destroying any idle
// objects that no longer fit. Returns ErrInvalidMaxSize if newMax < 1.
func (p *Pool[T]) Resize(newMax int) error {
	if newMax < 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidMaxSize, newMax)
	}

	p.resizeMu.Lock()
	excess := p.buf.Resize(newMax)
	p.maxSize.Store(int64(newMax))
	p.resizeMu.Unlock()

	for _, o := range excess {
		p.destroy(o)
	}
	return nil
}

// Prefill proactively constructs and enqueues up to n idle objects, stopping
// early when the buffer is full. Returns the number of objects added. Factory
// errors abort the fill and propagate; objects already added stay in the
// pool.
func (p *Pool[T]) Prefill(ctx context.Context, n int) (int, error) {
	added := 0
	for added < n {
		if err := ctx.Err(); err != nil {
			return added, fmt.Errorf("context done during prefill: %w", err)
		}
		if p.closed.Load() {
			return added, ErrPoolClosed
		}
		v, err := p.cfg.Factory(ctx)
		if err != nil {
			return added, fmt.Errorf("creating pooled object: %w", err)
		}
		o := NewObject(p.nextID(), v)
		o.touch(p.now())
		p.diag.addCreated()
		if !p.buf.TryEnqueue(o) {
			p.destroy(o)
			return added, nil
		}
		added++
	}
	return added, nil
}

// SetIdleTimeout installs d as the idle-timeout eviction predicate and
// reconfigures the evictor to fire with delay and period both equal to d.
func (p *Pool[T]) SetIdleTimeout(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("idle timeout must be greater than 0, got %s", d)
	}
	p.idleTimeout.Store(int64(d))
	return p.ReconfigureEviction(d, d)
}

// IdleTimeout returns the current idle-timeout predicate threshold.
func (p *Pool[T]) IdleTimeout() time.Duration {
	return time.Duration(p.idleTimeout.Load())
}

// ReconfigureEviction cancels any existing eviction ticket and schedules a
// fresh one with the given delay and period, creating an owned
// TimerScheduler on first use when none was supplied.
func (p *Pool[T]) ReconfigureEviction(delay, period time.Duration) error {
	p.evictMu.Lock()
	defer p.evictMu.Unlock()

	if p.closed.Load() {
		return ErrPoolClosed
	}

	if p.scheduler == nil {
		if p.cfg.Scheduler != nil {
			p.scheduler = p.cfg.Scheduler
		} else {
			p.scheduler = NewTimerScheduler()
			p.ownsScheduler = true
		}
	}

	if p.ticket != nil {
		p.scheduler.Cancel(p.ticket)
		p.ticket = nil
	}

	t, err := p.scheduler.Schedule(p.evict, delay, period)
	if err != nil {
		return fmt.Errorf("scheduling eviction: %w", err)
	}
	p.ticket = t
	return nil
}

// Close marks the pool closed, cancels the eviction ticket, disposes an
// owned scheduler, and destroys all idle objects. Subsequent Acquire calls
// return ErrPoolClosed; releases arriving after Close destroy their objects
// instead of re-entering the buffer. Idempotent.
func (p *Pool[T]) Close() {
	if !p.closed.CompareAndSwap(false, true) {
		return
	}

	p.evictMu.Lock()
	if p.ticket != nil && p.scheduler != nil {
		p.scheduler.Cancel(p.ticket)
		p.ticket = nil
	}
	if p.ownsScheduler {
		p.scheduler.Dispose()
	}
	p.evictMu.Unlock()

	p.Clear()
}
