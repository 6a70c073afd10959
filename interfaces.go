package objectpool

import (
	"context"

	"github.com/giantswarm/objectpool/internal/core"
)

// Factory constructs a new pooled value. It is invoked on every acquisition
// miss and during Prefill, and must be safe to call from any goroutine. The
// context is the acquirer's; factories that perform I/O should honor its
// cancellation. A factory error propagates to the Acquire caller and leaves
// no object behind.
type Factory[T any] func(ctx context.Context) (T, error)

// KeyedFactory constructs a value for a specific key of a keyed pool. Each
// sub-pool captures its key and thereafter calls the factory like a plain
// Factory.
type KeyedFactory[K comparable, V any] func(ctx context.Context, key K) (V, error)

// Clock supplies the timestamps used for last-usage stamping and the
// idle-timeout predicate of timed pools. The default is time.Now; tests
// inject a fake via WithClock.
type Clock = core.Clock

// EvictionSettings configures the periodic validation/eviction scan of a
// pool. Delay is the time before the first scan (zero means one full Period);
// Period is the interval between scans.
type EvictionSettings = core.EvictionSettings

// EvictionTicket is the opaque handle returned by an EvictionScheduler for a
// scheduled task.
type EvictionTicket = core.Ticket

// EvictionScheduler runs the periodic eviction task of a pool. A single
// scheduler may be shared across pools via WithScheduler; otherwise each
// pool with eviction enabled owns a TimerScheduler and disposes it on Close.
//
// Implementations must never invoke one task concurrently with itself and
// must treat Cancel as best-effort (an in-flight invocation may finish).
type EvictionScheduler = core.Scheduler

// TimerScheduler is the default EvictionScheduler, driving each ticket with
// a timer goroutine.
type TimerScheduler = core.TimerScheduler

// NewTimerScheduler creates an empty TimerScheduler, typically to share one
// timer resource across several pools:
//
//	sched := objectpool.NewTimerScheduler()
//	defer sched.Dispose()
//	a := objectpool.New(newConnA, objectpool.WithScheduler(sched), ...)
//	b := objectpool.New(newConnB, objectpool.WithScheduler(sched), ...)
func NewTimerScheduler() *TimerScheduler {
	return core.NewTimerScheduler()
}

// State is the lifecycle state of a pooled object: Available (idle in the
// pool), Reserved (held by an acquirer), or Disposed (terminal, resources
// released).
type State = core.State

// Lifecycle states. A Disposed object never re-enters the pool.
const (
	StateAvailable = core.StateAvailable
	StateReserved  = core.StateReserved
	StateDisposed  = core.StateDisposed
)
