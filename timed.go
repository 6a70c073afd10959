package objectpool

import (
	"time"

	"github.com/giantswarm/objectpool/internal/core"
)

// TimedPool is a Pool whose evictor additionally destroys objects that have
// been idle for longer than a configured timeout. Every release stamps the
// object with the pool clock's current time; the eviction scan fires at
// timeout intervals and removes objects whose stamp has aged past the
// timeout. This is the only behavioral difference from Pool.
type TimedPool[T any] struct {
	Pool[T]
}

// NewTimed creates a TimedPool with the given idle timeout. The eviction
// scan is always enabled, with delay and period both equal to the timeout;
// a WithEviction option is overridden.
//
// Panics if factory is nil or timeout <= 0.
func NewTimed[T any](factory Factory[T], timeout time.Duration, opts ...Option) *TimedPool[T] {
	if factory == nil {
		panic("objectpool: NewTimed factory must not be nil")
	}
	requirePositive("idle timeout", timeout)

	cfg := newTemplate[T](DefaultMaxSize, opts)
	cfg.Factory = core.Factory[T](factory)
	cfg.IdleTimeout = timeout
	cfg.Eviction = core.EvictionSettings{Enabled: true, Delay: timeout, Period: timeout}

	return &TimedPool[T]{Pool[T]{core: core.NewPool(cfg, nil)}}
}

// Timeout returns the current idle timeout.
func (p *TimedPool[T]) Timeout() time.Duration {
	return p.core.IdleTimeout()
}

// SetTimeout changes the idle timeout and reconfigures the evictor to fire
// at the new interval (delay and period both equal to d).
//
// Returns an error if d <= 0 or the pool is closed.
func (p *TimedPool[T]) SetTimeout(d time.Duration) error {
	return p.core.SetIdleTimeout(d)
}
