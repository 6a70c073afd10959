package objectpool

import (
	"context"

	"github.com/giantswarm/objectpool/internal/core"
)

// KeyedPool multiplexes per-key sub-pools under one capacity discipline:
// every sub-pool shares the same max size and the same Diagnostics, and
// SetMaxSize propagates to existing and future sub-pools alike.
//
// Sub-pools are created lazily on the first acquisition for a key and stay
// registered for the pool's lifetime; Clear empties them without shrinking
// KeyCount.
type KeyedPool[K comparable, V any] struct {
	core *core.Keyed[K, V]
}

// NewKeyed creates a KeyedPool whose sub-pools construct values with
// factory, each capturing its own key. Options apply uniformly to every
// sub-pool; when eviction is enabled, all sub-pools share one scheduler.
//
// Panics if factory is nil or an option carries an invalid value.
func NewKeyed[K comparable, V any](factory KeyedFactory[K, V], opts ...Option) *KeyedPool[K, V] {
	if factory == nil {
		panic("objectpool: NewKeyed factory must not be nil")
	}
	template := newTemplate[V](DefaultKeyedMaxSize, opts)
	return &KeyedPool[K, V]{core: core.NewKeyed(core.KeyedFactory[K, V](factory), template, nil)}
}

// Acquire returns a lease from the sub-pool for key, creating the sub-pool
// on first use. Releasing the lease returns the object to that same
// sub-pool.
func (p *KeyedPool[K, V]) Acquire(ctx context.Context, key K) (*Lease[V], error) {
	o, sub, err := p.core.Acquire(ctx, key)
	if err != nil {
		return nil, err
	}
	return newLease(o, sub), nil
}

// KeyCount returns the number of sub-pools created so far.
func (p *KeyedPool[K, V]) KeyCount() int {
	return p.core.KeyCount()
}

// MaxSize returns the shared per-sub-pool idle-capacity bound.
func (p *KeyedPool[K, V]) MaxSize() int {
	return p.core.MaxSize()
}

// SetMaxSize changes the shared bound, resizing every existing sub-pool and
// applying to sub-pools created later.
//
// Returns ErrInvalidMaxSize if newMax < 1.
func (p *KeyedPool[K, V]) SetMaxSize(newMax int) error {
	return p.core.SetMaxSize(newMax)
}

// Clear empties every sub-pool, destroying their idle objects. The key
// mapping is preserved.
func (p *KeyedPool[K, V]) Clear() {
	p.core.Clear()
}

// IdleCount returns the total number of idle objects across all sub-pools.
func (p *KeyedPool[K, V]) IdleCount() int {
	return p.core.IdleCountAll()
}

// Diagnostics returns the counter set shared by every sub-pool.
func (p *KeyedPool[K, V]) Diagnostics() *Diagnostics {
	return p.core.Diagnostics()
}

// Close closes every sub-pool and disposes the shared scheduler when this
// pool owns it. Idempotent.
func (p *KeyedPool[K, V]) Close() {
	p.core.Close()
}
