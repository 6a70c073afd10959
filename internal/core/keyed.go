package core

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// KeyedFactory constructs a value for a specific key. Each sub-pool wraps it
// into a plain Factory with the key captured.
type KeyedFactory[K comparable, V any] func(ctx context.Context, key K) (V, error)

// Keyed multiplexes per-key sub-pools under one size discipline: every
// sub-pool shares the same max size and the same Diagnostics, and a max-size
// change propagates to existing and future sub-pools alike.
//
// Sub-pools are created lazily on the first acquisition for a key and are
// never removed; Clear empties them but keeps the mapping.
type Keyed[K comparable, V any] struct {
	template Config[V]
	factory  KeyedFactory[K, V]
	diag     *Diagnostics

	// maxSize is the shared bound, read when creating new sub-pools.
	maxSize atomic.Int64

	closed atomic.Bool

	// mu protects pools.
	mu    sync.RWMutex
	pools map[K]*Pool[V]

	// group collapses concurrent first-acquisitions of the same key into a
	// single sub-pool construction. Keys are folded to strings for the
	// flight map; a (vanishingly unlikely) string collision between distinct
	// keys is corrected by the map re-check after the flight.
	group singleflight.Group

	// scheduler is shared across sub-pools when eviction is enabled, so a
	// keyed pool costs one timer resource rather than one per key.
	scheduler     Scheduler
	ownsScheduler bool
}

// NewKeyed creates a Keyed pool. The template's Factory field must be nil;
// each sub-pool receives a wrapped per-key factory instead. When diag is nil
// a fresh Diagnostics is created and shared by every sub-pool.
//
// Panics on a nil factory or an invalid template, mirroring NewPool.
func NewKeyed[K comparable, V any](factory KeyedFactory[K, V], template Config[V], diag *Diagnostics) *Keyed[K, V] {
	if factory == nil {
		panic("objectpool: NewKeyed factory must not be nil")
	}
	if template.Factory != nil {
		panic("objectpool: keyed template must not carry a factory")
	}
	if errs := template.validateCommon(); len(errs) > 0 {
		panic(fmt.Sprintf("objectpool: invalid keyed pool config: %v", errs))
	}
	if diag == nil {
		diag = NewDiagnostics()
		diag.SetEnabled(template.DiagnosticsEnabled)
	}

	kp := &Keyed[K, V]{
		template: template,
		factory:  factory,
		diag:     diag,
		pools:    make(map[K]*Pool[V]),
	}
	kp.maxSize.Store(int64(template.MaxSize))

	if template.Eviction.Enabled && template.Scheduler == nil {
		kp.scheduler = NewTimerScheduler()
		kp.ownsScheduler = true
		kp.template.Scheduler = kp.scheduler
	}

	return kp
}

// Diagnostics returns the counter set shared by all sub-pools.
func (kp *Keyed[K, V]) Diagnostics() *Diagnostics { return kp.diag }

// MaxSize returns the shared per-sub-pool bound.
func (kp *Keyed[K, V]) MaxSize() int { return int(kp.maxSize.Load()) }

// KeyCount returns the number of sub-pools created so far.
func (kp *Keyed[K, V]) KeyCount() int {
	kp.mu.RLock()
	defer kp.mu.RUnlock()
	return len(kp.pools)
}

// IdleCountAll returns the total number of idle objects across all
// sub-pools.
func (kp *Keyed[K, V]) IdleCountAll() int {
	kp.mu.RLock()
	defer kp.mu.RUnlock()
	total := 0
	for _, sub := range kp.pools {
		total += sub.IdleCount()
	}
	return total
}

// Acquire delegates to the sub-pool for key, creating it on first use.
// The returned Pool is the sub-pool the object must be released to.
func (kp *Keyed[K, V]) Acquire(ctx context.Context, key K) (*Object[V], *Pool[V], error) {
	if kp.closed.Load() {
		return nil, nil, ErrPoolClosed
	}
	sub, err := kp.subPool(key)
	if err != nil {
		return nil, nil, err
	}
	o, err := sub.Acquire(ctx)
	if err != nil {
		return nil, nil, err
	}
	return o, sub, nil
}

// subPool returns the sub-pool for key, constructing and registering it if
// absent.
func (kp *Keyed[K, V]) subPool(key K) (*Pool[V], error) {
	kp.mu.RLock()
	sub := kp.pools[key]
	kp.mu.RUnlock()
	if sub != nil {
		return sub, nil
	}

	_, err, _ := kp.group.Do(fmt.Sprint(key), func() (any, error) {
		kp.mu.Lock()
		defer kp.mu.Unlock()
		if _, ok := kp.pools[key]; ok {
			return nil, nil
		}
		kp.pools[key] = kp.newSubPool(key)
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	kp.mu.Lock()
	defer kp.mu.Unlock()
	sub = kp.pools[key]
	if sub == nil {
		// A flight-key collision between distinct keys resolved the flight
		// without registering this key. Create directly under the lock.
		sub = kp.newSubPool(key)
		kp.pools[key] = sub
	}
	return sub, nil
}

// newSubPool builds a sub-pool configuration from the template: the shared
// max size, the shared diagnostics, and the keyed factory wrapped to ignore
// the key after capture.
func (kp *Keyed[K, V]) newSubPool(key K) *Pool[V] {
	cfg := kp.template
	cfg.MaxSize = int(kp.maxSize.Load())
	cfg.Factory = func(ctx context.Context) (V, error) {
		return kp.factory(ctx, key)
	}
	return NewPool(cfg, kp.diag)
}

// SetMaxSize changes the shared bound and propagates it to every existing
// sub-pool. Returns ErrInvalidMaxSize if newMax < 1.
func (kp *Keyed[K, V]) SetMaxSize(newMax int) error {
	if newMax < 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidMaxSize, newMax)
	}
	kp.maxSize.Store(int64(newMax))

	kp.mu.RLock()
	defer kp.mu.RUnlock()
	for _, sub := range kp.pools {
		if err := sub.Resize(newMax); err != nil {
			return err
		}
	}
	return nil
}

// Clear empties every sub-pool. Sub-pools themselves stay registered, so
// KeyCount is unchanged.
func (kp *Keyed[K, V]) Clear() {
	kp.mu.RLock()
	defer kp.mu.RUnlock()
	for _, sub := range kp.pools {
		sub.Clear()
	}
}

// Close closes every sub-pool and disposes the shared scheduler when this
// keyed pool owns it. Idempotent.
func (kp *Keyed[K, V]) Close() {
	if !kp.closed.CompareAndSwap(false, true) {
		return
	}

	kp.mu.RLock()
	subs := make([]*Pool[V], 0, len(kp.pools))
	for _, sub := range kp.pools {
		subs = append(subs, sub)
	}
	kp.mu.RUnlock()

	for _, sub := range subs {
		sub.Close()
	}

	if kp.ownsScheduler {
		kp.scheduler.Dispose()
	}
}
