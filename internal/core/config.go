package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/giantswarm/objectpool/internal/sentinel"
)

// ErrInvalidMaxSize is returned when a pool size below 1 is requested.
const ErrInvalidMaxSize = sentinel.Error("max size must be at least 1")

// Factory constructs a new pooled value. It is called on every acquisition
// miss and during prefill, from any goroutine. The context is the acquirer's;
// a factory that performs I/O should honor its cancellation.
type Factory[T any] func(ctx context.Context) (T, error)

// Hook is a user callback invoked on a pooled value during its lifecycle
// (reset before return-to-pool, resource release on destruction).
type Hook[T any] func(v T) error

// Validator decides whether a pooled value is still usable. It runs Outbound
// before a value is handed to an acquirer and Inbound before a released
// value re-enters the buffer.
type Validator[T any] func(d ValidationDirection, v T) bool

// Clock supplies the timestamps used by the idle-timeout predicate. It must
// be monotonic enough to compare release times against eviction scans.
type Clock func() time.Time

// EvictionSettings controls the periodic validation/eviction scan.
// Delay is the time before the first scan; a zero Delay means "one full
// Period before the first scan". Period is the interval between scans.
type EvictionSettings struct {
	Enabled bool
	Delay   time.Duration
	Period  time.Duration
}

// Config holds the full configuration of a Pool.
//
// Concurrency contract: all fields are immutable after the pool is
// constructed. The mutable counterparts (current max size, idle timeout,
// eviction ticket) live on the Pool itself.
type Config[T any] struct {
	// MaxSize bounds the number of concurrently idle objects. Must be >= 1.
	MaxSize int

	// AcquireAttempts caps how many candidates (cached or fresh) a single
	// Acquire may validate before giving up with ErrAcquireRetriesExhausted.
	// Must be >= 1.
	AcquireAttempts int

	// Factory constructs new values on acquisition miss. Required.
	Factory Factory[T]

	// Reset is invoked on release before the value re-enters the buffer.
	// A non-nil error destroys the value instead of returning it.
	Reset Hook[T]

	// ReleaseResources is invoked exactly once when a value is destroyed.
	// Errors are logged and swallowed; the value is disposed regardless.
	ReleaseResources Hook[T]

	// Validator, when set, gates values leaving and re-entering the buffer.
	Validator Validator[T]

	// Eviction configures the periodic scan. When disabled, no scheduler
	// resources are created.
	Eviction EvictionSettings

	// Scheduler runs the eviction task. When nil and eviction is enabled,
	// the pool creates and owns a TimerScheduler; a caller-supplied
	// scheduler is shared and never disposed by the pool.
	Scheduler Scheduler

	// Clock supplies timestamps for last-usage stamping and the idle-timeout
	// predicate. Nil means time.Now.
	Clock Clock

	// IdleTimeout, when positive, marks objects idle for longer than this
	// as invalid during eviction scans.
	IdleTimeout time.Duration

	// FinalizerResurrection arms a finalizer on each lease so that objects
	// abandoned while reserved are returned to the pool by the garbage
	// collector instead of leaking.
	FinalizerResurrection bool

	// DiagnosticsEnabled is the initial state of the counter toggle when the
	// pool creates its own Diagnostics.
	DiagnosticsEnabled bool
}

// Validate checks all Config invariants and returns an error describing
// every violation found, joined with errors.Join so callers can fix all
// problems in one pass.
func (c Config[T]) Validate() error {
	errs := c.validateCommon()
	if c.Factory == nil {
		errs = append(errs, errors.New("factory must not be nil"))
	}
	return errors.Join(errs...)
}

// validateCommon checks the invariants shared with the keyed variant, which
// injects its per-key factory later and therefore skips the Factory check.
func (c Config[T]) validateCommon() []error {
	var errs []error

	if c.MaxSize < 1 {
		errs = append(errs, fmt.Errorf("%w, got %d", ErrInvalidMaxSize, c.MaxSize))
	}
	if c.AcquireAttempts < 1 {
		errs = append(errs, fmt.Errorf("acquire attempts must be at least 1, got %d", c.AcquireAttempts))
	}
	if c.Eviction.Enabled {
		if c.Eviction.Period <= 0 {
			errs = append(errs, fmt.Errorf("eviction period must be greater than 0, got %s", c.Eviction.Period))
		}
		if c.Eviction.Delay < 0 {
			errs = append(errs, fmt.Errorf("eviction delay must not be negative, got %s", c.Eviction.Delay))
		}
	}
	if c.IdleTimeout < 0 {
		errs = append(errs, fmt.Errorf("idle timeout must not be negative, got %s", c.IdleTimeout))
	}
	return errs
}
