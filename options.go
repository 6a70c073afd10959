package objectpool

import (
	"fmt"
	"time"
)

// requirePositive panics if v <= 0 with a descriptive message.
func requirePositive[T int | time.Duration](name string, v T) {
	if v <= 0 {
		panic(fmt.Sprintf("objectpool: %s must be greater than 0, got %v", name, v))
	}
}

// Option configures a pool during construction via New, NewTimed, or
// NewKeyed. Each With* function returns an Option that sets a specific
// field.
//
// Several With* functions panic on invalid input (sizes below 1, nil
// collaborators, non-positive durations). These panics are intentional:
// option values are typically compile-time constants or package-level
// variables, so an invalid value indicates a programmer error rather than a
// runtime condition. The pattern mirrors [regexp.MustCompile] — fail fast
// during initialization instead of returning errors that would be
// universally fatal anyway.
//
// The hook options (WithReset, WithReleaseResources, WithValidator) are
// generic over the pooled value type, which Go infers from the hook function
// itself. A hook whose value type does not match the pool it is applied to
// panics at construction time with a descriptive message.
type Option func(*settings)

// WithMaxSize bounds the number of concurrently idle objects the pool
// retains. Acquisition is never blocked by the bound; it only controls how
// many released objects are kept for reuse.
//
// Default: DefaultMaxSize (DefaultKeyedMaxSize for keyed pools).
//
// Panics if size < 1.
func WithMaxSize(size int) Option {
	requirePositive("max size", size)
	return func(s *settings) {
		s.maxSize = size
	}
}

// WithAcquireAttempts caps how many candidates (cached or freshly
// constructed) a single Acquire may validate before returning
// ErrAcquireRetriesExhausted.
//
// Default: DefaultAcquireAttempts.
//
// Panics if n < 1.
func WithAcquireAttempts(n int) Option {
	requirePositive("acquire attempts", n)
	return func(s *settings) {
		s.attempts = n
	}
}

// WithEviction enables (or explicitly disables) the periodic scan that
// destroys invalid and stale idle objects. A zero Period is replaced by
// DefaultEvictionPeriod; a zero Delay means one full period before the
// first scan.
//
// Default: disabled.
//
// Panics if a negative delay or period is supplied.
func WithEviction(es EvictionSettings) Option {
	if es.Period < 0 {
		panic(fmt.Sprintf("objectpool: eviction period must not be negative, got %s", es.Period))
	}
	if es.Delay < 0 {
		panic(fmt.Sprintf("objectpool: eviction delay must not be negative, got %s", es.Delay))
	}
	return func(s *settings) {
		s.eviction = es
		if s.eviction.Period == 0 {
			s.eviction.Period = DefaultEvictionPeriod
		}
	}
}

// WithScheduler supplies a shared EvictionScheduler. The pool will schedule
// its eviction ticket on it but never dispose it; the caller owns the
// scheduler's lifetime. Without this option a pool with eviction enabled
// creates and owns a TimerScheduler.
//
// Panics if sched is nil.
func WithScheduler(sched EvictionScheduler) Option {
	if sched == nil {
		panic("objectpool: scheduler must not be nil")
	}
	return func(s *settings) {
		s.scheduler = sched
	}
}

// WithClock replaces the timestamp source used for last-usage stamping and
// the idle-timeout predicate. Intended for tests.
//
// Panics if clock is nil.
func WithClock(clock Clock) Option {
	if clock == nil {
		panic("objectpool: clock must not be nil")
	}
	return func(s *settings) {
		s.clock = clock
	}
}

// WithFinalizerResurrection controls whether leases arm a finalizer that
// returns abandoned objects to the pool. Enabled by default; disable it when
// the pooled resources must never outlive an explicit release.
func WithFinalizerResurrection(enabled bool) Option {
	return func(s *settings) {
		s.finalizer = enabled
	}
}

// WithDiagnostics sets the initial state of the diagnostics counter toggle.
// Counting is enabled by default; it can also be flipped at runtime via
// Diagnostics.SetEnabled.
func WithDiagnostics(enabled bool) Option {
	return func(s *settings) {
		s.diagnostics = enabled
	}
}

// WithReset installs a hook invoked on a value during release, before it
// re-enters the pool. A non-nil error destroys the value instead of
// returning it (counted in ResetFailed and Destroyed).
//
// Panics at pool construction if T does not match the pool's value type.
func WithReset[T any](fn func(T) error) Option {
	if fn == nil {
		panic("objectpool: reset hook must not be nil")
	}
	return func(s *settings) {
		s.reset = fn
	}
}

// WithReleaseResources installs a hook invoked exactly once when a value is
// destroyed (overflow, failed reset or validation, eviction, clear, resize,
// close). Errors are logged at warn level and swallowed; the value is
// considered disposed regardless.
//
// Panics at pool construction if T does not match the pool's value type.
func WithReleaseResources[T any](fn func(T) error) Option {
	if fn == nil {
		panic("objectpool: release-resources hook must not be nil")
	}
	return func(s *settings) {
		s.releaseResources = fn
	}
}

// WithValidator installs a predicate deciding whether a value is usable. It
// runs Outbound before a value is handed to an acquirer (and during
// eviction scans) and Inbound before a released value re-enters the pool.
// Invalid values are destroyed.
//
// Panics at pool construction if T does not match the pool's value type.
func WithValidator[T any](fn func(ValidationDirection, T) bool) Option {
	if fn == nil {
		panic("objectpool: validator must not be nil")
	}
	return func(s *settings) {
		s.validator = fn
	}
}
