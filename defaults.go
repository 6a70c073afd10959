package objectpool

import "time"

// Default configuration values for New, NewTimed, and NewKeyed.
// These constants are exported so callers can reference the defaults
// when building custom configurations relative to them (e.g.,
// 2 * DefaultMaxSize).
const (
	// DefaultMaxSize is the idle-capacity bound of a pool created without
	// WithMaxSize. Acquisition beyond the bound still succeeds (a miss
	// constructs a fresh object); the bound caps how many idle objects the
	// pool retains.
	DefaultMaxSize = 16

	// DefaultKeyedMaxSize is the per-sub-pool idle-capacity bound of a
	// keyed pool created without WithMaxSize.
	DefaultKeyedMaxSize = 10

	// DefaultAcquireAttempts caps how many candidates a single Acquire may
	// validate before returning ErrAcquireRetriesExhausted. The cap exists
	// so a factory that keeps producing invalid objects turns into an error
	// instead of an unbounded spin.
	DefaultAcquireAttempts = 8

	// DefaultEvictionPeriod is the scan interval used by WithEviction when
	// the settings carry a zero period. Timed pools ignore it: their scan
	// interval equals the idle timeout.
	DefaultEvictionPeriod = time.Minute
)
