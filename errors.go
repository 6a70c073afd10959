package objectpool

import (
	"github.com/giantswarm/objectpool/internal/core"
	"github.com/giantswarm/objectpool/internal/sentinel"
)

// Sentinel errors for error inspection with errors.Is.
//
// These use the sentinel.Error const pattern instead of errors.New vars.
// sentinel.Error is a string type implementing error, allowing errors to be
// declared as const. This prevents accidental reassignment and enables
// compile-time immutability, while remaining compatible with errors.Is
// through Go's default == comparison on comparable types.
const (
	// ErrPoolClosed is returned by Acquire after Close has been called.
	ErrPoolClosed = core.ErrPoolClosed

	// ErrInvalidMaxSize is returned by Resize and SetMaxSize when the
	// requested bound is below 1.
	ErrInvalidMaxSize = core.ErrInvalidMaxSize

	// ErrAcquireRetriesExhausted is returned by Acquire when every candidate
	// it examined failed outbound validation within the configured attempt
	// cap (see WithAcquireAttempts).
	ErrAcquireRetriesExhausted = core.ErrAcquireRetriesExhausted

	// ErrSchedulerDisposed is returned by Schedule on a disposed scheduler.
	ErrSchedulerDisposed = core.ErrSchedulerDisposed

	// ErrLeaseReleased is returned by Lease.Value after Release has
	// completed. The underlying object may already be rented to another
	// consumer, so handing out the value would break exclusive ownership.
	ErrLeaseReleased = sentinel.Error("lease has been released")

	// ErrDoubleRelease is returned by Lease.Release when called more than
	// once on the same acquisition. The first Release returned the object to
	// the pool; subsequent calls perform no action.
	ErrDoubleRelease = sentinel.Error("lease released twice")
)
