package core

import "sync/atomic"

// Diagnostics holds the monotonic, process-local counters describing pool
// activity. A single Diagnostics value may be shared by several pools (the
// keyed variant shares one across all sub-pools).
//
// Counting is gated by the enabled flag, which is sampled exactly once per
// event so the hot paths stay branch-predictable. Counters never decrease
// and are not reset by Clear or Close.
type Diagnostics struct {
	enabled atomic.Bool

	created        atomic.Int64
	destroyed      atomic.Int64
	hit            atomic.Int64
	miss           atomic.Int64
	overflow       atomic.Int64
	resetFailed    atomic.Int64
	resurrected    atomic.Int64
	returnedToPool atomic.Int64

	// resurrectionSupported records whether the owning pool arms finalizer
	// rescue on its leases. Exposed so callers (and tests) can branch on
	// whether abandoned leases are reclaimed automatically.
	resurrectionSupported atomic.Bool
}

// NewDiagnostics returns a Diagnostics with counting enabled.
func NewDiagnostics() *Diagnostics {
	d := &Diagnostics{}
	d.enabled.Store(true)
	return d
}

// Enabled reports whether counting is enabled.
func (d *Diagnostics) Enabled() bool { return d.enabled.Load() }

// SetEnabled toggles counting. Disabling does not reset the counters.
func (d *Diagnostics) SetEnabled(v bool) { d.enabled.Store(v) }

// ResurrectionSupported reports whether the owning pool reclaims leases that
// are dropped without an explicit release.
func (d *Diagnostics) ResurrectionSupported() bool { return d.resurrectionSupported.Load() }

func (d *Diagnostics) setResurrectionSupported(v bool) { d.resurrectionSupported.Store(v) }

func (d *Diagnostics) addCreated() {
	if d.enabled.Load() {
		d.created.Add(1)
	}
}

func (d *Diagnostics) addDestroyed() {
	if d.enabled.Load() {
		d.destroyed.Add(1)
	}
}

func (d *Diagnostics) addHit() {
	if d.enabled.Load() {
		d.hit.Add(1)
	}
}

func (d *Diagnostics) addMiss() {
	if d.enabled.Load() {
		d.miss.Add(1)
	}
}

func (d *Diagnostics) addOverflow() {
	if d.enabled.Load() {
		d.overflow.Add(1)
	}
}

func (d *Diagnostics) addResetFailed() {
	if d.enabled.Load() {
		d.resetFailed.Add(1)
	}
}

func (d *Diagnostics) addResurrected() {
	if d.enabled.Load() {
		d.resurrected.Add(1)
	}
}

func (d *Diagnostics) addReturnedToPool() {
	if d.enabled.Load() {
		d.returnedToPool.Add(1)
	}
}

// Created returns the number of objects constructed by the factory.
func (d *Diagnostics) Created() int64 { return d.created.Load() }

// Destroyed returns the number of objects whose resources have been released.
func (d *Diagnostics) Destroyed() int64 { return d.destroyed.Load() }

// Hit returns the number of acquisitions satisfied from the buffer.
func (d *Diagnostics) Hit() int64 { return d.hit.Load() }

// Miss returns the number of acquisitions that required factory construction.
func (d *Diagnostics) Miss() int64 { return d.miss.Load() }

// Overflow returns the number of releases that found the buffer full.
func (d *Diagnostics) Overflow() int64 { return d.overflow.Load() }

// ResetFailed returns the number of releases whose reset hook failed.
func (d *Diagnostics) ResetFailed() int64 { return d.resetFailed.Load() }

// Resurrected returns the number of objects reclaimed from abandoned leases.
func (d *Diagnostics) Resurrected() int64 { return d.resurrected.Load() }

// ReturnedToPool returns the number of releases that re-entered the buffer.
func (d *Diagnostics) ReturnedToPool() int64 { return d.returnedToPool.Load() }

// Live returns the number of objects currently alive (created - destroyed).
func (d *Diagnostics) Live() int64 { return d.created.Load() - d.destroyed.Load() }

// DiagnosticsSnapshot is a point-in-time copy of every counter. Individual
// fields are read independently, so a snapshot taken under concurrent load
// is not a single consistent cut — it is meant for reporting, not invariant
// checking.
type DiagnosticsSnapshot struct {
	Created        int64
	Destroyed      int64
	Hit            int64
	Miss           int64
	Overflow       int64
	ResetFailed    int64
	Resurrected    int64
	ReturnedToPool int64
}

// Snapshot returns a copy of all counters.
func (d *Diagnostics) Snapshot() DiagnosticsSnapshot {
	return DiagnosticsSnapshot{
		Created:        d.created.Load(),
		Destroyed:      d.destroyed.Load(),
		Hit:            d.hit.Load(),
		Miss:           d.miss.Load(),
		Overflow:       d.overflow.Load(),
		ResetFailed:    d.resetFailed.Load(),
		Resurrected:    d.resurrected.Load(),
		ReturnedToPool: d.returnedToPool.Load(),
	}
}
