package objectpool

import "github.com/giantswarm/objectpool/internal/core"

// Diagnostics holds the monotonic counters describing pool activity:
// created, destroyed, hit, miss, overflow, resetFailed, resurrected, and
// returnedToPool, plus the derived Live count. A keyed pool shares one
// Diagnostics across all its sub-pools.
//
// Counting is gated by a toggle (SetEnabled) that is sampled once per event,
// keeping the hot paths branch-predictable. Counters never decrease and are
// not reset by Clear or Close.
//
// Diagnostics is a type alias so the [core.Diagnostics] methods — the
// per-counter getters, Snapshot, SetEnabled, and ResurrectionSupported —
// are part of the public API without redeclaration.
type Diagnostics = core.Diagnostics

// DiagnosticsSnapshot is a point-in-time copy of every counter, for
// reporting. Fields are read independently, so a snapshot under concurrent
// load is not a single consistent cut.
type DiagnosticsSnapshot = core.DiagnosticsSnapshot
