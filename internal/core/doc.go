// Package core provides the internal implementation of the objectpool library.
//
// The primary types are:
//   - [Pool]: acquire/release orchestration over a slot buffer, with
//     factory-on-miss creation, validation retry capping, and eviction wiring.
//   - [Buffer]: bounded slot container for idle objects using per-slot
//     compare-and-swap, with identity removal and resize-with-excess.
//   - [Object]: per-instance identity and lifecycle state
//     (available → reserved → available/disposed) with an at-most-once
//     resource-release guard.
//   - [TimerScheduler]: ticket-based periodic task scheduler backing the
//     evictor, with per-ticket serialization and idempotent cancellation.
//   - [Diagnostics]: togglable monotonic counters shared by a pool (or a
//     family of keyed sub-pools).
//   - [Config]: validated, immutable configuration controlling pool size,
//     hooks, eviction, and the acquire retry cap.
package core
