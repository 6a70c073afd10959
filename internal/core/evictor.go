package core

import "time"

// evict is one scheduled scan over the buffer's current occupants. Each
// invalid or stale object is re-claimed with TryRemove before destruction,
// so an object concurrently handed to an acquirer is never destroyed twice:
// the claim fails if another goroutine dequeued it first.
//
// Eviction never blocks acquisition and is best-effort: an object that
// escapes one scan is examined again on the next.
func (p *Pool[T]) evict() {
	snapshot := p.buf.Snapshot()
	if len(snapshot) == 0 {
		return
	}

	now := p.now()
	timeout := time.Duration(p.idleTimeout.Load())
	removed := 0

	for _, o := range snapshot {
		if p.stillValid(o, now, timeout) {
			continue
		}
		if p.buf.TryRemove(o) {
			p.destroy(o)
			removed++
		}
	}

	if removed > 0 {
		Logger().Debug("evicted idle objects", "removed", removed, "scanned", len(snapshot))
	}
}

// stillValid combines the idle-timeout predicate with outbound validation.
func (p *Pool[T]) stillValid(o *Object[T], now time.Time, timeout time.Duration) bool {
	if timeout > 0 {
		if last := o.LastUsed(); !last.IsZero() && now.Sub(last) > timeout {
			return false
		}
	}
	if p.cfg.Validator != nil && !p.cfg.Validator(Outbound, o.Value()) {
		return false
	}
	return true
}
