package objectpool

// FinalizeForTesting runs the lease's finalizer path synchronously. This is
// exported only for use in test packages (package objectpool_test), where it
// makes the resurrection path deterministic instead of depending on garbage
// collection timing.
func (l *Lease[T]) FinalizeForTesting() { l.finalize() }
