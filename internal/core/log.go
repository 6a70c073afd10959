package core

import (
	"log/slog"
	"sync"
)

// Pool logging is cold-path only: warnings on failed hooks, debug records
// from the evictor and scheduler. Acquire and release never log on success,
// so the logger state sits behind a plain mutex instead of atomics — the
// lock is never contended by the rental hot path.
var logState struct {
	mu sync.Mutex

	// custom is the logger installed via SetLogger; nil means none.
	custom *slog.Logger

	// fallback is lazily derived from slog.Default() with the component
	// attribute. It is rebuilt after SetLogger(nil), which lets callers pick
	// up a later slog.SetDefault() by resetting.
	fallback *slog.Logger
}

// Logger returns the logger pool internals write to: the one installed via
// SetLogger, or a lazily built slog.Default()-derived logger with the
// objectpool component attribute. Safe to call from multiple goroutines;
// never returns nil.
func Logger() *slog.Logger {
	logState.mu.Lock()
	defer logState.mu.Unlock()
	if logState.custom != nil {
		return logState.custom
	}
	if logState.fallback == nil {
		logState.fallback = slog.Default().With("component", "objectpool")
	}
	return logState.fallback
}

// SetLogger replaces the package-level logger. Passing nil reverts to the
// default and discards the cached fallback, so the next Logger() call
// re-derives it from the current slog.Default().
//
// SetLogger is safe to call concurrently with other pool operations.
func SetLogger(l *slog.Logger) {
	logState.mu.Lock()
	defer logState.mu.Unlock()
	logState.custom = l
	logState.fallback = nil
}
