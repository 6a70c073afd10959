package objectpool

import (
	"fmt"

	"github.com/giantswarm/objectpool/internal/core"
)

// settings accumulates Option values before they are lowered into a typed
// core.Config. The hook fields are stored untyped because Option is not
// generic over the pooled value type; resolveHooks re-types them at
// construction, where the pool's value type is known.
type settings struct {
	maxSize     int // 0 means "use the constructor's default"
	attempts    int
	eviction    EvictionSettings
	scheduler   EvictionScheduler
	clock       Clock
	finalizer   bool
	diagnostics bool

	reset            any
	releaseResources any
	validator        any
}

// defaultSettings returns the settings every constructor starts from.
func defaultSettings() settings {
	return settings{
		attempts:    DefaultAcquireAttempts,
		finalizer:   true,
		diagnostics: true,
	}
}

// newTemplate applies opts over the defaults and lowers the result into a
// core.Config without a factory. defaultMax fills MaxSize when WithMaxSize
// was not used (New and NewKeyed default differently).
func newTemplate[T any](defaultMax int, opts []Option) core.Config[T] {
	s := defaultSettings()
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}

	maxSize := s.maxSize
	if maxSize == 0 {
		maxSize = defaultMax
	}

	cfg := core.Config[T]{
		MaxSize:               maxSize,
		AcquireAttempts:       s.attempts,
		Eviction:              s.eviction,
		Scheduler:             s.scheduler,
		Clock:                 s.clock,
		FinalizerResurrection: s.finalizer,
		DiagnosticsEnabled:    s.diagnostics,
	}
	resolveHooks(&cfg, s)
	return cfg
}

// resolveHooks re-types the untyped hook values against the pool's value
// type. A mismatch is a programmer error (a hook written for a different
// pool), reported by panic at construction time like every other invalid
// option.
func resolveHooks[T any](cfg *core.Config[T], s settings) {
	if s.reset != nil {
		fn, ok := s.reset.(func(T) error)
		if !ok {
			panic(fmt.Sprintf("objectpool: reset hook type %T does not match pool value type %s", s.reset, typeName[T]()))
		}
		cfg.Reset = core.Hook[T](fn)
	}
	if s.releaseResources != nil {
		fn, ok := s.releaseResources.(func(T) error)
		if !ok {
			panic(fmt.Sprintf("objectpool: release-resources hook type %T does not match pool value type %s", s.releaseResources, typeName[T]()))
		}
		cfg.ReleaseResources = core.Hook[T](fn)
	}
	if s.validator != nil {
		fn, ok := s.validator.(func(ValidationDirection, T) bool)
		if !ok {
			panic(fmt.Sprintf("objectpool: validator type %T does not match pool value type %s", s.validator, typeName[T]()))
		}
		cfg.Validator = core.Validator[T](fn)
	}
}

// typeName renders T for hook-mismatch panic messages.
func typeName[T any]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}
