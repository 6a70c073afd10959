package objectpool

import (
	"log/slog"

	"github.com/giantswarm/objectpool/internal/core"
)

// SetLogger replaces the package-level logger used by objectpool.
// This allows applications to integrate pool logging with their own
// logging infrastructure. The provided logger should already have any
// desired attributes; objectpool will not add additional attributes.
//
// If l is nil, the logger resets to the default: slog.Default() with the
// "component" attribute, re-derived on the next use and then cached. Call
// SetLogger(nil) after slog.SetDefault() to pick up changes.
//
// SetLogger is safe to call concurrently with other pool operations.
func SetLogger(l *slog.Logger) {
	core.SetLogger(l)
}
