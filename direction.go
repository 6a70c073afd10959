package objectpool

import "github.com/giantswarm/objectpool/internal/core"

// ValidationDirection tells a validator which boundary an object is
// crossing. See the individual constant documentation for when each
// direction runs.
//
// ValidationDirection is a type alias (not a named type) so that the
// underlying [core.ValidationDirection] methods are part of the public API:
//
//   - IsValid reports whether the value is a recognized direction.
//   - String returns the direction name (implements [fmt.Stringer]).
type ValidationDirection = core.ValidationDirection

const (
	// Outbound validation runs before an object is handed to an acquirer.
	// It applies to cached objects and freshly constructed ones alike, and
	// it is the direction the evictor uses during scans.
	Outbound = core.Outbound

	// Inbound validation runs during release, after the reset hook and
	// before the object re-enters the pool. A failing inbound check destroys
	// the object.
	Inbound = core.Inbound
)
