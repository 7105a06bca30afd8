package voronoi

import "github.com/pkg/errors"

var (
	// ErrInsufficientSites is returned before any processing when fewer
	// than two distinct sites remain after duplicate resolution.
	ErrInsufficientSites = errors.New("voronoi: fewer than 2 distinct sites")

	// ErrDuplicateSite is returned under DuplicateReject when two sites
	// share coordinates after snapping.
	ErrDuplicateSite = errors.New("voronoi: duplicate site")

	// ErrInvalidBoundingBox is returned when an explicit bounding box
	// does not contain every site.
	ErrInvalidBoundingBox = errors.New("voronoi: bounding box does not contain all sites")

	// ErrMeshInvariant reports a broken half-edge invariant. It indicates
	// a bug in the construction, not a problem with the input, and aborts
	// finalization.
	ErrMeshInvariant = errors.New("voronoi: mesh invariant violated")
)
