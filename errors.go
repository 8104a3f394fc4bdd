package zoomgraph

import "errors"

var (
	// ErrNonPositiveScale is returned when a scale factor is zero or negative.
	ErrNonPositiveScale = errors.New("zoomgraph: scale factor must be positive")

	// ErrInvalidViewConstraint is returned for an unknown ViewConstraint value.
	ErrInvalidViewConstraint = errors.New("zoomgraph: invalid view constraint")

	// ErrCycle is returned when attaching a node would make it its own ancestor.
	ErrCycle = errors.New("zoomgraph: adding child would create a cycle")

	// ErrNoRoot is returned when an operation needs the node to be attached
	// beneath a Root (for example scheduling an animation).
	ErrNoRoot = errors.New("zoomgraph: node is not attached to a root")

	// ErrNotAttached is returned when a camera or layer reference is not
	// present where the caller expected it.
	ErrNotAttached = errors.New("zoomgraph: not attached")
)
