package gridmap

import "errors"

var (
	// ErrInvalidGeometry reports a non-positive size or resolution, or a
	// layer whose shape does not match the grid.
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrUninitializedGrid reports an operation that needs geometry before
	// SetGeometry was called.
	ErrUninitializedGrid = errors.New("grid geometry not set")
	ErrDuplicateLayer    = errors.New("duplicate layer")
	ErrUnknownLayer      = errors.New("unknown layer")
	ErrOutOfRange        = errors.New("index out of range")
	// ErrOutsideExtent reports a position outside the physical bounds of a
	// grid where the caller required it to be inside.
	ErrOutsideExtent = errors.New("position outside grid extent")
	// ErrMisaligned reports two grids that cannot be mapped onto each other
	// by an integer cell translation.
	ErrMisaligned = errors.New("grids not translation aligned")
	// ErrUnsupported reports an invalid combination of transfer options.
	ErrUnsupported = errors.New("unsupported transfer options")
)
