package datagrid

import "errors"

var (
	// ErrDestroyed is returned by operations
	// on a destroyed component.
	ErrDestroyed = errors.New("component destroyed")

	// ErrUnknownGroup is returned for a group id
	// that was not part of the last render.
	ErrUnknownGroup = errors.New("unknown group")

	// ErrNoColumns is returned by Config.Validate
	// for a config without columns.
	ErrNoColumns = errors.New("no columns configured")

	// ErrNoSurface is returned when creating
	// a component without a Surface to render into.
	ErrNoSurface = errors.New("no surface")
)
