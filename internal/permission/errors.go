package permission

import "errors"

var (
	// ErrNotFound is returned when a role or its stored permission set does not exist.
	// Resolvers treat it as "apply the fallback policy", never as a failure.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned when a permission set names an unknown module or
	// an action the module does not support. Nothing is written in that case.
	ErrValidation = errors.New("invalid permission set")

	// ErrInvalidArgument is returned when a check references an unknown module or action.
	// It points at a bug in the caller's configuration.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStorage is returned when the permission store could not be read or written.
	ErrStorage = errors.New("permission storage unavailable")
)
