package registry

import "errors"

// Sentinel errors for consistent error handling.
var (
	ErrInvalidArgument = errors.New("invalid argument")
)
