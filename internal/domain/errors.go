package domain

import "errors"

// Domain errors returned by the public API; check with errors.Is.
var (
	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("objfilter: invalid configuration")

	// ErrNoSource is returned when a node is constructed without any
	// frame source.
	ErrNoSource = errors.New("objfilter: no frame source configured")
)
