package guard

import "errors"

var (
	// ErrInvalidConfig indicates a missing store or unusable registration.
	ErrInvalidConfig = errors.New("invalid guard configuration")

	// ErrUnknownEndpoint indicates a Do call for an endpoint that was
	// never registered.
	ErrUnknownEndpoint = errors.New("unknown endpoint")

	// ErrEndpointExists indicates a duplicate endpoint registration.
	ErrEndpointExists = errors.New("endpoint already registered")
)
