package session

import "errors"

var (
	// ErrNotFound is returned when a session cannot be found in the store.
	ErrNotFound = errors.New("session not found")
	// ErrNoActiveSession is returned when the registry holds no active session.
	ErrNoActiveSession = errors.New("no active session")
	// ErrExpired is returned when a session has aged past MaxAge.
	ErrExpired = errors.New("session has expired")
	// ErrInvalid is returned when a session's trust score falls to or
	// below the validity threshold.
	ErrInvalid = errors.New("session failed validation")
	// ErrTokenGeneration is returned when the random source fails.
	ErrTokenGeneration = errors.New("failed to generate session token")
	// ErrInvalidConfig is returned for unusable registry configuration.
	ErrInvalidConfig = errors.New("invalid session configuration")
	// ErrStoreFailure wraps storage backend errors.
	ErrStoreFailure = errors.New("session store failure")
)
