package cache

import "errors"

var (
	// ErrMiss is returned by Get when no snapshot is cached.
	ErrMiss = errors.New("snapshot cache miss")
	// ErrConnection is returned when Redis cannot be reached at startup.
	ErrConnection = errors.New("snapshot cache connection failed")
	// ErrSerialization wraps snapshot encode/decode failures.
	ErrSerialization = errors.New("snapshot cache serialization failed")
)
