package slack

import "errors"

var (
	// ErrNoDay is returned when a posted message carries no day number.
	ErrNoDay = errors.New("message does not name a day")
	// ErrMetadata is returned for views whose private metadata cannot be read.
	ErrMetadata = errors.New("invalid view metadata")
	// ErrUnknownView is returned for view submissions this bot did not open.
	ErrUnknownView = errors.New("unknown view type")
	// ErrMissingField is returned when a submitted view lacks a required value.
	ErrMissingField = errors.New("missing view field")
)
