package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound = errors.New("participant not found")
	// ErrConflict is returned when an aoc id is already linked to another Slack user.
	ErrConflict  = errors.New("advent of code id already registered")
	ErrMigration = errors.New("schema migration failed")
)
