package aoc

import "errors"

var (
	// ErrUnexpectedStatus is returned for any non-200 leaderboard response.
	ErrUnexpectedStatus = errors.New("unexpected leaderboard status")
	// ErrDecode is returned when the body is not leaderboard JSON.
	ErrDecode = errors.New("decode leaderboard")
	// ErrNotConfigured is returned when the leaderboard id or session is missing.
	ErrNotConfigured = errors.New("leaderboard not configured")
)
