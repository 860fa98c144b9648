package service

import (
	"errors"

	"github.com/aocbot/aocbot/internal/domain/calendar"
)

var (
	// ErrNotRegistered is returned for Slack users without a registration.
	ErrNotRegistered = errors.New("participant not registered")
	// ErrInvalidDay is returned for days outside [1,25].
	ErrInvalidDay = calendar.ErrInvalidDay
)
