package model

import "errors"

var (
	ErrInvalidDivision    = errors.New("invalid division")
	ErrInvalidAIUsage     = errors.New("invalid ai usage")
	ErrInvalidParticipant = errors.New("invalid participant")
)
