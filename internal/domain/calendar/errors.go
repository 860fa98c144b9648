package calendar

import "errors"

// ErrInvalidDay is returned for day arguments outside [1,25].
var ErrInvalidDay = errors.New("invalid day")
