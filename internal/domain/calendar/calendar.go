// Package calendar maps Advent of Code days to unlock instants.
package calendar

import (
	"strconv"
	"strings"
	"time"
)

const (
	FirstDay = 1
	LastDay  = 25

	// DaySeconds is the spacing between puzzle unlocks.
	DaySeconds = 86400

	unlockHourUTC = 5 // midnight EST
)

// Calendar describes one event year.
type Calendar struct {
	Year int
}

// New returns the calendar for year.
func New(year int) Calendar {
	return Calendar{Year: year}
}

// Start is the unlock instant of day 1.
func (c Calendar) Start() time.Time {
	return time.Date(c.Year, time.December, 1, unlockHourUTC, 0, 0, 0, time.UTC)
}

// DayStart returns the unlock instant of day in Unix seconds.
func (c Calendar) DayStart(day int) int64 {
	return c.Start().Unix() + int64(day-1)*DaySeconds
}

// CurrentDay returns the latest unlocked day, clamped to the event bounds.
func (c Calendar) CurrentDay(now time.Time) int {
	elapsed := now.Unix() - c.Start().Unix()
	if elapsed < 0 {
		return FirstDay
	}
	day := int(elapsed/DaySeconds) + 1
	if day > LastDay {
		return LastDay
	}
	return day
}

// ParseDay parses a day argument. Only integers in [1,25] are accepted.
func ParseDay(text string) (int, error) {
	day, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || day < FirstDay || day > LastDay {
		return 0, ErrInvalidDay
	}
	return day, nil
}
