package service

import (
	"time"

	"github.com/aocbot/aocbot/internal/domain/calendar"
	"github.com/aocbot/aocbot/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithCalendar sets the event calendar.
func WithCalendar(c calendar.Calendar) Option {
	return func(s *Service) {
		if c.Year > 0 {
			s.calendar = c
		}
	}
}

// WithLeaderboardID sets the private leaderboard id shown in links.
func WithLeaderboardID(id string) Option {
	return func(s *Service) {
		s.leaderboardID = id
	}
}

// WithAdmin sets the Slack user allowed to post and refresh leaderboards.
func WithAdmin(slackID string) Option {
	return func(s *Service) {
		s.adminID = slackID
	}
}

// WithOverallDuration computes cumulative durations for the overall view.
func WithOverallDuration(enabled bool) Option {
	return func(s *Service) {
		s.overallDuration = enabled
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
