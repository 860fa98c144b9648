package api

import (
	"time"

	"github.com/aocbot/aocbot/internal/adapters/slack"
	"github.com/aocbot/aocbot/pkg/logger"
)

type options struct {
	log      logger.Logger
	now      nowFunc
	renderer *slack.Renderer
}

// Option configures the Server.
type Option func(*options)

// WithLogger sets the logger used by every handler.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithClock replaces time.Now for start times and the default day.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithRenderer sets the Block Kit renderer.
func WithRenderer(r *slack.Renderer) Option {
	return func(o *options) {
		if r != nil {
			o.renderer = r
		}
	}
}
