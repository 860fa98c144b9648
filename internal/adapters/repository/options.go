package repository

import (
	"github.com/aocbot/aocbot/pkg/logger"
)

type options struct {
	event int
	log   logger.Logger
}

// Option configures a store.
type Option func(*options)

// WithEvent scopes overrides to an event year.
func WithEvent(year int) Option {
	return func(o *options) {
		if year > 0 {
			o.event = year
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{log: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
