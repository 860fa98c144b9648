package slack

import (
	"net/http"

	"github.com/aocbot/aocbot/pkg/logger"
)

// Option configures a Messenger.
type Option func(*Messenger)

// WithAPIURL points the client at another Web API base, e.g. a test server.
// The URL must end with a slash.
func WithAPIURL(url string) Option {
	return func(m *Messenger) {
		m.apiURL = url
	}
}

// WithHTTPClient sets the HTTP client used for Web API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(m *Messenger) {
		if c != nil {
			m.httpClient = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(m *Messenger) {
		if l != nil {
			m.log = l
		}
	}
}
