// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) initializer to build a Config with defaults.
// - Nested sections map to dotted koanf keys (slack.signing_secret).
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"
	"time"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// MinRefreshInterval is the polling floor requested by adventofcode.com.
const MinRefreshInterval = 15 * time.Minute

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	AOC         AOCConfig         `koanf:"aoc"`
	Slack       SlackConfig       `koanf:"slack"`
	Storage     StorageConfig     `koanf:"storage"`
	Redis       RedisConfig       `koanf:"redis"`
	Leaderboard LeaderboardConfig `koanf:"leaderboard"`
}

// AOCConfig identifies the event and private leaderboard.
type AOCConfig struct {
	Event         int    `koanf:"event"`
	LeaderboardID string `koanf:"leaderboard_id"`
	// SessionToken is the adventofcode.com session cookie of the leaderboard owner.
	SessionToken string        `koanf:"session_token"`
	BaseURL      string        `koanf:"base_url"`
	UserAgent    string        `koanf:"user_agent"`
	Timeout      time.Duration `koanf:"timeout"`
	// RefreshInterval drives the cache warm-up job. Raised to MinRefreshInterval.
	RefreshInterval time.Duration `koanf:"refresh_interval"`
}

// SlackConfig holds the app credentials and the facilitator identity.
type SlackConfig struct {
	BotToken      string `koanf:"bot_token"`
	SigningSecret string `koanf:"signing_secret"`
	// AdminID is the Slack user allowed to post and refresh leaderboards.
	AdminID string `koanf:"admin_id"`
	APIURL  string `koanf:"api_url"`
}

// StorageConfig selects the participant store backend.
type StorageConfig struct {
	Driver string `koanf:"driver"`
	DSN    string `koanf:"dsn"`
}

// RedisConfig enables the snapshot cache when Addr is set.
type RedisConfig struct {
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	TTL      time.Duration `koanf:"ttl"`
}

// LeaderboardConfig toggles optional rendering details.
type LeaderboardConfig struct {
	// OverallDuration appends cumulative time to competitive overall entries.
	OverallDuration bool `koanf:"overall_duration"`
	// DetailedSplits shows part 1 and part 2 times in the competitive list.
	DetailedSplits bool `koanf:"detailed_splits"`
}

// RedisEnabled reports whether a snapshot cache is configured.
func (c *Config) RedisEnabled() bool {
	return c.Redis.Addr != ""
}

// EffectiveRefreshInterval applies the polling floor.
func (c *Config) EffectiveRefreshInterval() time.Duration {
	if c.AOC.RefreshInterval < MinRefreshInterval {
		return MinRefreshInterval
	}
	return c.AOC.RefreshInterval
}

// New creates a Config with defaults. Context is accepted first to follow
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel: "info",
		Addr:     ":9080",
		AOC: AOCConfig{
			Event:           defaultEvent(time.Now().UTC()),
			BaseURL:         "https://adventofcode.com",
			UserAgent:       "github.com/aocbot/aocbot (slack leaderboard bot)",
			Timeout:         10 * time.Second,
			RefreshInterval: MinRefreshInterval,
		},
		Storage: StorageConfig{
			Driver: DriverMemory,
		},
		Redis: RedisConfig{
			TTL: MinRefreshInterval,
		},
	}
}

// defaultEvent is the most recent December on or before now.
func defaultEvent(now time.Time) int {
	if now.Month() < time.December {
		return now.Year() - 1
	}
	return now.Year()
}
