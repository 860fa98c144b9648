// Package aoc fetches private leaderboards from adventofcode.com.
package aoc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aocbot/aocbot/internal/domain/model"
	"github.com/aocbot/aocbot/pkg/logger"
	"github.com/aocbot/aocbot/pkg/metrics"
)

const (
	defaultBaseURL   = "https://adventofcode.com"
	defaultUserAgent = "github.com/aocbot/aocbot"
	defaultTimeout   = 10 * time.Second
	maxBodyBytes     = 8 << 20
)

// Client reads one private leaderboard.
type Client struct {
	event         int
	leaderboardID string
	session       string

	baseURL   string
	userAgent string
	http      *http.Client
	log       logger.Logger
}

// NewClient returns a client for the leaderboard of event owned by the session.
func NewClient(event int, leaderboardID, session string, log logger.Logger, opts ...Option) *Client {
	c := &Client{
		event:         event,
		leaderboardID: leaderboardID,
		session:       session,
		baseURL:       defaultBaseURL,
		userAgent:     defaultUserAgent,
		http:          &http.Client{Timeout: defaultTimeout},
		log:           log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL is the JSON endpoint of the leaderboard.
func (c *Client) URL() string {
	return fmt.Sprintf("%s/%d/leaderboard/private/view/%s.json", c.baseURL, c.event, c.leaderboardID)
}

// Fetch downloads the leaderboard. It does not retry.
func (c *Client) Fetch(ctx context.Context) (model.Snapshot, error) {
	const op = "aoc.fetch"
	if c.leaderboardID == "" || c.session == "" {
		return model.Snapshot{}, fmt.Errorf("%s: %w", op, ErrNotConfigured)
	}

	start := time.Now()
	snap, err := c.fetch(ctx)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	if err != nil {
		metrics.RecordAOCFetch("error", elapsed)
		c.log.Error(ctx, "leaderboard fetch failed", logger.Error(err), logger.Float64("latency_ms", elapsed))
		return model.Snapshot{}, fmt.Errorf("%s: %w", op, err)
	}
	metrics.RecordAOCFetch("ok", elapsed)
	metrics.UpdateSnapshotMembers(len(snap.Members))
	c.log.Debug(ctx, "leaderboard fetched", logger.Int("members", len(snap.Members)), logger.Float64("latency_ms", elapsed))
	return snap, nil
}

func (c *Client) fetch(ctx context.Context) (model.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(), nil)
	if err != nil {
		return model.Snapshot{}, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.AddCookie(&http.Cookie{Name: "session", Value: c.session})

	resp, err := c.http.Do(req)
	if err != nil {
		return model.Snapshot{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return model.Snapshot{}, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	var dto leaderboardDTO
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&dto); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return dto.toModel(time.Now().UTC()), nil
}
