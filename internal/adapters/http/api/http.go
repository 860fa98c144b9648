// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	slackgo "github.com/slack-go/slack"

	"github.com/aocbot/aocbot/internal/adapters/http/swagger"
	"github.com/aocbot/aocbot/internal/adapters/slack"
	"github.com/aocbot/aocbot/internal/domain/calendar"
	"github.com/aocbot/aocbot/internal/domain/model"
	"github.com/aocbot/aocbot/internal/domain/types"
	"github.com/aocbot/aocbot/pkg/logger"
)

// Service is the application surface used by the handlers.
type Service interface {
	Leaderboard(ctx context.Context, day int) (*types.Leaderboard, error)
	DailyStatistics(ctx context.Context, slackID string, day int) (types.DailyStatistics, error)
	OverallStatistics(ctx context.Context, slackID string) (types.OverallStatistics, error)
	Register(ctx context.Context, p model.Participant) error
	RecordStart(ctx context.Context, slackID string, day int, now time.Time) (model.StartOverride, error)
	IsAdmin(slackID string) bool
	Calendar() calendar.Calendar
}

// Messenger performs Slack Web API calls on behalf of the bot.
type Messenger interface {
	Post(ctx context.Context, channel, text string, blocks []slackgo.Block) (string, error)
	Update(ctx context.Context, channel, ts, text string, blocks []slackgo.Block) error
	Delete(ctx context.Context, channel, ts string) error
	OpenRegistration(ctx context.Context, triggerID, slackID string) error
}

type nowFunc func() time.Time

// Server wires HTTP routes for the bot.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	leaderboardHandler  *LeaderboardHandler
	commandsHandler     *CommandsHandler
	interactionsHandler *InteractionsHandler

	signingSecret string
	log           logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(svc Service, messenger Messenger, statsProvider StatsProvider, signingSecret string, opts ...Option) *Server {
	o := options{
		log:      logger.Nop(),
		now:      time.Now,
		renderer: slack.NewRenderer(false),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{
		healthHandler:       NewHealthHandler(),
		statsHandler:        NewStatsHandler(statsProvider),
		leaderboardHandler:  NewLeaderboardHandler(svc, o.log, o.now),
		commandsHandler:     NewCommandsHandler(svc, messenger, o.renderer, o.log, o.now),
		interactionsHandler: NewInteractionsHandler(svc, messenger, o.renderer, o.log),
		signingSecret:       signingSecret,
		log:                 o.log,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	verify := func(next http.HandlerFunc) http.HandlerFunc {
		return VerifySlack(next, s.signingSecret, s.log)
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/slack/commands", MetricsMiddleware(verify(s.commandsHandler.HandleCommand), "slack_commands"))
	mux.HandleFunc("/slack/interactions", MetricsMiddleware(verify(s.interactionsHandler.HandleInteraction), "slack_interactions"))
}

// Handler returns the API and docs routes wrapped with request ids.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	swagger.Register(mux)
	s.Register(mux)
	return RequestIDMiddleware(mux)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeSlack answers a Slack request. Slack only displays 200 responses.
func writeSlack(w http.ResponseWriter, v any) {
	writeJSON(w, http.StatusOK, v)
}

func writeSlackText(w http.ResponseWriter, text string) {
	writeSlack(w, slack.Reply(text))
}

// ack answers with an empty 200, which Slack takes as success.
func ack(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
}
