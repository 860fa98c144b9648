package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	slackgo "github.com/slack-go/slack"

	service "github.com/aocbot/aocbot/internal/app"
	"github.com/aocbot/aocbot/internal/adapters/slack"
	"github.com/aocbot/aocbot/internal/domain/calendar"
	"github.com/aocbot/aocbot/pkg/logger"
	"github.com/aocbot/aocbot/pkg/metrics"
)

// CommandsHandler answers the /aoc slash command.
type CommandsHandler struct {
	svc       Service
	messenger Messenger
	render    *slack.Renderer
	log       logger.Logger
	now       nowFunc
}

// NewCommandsHandler creates a new slash command handler.
func NewCommandsHandler(svc Service, messenger Messenger, render *slack.Renderer, log logger.Logger, now nowFunc) *CommandsHandler {
	return &CommandsHandler{svc: svc, messenger: messenger, render: render, log: log, now: now}
}

// HandleCommand handles POST /slack/commands. Both "/aoc start 3" and
// "/aoc-start 3" select the same subcommand.
func (h *CommandsHandler) HandleCommand(w http.ResponseWriter, r *http.Request) {
	const op = "api.slack_command"
	cmd, err := slackgo.SlashCommandParse(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	sub, arg := splitCommand(cmd)
	metrics.RecordCommand(sub)
	ctx := r.Context()
	log := h.log.With(
		logger.String("request_id", RequestID(ctx)),
		logger.String("command", sub),
		logger.String("user_id", cmd.UserID),
	)

	var reply any
	switch sub {
	case "", "help":
		reply = slack.Reply(slack.Help)
	case "register":
		err = h.messenger.OpenRegistration(ctx, cmd.TriggerID, cmd.UserID)
	case "start":
		reply, err = h.start(ctx, cmd, arg)
	case "daily":
		reply, err = h.daily(ctx, cmd, arg)
	case "overall":
		reply, err = h.overall(ctx, cmd)
	case "leaderboard":
		reply, err = h.leaderboard(ctx, cmd, arg)
	default:
		reply = slack.Reply("Unknown command `" + sub + "`.\n\n" + slack.Help)
	}

	if err != nil {
		log.Error(ctx, "slash command failed", logger.Error(Wrap(op, err)))
		metrics.RecordErrorByComponent("slack_command", sub)
		writeSlackText(w, slack.MsgGeneric)
		return
	}
	log.Debug(ctx, "slash command handled")
	if reply == nil {
		ack(w)
		return
	}
	writeSlack(w, reply)
}

func splitCommand(cmd slackgo.SlashCommand) (sub, arg string) {
	text := strings.TrimSpace(cmd.Text)
	if name, ok := strings.CutPrefix(strings.TrimPrefix(cmd.Command, "/"), "aoc-"); ok {
		return strings.ToLower(name), text
	}
	sub, arg, _ = strings.Cut(text, " ")
	return strings.ToLower(sub), strings.TrimSpace(arg)
}

func (h *CommandsHandler) start(ctx context.Context, cmd slackgo.SlashCommand, arg string) (any, error) {
	day, err := calendar.ParseDay(arg)
	if err != nil {
		return slack.Reply(slack.MsgInvalidDay), nil
	}
	o, err := h.svc.RecordStart(ctx, cmd.UserID, day, h.now())
	if errors.Is(err, service.ErrNotRegistered) {
		return slack.Reply(slack.MsgNotRegistered), nil
	}
	if err != nil {
		return nil, err
	}
	return slack.Reply("Start time recorded", h.render.ManualStart(h.svc.Calendar().Year, day, o.StartTS)...), nil
}

func (h *CommandsHandler) daily(ctx context.Context, cmd slackgo.SlashCommand, arg string) (any, error) {
	day, err := calendar.ParseDay(arg)
	if err != nil {
		return slack.Reply(slack.MsgInvalidDay), nil
	}
	st, err := h.svc.DailyStatistics(ctx, cmd.UserID, day)
	if errors.Is(err, service.ErrNotRegistered) {
		return slack.Reply(slack.MsgNotRegistered), nil
	}
	if err != nil {
		return nil, err
	}
	return slack.Reply("Your daily statistics", h.render.DailyStatistics(st)...), nil
}

func (h *CommandsHandler) overall(ctx context.Context, cmd slackgo.SlashCommand) (any, error) {
	st, err := h.svc.OverallStatistics(ctx, cmd.UserID)
	if errors.Is(err, service.ErrNotRegistered) {
		return slack.Reply(slack.MsgNotRegistered), nil
	}
	if err != nil {
		return nil, err
	}
	return slack.Reply("Your overall statistics", h.render.OverallStatistics(st)...), nil
}

// leaderboard posts the day's leaderboard to the channel the command came from.
func (h *CommandsHandler) leaderboard(ctx context.Context, cmd slackgo.SlashCommand, arg string) (any, error) {
	day, err := calendar.ParseDay(arg)
	if err != nil {
		return slack.Reply(slack.MsgInvalidDay), nil
	}
	if !h.svc.IsAdmin(cmd.UserID) {
		return slack.Reply(slack.MsgAdminCommand), nil
	}
	lb, err := h.svc.Leaderboard(ctx, day)
	if err != nil {
		return nil, err
	}
	if _, err := h.messenger.Post(ctx, cmd.ChannelID, slack.LeaderboardText(day), h.render.Leaderboard(lb)); err != nil {
		return nil, err
	}
	return nil, nil
}
