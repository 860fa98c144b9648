package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	slackgo "github.com/slack-go/slack"

	"github.com/aocbot/aocbot/internal/adapters/repository"
	"github.com/aocbot/aocbot/internal/adapters/slack"
	"github.com/aocbot/aocbot/internal/domain/model"
	"github.com/aocbot/aocbot/pkg/logger"
	"github.com/aocbot/aocbot/pkg/metrics"
)

// InteractionsHandler answers message shortcuts, block actions and view submissions.
type InteractionsHandler struct {
	svc       Service
	messenger Messenger
	render    *slack.Renderer
	log       logger.Logger
}

// NewInteractionsHandler creates a new interactivity handler.
func NewInteractionsHandler(svc Service, messenger Messenger, render *slack.Renderer, log logger.Logger) *InteractionsHandler {
	return &InteractionsHandler{svc: svc, messenger: messenger, render: render, log: log}
}

// HandleInteraction handles POST /slack/interactions.
func (h *InteractionsHandler) HandleInteraction(w http.ResponseWriter, r *http.Request) {
	const op = "api.slack_interaction"
	var cb slackgo.InteractionCallback
	if err := json.Unmarshal([]byte(r.FormValue("payload")), &cb); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	ctx := r.Context()
	log := h.log.With(
		logger.String("request_id", RequestID(ctx)),
		logger.String("type", string(cb.Type)),
		logger.String("callback_id", cb.CallbackID),
		logger.String("user_id", cb.User.ID),
	)
	metrics.RecordInteraction(string(cb.Type))

	var (
		reply any
		err   error
	)
	switch cb.Type {
	case slackgo.InteractionTypeBlockActions:
		// Link buttons still report a click; nothing to do.
	case slackgo.InteractionTypeMessageAction:
		reply, err = h.messageAction(ctx, cb)
	case slackgo.InteractionTypeViewSubmission:
		reply, err = h.viewSubmission(ctx, cb)
	default:
		err = NewKind(op, ErrUnknownPayload)
	}

	if err != nil {
		log.Error(ctx, "interaction failed", logger.Error(Wrap(op, err)))
		metrics.RecordErrorByComponent("slack_interaction", string(cb.Type))
		writeSlackText(w, slack.MsgGeneric)
		return
	}
	if reply == nil {
		ack(w)
		return
	}
	writeSlack(w, reply)
}

func (h *InteractionsHandler) messageAction(ctx context.Context, cb slackgo.InteractionCallback) (any, error) {
	switch cb.CallbackID {
	case slack.CallbackRefreshLeaderboard, slack.CallbackDeleteLeaderboard:
	default:
		return nil, ErrUnknownPayload
	}
	if !h.svc.IsAdmin(cb.User.ID) {
		return slack.Reply(slack.MsgAdminAction), nil
	}

	ts := cb.MessageTs
	if ts == "" {
		ts = cb.Message.Timestamp
	}
	if cb.CallbackID == slack.CallbackDeleteLeaderboard {
		return nil, h.messenger.Delete(ctx, cb.Channel.ID, ts)
	}

	day, err := slack.DayFromMessage(cb.Message)
	if err != nil {
		return nil, err
	}
	lb, err := h.svc.Leaderboard(ctx, day)
	if err != nil {
		return nil, err
	}
	return nil, h.messenger.Update(ctx, cb.Channel.ID, ts, slack.LeaderboardText(day), h.render.Leaderboard(lb))
}

// viewSubmission stores a registration. Validation problems are shown on
// the aoc id field and keep the modal open.
func (h *InteractionsHandler) viewSubmission(ctx context.Context, cb slackgo.InteractionCallback) (any, error) {
	p, err := slack.ParseRegistration(cb.View)
	if err != nil {
		return nil, err
	}
	if p.SlackID == "" {
		p.SlackID = cb.User.ID
	}

	err = h.svc.Register(ctx, p)
	switch {
	case errors.Is(err, repository.ErrConflict):
		return slackgo.NewErrorsViewSubmissionResponse(map[string]string{slack.AocIDBlock: slack.MsgAocIDTaken}), nil
	case errors.Is(err, model.ErrInvalidParticipant):
		return slackgo.NewErrorsViewSubmissionResponse(map[string]string{slack.AocIDBlock: slack.MsgAocIDNotNumeric}), nil
	case err != nil:
		return nil, err
	}
	return nil, nil
}
