package api

import (
	"errors"
	"net/http"

	service "github.com/aocbot/aocbot/internal/app"
	"github.com/aocbot/aocbot/internal/domain/calendar"
	"github.com/aocbot/aocbot/pkg/logger"
)

// LeaderboardHandler serves the four views as JSON.
type LeaderboardHandler struct {
	svc Service
	log logger.Logger
	now nowFunc
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(svc Service, log logger.Logger, now nowFunc) *LeaderboardHandler {
	return &LeaderboardHandler{svc: svc, log: log, now: now}
}

// HandleGetLeaderboard handles GET /leaderboard?day=N. Without day the
// current event day is used.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	day := h.svc.Calendar().CurrentDay(h.now())
	if raw := r.URL.Query().Get("day"); raw != "" {
		d, err := calendar.ParseDay(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		day = d
	}

	lb, err := h.svc.Leaderboard(r.Context(), day)
	switch {
	case errors.Is(err, service.ErrInvalidDay):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	case err != nil:
		h.log.Error(r.Context(), "leaderboard request failed", logger.String("request_id", RequestID(r.Context())), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", NewKind(op, errors.New("leaderboard unavailable")))
		return
	}
	writeJSON(w, http.StatusOK, lb)
}
