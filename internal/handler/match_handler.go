package handler

import (
	"net/http"
	"strconv"

	"github.com/veldtlabs/hexrift/internal/model"
	"github.com/veldtlabs/hexrift/internal/repository"
	"github.com/veldtlabs/hexrift/internal/scheduler"
)

// MatchHandler serves the match archive and live match stats.
type MatchHandler struct {
	matchRepo repository.MatchRepository // nil when archiving is disabled
	scheduler *scheduler.Scheduler
}

// NewMatchHandler creates a MatchHandler.
func NewMatchHandler(matchRepo repository.MatchRepository, sched *scheduler.Scheduler) *MatchHandler {
	return &MatchHandler{matchRepo: matchRepo, scheduler: sched}
}

// ListRecent handles GET /matches — recently finished matches.
func (h *MatchHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	if h.matchRepo == nil {
		writeJSON(w, http.StatusOK, []model.MatchRecord{})
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	recs, err := h.matchRepo.RecentMatches(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not list matches")
		return
	}
	if recs == nil {
		recs = []model.MatchRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

// Stats handles GET /matches/stats — live scheduler counters.
func (h *MatchHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"live_matches": h.scheduler.MatchCount(),
	})
}
