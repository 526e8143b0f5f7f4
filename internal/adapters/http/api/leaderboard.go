package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/eccstats/ecc-rankings/internal/adapters/repository"
	"github.com/eccstats/ecc-rankings/internal/domain/types"
)

// defaultLimit applies when the limit query parameter is absent.
const defaultLimit = 10

// LeaderboardDependencies defines the interface for leaderboard operations.
type LeaderboardDependencies interface {
	TopN(ctx context.Context, d types.Discipline, n int) ([]Entry, error)
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps     LeaderboardDependencies
	maxLimit int
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies, maxLimit int) *LeaderboardHandler {
	if maxLimit < 1 {
		maxLimit = defaultLimit
	}
	return &LeaderboardHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetLeaderboard handles GET /leaderboard/{discipline}?limit=N requests.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	d, ok := discipline(r)
	if !ok {
		writeStoreError(w, op, fmt.Errorf("%w: %q", repository.ErrUnknownDiscipline, r.PathValue("discipline")))
		return
	}

	n := min(defaultLimit, h.maxLimit)
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, fmt.Errorf("%w: limit must be a positive integer", ErrBadRequest)))
			return
		}
		if v > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", Wrap(op, fmt.Errorf("%w: limit above %d", ErrBadRequest, h.maxLimit)))
			return
		}
		n = v
	}

	entries, err := h.deps.TopN(r.Context(), d, n)
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
