package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/eccstats/ecc-rankings/internal/adapters/repository"
	"github.com/eccstats/ecc-rankings/internal/domain/types"
)

// RankDependencies defines the interface for rank operations.
type RankDependencies interface {
	Rank(ctx context.Context, d types.Discipline, player string) (Entry, error)
}

// RankHandler handles rank requests.
type RankHandler struct {
	deps RankDependencies
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(deps RankDependencies) *RankHandler {
	return &RankHandler{deps: deps}
}

// HandleGetRank handles GET /rank/{discipline}/{player} requests.
func (h *RankHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rank"
	d, ok := discipline(r)
	if !ok {
		writeStoreError(w, op, fmt.Errorf("%w: %q", repository.ErrUnknownDiscipline, r.PathValue("discipline")))
		return
	}
	player := strings.TrimSpace(r.PathValue("player"))
	if player == "" {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, ErrBadRequest))
		return
	}
	entry, err := h.deps.Rank(r.Context(), d, player)
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
