package repository

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/eccstats/ecc-rankings/internal/domain/types"
	"github.com/eccstats/ecc-rankings/pkg/metrics"
)

var disciplines = []types.Discipline{types.Batting, types.Bowling, types.AllRounder}

// published is an immutable snapshot plus its lookup index.
type published struct {
	snap     Snapshot
	byPlayer map[types.Discipline]map[string]int
}

// SnapshotStore is an in-memory Store. Readers never block: every Publish
// swaps in a fully built snapshot.
type SnapshotStore struct {
	snapshot atomic.Pointer[published]
	now      func() time.Time
	metrics  *metrics.Manager
}

// NewSnapshotStore creates an empty store.
func NewSnapshotStore(opts ...Option) *SnapshotStore {
	s := &SnapshotStore{now: time.Now, metrics: metrics.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Publish indexes and installs a snapshot. The caller's slices are copied.
func (s *SnapshotStore) Publish(ctx context.Context, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snap.PublishedAt.IsZero() {
		snap.PublishedAt = s.now()
	}

	boards := make(map[types.Discipline][]types.Entry, len(disciplines))
	index := make(map[types.Discipline]map[string]int, len(disciplines))
	for d, entries := range snap.Boards {
		if err := checkDiscipline(d); err != nil {
			return err
		}
		board := make([]types.Entry, len(entries))
		copy(board, entries)
		boards[d] = board

		byPlayer := make(map[string]int, len(board))
		for i, e := range board {
			if _, dup := byPlayer[e.Player]; !dup {
				byPlayer[e.Player] = i
			}
		}
		index[d] = byPlayer
	}
	snap.Boards = boards

	s.snapshot.Store(&published{snap: snap, byPlayer: index})
	s.metrics.SnapshotPublished(snap.PublishedAt.Unix())
	for _, d := range disciplines {
		s.metrics.PlayersRanked(string(d), len(boards[d]))
	}
	return nil
}

func checkDiscipline(d types.Discipline) error {
	if _, ok := types.ParseDiscipline(string(d)); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDiscipline, d)
	}
	return nil
}

// Rank looks a player up by exact name.
func (s *SnapshotStore) Rank(_ context.Context, discipline types.Discipline, player string) (types.Entry, error) {
	if err := checkDiscipline(discipline); err != nil {
		return types.Entry{}, err
	}
	p := s.snapshot.Load()
	if p == nil {
		return types.Entry{}, fmt.Errorf("%w: %q", ErrNotFound, player)
	}
	i, ok := p.byPlayer[discipline][player]
	if !ok {
		return types.Entry{}, fmt.Errorf("%w: %q", ErrNotFound, player)
	}
	return p.snap.Boards[discipline][i], nil
}

// TopN returns up to n leading entries; an empty store yields an empty list.
func (s *SnapshotStore) TopN(_ context.Context, discipline types.Discipline, n int) ([]types.Entry, error) {
	if err := checkDiscipline(discipline); err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, ErrInvalidLimit
	}
	p := s.snapshot.Load()
	if p == nil {
		return []types.Entry{}, nil
	}
	board := p.snap.Boards[discipline]
	if n > len(board) {
		n = len(board)
	}
	out := make([]types.Entry, n)
	copy(out, board[:n])
	return out, nil
}

// Count returns the leaderboard size of a discipline.
func (s *SnapshotStore) Count(_ context.Context, discipline types.Discipline) int {
	p := s.snapshot.Load()
	if p == nil {
		return 0
	}
	return len(p.snap.Boards[discipline])
}

// Latest returns the current snapshot. Its boards are shared and must not
// be modified.
func (s *SnapshotStore) Latest(_ context.Context) (Snapshot, bool) {
	p := s.snapshot.Load()
	if p == nil {
		return Snapshot{}, false
	}
	return p.snap, true
}
