// Package repository holds the latest published rankings for reads.
package repository

import (
	"context"
	"time"

	"github.com/eccstats/ecc-rankings/internal/domain/types"
)

// Snapshot is one published set of leaderboards.
type Snapshot struct {
	RunID       string
	Club        string
	Season      string
	PublishedAt time.Time
	Boards      map[types.Discipline][]types.Entry
}

// Store provides read/write access to the ranking state.
type Store interface {
	// Publish replaces the current leaderboards atomically.
	Publish(ctx context.Context, snap Snapshot) error

	// Rank returns the entry of a player on one discipline's leaderboard.
	// Returns ErrNotFound if the player is not ranked.
	Rank(ctx context.Context, discipline types.Discipline, player string) (types.Entry, error)

	// TopN returns the first n entries of a leaderboard in rank order.
	TopN(ctx context.Context, discipline types.Discipline, n int) ([]types.Entry, error)

	// Count returns the number of players on a leaderboard.
	Count(ctx context.Context, discipline types.Discipline) int

	// Latest returns the current snapshot and whether one was published.
	Latest(ctx context.Context) (Snapshot, bool)
}
