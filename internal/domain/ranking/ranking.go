// Package ranking orders scored records into a club ranking.
package ranking

import (
	"sort"

	"github.com/eccstats/ecc-rankings/internal/domain/model"
	"github.com/eccstats/ecc-rankings/internal/domain/types"
)

// Order returns a copy of items sorted by points descending, ties keeping
// their input order, with ranks 1..N and top-3 badges assigned through set.
func Order[T any](items []T, points func(T) float64, set func(*T, model.Standing)) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return points(out[i]) > points(out[j])
	})
	for i := range out {
		rank := i + 1
		set(&out[i], model.Standing{Rank: rank, Badge: types.BadgeFor(rank)})
	}
	return out
}

// Batting ranks a scored batting cohort.
func Batting(records []model.ScoredBatting) []model.ScoredBatting {
	return Order(records,
		func(r model.ScoredBatting) float64 { return float64(r.Points) },
		func(r *model.ScoredBatting, s model.Standing) { r.Standing = s },
	)
}

// Bowling ranks a scored bowling cohort.
func Bowling(records []model.ScoredBowling) []model.ScoredBowling {
	return Order(records,
		func(r model.ScoredBowling) float64 { return float64(r.Points) },
		func(r *model.ScoredBowling, s model.Standing) { r.Standing = s },
	)
}

// AllRounders ranks all-rounder records by their blended index.
func AllRounders(records []model.AllRounderRecord) []model.AllRounderRecord {
	return Order(records,
		func(r model.AllRounderRecord) float64 { return float64(r.Index) },
		func(r *model.AllRounderRecord, s model.Standing) { r.Standing = s },
	)
}
