// Package allrounder blends batting and bowling standing into one index.
package allrounder

import (
	"fmt"
	"math"
	"sort"

	"github.com/eccstats/ecc-rankings/internal/domain/model"
	"github.com/eccstats/ecc-rankings/internal/domain/ranking"
	"github.com/eccstats/ecc-rankings/internal/domain/types"
)

// Default blend weights.
const (
	DefaultBattingWeight = 0.55
	DefaultBowlingWeight = 0.45
	indexScale           = 1000
)

// Combiner produces the all-rounder ranking.
type Combiner struct {
	batting float64
	bowling float64
}

// New creates a Combiner. Weights must be non-negative with a positive sum;
// they are normalized to sum to 1.
func New(battingWeight, bowlingWeight float64) (*Combiner, error) {
	sum := battingWeight + bowlingWeight
	switch {
	case math.IsNaN(sum) || math.IsInf(sum, 0):
		return nil, fmt.Errorf("%w: weights must be finite", ErrInvalidWeights)
	case battingWeight < 0 || bowlingWeight < 0:
		return nil, fmt.Errorf("%w: weights must be non-negative (batting=%v, bowling=%v)", ErrInvalidWeights, battingWeight, bowlingWeight)
	case sum == 0:
		return nil, fmt.Errorf("%w: weights must not both be zero", ErrInvalidWeights)
	}
	return &Combiner{batting: battingWeight / sum, bowling: bowlingWeight / sum}, nil
}

// Weights returns the normalized batting and bowling weights.
func (c *Combiner) Weights() (batting, bowling float64) { return c.batting, c.bowling }

// best is one player's strongest entry in a discipline.
type best struct {
	name     string
	points   int
	division types.Division
}

func pick(into map[model.PlayerKey]best, key model.PlayerKey, b best) {
	if cur, ok := into[key]; ok && cur.points >= b.points {
		return
	}
	into[key] = b
}

// Percentiles returns, for each key with positive points, the share of the
// positive cohort scoring at or below it. Ties share the higher value.
func Percentiles(points map[model.PlayerKey]int) map[model.PlayerKey]float64 {
	var cohort []int
	for _, p := range points {
		if p > 0 {
			cohort = append(cohort, p)
		}
	}
	out := make(map[model.PlayerKey]float64, len(cohort))
	if len(cohort) == 0 {
		return out
	}
	sort.Ints(cohort)
	n := float64(len(cohort))
	for k, p := range points {
		if p <= 0 {
			continue
		}
		atOrBelow := sort.Search(len(cohort), func(i int) bool { return cohort[i] > p })
		out[k] = float64(atOrBelow) / n
	}
	return out
}

// Combine builds one record per player found in either ranking and ranks
// them by index. Before ranking, players are ordered by key so ties resolve
// the same way on every run.
func (c *Combiner) Combine(bat []model.ScoredBatting, bowl []model.ScoredBowling) []model.AllRounderRecord {
	batBest := make(map[model.PlayerKey]best, len(bat))
	for _, r := range bat {
		pick(batBest, r.Key, best{name: r.Player, points: r.Points, division: r.DominantDivision})
	}
	bowlBest := make(map[model.PlayerKey]best, len(bowl))
	for _, r := range bowl {
		pick(bowlBest, r.Key, best{name: r.Player, points: r.Points, division: r.DominantDivision})
	}

	keys := make([]model.PlayerKey, 0, len(batBest)+len(bowlBest))
	for k := range batBest {
		keys = append(keys, k)
	}
	for k := range bowlBest {
		if _, ok := batBest[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	batPoints := make(map[model.PlayerKey]int, len(batBest))
	for k, b := range batBest {
		batPoints[k] = b.points
	}
	bowlPoints := make(map[model.PlayerKey]int, len(bowlBest))
	for k, b := range bowlBest {
		bowlPoints[k] = b.points
	}
	batPct := Percentiles(batPoints)
	bowlPct := Percentiles(bowlPoints)

	out := make([]model.AllRounderRecord, 0, len(keys))
	for _, k := range keys {
		b, hasBat := batBest[k]
		w, hasBowl := bowlBest[k]
		name := b.name
		if !hasBat {
			name = w.name
		}
		rec := model.AllRounderRecord{
			Key:            k,
			Player:         name,
			BatPoints:      b.points,
			BowlPoints:     w.points,
			BatPercentile:  batPct[k],
			BowlPercentile: bowlPct[k],
		}
		if hasBat {
			rec.BatDivision = b.division
		}
		if hasBowl {
			rec.BowlDivision = w.division
		}
		rec.Index = c.index(rec.BatPercentile, rec.BowlPercentile)
		out = append(out, rec)
	}
	return ranking.AllRounders(out)
}

func (c *Combiner) index(batPct, bowlPct float64) int {
	return int(math.RoundToEven(indexScale * (c.batting*batPct + c.bowling*bowlPct)))
}
