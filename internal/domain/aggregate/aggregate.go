// Package aggregate folds per-division rows into one record per player.
//
// Counting fields are summed, highest figures take the maximum, and rate
// fields are rebuilt from reconstructed volume (balls, runs conceded) rather
// than averaged.
package aggregate

import (
	"sort"

	"github.com/eccstats/ecc-rankings/internal/domain/model"
	"github.com/eccstats/ecc-rankings/internal/domain/types"
)

const neutralWeight = 1.0

// Aggregator merges rows of one discipline.
type Aggregator struct {
	order    map[types.Division]int
	weights  map[types.Division]float64
	identity model.IdentityFunc
}

// New creates an Aggregator. Without WithDivisions every division weighs 1.0
// and divisions are ordered by first appearance.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		order:    map[types.Division]int{},
		weights:  map[types.Division]float64{},
		identity: model.ExactName,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Weight returns the difficulty multiplier of d.
func (a *Aggregator) Weight(d types.Division) float64 {
	if w, ok := a.weights[d]; ok {
		return w
	}
	return neutralWeight
}

// group collects row indexes per player key in first-appearance order.
type group struct {
	key  model.PlayerKey
	name string
	rows []int
}

func (a *Aggregator) groupRows(n int, player func(int) string) []*group {
	byKey := make(map[model.PlayerKey]*group)
	var groups []*group
	for i := 0; i < n; i++ {
		name := player(i)
		k := a.identity(name)
		g, ok := byKey[k]
		if !ok {
			g = &group{key: k, name: name}
			byKey[k] = g
			groups = append(groups, g)
		}
		g.rows = append(g.rows, i)
	}
	return groups
}

// divisionMix describes where a player's matches were played.
type divisionMix struct {
	divisions []types.Division
	dominant  types.Division
	weight    float64
}

// mix orders the divisions of one player canonically and derives the
// dominant division and the match-weighted difficulty.
func (a *Aggregator) mix(divs []types.Division, matches []int) divisionMix {
	perDiv := make(map[types.Division]int)
	var seen []types.Division
	for i, d := range divs {
		if _, ok := perDiv[d]; !ok {
			seen = append(seen, d)
		}
		perDiv[d] += matches[i]
	}

	// Configured divisions first in their order, unknown ones by appearance.
	sort.SliceStable(seen, func(i, j int) bool {
		oi, iok := a.order[seen[i]]
		oj, jok := a.order[seen[j]]
		switch {
		case iok && jok:
			return oi < oj
		case iok != jok:
			return iok
		}
		return false
	})

	out := divisionMix{divisions: seen, weight: neutralWeight}
	total, weighted, best := 0, 0.0, -1
	for _, d := range seen {
		m := perDiv[d]
		total += m
		weighted += float64(m) * a.Weight(d)
		if m > best {
			best = m
			out.dominant = d
		}
	}
	switch {
	case total == 0:
	case len(seen) == 1:
		out.weight = a.Weight(seen[0])
	default:
		out.weight = weighted / float64(total)
	}
	return out
}

// Batting merges batting rows into one record per player.
func (a *Aggregator) Batting(rows []model.BattingRow) []model.MergedBatting {
	groups := a.groupRows(len(rows), func(i int) string { return rows[i].Player })
	out := make([]model.MergedBatting, 0, len(groups))
	for _, g := range groups {
		out = append(out, a.mergeBatting(g, rows))
	}
	return out
}

func (a *Aggregator) mergeBatting(g *group, rows []model.BattingRow) model.MergedBatting {
	rec := model.MergedBatting{Key: g.key, Player: g.name}
	divs := make([]types.Division, len(g.rows))
	matches := make([]int, len(g.rows))

	var balls, weightedSR float64
	for i, idx := range g.rows {
		r := rows[idx]
		divs[i], matches[i] = r.Division, r.Matches
		rec.Matches += r.Matches
		rec.Innings += r.Innings
		rec.NotOuts += r.NotOuts
		rec.Runs += r.Runs
		if r.Highest > rec.Highest {
			rec.Highest = r.Highest
		}
		if r.StrikeRate > 0 {
			balls += float64(r.Runs) * 100 / r.StrikeRate
		}
		weightedSR += r.StrikeRate * float64(r.Runs)
	}

	switch {
	case len(g.rows) == 1:
		rec.StrikeRate = rows[g.rows[0]].StrikeRate
	case balls > 0:
		rec.StrikeRate = 100 * float64(rec.Runs) / balls
	case rec.Runs > 0:
		rec.StrikeRate = weightedSR / float64(rec.Runs)
	}

	outs := rec.Innings - rec.NotOuts
	if outs < 1 {
		outs = 1
	}
	rec.Average = float64(rec.Runs) / float64(outs)

	m := a.mix(divs, matches)
	rec.Divisions, rec.DominantDivision, rec.DivisionWeight = m.divisions, m.dominant, m.weight
	return rec
}

// Bowling merges bowling rows into one record per player.
func (a *Aggregator) Bowling(rows []model.BowlingRow) []model.MergedBowling {
	groups := a.groupRows(len(rows), func(i int) string { return rows[i].Player })
	out := make([]model.MergedBowling, 0, len(groups))
	for _, g := range groups {
		out = append(out, a.mergeBowling(g, rows))
	}
	return out
}

func (a *Aggregator) mergeBowling(g *group, rows []model.BowlingRow) model.MergedBowling {
	rec := model.MergedBowling{Key: g.key, Player: g.name}
	divs := make([]types.Division, len(g.rows))
	matches := make([]int, len(g.rows))

	// Volume reconstructed from divisions where wickets were taken.
	var runs, balls float64
	// Matches-weighted fallbacks.
	var avgW, ecoW, srW float64
	var avgSum, ecoSum, srSum float64
	for i, idx := range g.rows {
		r := rows[idx]
		divs[i], matches[i] = r.Division, r.Matches
		rec.Matches += r.Matches
		rec.Wickets += r.Wickets
		if r.BestWickets > rec.BestWickets {
			rec.BestWickets = r.BestWickets
		}
		if r.Wickets > 0 {
			runs += r.Average * float64(r.Wickets)
			balls += r.StrikeRate * float64(r.Wickets)
		}
		m := float64(r.Matches)
		avgW += r.Average * m
		ecoW += r.Economy * m
		srW += r.StrikeRate * m
		avgSum += r.Average
		ecoSum += r.Economy
		srSum += r.StrikeRate
	}

	switch {
	case len(g.rows) == 1:
		r := rows[g.rows[0]]
		rec.Average, rec.Economy, rec.StrikeRate = r.Average, r.Economy, r.StrikeRate
	case rec.Wickets > 0 && balls > 0:
		w := float64(rec.Wickets)
		rec.Average = runs / w
		rec.StrikeRate = balls / w
		rec.Economy = 6 * runs / balls
	case rec.Matches > 0:
		m := float64(rec.Matches)
		rec.Average, rec.Economy, rec.StrikeRate = avgW/m, ecoW/m, srW/m
	default:
		n := float64(len(g.rows))
		rec.Average, rec.Economy, rec.StrikeRate = avgSum/n, ecoSum/n, srSum/n
	}

	mx := a.mix(divs, matches)
	rec.Divisions, rec.DominantDivision, rec.DivisionWeight = mx.divisions, mx.dominant, mx.weight
	return rec
}
